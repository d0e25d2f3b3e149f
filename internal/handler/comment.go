package handler

import (
	"net/http"
	"time"

	"github.com/mmeshcher/pitchrent/internal/apperror"
	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/service"
)

type commentResponse struct {
	ID          int64             `json:"id"`
	RenterID    int64             `json:"renter_id"`
	PitchID     int64             `json:"pitch_id"`
	ParentID    *int64            `json:"parent_id,omitempty"`
	Rating      int               `json:"rating"`
	Comment     string            `json:"comment"`
	CreatedDate string            `json:"created_date"`
	Replies     []commentResponse `json:"replies"`
}

func toCommentResponse(c *model.Comment) commentResponse {
	resp := commentResponse{
		ID:          c.ID,
		RenterID:    c.RenterID,
		PitchID:     c.PitchID,
		ParentID:    c.ParentID,
		Rating:      c.Rating,
		Comment:     c.Body,
		CreatedDate: c.CreatedDate.Format(time.RFC3339),
		Replies:     make([]commentResponse, 0, len(c.Replies)),
	}
	for i := range c.Replies {
		resp.Replies = append(resp.Replies, toCommentResponse(&c.Replies[i]))
	}
	return resp
}

// ListComments возвращает дерево комментариев поля.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	pitchID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	comments, err := h.service.ListComments(r.Context(), pitchID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]commentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, toCommentResponse(&comments[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateComment публикует отзыв о поле.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	renter, ok := h.principal(w, r)
	if !ok {
		return
	}
	pitchID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req service.CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.service.CreateComment(r.Context(), renter, pitchID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(c))
}

// CreateReply публикует ответ на комментарий.
func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	author, ok := h.principal(w, r)
	if !ok {
		return
	}
	parentID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req service.ReplyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.service.CreateReply(r.Context(), author, parentID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(c))
}

// UpdateComment изменяет собственный комментарий.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	author, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req service.CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.service.UpdateComment(r.Context(), author, id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommentResponse(c))
}

type deletedResponse struct {
	Deleted int `json:"deleted"`
}

// DeleteComment удаляет комментарий вместе с ответами.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	n, err := h.service.DeleteComment(r.Context(), actor, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: n})
}

type batchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// DeleteComments удаляет набор комментариев одной операцией. Только для администраторов.
func (h *Handler) DeleteComments(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req batchDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(req.IDs) == 0 {
		h.writeError(w, r, apperror.Validation("ids", "must not be empty"))
		return
	}

	n, err := h.service.DeleteComments(r.Context(), actor, req.IDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: n})
}
