package handler

import (
	"net/http"
	"strconv"

	"github.com/mmeshcher/pitchrent/internal/apperror"
	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/repository"
	"github.com/mmeshcher/pitchrent/internal/service"
)

type pitchResponse struct {
	ID          int64    `json:"id"`
	Address     string   `json:"address"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Phone       string   `json:"phone"`
	Size        string   `json:"size"`
	Surface     string   `json:"surface"`
	Price       int64    `json:"price"`
	Images      []string `json:"images"`
}

type pitchDetailsResponse struct {
	pitchResponse
	AvgRating    float64 `json:"avg_rating"`
	CountComment int     `json:"count_comment"`
}

func toPitchResponse(p *model.Pitch) pitchResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return pitchResponse{
		ID:          p.ID,
		Address:     p.Address,
		Title:       p.Title,
		Description: p.Description,
		Phone:       p.Phone,
		Size:        string(p.Size),
		Surface:     string(p.Surface),
		Price:       p.Price,
		Images:      images,
	}
}

func parsePitchFilter(r *http.Request) (repository.PitchFilter, error) {
	q := r.URL.Query()
	f := repository.PitchFilter{
		Keyword: q.Get("q"),
		Size:    model.PitchSize(q.Get("size")),
		Surface: model.PitchSurface(q.Get("surface")),
		Limit:   repository.DefaultPageSize,
	}

	var err error
	if f.MinPrice, err = queryInt64(r, "price_min"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryInt64(r, "price_max"); err != nil {
		return f, err
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return f, apperror.Validation("page", "must be a positive integer")
		}
		f.Offset = (page - 1) * f.Limit
	}
	return f, nil
}

// SearchPitches возвращает страницу полей, подходящих под фильтры запроса.
func (h *Handler) SearchPitches(w http.ResponseWriter, r *http.Request) {
	f, err := parsePitchFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	pitches, err := h.service.SearchPitches(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]pitchResponse, 0, len(pitches))
	for i := range pitches {
		resp = append(resp, toPitchResponse(&pitches[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPitch возвращает поле вместе с рейтингом.
func (h *Handler) GetPitch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	details, err := h.service.GetPitch(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pitchDetailsResponse{
		pitchResponse: toPitchResponse(details.Pitch),
		AvgRating:     details.Rating.AvgRating,
		CountComment:  details.Rating.CountComment,
	})
}

// CreatePitch добавляет поле. Только для администраторов.
func (h *Handler) CreatePitch(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req service.PitchRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.service.CreatePitch(r.Context(), actor, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPitchResponse(p))
}

// UpdatePitch изменяет поле. Только для администраторов.
func (h *Handler) UpdatePitch(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req service.PitchRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.service.UpdatePitch(r.Context(), actor, id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPitchResponse(p))
}

// DeletePitch удаляет поле без открытых заказов.
func (h *Handler) DeletePitch(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.DeletePitch(r.Context(), actor, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddPitchImage прикрепляет изображение к полю.
func (h *Handler) AddPitchImage(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req service.ImageRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.AddPitchImage(r.Context(), actor, id, req); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type favoriteResponse struct {
	PitchID    int64  `json:"pitch_id"`
	PitchTitle string `json:"pitch_title"`
}

// ToggleFavorite добавляет поле в избранное или убирает его оттуда.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	added, err := h.service.ToggleFavorite(r.Context(), user, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"favorite": added})
}

// ListFavorites возвращает избранные поля текущего пользователя.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	user, ok := h.principal(w, r)
	if !ok {
		return
	}

	favs, err := h.service.ListFavorites(r.Context(), user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]favoriteResponse, 0, len(favs))
	for _, f := range favs {
		resp = append(resp, favoriteResponse{PitchID: f.PitchID, PitchTitle: f.PitchTitle})
	}
	writeJSON(w, http.StatusOK, resp)
}
