package handler

import (
	"net/http"
	"time"

	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/service"
)

type orderResponse struct {
	ID          int64   `json:"id"`
	PitchID     int64   `json:"pitch_id"`
	VoucherID   *int64  `json:"voucher_id,omitempty"`
	TimeStart   string  `json:"time_start"`
	TimeEnd     string  `json:"time_end"`
	Status      string  `json:"status"`
	Price       int64   `json:"price"`
	Cost        int64   `json:"cost"`
	CreatedDate string  `json:"created_date"`
	Warning     *string `json:"warning,omitempty"`
}

const notificationWarning = "notification could not be delivered"

func toOrderResponse(o *model.Order, notificationFailed bool) orderResponse {
	resp := orderResponse{
		ID:          o.ID,
		PitchID:     o.PitchID,
		VoucherID:   o.VoucherID,
		TimeStart:   o.TimeStart.Format(time.RFC3339),
		TimeEnd:     o.TimeEnd.Format(time.RFC3339),
		Status:      string(o.Status),
		Price:       o.Price,
		Cost:        o.Cost,
		CreatedDate: o.CreatedDate.Format(time.RFC3339),
	}
	if notificationFailed {
		warning := notificationWarning
		resp.Warning = &warning
	}
	return resp
}

// CreateBooking бронирует поле на интервал текущим пользователем.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	renter, ok := h.principal(w, r)
	if !ok {
		return
	}
	pitchID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req service.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.service.CreateBooking(r.Context(), renter, pitchID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(res.Order, res.NotificationFailed))
}

// ListOrders возвращает заказы текущего пользователя.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	renter, ok := h.principal(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListMyOrders(r.Context(), renter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i], false))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetOrder возвращает заказ текущего пользователя.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	renter, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	o, err := h.service.GetMyOrder(r.Context(), renter, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o, false))
}

// CancelOrder отменяет открытый заказ его владельцем.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	renter, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.service.CancelOwnOrder(r.Context(), renter, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(res.Order, res.NotificationFailed))
}

type statusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// ChangeOrderStatus меняет статус заказа. Только для администраторов.
func (h *Handler) ChangeOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.service.ChangeOrderStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(res.Order, res.NotificationFailed))
}
