package handler

import (
	"net/http"

	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/service"
)

type voucherResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	MinCost  int64  `json:"min_cost"`
	Discount int64  `json:"discount"`
	Count    int    `json:"count"`
}

func toVoucherResponse(v *model.Voucher) voucherResponse {
	return voucherResponse{
		ID:       v.ID,
		Name:     v.Name,
		MinCost:  v.MinCost,
		Discount: v.Discount,
		Count:    v.Count,
	}
}

// ListVouchers возвращает все ваучеры.
func (h *Handler) ListVouchers(w http.ResponseWriter, r *http.Request) {
	vouchers, err := h.service.ListVouchers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]voucherResponse, 0, len(vouchers))
	for i := range vouchers {
		resp = append(resp, toVoucherResponse(&vouchers[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateVoucher добавляет ваучер. Только для администраторов.
func (h *Handler) CreateVoucher(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req service.VoucherRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	v, err := h.service.CreateVoucher(r.Context(), actor, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVoucherResponse(v))
}

type revenueResponse struct {
	PitchID    int64  `json:"pitch_id"`
	Title      string `json:"title"`
	Size       string `json:"size"`
	Surface    string `json:"surface"`
	Price      int64  `json:"price"`
	Revenue    int64  `json:"revenue"`
	OrderCount int    `json:"order_count"`
}

// MonthlyRevenue возвращает выручку полей за месяц.
func (h *Handler) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	year, month, err := queryPeriod(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	stats, err := h.service.MonthlyRevenue(r.Context(), actor, year, month)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]revenueResponse, 0, len(stats))
	for _, s := range stats {
		resp = append(resp, revenueResponse{
			PitchID:    s.PitchID,
			Title:      s.Title,
			Size:       string(s.Size),
			Surface:    string(s.Surface),
			Price:      s.Price,
			Revenue:    s.Revenue,
			OrderCount: s.OrderCount,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type dailyRevenueResponse struct {
	Day     int   `json:"day"`
	Revenue int64 `json:"revenue"`
}

// PitchDailyRevenue возвращает выручку поля по дням месяца.
func (h *Handler) PitchDailyRevenue(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	pitchID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	year, month, err := queryPeriod(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	days, err := h.service.PitchDailyRevenue(r.Context(), actor, pitchID, year, month)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]dailyRevenueResponse, 0, len(days))
	for _, d := range days {
		resp = append(resp, dailyRevenueResponse{Day: d.Day, Revenue: d.Revenue})
	}
	writeJSON(w, http.StatusOK, resp)
}
