// Package handler содержит HTTP-обработчики API сервиса аренды футбольных полей.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/pitchrent/internal/apperror"
	"github.com/mmeshcher/pitchrent/internal/middleware"
	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/repository"
	"github.com/mmeshcher/pitchrent/internal/service"
)

const maxBodySize = 1 << 20

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	SearchPitches(ctx context.Context, f repository.PitchFilter) ([]model.Pitch, error)
	GetPitch(ctx context.Context, pitchID int64) (*service.PitchDetails, error)
	CreatePitch(ctx context.Context, actor *model.Principal, req service.PitchRequest) (*model.Pitch, error)
	UpdatePitch(ctx context.Context, actor *model.Principal, pitchID int64, req service.PitchRequest) (*model.Pitch, error)
	DeletePitch(ctx context.Context, actor *model.Principal, pitchID int64) error
	AddPitchImage(ctx context.Context, actor *model.Principal, pitchID int64, req service.ImageRequest) error

	ListVouchers(ctx context.Context) ([]model.Voucher, error)
	CreateVoucher(ctx context.Context, actor *model.Principal, req service.VoucherRequest) (*model.Voucher, error)

	CreateBooking(ctx context.Context, renter *model.Principal, pitchID int64, req service.BookingRequest) (*service.BookingResult, error)
	ListMyOrders(ctx context.Context, renter *model.Principal) ([]model.Order, error)
	GetMyOrder(ctx context.Context, renter *model.Principal, orderID int64) (*model.Order, error)
	CancelOwnOrder(ctx context.Context, renter *model.Principal, orderID int64) (*service.TransitionResult, error)
	ChangeOrderStatus(ctx context.Context, actor *model.Principal, orderID int64, status model.OrderStatus) (*service.TransitionResult, error)

	ListComments(ctx context.Context, pitchID int64) ([]model.Comment, error)
	CreateComment(ctx context.Context, renter *model.Principal, pitchID int64, req service.CommentRequest) (*model.Comment, error)
	CreateReply(ctx context.Context, author *model.Principal, parentID int64, req service.ReplyRequest) (*model.Comment, error)
	UpdateComment(ctx context.Context, author *model.Principal, commentID int64, req service.CommentRequest) (*model.Comment, error)
	DeleteComment(ctx context.Context, actor *model.Principal, commentID int64) (int, error)
	DeleteComments(ctx context.Context, actor *model.Principal, ids []int64) (int, error)

	ToggleFavorite(ctx context.Context, user *model.Principal, pitchID int64) (bool, error)
	ListFavorites(ctx context.Context, user *model.Principal) ([]model.Favorite, error)

	MonthlyRevenue(ctx context.Context, actor *model.Principal, year int, month time.Month) ([]model.RevenueStat, error)
	PitchDailyRevenue(ctx context.Context, actor *model.Principal, pitchID int64, year int, month time.Month) ([]model.DailyRevenue, error)
}

// Handler реализует HTTP-обработчики API сервиса аренды полей.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	bookingLimiter *middleware.RateLimiter
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов. limiter может быть nil.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, limiter *middleware.RateLimiter) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		bookingLimiter: limiter,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, apperror.As(err))
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return apperror.Validation(typeErr.Field, "invalid type")
		}
		return apperror.Validation("body", "malformed JSON")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation(name, "must be a positive integer")
	}
	return id, nil
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (*model.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, r, apperror.Unauthorized("authentication required"))
		return nil, false
	}
	return p, true
}

func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperror.Validation(name, "must be an integer")
	}
	return &v, nil
}

func queryPeriod(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, apperror.Validation("year", "must be an integer")
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return 0, 0, apperror.Validation("month", "must be an integer")
	}
	return year, time.Month(month), nil
}
