package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/pitchrent/internal/apperror"
	"github.com/mmeshcher/pitchrent/internal/booking"
	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/notify"
	"github.com/mmeshcher/pitchrent/internal/repository"
	"github.com/mmeshcher/pitchrent/internal/validation"
)

// BookingRequest описывает запрос на бронирование поля.
type BookingRequest struct {
	TimeStart time.Time `json:"time_start" validate:"required"`
	TimeEnd   time.Time `json:"time_end" validate:"required"`
	VoucherID *int64    `json:"voucher_id,omitempty" validate:"omitempty,gte=1"`
}

// BookingResult содержит созданный заказ. NotificationFailed выставляется, если письмо не ушло.
type BookingResult struct {
	Order              *model.Order
	NotificationFailed bool
}

func intervalError(err error) error {
	switch {
	case errors.Is(err, booking.ErrStartNotInFuture):
		bookingRejections.WithLabelValues("start_in_past").Inc()
		return apperror.Validation("time_start", err.Error())
	case errors.Is(err, booking.ErrTooShort):
		bookingRejections.WithLabelValues("too_short").Inc()
		return apperror.Validation("time_end", err.Error())
	case errors.Is(err, booking.ErrOverlap):
		bookingRejections.WithLabelValues("overlap").Inc()
		return apperror.Validation("time_start", err.Error())
	}
	return err
}

// CreateBooking бронирует поле на интервал. Проверка пересечений и вставка заказа выполняются
// под блокировкой строки поля, поэтому параллельные пересекающиеся брони невозможны.
// Письмо арендатору отправляется после коммита; его сбой не отменяет заказ.
func (s *Service) CreateBooking(ctx context.Context, renter *model.Principal, pitchID int64, req BookingRequest) (*BookingResult, error) {
	if err := requireActive(renter); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	iv := booking.Interval{Start: req.TimeStart, End: req.TimeEnd}
	if err := iv.Validate(s.now()); err != nil {
		return nil, intervalError(err)
	}

	var (
		order *model.Order
		pitch *model.Pitch
	)
	err := s.repo.InTx(ctx, func(tx repository.Store) error {
		var err error
		pitch, err = tx.LockPitch(ctx, pitchID)
		if err != nil {
			return notFound(err, repository.ErrPitchNotFound, "pitch", pitchID)
		}

		var voucher *model.Voucher
		if req.VoucherID != nil {
			voucher, err = tx.GetVoucher(ctx, *req.VoucherID)
			if errors.Is(err, repository.ErrVoucherNotFound) {
				return apperror.Validation("voucher_id", "voucher does not exist")
			}
			if err != nil {
				return err
			}
		}

		existing, err := tx.FindOverlappingOrders(ctx, pitchID, iv.Start, iv.End)
		if err != nil {
			return err
		}
		if _, conflict := booking.FindConflict(iv, existing); conflict {
			return intervalError(booking.ErrOverlap)
		}

		cost, err := booking.ApplyVoucher(booking.BaseCost(iv.Start, iv.End, pitch.Price), voucher)
		if err != nil {
			bookingRejections.WithLabelValues("voucher").Inc()
			return apperror.Validation("voucher_id", err.Error())
		}

		order = &model.Order{
			PitchID:   pitch.ID,
			RenterID:  renter.ID,
			VoucherID: req.VoucherID,
			TimeStart: iv.Start,
			TimeEnd:   iv.End,
			Status:    model.OrderStatusOpen,
			Price:     pitch.Price,
			Cost:      cost,
		}
		return tx.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, s.fail("create booking", err)
	}

	bookingsCreated.Inc()
	s.logger.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("pitch_id", order.PitchID),
		zap.Int64("renter_id", order.RenterID),
		zap.Int64("cost", order.Cost),
	)

	msg := notify.NewMessage("Notice to order a pitch from Pitch App", notify.TemplateOrderCreated,
		[]string{renter.Email}, s.orderVariables(renter.Username, pitch.Title, order))
	return &BookingResult{
		Order:              order,
		NotificationFailed: !s.send(ctx, "order_created", msg),
	}, nil
}

func (s *Service) orderVariables(username, pitchTitle string, o *model.Order) map[string]any {
	return map[string]any{
		"username":   username,
		"link":       s.siteURL,
		"order_id":   o.ID,
		"pitch":      pitchTitle,
		"time_start": o.TimeStart,
		"time_end":   o.TimeEnd,
		"hours":      booking.BillableHours(o.TimeStart, o.TimeEnd),
		"cost":       o.Cost,
		"status":     string(o.Status),
	}
}

// ListMyOrders возвращает заказы арендатора.
func (s *Service) ListMyOrders(ctx context.Context, renter *model.Principal) ([]model.Order, error) {
	if err := requireActive(renter); err != nil {
		return nil, err
	}
	orders, err := s.repo.ListOrdersByRenter(ctx, renter.ID)
	if err != nil {
		return nil, s.fail("list orders", err)
	}
	return orders, nil
}

// GetMyOrder возвращает заказ арендатора. Чужой заказ недоступен.
func (s *Service) GetMyOrder(ctx context.Context, renter *model.Principal, orderID int64) (*model.Order, error) {
	if err := requireActive(renter); err != nil {
		return nil, err
	}
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.fail("get order", notFound(err, repository.ErrOrderNotFound, "order", orderID))
	}
	if o.RenterID != renter.ID && !renter.IsSuperuser {
		return nil, apperror.Forbidden("order belongs to another renter")
	}
	return o, nil
}
