package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmeshcher/pitchrent/internal/apperror"
	"github.com/mmeshcher/pitchrent/internal/booking"
	"github.com/mmeshcher/pitchrent/internal/entitlement"
	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/notify"
	"github.com/mmeshcher/pitchrent/internal/repository"
)

// TransitionResult содержит заказ после смены статуса.
type TransitionResult struct {
	Order              *model.Order
	NotificationFailed bool
}

type transition struct {
	order   *model.Order
	renter  *model.Principal
	pitch   string
	effects booking.Effects
}

// ChangeOrderStatus меняет статус заказа по решению администратора.
// Подтверждение начисляет арендатору одно право на комментарий в той же транзакции.
func (s *Service) ChangeOrderStatus(ctx context.Context, actor *model.Principal, orderID int64, status model.OrderStatus) (*TransitionResult, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	if !booking.IsValidStatus(status) {
		return nil, apperror.Validation("status", "unknown order status")
	}

	var t transition
	err := s.repo.InTx(ctx, func(tx repository.Store) error {
		o, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return notFound(err, repository.ErrOrderNotFound, "order", orderID)
		}
		t, err = s.applyTransition(ctx, tx, o, status)
		return err
	})
	if err != nil {
		return nil, s.fail("change order status", err)
	}

	return s.finishTransition(ctx, t), nil
}

// CancelOwnOrder отменяет открытый заказ по просьбе его арендатора.
func (s *Service) CancelOwnOrder(ctx context.Context, renter *model.Principal, orderID int64) (*TransitionResult, error) {
	if err := requireActive(renter); err != nil {
		return nil, err
	}

	var t transition
	err := s.repo.InTx(ctx, func(tx repository.Store) error {
		o, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return notFound(err, repository.ErrOrderNotFound, "order", orderID)
		}

		switch err := booking.CheckSelfCancel(*o, renter.ID); {
		case errors.Is(err, booking.ErrNotOwner):
			return apperror.Forbidden(err.Error())
		case errors.Is(err, booking.ErrNotOpen):
			return apperror.Validation("status", err.Error())
		case err != nil:
			return err
		}

		t, err = s.applyTransition(ctx, tx, o, model.OrderStatusCancelled)
		return err
	})
	if err != nil {
		return nil, s.fail("cancel order", err)
	}

	return s.finishTransition(ctx, t), nil
}

func (s *Service) applyTransition(ctx context.Context, tx repository.Store, o *model.Order, to model.OrderStatus) (transition, error) {
	effects, err := booking.Transition(o.Status, to)
	if err != nil {
		return transition{}, apperror.Validation("status",
			fmt.Sprintf("cannot change status from %s to %s", o.Status, to))
	}

	if err := tx.UpdateOrderStatus(ctx, o.ID, to); err != nil {
		return transition{}, err
	}
	o.Status = to

	if effects.GrantCommentCredit {
		a, err := tx.LockAccessComment(ctx, o.RenterID, o.PitchID)
		if err != nil {
			return transition{}, err
		}
		if err := tx.SaveAccessComment(ctx, entitlement.Grant(a)); err != nil {
			return transition{}, err
		}
	}

	renter, err := tx.GetUser(ctx, o.RenterID)
	if err != nil {
		return transition{}, err
	}
	pitch, err := tx.GetPitch(ctx, o.PitchID)
	if err != nil {
		return transition{}, err
	}

	return transition{order: o, renter: renter, pitch: pitch.Title, effects: effects}, nil
}

func (s *Service) finishTransition(ctx context.Context, t transition) *TransitionResult {
	s.logger.Info("order status changed",
		zap.Int64("order_id", t.order.ID),
		zap.String("status", string(t.order.Status)),
		zap.Bool("comment_credit", t.effects.GrantCommentCredit),
	)

	res := &TransitionResult{Order: t.order}
	if t.effects.Notice == "" {
		return res
	}

	subject, template := "Your pitch order was confirmed", notify.TemplateOrderConfirmed
	if t.effects.Notice == booking.NoticeCancelled {
		subject, template = "Your pitch order was cancelled", notify.TemplateOrderCancelled
	}
	msg := notify.NewMessage(subject, template, []string{t.renter.Email},
		s.orderVariables(t.renter.Username, t.pitch, t.order))
	res.NotificationFailed = !s.send(ctx, "order_"+string(t.effects.Notice), msg)
	return res
}
