package booking

import (
	"errors"

	"github.com/mmeshcher/pitchrent/internal/model"
)

var (
	// ErrInvalidTransition возвращается при недопустимой смене статуса заказа.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrNotOwner возвращается, если заказ пытается отменить не его арендатор.
	ErrNotOwner = errors.New("order belongs to another renter")
	// ErrNotOpen возвращается при попытке отменить уже закрытый заказ.
	ErrNotOpen = errors.New("order is not open")
)

// Notice описывает уведомление, которое нужно отправить после смены статуса.
type Notice string

const (
	NoticeConfirmed Notice = "confirmed"
	NoticeCancelled Notice = "cancelled"
)

// Effects описывает побочные эффекты, разрешённые переходом.
type Effects struct {
	GrantCommentCredit bool
	Notice             Notice
}

var transitions = map[model.OrderStatus]map[model.OrderStatus]Effects{
	model.OrderStatusOpen: {
		model.OrderStatusConfirmed: {GrantCommentCredit: true, Notice: NoticeConfirmed},
		model.OrderStatusCancelled: {Notice: NoticeCancelled},
	},
}

// IsValidStatus проверяет, что статус входит в множество известных.
func IsValidStatus(s model.OrderStatus) bool {
	switch s {
	case model.OrderStatusOpen, model.OrderStatusConfirmed, model.OrderStatusCancelled:
		return true
	}
	return false
}

// Transition возвращает эффекты перехода from -> to.
// CONFIRMED и CANCELLED терминальны.
func Transition(from, to model.OrderStatus) (Effects, error) {
	effects, ok := transitions[from][to]
	if !ok {
		return Effects{}, ErrInvalidTransition
	}
	return effects, nil
}

// CheckSelfCancel проверяет, что арендатор может сам отменить заказ.
func CheckSelfCancel(o model.Order, requesterID int64) error {
	if o.RenterID != requesterID {
		return ErrNotOwner
	}
	if o.Status != model.OrderStatusOpen {
		return ErrNotOpen
	}
	return nil
}
