package booking

import (
	"errors"
	"time"

	"github.com/mmeshcher/pitchrent/internal/model"
)

// MinDuration задаёт минимальную длительность бронирования.
const MinDuration = time.Hour

var (
	// ErrStartNotInFuture возвращается, если начало брони не позже текущего момента.
	ErrStartNotInFuture = errors.New("start time must be in the future")
	// ErrTooShort возвращается, если бронь короче MinDuration.
	ErrTooShort = errors.New("booking must last at least one hour")
	// ErrOverlap возвращается, если интервал пересекается с существующим заказом.
	ErrOverlap = errors.New("pitch is already booked for this time")
)

// Interval описывает запрошенный или занятый промежуток времени.
type Interval struct {
	Start time.Time
	End   time.Time
}

// OrderInterval возвращает интервал, занятый заказом.
func OrderInterval(o model.Order) Interval {
	return Interval{Start: o.TimeStart, End: o.TimeEnd}
}

// Overlaps сообщает, конфликтует ли существующий интервал с запрошенным: существующий
// начинается до конца запрошенного и заканчивается не раньше его конца, либо начинается
// не позже начала запрошенного и заканчивается после него, либо целиком лежит внутри.
// Интервалы, которые только соприкасаются границей, не конфликтуют.
func (c Interval) Overlaps(existing Interval) bool {
	coversEnd := existing.Start.Before(c.End) && !existing.End.Before(c.End)
	coversStart := !existing.Start.After(c.Start) && existing.End.After(c.Start)
	inside := !existing.Start.Before(c.Start) && !existing.End.After(c.End)

	return coversEnd || coversStart || inside
}

// Validate проверяет временные правила бронирования относительно момента now.
func (c Interval) Validate(now time.Time) error {
	if !c.Start.After(now) {
		return ErrStartNotInFuture
	}
	if c.End.Before(c.Start.Add(MinDuration)) {
		return ErrTooShort
	}
	return nil
}

// FindConflict возвращает первый заказ, пересекающийся с интервалом.
func FindConflict(c Interval, orders []model.Order) (model.Order, bool) {
	for _, o := range orders {
		if c.Overlaps(OrderInterval(o)) {
			return o, true
		}
	}
	return model.Order{}, false
}
