// Package entitlement ведёт учёт прав на комментарий: подтверждённый заказ даёт одно право,
// опубликованный отзыв расходует одно.
package entitlement

import (
	"errors"

	"github.com/mmeshcher/pitchrent/internal/model"
)

// ErrNoCredit возвращается, если у арендатора нет неизрасходованных прав на комментарий.
var ErrNoCredit = errors.New("no comment credit available")

// Grant начисляет одно право за подтверждённый заказ.
func Grant(a model.AccessComment) model.AccessComment {
	a.CountCommentCreated++
	return a
}

// Consume расходует одно право при публикации отзыва.
func Consume(a model.AccessComment) (model.AccessComment, error) {
	if a.CountCommentCreated <= 0 {
		return a, ErrNoCredit
	}
	a.CountCommentCreated--
	return a, nil
}

// RecordEdit отмечает редактирование отзыва. Права не расходуются и не возвращаются.
func RecordEdit(a model.AccessComment) model.AccessComment {
	a.CountCommentUpdated++
	return a
}
