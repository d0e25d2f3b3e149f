package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mmeshcher/pitchrent/internal/apperror"
	"github.com/mmeshcher/pitchrent/internal/entitlement"
	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/rating"
	"github.com/mmeshcher/pitchrent/internal/repository"
	"github.com/mmeshcher/pitchrent/internal/validation"
)

// CommentRequest описывает отзыв с оценкой.
type CommentRequest struct {
	Rating int    `json:"rating" validate:"gte=1,lte=5"`
	Body   string `json:"comment" validate:"required,max=500"`
}

// ReplyRequest описывает ответ на комментарий.
type ReplyRequest struct {
	Body string `json:"comment" validate:"required,max=500"`
}

// CreateComment публикует отзыв арендатора о поле. Требуются подтверждённый заказ на это поле
// и неизрасходованное право на комментарий; право списывается, оценка входит в рейтинг поля.
func (s *Service) CreateComment(ctx context.Context, renter *model.Principal, pitchID int64, req CommentRequest) (*model.Comment, error) {
	if err := requireActive(renter); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var c *model.Comment
	err := s.repo.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.GetPitch(ctx, pitchID); err != nil {
			return notFound(err, repository.ErrPitchNotFound, "pitch", pitchID)
		}

		confirmed, err := tx.HasConfirmedOrder(ctx, renter.ID, pitchID)
		if err != nil {
			return err
		}
		if !confirmed {
			return apperror.Forbidden("a confirmed order for this pitch is required to comment")
		}

		access, err := tx.LockAccessComment(ctx, renter.ID, pitchID)
		if err != nil {
			return err
		}
		access, err = entitlement.Consume(access)
		if errors.Is(err, entitlement.ErrNoCredit) {
			return apperror.Forbidden(err.Error())
		}
		if err != nil {
			return err
		}
		if err := tx.SaveAccessComment(ctx, access); err != nil {
			return err
		}

		agg, err := tx.LockPitchRating(ctx, pitchID)
		if err != nil {
			return err
		}
		if err := tx.SavePitchRating(ctx, rating.Add(agg, req.Rating)); err != nil {
			return err
		}

		c = &model.Comment{
			RenterID: renter.ID,
			PitchID:  pitchID,
			Rating:   req.Rating,
			Body:     req.Body,
		}
		return tx.CreateComment(ctx, c)
	})
	if err != nil {
		return nil, s.fail("create comment", err)
	}

	s.logger.Info("comment created",
		zap.Int64("comment_id", c.ID),
		zap.Int64("pitch_id", pitchID),
		zap.Int("rating", c.Rating),
	)
	return c, nil
}

// CreateReply публикует ответ на комментарий. Ответ относится к полю исходного комментария
// и не влияет на рейтинг.
func (s *Service) CreateReply(ctx context.Context, author *model.Principal, parentID int64, req ReplyRequest) (*model.Comment, error) {
	if err := requireActive(author); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var c *model.Comment
	err := s.repo.InTx(ctx, func(tx repository.Store) error {
		parent, err := tx.GetComment(ctx, parentID)
		if err != nil {
			return notFound(err, repository.ErrCommentNotFound, "comment", parentID)
		}

		c = &model.Comment{
			RenterID: author.ID,
			PitchID:  parent.PitchID,
			ParentID: &parent.ID,
			Body:     req.Body,
		}
		return tx.CreateComment(ctx, c)
	})
	if err != nil {
		return nil, s.fail("create reply", err)
	}
	return c, nil
}

// UpdateComment меняет отзыв автора. Право на комментарий не расходуется,
// оценка поля пересчитывается с учётом разницы оценок.
func (s *Service) UpdateComment(ctx context.Context, author *model.Principal, commentID int64, req CommentRequest) (*model.Comment, error) {
	if err := requireActive(author); err != nil {
		return nil, err
	}

	var c *model.Comment
	err := s.repo.InTx(ctx, func(tx repository.Store) error {
		var err error
		c, err = tx.LockComment(ctx, commentID)
		if err != nil {
			return notFound(err, repository.ErrCommentNotFound, "comment", commentID)
		}
		if c.RenterID != author.ID {
			return apperror.Forbidden("comment belongs to another user")
		}

		if c.IsReply() {
			if err := validation.Struct(ReplyRequest{Body: req.Body}); err != nil {
				return err
			}
			c.Body = req.Body
			return tx.UpdateComment(ctx, c.ID, 0, c.Body)
		}

		if err := validation.Struct(req); err != nil {
			return err
		}

		access, err := tx.LockAccessComment(ctx, c.RenterID, c.PitchID)
		if err != nil {
			return err
		}
		if err := tx.SaveAccessComment(ctx, entitlement.RecordEdit(access)); err != nil {
			return err
		}

		agg, err := tx.LockPitchRating(ctx, c.PitchID)
		if err != nil {
			return err
		}
		if err := tx.SavePitchRating(ctx, rating.Replace(agg, c.Rating, req.Rating)); err != nil {
			return err
		}

		c.Rating, c.Body = req.Rating, req.Body
		return tx.UpdateComment(ctx, c.ID, c.Rating, c.Body)
	})
	if err != nil {
		return nil, s.fail("update comment", err)
	}
	return c, nil
}

// DeleteComment удаляет комментарий вместе с ответами. Удалять может автор или администратор.
func (s *Service) DeleteComment(ctx context.Context, actor *model.Principal, commentID int64) (int, error) {
	if err := requireActive(actor); err != nil {
		return 0, err
	}

	var removed int
	err := s.repo.InTx(ctx, func(tx repository.Store) error {
		c, err := tx.LockComment(ctx, commentID)
		if err != nil {
			return notFound(err, repository.ErrCommentNotFound, "comment", commentID)
		}
		if c.RenterID != actor.ID && !actor.IsSuperuser {
			return apperror.Forbidden("comment belongs to another user")
		}

		deleted, err := deleteCommentTree(ctx, tx, c.ID)
		removed = len(deleted)
		return err
	})
	if err != nil {
		return 0, s.fail("delete comment", err)
	}
	return removed, nil
}

// DeleteComments удаляет комментарии администратором одной транзакцией.
// Идентификаторы, уже удалённые вместе с родителем в этом же пакете, пропускаются.
func (s *Service) DeleteComments(ctx context.Context, actor *model.Principal, ids []int64) (int, error) {
	if err := requireSuperuser(actor); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, apperror.Validation("ids", "is required")
	}

	var removed int
	err := s.repo.InTx(ctx, func(tx repository.Store) error {
		gone := make(map[int64]struct{})
		for _, id := range ids {
			if _, ok := gone[id]; ok {
				continue
			}
			if _, err := tx.LockComment(ctx, id); err != nil {
				return notFound(err, repository.ErrCommentNotFound, "comment", id)
			}

			deleted, err := deleteCommentTree(ctx, tx, id)
			if err != nil {
				return err
			}
			for _, d := range deleted {
				gone[d.ID] = struct{}{}
			}
			removed += len(deleted)
		}
		return nil
	})
	if err != nil {
		return 0, s.fail("delete comments", err)
	}

	s.logger.Info("comments deleted", zap.Int("count", removed))
	return removed, nil
}

// deleteCommentTree удаляет поддерево и вычитает из рейтинга каждую удалённую оценку по одной.
func deleteCommentTree(ctx context.Context, tx repository.Store, id int64) ([]model.Comment, error) {
	deleted, err := tx.DeleteCommentTree(ctx, id)
	if err != nil {
		return nil, err
	}

	byPitch := make(map[int64][]int)
	for _, d := range deleted {
		if !d.IsReply() {
			byPitch[d.PitchID] = append(byPitch[d.PitchID], d.Rating)
		}
	}

	for pitchID, ratings := range byPitch {
		agg, err := tx.LockPitchRating(ctx, pitchID)
		if err != nil {
			return nil, err
		}
		if err := tx.SavePitchRating(ctx, rating.RemoveAll(agg, ratings)); err != nil {
			return nil, err
		}
	}
	return deleted, nil
}

// ListComments возвращает дерево комментариев поля: корневые отзывы с вложенными ответами.
func (s *Service) ListComments(ctx context.Context, pitchID int64) ([]model.Comment, error) {
	if _, err := s.repo.GetPitch(ctx, pitchID); err != nil {
		return nil, s.fail("list comments", notFound(err, repository.ErrPitchNotFound, "pitch", pitchID))
	}

	flat, err := s.repo.ListCommentsByPitch(ctx, pitchID)
	if err != nil {
		return nil, s.fail("list comments", err)
	}
	return buildCommentTree(flat), nil
}

func buildCommentTree(flat []model.Comment) []model.Comment {
	children := make(map[int64][]model.Comment)
	roots := make([]model.Comment, 0)
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var attach func(c model.Comment) model.Comment
	attach = func(c model.Comment) model.Comment {
		for _, child := range children[c.ID] {
			c.Replies = append(c.Replies, attach(child))
		}
		return c
	}

	for i := range roots {
		roots[i] = attach(roots[i])
	}
	return roots
}
