package service

import (
	"context"

	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/repository"
)

// ToggleFavorite добавляет поле в избранное или убирает его оттуда.
// Возвращает true, если поле теперь в избранном.
func (s *Service) ToggleFavorite(ctx context.Context, user *model.Principal, pitchID int64) (bool, error) {
	if err := requireActive(user); err != nil {
		return false, err
	}

	var added bool
	err := s.repo.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.GetPitch(ctx, pitchID); err != nil {
			return notFound(err, repository.ErrPitchNotFound, "pitch", pitchID)
		}

		removed, err := tx.DeleteFavorite(ctx, user.ID, pitchID)
		if err != nil || removed {
			return err
		}

		added = true
		return tx.AddFavorite(ctx, user.ID, pitchID)
	})
	if err != nil {
		return false, s.fail("toggle favorite", err)
	}
	return added, nil
}

// ListFavorites возвращает избранные поля пользователя.
func (s *Service) ListFavorites(ctx context.Context, user *model.Principal) ([]model.Favorite, error) {
	if err := requireActive(user); err != nil {
		return nil, err
	}
	favorites, err := s.repo.ListFavorites(ctx, user.ID)
	if err != nil {
		return nil, s.fail("list favorites", err)
	}
	return favorites, nil
}
