package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/pitchrent/internal/apperror"
	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/repository"
	"github.com/mmeshcher/pitchrent/internal/validation"
)

// PitchRequest описывает атрибуты поля.
type PitchRequest struct {
	Address     string             `json:"address" validate:"required,max=200"`
	Title       string             `json:"title" validate:"required,max=200"`
	Description string             `json:"description" validate:"max=1000"`
	Phone       string             `json:"phone" validate:"max=100"`
	Size        model.PitchSize    `json:"size" validate:"required,oneof=FIVE SEVEN TWELVE"`
	Surface     model.PitchSurface `json:"surface" validate:"required,oneof=ARTIFICIAL NATURAL MIXED"`
	Price       int64              `json:"price" validate:"gte=0,lte=2000000000"`
}

func (r PitchRequest) pitch(id int64) *model.Pitch {
	return &model.Pitch{
		ID:          id,
		Address:     r.Address,
		Title:       r.Title,
		Description: r.Description,
		Phone:       r.Phone,
		Size:        r.Size,
		Surface:     r.Surface,
		Price:       r.Price,
	}
}

// ImageRequest описывает изображение поля.
type ImageRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// PitchDetails содержит поле и его агрегированный рейтинг.
type PitchDetails struct {
	Pitch  *model.Pitch
	Rating model.PitchRating
}

// CreatePitch добавляет новое поле.
func (s *Service) CreatePitch(ctx context.Context, actor *model.Principal, req PitchRequest) (*model.Pitch, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	p := req.pitch(0)
	if err := s.repo.CreatePitch(ctx, p); err != nil {
		return nil, s.fail("create pitch", err)
	}

	s.logger.Info("pitch created", zap.Int64("pitch_id", p.ID))
	return p, nil
}

// UpdatePitch меняет атрибуты поля. Цена уже созданных заказов не меняется.
func (s *Service) UpdatePitch(ctx context.Context, actor *model.Principal, pitchID int64, req PitchRequest) (*model.Pitch, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	p := req.pitch(pitchID)
	if err := s.repo.UpdatePitch(ctx, p); err != nil {
		return nil, s.fail("update pitch", notFound(err, repository.ErrPitchNotFound, "pitch", pitchID))
	}
	return p, nil
}

// DeletePitch удаляет поле. Пока у поля есть открытые заказы, удаление отклоняется.
func (s *Service) DeletePitch(ctx context.Context, actor *model.Principal, pitchID int64) error {
	if err := requireSuperuser(actor); err != nil {
		return err
	}

	err := s.repo.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.LockPitch(ctx, pitchID); err != nil {
			return notFound(err, repository.ErrPitchNotFound, "pitch", pitchID)
		}

		open, err := tx.CountOpenOrders(ctx, pitchID)
		if err != nil {
			return err
		}
		if open > 0 {
			return apperror.Conflict("pitch has open orders and cannot be deleted")
		}

		return tx.DeletePitch(ctx, pitchID)
	})
	if err != nil {
		return s.fail("delete pitch", err)
	}

	s.logger.Info("pitch deleted", zap.Int64("pitch_id", pitchID))
	return nil
}

// AddPitchImage добавляет изображение к полю.
func (s *Service) AddPitchImage(ctx context.Context, actor *model.Principal, pitchID int64, req ImageRequest) error {
	if err := requireSuperuser(actor); err != nil {
		return err
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	err := s.repo.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.LockPitch(ctx, pitchID); err != nil {
			return notFound(err, repository.ErrPitchNotFound, "pitch", pitchID)
		}
		return tx.AddPitchImage(ctx, pitchID, req.URL)
	})
	if err != nil {
		return s.fail("add pitch image", err)
	}
	return nil
}

// GetPitch возвращает поле с изображениями и рейтингом.
func (s *Service) GetPitch(ctx context.Context, pitchID int64) (*PitchDetails, error) {
	p, err := s.repo.GetPitch(ctx, pitchID)
	if err != nil {
		return nil, s.fail("get pitch", notFound(err, repository.ErrPitchNotFound, "pitch", pitchID))
	}

	r, err := s.repo.GetPitchRating(ctx, pitchID)
	if err != nil {
		return nil, s.fail("get pitch rating", err)
	}

	return &PitchDetails{Pitch: p, Rating: r}, nil
}

// SearchPitches ищет поля по ключевому слову, формату, покрытию и диапазону цены.
func (s *Service) SearchPitches(ctx context.Context, f repository.PitchFilter) ([]model.Pitch, error) {
	switch f.Size {
	case "", model.PitchSizeFive, model.PitchSizeSeven, model.PitchSizeTwelve:
	default:
		return nil, apperror.Validation("size", "must be one of FIVE SEVEN TWELVE")
	}
	switch f.Surface {
	case "", model.PitchSurfaceArtificial, model.PitchSurfaceNatural, model.PitchSurfaceMixed:
	default:
		return nil, apperror.Validation("surface", "must be one of ARTIFICIAL NATURAL MIXED")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, apperror.Validation("price_max", "must be greater than or equal to price_min")
	}

	pitches, err := s.repo.SearchPitches(ctx, f)
	if err != nil {
		return nil, s.fail("search pitches", err)
	}
	return pitches, nil
}
