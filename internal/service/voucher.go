package service

import (
	"context"

	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/validation"
)

// VoucherRequest описывает новый ваучер.
type VoucherRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	MinCost  int64  `json:"min_cost" validate:"gte=0,lte=20000000"`
	Discount int64  `json:"discount" validate:"gte=0,lte=200000000"`
	Count    int    `json:"count" validate:"gte=1,lte=200000"`
}

// CreateVoucher добавляет ваучер.
func (s *Service) CreateVoucher(ctx context.Context, actor *model.Principal, req VoucherRequest) (*model.Voucher, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	v := &model.Voucher{
		Name:     req.Name,
		MinCost:  req.MinCost,
		Discount: req.Discount,
		Count:    req.Count,
	}
	if err := s.repo.CreateVoucher(ctx, v); err != nil {
		return nil, s.fail("create voucher", err)
	}
	return v, nil
}

// ListVouchers возвращает все ваучеры.
func (s *Service) ListVouchers(ctx context.Context) ([]model.Voucher, error) {
	vouchers, err := s.repo.ListVouchers(ctx)
	if err != nil {
		return nil, s.fail("list vouchers", err)
	}
	return vouchers, nil
}
