package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/pitchrent/internal/model"
)

// GetVoucher возвращает ваучер по идентификатору.
func (q *Queries) GetVoucher(ctx context.Context, id int64) (*model.Voucher, error) {
	var v model.Voucher
	err := q.q.QueryRow(ctx,
		`SELECT id, name, min_cost, discount, count FROM vouchers WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Name, &v.MinCost, &v.Discount, &v.Count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVoucherNotFound
		}
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	return &v, nil
}

// CreateVoucher сохраняет новый ваучер и заполняет его идентификатор.
func (q *Queries) CreateVoucher(ctx context.Context, v *model.Voucher) error {
	err := q.q.QueryRow(ctx,
		`INSERT INTO vouchers (name, min_cost, discount, count) VALUES ($1, $2, $3, $4) RETURNING id`,
		v.Name, v.MinCost, v.Discount, v.Count,
	).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("insert voucher: %w", err)
	}
	return nil
}

// ListVouchers возвращает все ваучеры.
func (q *Queries) ListVouchers(ctx context.Context) ([]model.Voucher, error) {
	rows, err := q.q.Query(ctx,
		`SELECT id, name, min_cost, discount, count FROM vouchers ORDER BY min_cost, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select vouchers: %w", err)
	}
	defer rows.Close()

	vouchers := make([]model.Voucher, 0)
	for rows.Next() {
		var v model.Voucher
		if err := rows.Scan(&v.ID, &v.Name, &v.MinCost, &v.Discount, &v.Count); err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return vouchers, nil
}
