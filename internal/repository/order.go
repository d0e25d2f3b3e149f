package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/pitchrent/internal/model"
)

const orderColumns = `id, pitch_id, renter_id, voucher_id, time_start, time_end, status, price, cost, created_date`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o      model.Order
		status string
	)
	err := row.Scan(&o.ID, &o.PitchID, &o.RenterID, &o.VoucherID, &o.TimeStart, &o.TimeEnd,
		&status, &o.Price, &o.Cost, &o.CreatedDate)
	if err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return orders, nil
}

// CreateOrder сохраняет заказ и заполняет его идентификатор и дату создания.
func (q *Queries) CreateOrder(ctx context.Context, o *model.Order) error {
	err := q.q.QueryRow(ctx,
		`INSERT INTO orders (pitch_id, renter_id, voucher_id, time_start, time_end, status, price, cost)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_date`,
		o.PitchID, o.RenterID, o.VoucherID, o.TimeStart, o.TimeEnd, string(o.Status), o.Price, o.Cost,
	).Scan(&o.ID, &o.CreatedDate)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetOrder возвращает заказ по идентификатору.
func (q *Queries) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, err := scanOrder(q.q.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// LockOrder блокирует строку заказа до конца транзакции.
func (q *Queries) LockOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, err := scanOrder(q.q.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}
	return o, nil
}

// UpdateOrderStatus меняет статус заказа.
func (q *Queries) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	tag, err := q.q.Exec(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ListOrdersByRenter возвращает заказы арендатора, новые первыми.
func (q *Queries) ListOrdersByRenter(ctx context.Context, renterID int64) ([]model.Order, error) {
	rows, err := q.q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE renter_id = $1 ORDER BY created_date DESC, id DESC`,
		renterID,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	return collectOrders(rows)
}

// FindOverlappingOrders возвращает заказы поля, пересекающиеся с интервалом [start, end).
// Учитываются заказы в любом статусе.
func (q *Queries) FindOverlappingOrders(ctx context.Context, pitchID int64, start, end time.Time) ([]model.Order, error) {
	rows, err := q.q.Query(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE pitch_id = $1
		   AND ((time_start < $3 AND time_end >= $3)
		     OR (time_start <= $2 AND time_end > $2)
		     OR (time_start >= $2 AND time_end <= $3))
		 ORDER BY time_start`,
		pitchID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("select overlapping orders: %w", err)
	}
	return collectOrders(rows)
}

// HasConfirmedOrder сообщает, есть ли у арендатора подтверждённый заказ на поле.
func (q *Queries) HasConfirmedOrder(ctx context.Context, renterID, pitchID int64) (bool, error) {
	var exists bool
	err := q.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE renter_id = $1 AND pitch_id = $2 AND status = $3)`,
		renterID, pitchID, string(model.OrderStatusConfirmed),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check confirmed order: %w", err)
	}
	return exists, nil
}
