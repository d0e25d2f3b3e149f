package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mmeshcher/pitchrent/internal/model"
)

// RevenueByPitch возвращает выручку полей по заказам, начинающимся в [from, to).
// Отменённые заказы не учитываются. Поля без заказов в выборку не попадают.
func (q *Queries) RevenueByPitch(ctx context.Context, from, to time.Time, limit int) ([]model.RevenueStat, error) {
	rows, err := q.q.Query(ctx,
		`SELECT p.id, p.title, p.size, p.surface, p.price, SUM(o.cost)::bigint AS revenue, COUNT(o.id)
		 FROM pitches p
		 JOIN orders o ON o.pitch_id = p.id
		 WHERE o.status <> $1 AND o.time_start >= $2 AND o.time_start < $3
		 GROUP BY p.id
		 ORDER BY revenue DESC, p.id
		 LIMIT NULLIF($4, 0)`,
		string(model.OrderStatusCancelled), from, to, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select revenue: %w", err)
	}
	defer rows.Close()

	stats := make([]model.RevenueStat, 0)
	for rows.Next() {
		var (
			s       model.RevenueStat
			size    string
			surface string
		)
		if err := rows.Scan(&s.PitchID, &s.Title, &size, &surface, &s.Price, &s.Revenue, &s.OrderCount); err != nil {
			return nil, fmt.Errorf("scan revenue: %w", err)
		}
		s.Size = model.PitchSize(size)
		s.Surface = model.PitchSurface(surface)
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return stats, nil
}

// DailyRevenue возвращает выручку поля по дням для заказов, начинающихся в [from, to).
// День определяется в часовом поясе from, а не сессии базы. Дни без выручки не возвращаются.
func (q *Queries) DailyRevenue(ctx context.Context, pitchID int64, from, to time.Time) ([]model.DailyRevenue, error) {
	rows, err := q.q.Query(ctx,
		`SELECT EXTRACT(DAY FROM time_start AT TIME ZONE $5::text)::int AS day, SUM(cost)::bigint
		 FROM orders
		 WHERE pitch_id = $1 AND status <> $2 AND time_start >= $3 AND time_start < $4
		 GROUP BY day
		 ORDER BY day`,
		pitchID, string(model.OrderStatusCancelled), from, to, from.Location().String(),
	)
	if err != nil {
		return nil, fmt.Errorf("select daily revenue: %w", err)
	}
	defer rows.Close()

	days := make([]model.DailyRevenue, 0)
	for rows.Next() {
		var d model.DailyRevenue
		if err := rows.Scan(&d.Day, &d.Revenue); err != nil {
			return nil, fmt.Errorf("scan daily revenue: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return days, nil
}
