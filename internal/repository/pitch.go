package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/pitchrent/internal/model"
)

const pitchColumns = `id, address, title, description, phone, size, surface, price`

func scanPitch(row pgx.Row) (*model.Pitch, error) {
	var (
		p       model.Pitch
		size    string
		surface string
	)
	if err := row.Scan(&p.ID, &p.Address, &p.Title, &p.Description, &p.Phone, &size, &surface, &p.Price); err != nil {
		return nil, err
	}
	p.Size = model.PitchSize(size)
	p.Surface = model.PitchSurface(surface)
	return &p, nil
}

// GetPitch возвращает поле вместе со списком изображений.
func (q *Queries) GetPitch(ctx context.Context, id int64) (*model.Pitch, error) {
	p, err := scanPitch(q.q.QueryRow(ctx,
		`SELECT `+pitchColumns+` FROM pitches WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPitchNotFound
		}
		return nil, fmt.Errorf("get pitch: %w", err)
	}

	rows, err := q.q.Query(ctx,
		`SELECT url FROM pitch_images WHERE pitch_id = $1 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("select pitch images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan pitch image: %w", err)
		}
		p.Images = append(p.Images, url)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return p, nil
}

// LockPitch блокирует строку поля до конца транзакции. Все бронирования поля сериализуются на этой блокировке.
func (q *Queries) LockPitch(ctx context.Context, id int64) (*model.Pitch, error) {
	p, err := scanPitch(q.q.QueryRow(ctx,
		`SELECT `+pitchColumns+` FROM pitches WHERE id = $1 FOR UPDATE`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPitchNotFound
		}
		return nil, fmt.Errorf("lock pitch: %w", err)
	}
	return p, nil
}

// CreatePitch сохраняет новое поле и заполняет его идентификатор.
func (q *Queries) CreatePitch(ctx context.Context, p *model.Pitch) error {
	err := q.q.QueryRow(ctx,
		`INSERT INTO pitches (address, title, description, phone, size, surface, price)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		p.Address, p.Title, p.Description, p.Phone, string(p.Size), string(p.Surface), p.Price,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert pitch: %w", err)
	}
	return nil
}

// UpdatePitch обновляет атрибуты поля.
func (q *Queries) UpdatePitch(ctx context.Context, p *model.Pitch) error {
	tag, err := q.q.Exec(ctx,
		`UPDATE pitches
		 SET address = $2, title = $3, description = $4, phone = $5, size = $6, surface = $7, price = $8
		 WHERE id = $1`,
		p.ID, p.Address, p.Title, p.Description, p.Phone, string(p.Size), string(p.Surface), p.Price,
	)
	if err != nil {
		return fmt.Errorf("update pitch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPitchNotFound
	}
	return nil
}

// DeletePitch удаляет поле. Заказы, комментарии, рейтинг и избранное удаляются каскадно.
func (q *Queries) DeletePitch(ctx context.Context, id int64) error {
	tag, err := q.q.Exec(ctx, `DELETE FROM pitches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pitch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPitchNotFound
	}
	return nil
}

// AddPitchImage добавляет изображение к полю.
func (q *Queries) AddPitchImage(ctx context.Context, pitchID int64, url string) error {
	_, err := q.q.Exec(ctx,
		`INSERT INTO pitch_images (pitch_id, url) VALUES ($1, $2)`,
		pitchID, url,
	)
	if err != nil {
		return fmt.Errorf("insert pitch image: %w", err)
	}
	return nil
}

// SearchPitches возвращает поля, подходящие под фильтр.
func (q *Queries) SearchPitches(ctx context.Context, f PitchFilter) ([]model.Pitch, error) {
	query, args := buildPitchQuery(f)

	rows, err := q.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search pitches: %w", err)
	}
	defer rows.Close()

	pitches := make([]model.Pitch, 0)
	for rows.Next() {
		p, err := scanPitch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pitch: %w", err)
		}
		pitches = append(pitches, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return pitches, nil
}

// CountOpenOrders возвращает число открытых заказов поля.
func (q *Queries) CountOpenOrders(ctx context.Context, pitchID int64) (int, error) {
	var n int
	err := q.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE pitch_id = $1 AND status = $2`,
		pitchID, string(model.OrderStatusOpen),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open orders: %w", err)
	}
	return n, nil
}
