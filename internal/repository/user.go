package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/pitchrent/internal/model"
)

// GetUser возвращает пользователя по идентификатору.
func (q *Queries) GetUser(ctx context.Context, id int64) (*model.Principal, error) {
	var u model.Principal
	err := q.q.QueryRow(ctx,
		`SELECT id, username, email, is_active, is_superuser FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.IsActive, &u.IsSuperuser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ListSuperusers возвращает активных администраторов.
func (q *Queries) ListSuperusers(ctx context.Context) ([]model.Principal, error) {
	rows, err := q.q.Query(ctx,
		`SELECT id, username, email, is_active, is_superuser
		 FROM users WHERE is_superuser AND is_active
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select superusers: %w", err)
	}
	defer rows.Close()

	users := make([]model.Principal, 0)
	for rows.Next() {
		var u model.Principal
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.IsActive, &u.IsSuperuser); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return users, nil
}
