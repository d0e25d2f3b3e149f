package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/pitchrent/internal/model"
)

// У ответов rating хранится как NULL, наружу он отдаётся нулём.
const commentColumns = `id, renter_id, pitch_id, parent_id, COALESCE(rating, 0), body, created_date`

func scanComment(row pgx.Row) (*model.Comment, error) {
	var c model.Comment
	if err := row.Scan(&c.ID, &c.RenterID, &c.PitchID, &c.ParentID, &c.Rating, &c.Body, &c.CreatedDate); err != nil {
		return nil, err
	}
	return &c, nil
}

func collectComments(rows pgx.Rows) ([]model.Comment, error) {
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return comments, nil
}

func nullableRating(c *model.Comment) *int {
	if c.IsReply() {
		return nil
	}
	r := c.Rating
	return &r
}

// CreateComment сохраняет комментарий и заполняет его идентификатор и дату создания.
func (q *Queries) CreateComment(ctx context.Context, c *model.Comment) error {
	err := q.q.QueryRow(ctx,
		`INSERT INTO comments (renter_id, pitch_id, parent_id, rating, body)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_date`,
		c.RenterID, c.PitchID, c.ParentID, nullableRating(c), c.Body,
	).Scan(&c.ID, &c.CreatedDate)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// GetComment возвращает комментарий по идентификатору.
func (q *Queries) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	c, err := scanComment(q.q.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// LockComment блокирует строку комментария до конца транзакции.
func (q *Queries) LockComment(ctx context.Context, id int64) (*model.Comment, error) {
	c, err := scanComment(q.q.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1 FOR UPDATE`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("lock comment: %w", err)
	}
	return c, nil
}

// UpdateComment меняет текст и оценку комментария. Для ответов оценка остаётся NULL.
func (q *Queries) UpdateComment(ctx context.Context, id int64, rating int, body string) error {
	tag, err := q.q.Exec(ctx,
		`UPDATE comments
		 SET body = $3, rating = CASE WHEN parent_id IS NULL THEN $2::smallint END
		 WHERE id = $1`,
		id, rating, body,
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// DeleteCommentTree удаляет комментарий вместе со всеми ответами и возвращает удалённые строки.
func (q *Queries) DeleteCommentTree(ctx context.Context, id int64) ([]model.Comment, error) {
	rows, err := q.q.Query(ctx,
		`WITH RECURSIVE tree AS (
		     SELECT id FROM comments WHERE id = $1
		     UNION ALL
		     SELECT c.id FROM comments c JOIN tree t ON c.parent_id = t.id
		 )
		 DELETE FROM comments
		 WHERE id IN (SELECT id FROM tree)
		 RETURNING `+commentColumns,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("delete comment tree: %w", err)
	}

	deleted, err := collectComments(rows)
	if err != nil {
		return nil, err
	}
	if len(deleted) == 0 {
		return nil, ErrCommentNotFound
	}
	return deleted, nil
}

// ListCommentsByPitch возвращает все комментарии поля в порядке создания.
func (q *Queries) ListCommentsByPitch(ctx context.Context, pitchID int64) ([]model.Comment, error) {
	rows, err := q.q.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE pitch_id = $1 ORDER BY created_date, id`,
		pitchID,
	)
	if err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}
	return collectComments(rows)
}
