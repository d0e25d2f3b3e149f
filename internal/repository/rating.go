package repository

import (
	"context"
	"fmt"

	"github.com/mmeshcher/pitchrent/internal/model"
)

// LockPitchRating блокирует агрегат рейтинга поля, создавая нулевую запись при её отсутствии.
func (q *Queries) LockPitchRating(ctx context.Context, pitchID int64) (model.PitchRating, error) {
	_, err := q.q.Exec(ctx,
		`INSERT INTO pitch_ratings (pitch_id) VALUES ($1) ON CONFLICT (pitch_id) DO NOTHING`,
		pitchID,
	)
	if err != nil {
		return model.PitchRating{}, fmt.Errorf("ensure pitch rating: %w", err)
	}

	r := model.PitchRating{PitchID: pitchID}
	err = q.q.QueryRow(ctx,
		`SELECT avg_rating, count_comment FROM pitch_ratings WHERE pitch_id = $1 FOR UPDATE`,
		pitchID,
	).Scan(&r.AvgRating, &r.CountComment)
	if err != nil {
		return model.PitchRating{}, fmt.Errorf("lock pitch rating: %w", err)
	}
	return r, nil
}

// GetPitchRating возвращает агрегат рейтинга поля. Для поля без оценок возвращается нулевой агрегат.
func (q *Queries) GetPitchRating(ctx context.Context, pitchID int64) (model.PitchRating, error) {
	r := model.PitchRating{PitchID: pitchID}
	err := q.q.QueryRow(ctx,
		`SELECT COALESCE(MAX(avg_rating), 0), COALESCE(MAX(count_comment), 0)
		 FROM pitch_ratings WHERE pitch_id = $1`,
		pitchID,
	).Scan(&r.AvgRating, &r.CountComment)
	if err != nil {
		return model.PitchRating{}, fmt.Errorf("get pitch rating: %w", err)
	}
	return r, nil
}

// SavePitchRating сохраняет агрегат рейтинга поля.
func (q *Queries) SavePitchRating(ctx context.Context, r model.PitchRating) error {
	_, err := q.q.Exec(ctx,
		`INSERT INTO pitch_ratings (pitch_id, avg_rating, count_comment) VALUES ($1, $2, $3)
		 ON CONFLICT (pitch_id) DO UPDATE SET avg_rating = EXCLUDED.avg_rating, count_comment = EXCLUDED.count_comment`,
		r.PitchID, r.AvgRating, r.CountComment,
	)
	if err != nil {
		return fmt.Errorf("save pitch rating: %w", err)
	}
	return nil
}

// LockAccessComment блокирует счётчики прав на комментарий, создавая нулевую запись при её отсутствии.
func (q *Queries) LockAccessComment(ctx context.Context, renterID, pitchID int64) (model.AccessComment, error) {
	_, err := q.q.Exec(ctx,
		`INSERT INTO access_comments (renter_id, pitch_id) VALUES ($1, $2)
		 ON CONFLICT (renter_id, pitch_id) DO NOTHING`,
		renterID, pitchID,
	)
	if err != nil {
		return model.AccessComment{}, fmt.Errorf("ensure access comment: %w", err)
	}

	a := model.AccessComment{RenterID: renterID, PitchID: pitchID}
	err = q.q.QueryRow(ctx,
		`SELECT count_comment_created, count_comment_updated
		 FROM access_comments WHERE renter_id = $1 AND pitch_id = $2 FOR UPDATE`,
		renterID, pitchID,
	).Scan(&a.CountCommentCreated, &a.CountCommentUpdated)
	if err != nil {
		return model.AccessComment{}, fmt.Errorf("lock access comment: %w", err)
	}
	return a, nil
}

// SaveAccessComment сохраняет счётчики прав на комментарий.
func (q *Queries) SaveAccessComment(ctx context.Context, a model.AccessComment) error {
	_, err := q.q.Exec(ctx,
		`INSERT INTO access_comments (renter_id, pitch_id, count_comment_created, count_comment_updated)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (renter_id, pitch_id) DO UPDATE
		 SET count_comment_created = EXCLUDED.count_comment_created,
		     count_comment_updated = EXCLUDED.count_comment_updated`,
		a.RenterID, a.PitchID, a.CountCommentCreated, a.CountCommentUpdated,
	)
	if err != nil {
		return fmt.Errorf("save access comment: %w", err)
	}
	return nil
}
