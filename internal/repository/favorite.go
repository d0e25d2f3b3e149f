package repository

import (
	"context"
	"fmt"

	"github.com/mmeshcher/pitchrent/internal/model"
)

// AddFavorite добавляет поле в избранное. Повторное добавление ничего не меняет
// и не прерывает транзакцию.
func (q *Queries) AddFavorite(ctx context.Context, renterID, pitchID int64) error {
	_, err := q.q.Exec(ctx,
		`INSERT INTO favorites (renter_id, pitch_id) VALUES ($1, $2)
		 ON CONFLICT (renter_id, pitch_id) DO NOTHING`,
		renterID, pitchID,
	)
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// DeleteFavorite убирает поле из избранного и сообщает, была ли запись.
func (q *Queries) DeleteFavorite(ctx context.Context, renterID, pitchID int64) (bool, error) {
	tag, err := q.q.Exec(ctx,
		`DELETE FROM favorites WHERE renter_id = $1 AND pitch_id = $2`,
		renterID, pitchID,
	)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListFavorites возвращает избранные поля пользователя.
func (q *Queries) ListFavorites(ctx context.Context, renterID int64) ([]model.Favorite, error) {
	rows, err := q.q.Query(ctx,
		`SELECT f.renter_id, f.pitch_id, p.title
		 FROM favorites f JOIN pitches p ON p.id = f.pitch_id
		 WHERE f.renter_id = $1
		 ORDER BY f.id`,
		renterID,
	)
	if err != nil {
		return nil, fmt.Errorf("select favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]model.Favorite, 0)
	for rows.Next() {
		var f model.Favorite
		if err := rows.Scan(&f.RenterID, &f.PitchID, &f.PitchTitle); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return favorites, nil
}
