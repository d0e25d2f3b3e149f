package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmeshcher/pitchrent/internal/model"
)

func TestBuildPitchQuery_NoFilters(t *testing.T) {
	q, args := buildPitchQuery(PitchFilter{})

	assert.Equal(t, "SELECT "+pitchColumns+" FROM pitches ORDER BY price, size, id LIMIT $1 OFFSET $2", q)
	assert.Equal(t, []any{DefaultPageSize, 0}, args)
}

func TestBuildPitchQuery_AllFilters(t *testing.T) {
	minPrice, maxPrice := int64(100), int64(500)
	q, args := buildPitchQuery(PitchFilter{
		Keyword:  " 50%_off ",
		Size:     model.PitchSizeFive,
		Surface:  model.PitchSurfaceNatural,
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		Limit:    1000,
		Offset:   20,
	})

	assert.Contains(t, q, "(title ILIKE $1 OR address ILIKE $1 OR description ILIKE $1)")
	assert.Contains(t, q, "size = $2 AND surface = $3 AND price >= $4 AND price <= $5")
	assert.Contains(t, q, "LIMIT $6 OFFSET $7")
	assert.Equal(t, []any{`%50\%\_off%`, "FIVE", "NATURAL", int64(100), int64(500), MaxPageSize, 20}, args)
}

func TestBuildPitchQuery_InjectionStaysInArgs(t *testing.T) {
	q, args := buildPitchQuery(PitchFilter{Keyword: "'; DROP TABLE pitches; --"})

	assert.NotContains(t, q, "DROP")
	assert.Equal(t, "%'; DROP TABLE pitches; --%", args[0])
}
