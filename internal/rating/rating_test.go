package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmeshcher/pitchrent/internal/model"
)

const eps = 1e-9

func TestAdd(t *testing.T) {
	agg := model.PitchRating{PitchID: 1}

	agg = Add(agg, 5)
	assert.InDelta(t, 5.0, agg.AvgRating, eps)
	assert.Equal(t, 1, agg.CountComment)

	agg = Add(agg, 3)
	assert.InDelta(t, 4.0, agg.AvgRating, eps)
	assert.Equal(t, 2, agg.CountComment)

	agg = Add(agg, 1)
	assert.InDelta(t, 3.0, agg.AvgRating, eps)
	assert.Equal(t, 3, agg.CountComment)
	assert.Equal(t, int64(1), agg.PitchID)
}

func TestReplace(t *testing.T) {
	agg := Add(Add(model.PitchRating{}, 4), 2)

	agg = Replace(agg, 2, 5)
	assert.InDelta(t, 4.5, agg.AvgRating, eps)
	assert.Equal(t, 2, agg.CountComment)

	empty := Replace(model.PitchRating{}, 1, 5)
	assert.Equal(t, model.PitchRating{}, empty)
}

func TestRemove(t *testing.T) {
	agg := Add(Add(Add(model.PitchRating{}, 5), 4), 3)

	agg = Remove(agg, 3)
	assert.InDelta(t, 4.5, agg.AvgRating, eps)
	assert.Equal(t, 2, agg.CountComment)

	agg = Remove(agg, 4)
	assert.InDelta(t, 5.0, agg.AvgRating, eps)

	agg = Remove(agg, 5)
	assert.Equal(t, 0.0, agg.AvgRating)
	assert.Equal(t, 0, agg.CountComment)

	agg = Remove(agg, 5)
	assert.Equal(t, 0, agg.CountComment)
}

func TestAddThenRemoveRestoresState(t *testing.T) {
	start := Add(Add(Add(model.PitchRating{}, 2), 5), 4)

	for r := 1; r <= 5; r++ {
		got := Remove(Add(start, r), r)
		assert.InDelta(t, start.AvgRating, got.AvgRating, eps, "rating %d", r)
		assert.Equal(t, start.CountComment, got.CountComment)
	}
}

func TestRemoveAllIsOrderIndependent(t *testing.T) {
	ratings := []int{5, 1, 4, 4, 2, 3}
	agg := model.PitchRating{}
	for _, r := range ratings {
		agg = Add(agg, r)
	}

	a := RemoveAll(agg, []int{1, 4, 2})
	b := RemoveAll(agg, []int{2, 1, 4})

	assert.Equal(t, 3, a.CountComment)
	assert.InDelta(t, 4.0, a.AvgRating, eps)
	assert.InDelta(t, a.AvgRating, b.AvgRating, eps)
	assert.Equal(t, a.CountComment, b.CountComment)
}
