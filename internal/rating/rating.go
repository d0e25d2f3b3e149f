// Package rating пересчитывает среднюю оценку поля инкрементально, без повторного чтения всех отзывов.
package rating

import "github.com/mmeshcher/pitchrent/internal/model"

// Add учитывает новую оценку.
func Add(agg model.PitchRating, r int) model.PitchRating {
	n := float64(agg.CountComment)
	agg.AvgRating = (agg.AvgRating*n + float64(r)) / (n + 1)
	agg.CountComment++
	return agg
}

// Replace заменяет ранее учтённую оценку oldR на newR. Число оценок не меняется.
func Replace(agg model.PitchRating, oldR, newR int) model.PitchRating {
	if agg.CountComment == 0 {
		return agg
	}
	n := float64(agg.CountComment)
	agg.AvgRating = (agg.AvgRating*n + float64(newR-oldR)) / n
	return agg
}

// Remove исключает оценку. Удаление последней оценки сбрасывает агрегат в ноль.
func Remove(agg model.PitchRating, r int) model.PitchRating {
	if agg.CountComment <= 1 {
		agg.AvgRating = 0
		agg.CountComment = 0
		return agg
	}
	n := float64(agg.CountComment)
	agg.AvgRating = (agg.AvgRating*n - float64(r)) / (n - 1)
	agg.CountComment--
	return agg
}

// RemoveAll исключает оценки по одной в заданном порядке.
func RemoveAll(agg model.PitchRating, ratings []int) model.PitchRating {
	for _, r := range ratings {
		agg = Remove(agg, r)
	}
	return agg
}
