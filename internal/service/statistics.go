package service

import (
	"context"
	"time"

	"github.com/mmeshcher/pitchrent/internal/apperror"
	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/repository"
)

// ReportTopPitches задаёт число полей в ежемесячном отчёте.
const ReportTopPitches = 10

func (s *Service) monthRange(year int, month time.Month) (time.Time, time.Time, error) {
	if month < time.January || month > time.December {
		return time.Time{}, time.Time{}, apperror.Validation("month", "must be between 1 and 12")
	}
	if year < 2000 || year > 9999 {
		return time.Time{}, time.Time{}, apperror.Validation("year", "must be between 2000 and 9999")
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	return from, from.AddDate(0, 1, 0), nil
}

// MonthlyRevenue возвращает выручку полей за месяц, по убыванию выручки.
// Отменённые заказы не учитываются.
func (s *Service) MonthlyRevenue(ctx context.Context, actor *model.Principal, year int, month time.Month) ([]model.RevenueStat, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	from, to, err := s.monthRange(year, month)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.RevenueByPitch(ctx, from, to, 0)
	if err != nil {
		return nil, s.fail("monthly revenue", err)
	}
	return stats, nil
}

// PitchDailyRevenue возвращает выручку поля за каждый день месяца. Дни без заказов имеют нулевую выручку.
func (s *Service) PitchDailyRevenue(ctx context.Context, actor *model.Principal, pitchID int64, year int, month time.Month) ([]model.DailyRevenue, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	from, to, err := s.monthRange(year, month)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetPitch(ctx, pitchID); err != nil {
		return nil, s.fail("daily revenue", notFound(err, repository.ErrPitchNotFound, "pitch", pitchID))
	}

	rows, err := s.repo.DailyRevenue(ctx, pitchID, from, to)
	if err != nil {
		return nil, s.fail("daily revenue", err)
	}

	return fillDays(rows, to.AddDate(0, 0, -1).Day()), nil
}

func fillDays(rows []model.DailyRevenue, days int) []model.DailyRevenue {
	out := make([]model.DailyRevenue, days)
	for i := range out {
		out[i].Day = i + 1
	}
	for _, r := range rows {
		if r.Day >= 1 && r.Day <= days {
			out[r.Day-1].Revenue = r.Revenue
		}
	}
	return out
}
