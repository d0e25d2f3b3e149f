package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/pitchrent/internal/notify"
)

// StartMonthlyReports запускает фоновую рассылку отчёта о выручке за прошлый месяц.
// Отчёт уходит на первом тике нового месяца; месяц запуска считается уже обработанным.
func (s *Service) StartMonthlyReports(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := monthKey(s.now().In(s.loc))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.now().In(s.loc)
			if monthKey(now) == last {
				continue
			}
			if err := s.sendMonthlyReport(ctx, now); err != nil {
				s.logger.Error("monthly report failed", zap.Error(err))
				continue
			}
			last = monthKey(now)
		}
	}
}

func monthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// sendMonthlyReport отправляет администраторам топ полей по выручке за месяц, предшествующий now.
func (s *Service) sendMonthlyReport(ctx context.Context, now time.Time) error {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc).AddDate(0, -1, 0)
	to := from.AddDate(0, 1, 0)

	stats, err := s.repo.RevenueByPitch(ctx, from, to, ReportTopPitches)
	if err != nil {
		return fmt.Errorf("load revenue: %w", err)
	}

	admins, err := s.repo.ListSuperusers(ctx)
	if err != nil {
		return fmt.Errorf("load superusers: %w", err)
	}

	recipients := make([]string, 0, len(admins))
	for _, a := range admins {
		if a.Email != "" {
			recipients = append(recipients, a.Email)
		}
	}
	if len(recipients) == 0 {
		s.logger.Warn("monthly report skipped: no superuser emails")
		return nil
	}

	msg := notify.NewMessage("Monthly revenue statistics from Pitch App", notify.TemplateMonthlyReport, recipients,
		map[string]any{
			"pitches": stats,
			"host":    s.siteURL,
			"year":    from.Year(),
			"month":   int(from.Month()),
		})
	if !s.send(ctx, "monthly_report", msg) {
		return fmt.Errorf("send monthly report %s", msg.ID)
	}

	s.logger.Info("monthly report sent",
		zap.Int("year", from.Year()),
		zap.Int("month", int(from.Month())),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}
