package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/notification"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/report"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/timerule"
)

// SummaryJobs sends the owner one end-of-day summary per business day.
type SummaryJobs struct {
	reportService report.ReportService
	notifier      notification.Service
	closeTime     timerule.ClockTime
	shopName      string
	location      *time.Location
	now           func() time.Time

	mu       sync.Mutex
	lastSent string
}

func NewSummaryJobs(
	reportService report.ReportService,
	notifier notification.Service,
	rules timerule.TimeRules,
	shopName string,
	loc *time.Location,
) *SummaryJobs {
	if loc == nil {
		loc = time.Local
	}
	return &SummaryJobs{
		reportService: reportService,
		notifier:      notifier,
		closeTime:     rules.CloseTime,
		shopName:      shopName,
		location:      loc,
		now:           time.Now,
	}
}

func (j *SummaryJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("daily_summary", interval, j.SendDailySummary)
}

// SendDailySummary queues today's summary once the shop has closed. Later runs on the same day are no-ops.
func (j *SummaryJobs) SendDailySummary(ctx context.Context) error {
	now := j.now().In(j.location)
	if now.Before(j.closeTime.On(now)) {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	dash, err := j.reportService.Dashboard(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to build daily summary: %w", err)
	}
	if j.lastSent == dash.Date {
		return nil
	}

	err = j.notifier.Queue(notification.Message{
		Type: notification.TypeDailySummary,
		Text: notification.DailySummaryText(j.shopName, dash.Date, dash.PresentToday, dash.TotalEmployees, dash.OTToday),
	})
	if err != nil {
		return fmt.Errorf("failed to queue daily summary: %w", err)
	}

	j.lastSent = dash.Date
	slog.Info("Cron: daily summary queued", "date", dash.Date, "present", dash.PresentToday)
	return nil
}
