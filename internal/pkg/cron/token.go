package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/senani-kuruwita/attendance-backend/internal/pkg/jwt"
)

type TokenJobs struct {
	jwtService jwt.Service
}

func NewTokenJobs(jwtService jwt.Service) *TokenJobs {
	return &TokenJobs{jwtService: jwtService}
}

func (j *TokenJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_revoked_tokens", 1*time.Hour, j.PurgeRevokedTokens)
}

// PurgeRevokedTokens drops logged-out tokens that have expired on their own
func (j *TokenJobs) PurgeRevokedTokens(ctx context.Context) error {
	if n := j.jwtService.PurgeRevoked(time.Now()); n > 0 {
		slog.Info("Cron: purged revoked tokens", "count", n)
	}
	return nil
}
