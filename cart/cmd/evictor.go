package cmd

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/journey/cart/internal/service"
	"github.com/Alturino/journey/internal/config"
	"github.com/Alturino/journey/internal/log"
)

// SessionEvictor periodically drops idle journeys from the service's memory.
type SessionEvictor struct {
	svc      *service.JourneyService
	idle     time.Duration
	interval time.Duration
}

func NewSessionEvictor(svc *service.JourneyService, cfg config.Session) *SessionEvictor {
	return &SessionEvictor{svc: svc, idle: cfg.IdleTimeout, interval: cfg.EvictInterval}
}

func (e SessionEvictor) StartWorker(c context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionEvictor StartWorker").
		Str(log.KeyProcess, "evicting idle sessions").
		Dur("idle", e.idle).
		Logger()
	if e.idle <= 0 || e.interval <= 0 {
		logger.Info().Msg("session eviction disabled")
		return
	}

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	logger.Info().Msg("started session evictor")
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("stopped session evictor")
			return
		case <-ticker.C:
			requestID := uuid.NewString()
			lg := logger.With().Str(log.KeyRequestID, requestID).Logger()
			tc := log.AttachRequestIDToContext(lg.WithContext(c), requestID)
			e.svc.EvictIdle(tc, e.idle)
		}
	}
}
