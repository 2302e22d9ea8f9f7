package infra

import (
	"context"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/Alturino/journey/internal/config"
	inErrors "github.com/Alturino/journey/internal/errors"
	"github.com/Alturino/journey/internal/log"
	"github.com/Alturino/journey/internal/otel"
)

// badgerLogger routes badger's internal logging through zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msgf(strings.TrimSpace(format), args...)
}

// NewBadgerDB opens the journey directory. Badger holds a directory lock, so
// any second handle on a path already open in another process, read-only or
// not, fails with errors.ErrStorageLocked.
func NewBadgerDB(c context.Context, cfg config.Storage, readOnly bool) (*badger.DB, error) {
	_, span := otel.Tracer.Start(c, "infra NewBadgerDB")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "infra NewBadgerDB").
		Str(log.KeyProcess, "opening badger").
		Str("path", cfg.Path).
		Bool("readOnly", readOnly).
		Logger()

	logger.Info().Msg("opening badger")
	opts := badger.DefaultOptions(cfg.Path).
		WithReadOnly(readOnly).
		WithLogger(badgerLogger{logger: logger.With().Str(log.KeyTag, "badger").Logger()})
	db, err := badger.Open(opts)
	if err != nil && strings.Contains(err.Error(), "Cannot acquire directory lock") {
		err = fmt.Errorf("failed opening badger at path=%s with error=%w: %s", cfg.Path, inErrors.ErrStorageLocked, err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if err != nil {
		err = fmt.Errorf("failed opening badger at path=%s with error=%w", cfg.Path, err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("opened badger")

	return db, nil
}
