package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/journey/internal/config"
	"github.com/Alturino/journey/internal/infra"
	"github.com/Alturino/journey/internal/log"
	"github.com/Alturino/journey/internal/storage"
)

func openStorage(c context.Context, cfg *config.Config, readOnly bool) (storage.KeyValue, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "cmd openStorage").
		Str(log.KeyStorageDriver, cfg.Storage.Driver).
		Logger()
	c = logger.WithContext(c)

	switch cfg.Storage.Driver {
	case config.StorageRedis:
		client, err := infra.NewCacheClient(c, cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed initializing redis storage with error=%w", err)
		}
		return storage.NewRedis(client, storage.DefaultTTL), nil
	case config.StorageBadger:
		db, err := infra.NewBadgerDB(c, cfg.Storage, readOnly)
		if err != nil {
			return nil, fmt.Errorf("failed initializing badger storage with error=%w", err)
		}
		return storage.NewBadger(db), nil
	}
	return nil, fmt.Errorf("unknown storage driver=%s", cfg.Storage.Driver)
}
