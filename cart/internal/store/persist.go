package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Alturino/journey/cart/pkg/model"
	inErrors "github.com/Alturino/journey/internal/errors"
	"github.com/Alturino/journey/internal/log"
	"github.com/Alturino/journey/internal/storage"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Encode renders items in the persisted layout: a bare JSON array.
func Encode(items []model.CartItem) ([]byte, error) {
	if items == nil {
		items = []model.CartItem{}
	}
	return json.Marshal(items)
}

// Decode parses the persisted layout and rejects it as a whole when any
// record breaks the item schema or repeats a key.
func Decode(raw []byte) ([]model.CartItem, error) {
	items := []model.CartItem{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed unmarshaling journey with error=%w", err)
	}
	if items == nil {
		return []model.CartItem{}, nil
	}

	seen := make(map[model.Key]struct{}, len(items))
	for i, item := range items {
		if err := validate.Struct(item); err != nil {
			return nil, fmt.Errorf("failed validating journey item=%d with error=%w", i, err)
		}
		if _, ok := seen[item.Key()]; ok {
			return nil, fmt.Errorf("duplicate journey item=%s", item.Key())
		}
		seen[item.Key()] = struct{}{}
	}
	return items, nil
}

// Load restores the journey stored under key. A missing key, an unreadable
// backend or a malformed value all give an empty journey.
func Load(c context.Context, key string, kv storage.KeyValue) *Store {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "store Load").
		Str(log.KeyCacheKey, key).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "reading journey").Logger()
	logger.Debug().Msg("reading journey")
	raw, err := kv.Get(c, key)
	if errors.Is(err, inErrors.ErrKeyNotFound) {
		logger.Debug().Msg("no stored journey, starting empty")
		return New(key, kv, nil)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("failed reading journey, starting empty")
		return New(key, kv, nil)
	}
	logger.Debug().Msg("read journey")

	logger = logger.With().Str(log.KeyProcess, "decoding journey").Logger()
	items, err := Decode(raw)
	if err != nil {
		logger.Warn().Err(err).Msg("discarding stored journey, starting empty")
		return New(key, kv, nil)
	}
	logger.Debug().Int(log.KeyItemsCount, len(items)).Msg("decoded journey")

	return New(key, kv, items)
}

// save writes the current items through. An empty journey removes the key,
// which Load reads back as empty. Failures are logged and swallowed.
func (s *Store) save(c context.Context) {
	logger := zerolog.Ctx(c).With().Str(log.KeyProcess, "saving journey").Logger()

	if len(s.items) == 0 {
		if err := s.kv.Delete(c, s.key); err != nil {
			err = fmt.Errorf("failed deleting journey with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Trace().Msg("deleted empty journey")
		return
	}

	raw, err := Encode(s.items)
	if err != nil {
		err = fmt.Errorf("failed encoding journey with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	if err := s.kv.Set(c, s.key, raw); err != nil {
		err = fmt.Errorf("failed saving journey with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Trace().Msg("saved journey")
}
