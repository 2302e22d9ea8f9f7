package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/journey/cart/internal/common/cache"
	"github.com/Alturino/journey/cart/internal/conflict"
	"github.com/Alturino/journey/cart/internal/handoff"
	"github.com/Alturino/journey/cart/internal/otel"
	"github.com/Alturino/journey/cart/internal/store"
	"github.com/Alturino/journey/cart/pkg/model"
	"github.com/Alturino/journey/cart/pkg/request"
	"github.com/Alturino/journey/cart/pkg/response"
	"github.com/Alturino/journey/internal/config"
	inErrors "github.com/Alturino/journey/internal/errors"
	"github.com/Alturino/journey/internal/log"
	"github.com/Alturino/journey/internal/storage"
)

type loaded struct {
	store    *store.Store
	lastSeen time.Time
}

// JourneyService keeps one store per session, loaded from kv the first time
// the session is seen and dropped again by EvictIdle.
type JourneyService struct {
	kv      storage.KeyValue
	handoff config.Handoff
	metrics *metrics
	now     func() time.Time

	mu     sync.Mutex
	stores map[string]*loaded
}

func NewJourneyService(
	kv storage.KeyValue,
	cfg config.Handoff,
	registerer prometheus.Registerer,
) (*JourneyService, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &JourneyService{
		kv:      kv,
		handoff: cfg,
		metrics: m,
		now:     time.Now,
		stores:  map[string]*loaded{},
	}, nil
}

func (svc *JourneyService) store(c context.Context, session request.Session) (*store.Store, error) {
	if session.ID == "" {
		return nil, inErrors.ErrMissingSession
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if l, ok := svc.stores[session.ID]; ok {
		l.lastSeen = svc.now()
		return l.store, nil
	}

	s := store.Load(c, cache.JourneyItemsKey(session.ID), svc.kv)
	s.Subscribe(svc.metrics.record)
	svc.stores[session.ID] = &loaded{store: s, lastSeen: svc.now()}
	svc.metrics.sessions.Set(float64(len(svc.stores)))
	return s, nil
}

// EvictIdle drops sessions not used for idle from memory. Their items stay in
// kv and are loaded again on the next call; the drawer starts closed.
func (svc *JourneyService) EvictIdle(c context.Context, idle time.Duration) int {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "JourneyService EvictIdle").
		Str(log.KeyProcess, "evicting idle sessions").
		Logger()

	svc.mu.Lock()
	defer svc.mu.Unlock()
	cutoff := svc.now().Add(-idle)
	evicted := 0
	for id, l := range svc.stores {
		if l.lastSeen.Before(cutoff) {
			delete(svc.stores, id)
			evicted++
		}
	}
	svc.metrics.sessions.Set(float64(len(svc.stores)))
	if evicted > 0 {
		logger.Debug().Int("evicted", evicted).Int("remaining", len(svc.stores)).Msg("evicted idle sessions")
	}
	return evicted
}

func (svc *JourneyService) begin(
	c context.Context,
	session request.Session,
	name string,
) (context.Context, zerolog.Logger, func()) {
	c, span := otel.Tracer.Start(c, "JourneyService "+name)
	span.SetAttributes(
		attribute.String(log.KeySessionID, session.ID),
		attribute.String(log.KeyLocale, session.Locale.String()),
	)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "JourneyService "+name).
		Str(log.KeySessionID, session.ID).
		Logger()
	return logger.WithContext(c), logger, func() { span.End() }
}

func (svc *JourneyService) fail(c context.Context, logger zerolog.Logger, err error) error {
	inErrors.HandleError(err, trace.SpanFromContext(c))
	logger.Error().Err(err).Msg(err.Error())
	return err
}

func (svc *JourneyService) Journey(c context.Context, session request.Session) (response.Journey, error) {
	c, logger, end := svc.begin(c, session, "Journey")
	defer end()

	logger = logger.With().Str(log.KeyProcess, "loading journey").Logger()
	logger.Debug().Msg("loading journey")
	s, err := svc.store(c, session)
	if err != nil {
		return response.Journey{}, svc.fail(c, logger, fmt.Errorf("failed loading journey with error=%w", err))
	}
	journey := toResponse(s.Snapshot(), session.Locale)
	logger.Debug().Int(log.KeyItemsCount, journey.TotalItems).Msg("loaded journey")

	return journey, nil
}

// AddItem reports added=false when an item with the same key is already in
// the journey. The stored entry is then left untouched.
func (svc *JourneyService) AddItem(
	c context.Context,
	session request.Session,
	item model.NewItem,
) (journey response.Journey, added bool, err error) {
	c, logger, end := svc.begin(c, session, "AddItem")
	defer end()

	logger = logger.With().
		Str(log.KeyProcess, "adding item").
		Str(log.KeyItemKey, model.Key{ID: item.ID, Type: item.Type}.String()).
		Logger()
	logger.Info().Msg("adding item")
	s, err := svc.store(c, session)
	if err != nil {
		return response.Journey{}, false, svc.fail(c, logger, fmt.Errorf("failed adding item with error=%w", err))
	}
	added = s.AddItem(c, item)
	if added {
		logger.Info().Msg("added item")
	} else {
		logger.Info().Msg("item already in journey")
	}

	return toResponse(s.Snapshot(), session.Locale), added, nil
}

func (svc *JourneyService) UpdateItem(
	c context.Context,
	session request.Session,
	key model.Key,
	patch model.ItemPatch,
) (journey response.Journey, updated bool, err error) {
	c, logger, end := svc.begin(c, session, "UpdateItem")
	defer end()

	logger = logger.With().
		Str(log.KeyProcess, "updating item").
		Str(log.KeyItemKey, key.String()).
		Any(log.KeyPatch, patch).
		Logger()
	logger.Info().Msg("updating item")
	s, err := svc.store(c, session)
	if err != nil {
		return response.Journey{}, false, svc.fail(c, logger, fmt.Errorf("failed updating item with error=%w", err))
	}
	updated = s.UpdateItem(c, key, patch)
	logger.Info().Bool("updated", updated).Msg("updated item")

	return toResponse(s.Snapshot(), session.Locale), updated, nil
}

func (svc *JourneyService) RemoveItem(
	c context.Context,
	session request.Session,
	key model.Key,
) (journey response.Journey, removed bool, err error) {
	c, logger, end := svc.begin(c, session, "RemoveItem")
	defer end()

	logger = logger.With().
		Str(log.KeyProcess, "removing item").
		Str(log.KeyItemKey, key.String()).
		Logger()
	logger.Info().Msg("removing item")
	s, err := svc.store(c, session)
	if err != nil {
		return response.Journey{}, false, svc.fail(c, logger, fmt.Errorf("failed removing item with error=%w", err))
	}
	removed = s.RemoveItem(c, key)
	logger.Info().Bool("removed", removed).Msg("removed item")

	return toResponse(s.Snapshot(), session.Locale), removed, nil
}

func (svc *JourneyService) ReorderItems(
	c context.Context,
	session request.Session,
	param request.ReorderItems,
) (response.Journey, error) {
	c, logger, end := svc.begin(c, session, "ReorderItems")
	defer end()

	logger = logger.With().
		Str(log.KeyProcess, "reordering items").
		Int(log.KeyItemsCount, len(param.Items)).
		Logger()
	logger.Info().Msg("reordering items")
	seen := make(map[model.Key]struct{}, len(param.Items))
	for _, item := range param.Items {
		if _, ok := seen[item.Key()]; ok {
			err := fmt.Errorf("failed reordering items with error=%w: %s", inErrors.ErrDuplicateItem, item.Key())
			return response.Journey{}, svc.fail(c, logger, err)
		}
		seen[item.Key()] = struct{}{}
	}

	s, err := svc.store(c, session)
	if err != nil {
		return response.Journey{}, svc.fail(c, logger, fmt.Errorf("failed reordering items with error=%w", err))
	}
	s.ReorderItems(c, param.Items)
	logger.Info().Msg("reordered items")

	return toResponse(s.Snapshot(), session.Locale), nil
}

func (svc *JourneyService) ClearJourney(c context.Context, session request.Session) (response.Journey, error) {
	c, logger, end := svc.begin(c, session, "ClearJourney")
	defer end()

	logger = logger.With().Str(log.KeyProcess, "clearing journey").Logger()
	logger.Info().Msg("clearing journey")
	s, err := svc.store(c, session)
	if err != nil {
		return response.Journey{}, svc.fail(c, logger, fmt.Errorf("failed clearing journey with error=%w", err))
	}
	s.ClearCart(c)
	logger.Info().Msg("cleared journey")

	return toResponse(s.Snapshot(), session.Locale), nil
}

// Drawer opens, closes or toggles the drawer. Drawer state lives only as long
// as the process.
func (svc *JourneyService) Drawer(
	c context.Context,
	session request.Session,
	param request.Drawer,
) (response.Journey, error) {
	c, logger, end := svc.begin(c, session, "Drawer")
	defer end()

	logger = logger.With().
		Str(log.KeyProcess, "moving drawer").
		Str(log.KeyDrawerAction, param.Action).
		Logger()
	logger.Debug().Msg("moving drawer")
	s, err := svc.store(c, session)
	if err != nil {
		return response.Journey{}, svc.fail(c, logger, fmt.Errorf("failed moving drawer with error=%w", err))
	}
	switch param.Action {
	case request.DrawerOpen:
		s.OpenCart(c)
	case request.DrawerClose:
		s.CloseCart(c)
	case request.DrawerToggle:
		s.ToggleCart(c)
	default:
		err = fmt.Errorf("unknown drawer action=%s", param.Action)
		return response.Journey{}, svc.fail(c, logger, err)
	}
	logger.Debug().Bool("isOpen", s.IsOpen()).Msg("moved drawer")

	return toResponse(s.Snapshot(), session.Locale), nil
}

func (svc *JourneyService) Conflicts(c context.Context, session request.Session) ([]model.Conflict, error) {
	c, logger, end := svc.begin(c, session, "Conflicts")
	defer end()

	logger = logger.With().Str(log.KeyProcess, "detecting conflicts").Logger()
	logger.Debug().Msg("detecting conflicts")
	s, err := svc.store(c, session)
	if err != nil {
		return nil, svc.fail(c, logger, fmt.Errorf("failed detecting conflicts with error=%w", err))
	}
	conflicts := conflict.Detect(s.Items(), session.Locale)
	logger.Debug().Int(log.KeyConflicts, len(conflicts)).Msg("detected conflicts")

	return conflicts, nil
}

// Checkout validates the contact form, then builds the hand-off message and
// link and empties the journey in one step. Nothing is cleared when any step
// fails.
func (svc *JourneyService) Checkout(
	c context.Context,
	session request.Session,
	contact handoff.Contact,
) (response.Checkout, error) {
	c, logger, end := svc.begin(c, session, "Checkout")
	defer end()

	logger = logger.With().Str(log.KeyProcess, "validating contact").Logger()
	logger.Info().Msg("validating contact")
	if err := contact.Validate(c); err != nil {
		return response.Checkout{}, svc.fail(c, logger, fmt.Errorf("failed validating contact with error=%w", err))
	}
	logger.Info().Msg("validated contact")

	s, err := svc.store(c, session)
	if err != nil {
		return response.Checkout{}, svc.fail(c, logger, fmt.Errorf("failed loading journey with error=%w", err))
	}
	logger = logger.With().
		Str(log.KeyProcess, "handing off journey").
		Str(log.KeyCacheKey, s.Key()).
		Logger()
	logger.Info().Msg("handing off journey")
	checkout := response.Checkout{}
	_, err = s.Drain(c, func(snapshot store.Snapshot) error {
		if snapshot.TotalItems == 0 {
			return inErrors.ErrEmptyJourney
		}
		message := handoff.BuildMessage(session.Locale, contact, snapshot.Items, svc.handoff.Currency)
		link, err := handoff.Link(svc.handoff.WhatsappNumber, message)
		if err != nil {
			return fmt.Errorf("failed building handoff link with error=%w", err)
		}
		checkout = response.Checkout{
			Link:    link,
			Message: message,
			Journey: toResponse(snapshot, session.Locale),
		}
		return nil
	})
	if err != nil {
		return response.Checkout{}, svc.fail(c, logger, err)
	}
	svc.metrics.handoffs.WithLabelValues(session.Locale.String()).Inc()
	logger.Info().Int("messageLength", len(checkout.Message)).Msg("handed off journey")

	return checkout, nil
}

// Sessions lists the session ids that have a journey in kv.
func (svc *JourneyService) Sessions(c context.Context) ([]string, error) {
	c, span := otel.Tracer.Start(c, "JourneyService Sessions")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "JourneyService Sessions").
		Str(log.KeyProcess, "listing sessions").
		Logger()
	logger.Debug().Msg("listing sessions")
	keys, err := svc.kv.Keys(c, cache.PrefixJourney)
	if err != nil {
		err = fmt.Errorf("failed listing sessions with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	sessions := make([]string, 0, len(keys))
	for _, key := range keys {
		if id, ok := cache.SessionFromKey(key); ok {
			sessions = append(sessions, id)
		}
	}
	sort.Strings(sessions)
	logger.Debug().Int("sessions", len(sessions)).Msg("listed sessions")

	return sessions, nil
}
