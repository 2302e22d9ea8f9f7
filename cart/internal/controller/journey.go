package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/Alturino/journey/cart/internal/handoff"
	"github.com/Alturino/journey/cart/internal/otel"
	"github.com/Alturino/journey/cart/internal/service"
	"github.com/Alturino/journey/cart/pkg/model"
	"github.com/Alturino/journey/cart/pkg/request"
	inErrors "github.com/Alturino/journey/internal/errors"
	inHttp "github.com/Alturino/journey/internal/http"
	"github.com/Alturino/journey/internal/i18n"
	"github.com/Alturino/journey/internal/log"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type JourneyController struct {
	service *service.JourneyService
	locale  language.Tag
}

// AttachJourneyController mounts the journey routes. The session middleware
// must run before any of them.
func AttachJourneyController(mux *mux.Router, service *service.JourneyService, locale language.Tag) {
	controller := JourneyController{service: service, locale: locale}

	router := mux.PathPrefix("/journey").Subrouter()
	router.HandleFunc("", controller.FindJourney).Methods(http.MethodGet)
	router.HandleFunc("", controller.ClearJourney).Methods(http.MethodDelete)
	router.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/items", controller.ReorderItems).Methods(http.MethodPut)
	router.HandleFunc("/items/{type}/{id}", controller.UpdateItem).Methods(http.MethodPatch)
	router.HandleFunc("/items/{type}/{id}", controller.RemoveItem).Methods(http.MethodDelete)
	router.HandleFunc("/drawer/{action}", controller.Drawer).Methods(http.MethodPost)
	router.HandleFunc("/conflicts", controller.FindConflicts).Methods(http.MethodGet)
	router.HandleFunc("/checkout", controller.Checkout).Methods(http.MethodPost)
}

func (t JourneyController) session(r *http.Request) request.Session {
	return request.Session{
		ID:     log.SessionIDFromContext(r.Context()),
		Locale: i18n.Match(r.Header.Get(inHttp.HeaderAcceptLang), t.locale),
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrInvalidContact),
		errors.Is(err, inErrors.ErrInvalidItemType),
		errors.Is(err, inErrors.ErrDuplicateItem),
		errors.Is(err, inErrors.ErrMissingSession):
		return http.StatusBadRequest
	case errors.Is(err, inErrors.ErrEmptyJourney):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func fail(w http.ResponseWriter, r *http.Request, span trace.Span, logger zerolog.Logger, statusCode int, err error) {
	inErrors.HandleError(err, span)
	logger.Error().Err(err).Msg(err.Error())

	var fieldErrs handoff.ValidationError
	if !errors.As(err, &fieldErrs) {
		inHttp.WriteFailedResponse(r.Context(), w, statusCode, err)
		return
	}
	inHttp.WriteJsonResponse(r.Context(), w, map[string]string{}, map[string]interface{}{
		"status":     inHttp.StatusFailed,
		"statusCode": statusCode,
		"message":    err.Error(),
		"data":       map[string]interface{}{"fields": fieldErrs.Fields},
	})
}

func succeed(w http.ResponseWriter, r *http.Request, statusCode int, message string, data map[string]interface{}) {
	inHttp.WriteJsonResponse(r.Context(), w, map[string]string{}, map[string]interface{}{
		"status":     inHttp.StatusSuccess,
		"statusCode": statusCode,
		"message":    message,
		"data":       data,
	})
}

func decodeAndValidate(r *http.Request, logger zerolog.Logger, body interface{}) error {
	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Debug().Msg("decoding request body")
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		return fmt.Errorf("failed decoding request body with error=%w", err)
	}
	logger.Debug().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Debug().Msg("validating request body")
	if err := validate.StructCtx(r.Context(), body); err != nil {
		return fmt.Errorf("failed validating request body with error=%w", err)
	}
	logger.Debug().Msg("validated request body")
	return nil
}

func itemKey(r *http.Request) (model.Key, error) {
	vars := mux.Vars(r)
	itemType, err := model.ParseItemType(vars["type"])
	if err != nil {
		return model.Key{}, err
	}
	return model.Key{ID: vars["id"], Type: itemType}, nil
}

func (t JourneyController) FindJourney(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "JourneyController FindJourney")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "JourneyController FindJourney").Logger()

	logger = logger.With().Str(log.KeyProcess, "finding journey").Logger()
	logger.Info().Msg("finding journey")
	journey, err := t.service.Journey(c, t.session(r))
	if err != nil {
		fail(w, r, span, logger, statusOf(err), fmt.Errorf("failed finding journey with error=%w", err))
		return
	}
	logger.Info().Msg("found journey")

	succeed(w, r, http.StatusOK, "successfully found journey", map[string]interface{}{"journey": journey})
}

func (t JourneyController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "JourneyController AddItem")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "JourneyController AddItem").Logger()

	reqBody := model.NewItem{}
	if err := decodeAndValidate(r, logger, &reqBody); err != nil {
		fail(w, r, span, logger, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().
		Str(log.KeyProcess, "adding item").
		Str(log.KeyItemKey, model.Key{ID: reqBody.ID, Type: reqBody.Type}.String()).
		Logger()
	logger.Info().Msg("adding item")
	journey, added, err := t.service.AddItem(c, t.session(r), reqBody)
	if err != nil {
		fail(w, r, span, logger, statusOf(err), fmt.Errorf("failed adding item with error=%w", err))
		return
	}
	logger.Info().Bool("added", added).Msg("added item")

	statusCode, message := http.StatusCreated, "successfully added item"
	if !added {
		statusCode, message = http.StatusOK, "item already in journey"
	}
	succeed(w, r, statusCode, message, map[string]interface{}{"journey": journey, "changed": added})
}

func (t JourneyController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "JourneyController UpdateItem")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "JourneyController UpdateItem").Logger()

	key, err := itemKey(r)
	if err != nil {
		fail(w, r, span, logger, http.StatusBadRequest, fmt.Errorf("failed parsing item key with error=%w", err))
		return
	}
	logger = logger.With().Str(log.KeyItemKey, key.String()).Logger()

	reqBody := model.ItemPatch{}
	if err := decodeAndValidate(r, logger, &reqBody); err != nil {
		fail(w, r, span, logger, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "updating item").Logger()
	logger.Info().Msg("updating item")
	journey, updated, err := t.service.UpdateItem(c, t.session(r), key, reqBody)
	if err != nil {
		fail(w, r, span, logger, statusOf(err), fmt.Errorf("failed updating item with error=%w", err))
		return
	}
	logger.Info().Bool("updated", updated).Msg("updated item")

	succeed(w, r, http.StatusOK, "successfully updated item", map[string]interface{}{"journey": journey, "changed": updated})
}

func (t JourneyController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "JourneyController RemoveItem")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "JourneyController RemoveItem").Logger()

	key, err := itemKey(r)
	if err != nil {
		fail(w, r, span, logger, http.StatusBadRequest, fmt.Errorf("failed parsing item key with error=%w", err))
		return
	}

	logger = logger.With().Str(log.KeyProcess, "removing item").Str(log.KeyItemKey, key.String()).Logger()
	logger.Info().Msg("removing item")
	journey, removed, err := t.service.RemoveItem(c, t.session(r), key)
	if err != nil {
		fail(w, r, span, logger, statusOf(err), fmt.Errorf("failed removing item with error=%w", err))
		return
	}
	logger.Info().Bool("removed", removed).Msg("removed item")

	succeed(w, r, http.StatusOK, "successfully removed item", map[string]interface{}{"journey": journey, "changed": removed})
}

func (t JourneyController) ReorderItems(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "JourneyController ReorderItems")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "JourneyController ReorderItems").Logger()

	reqBody := request.ReorderItems{}
	if err := decodeAndValidate(r, logger, &reqBody); err != nil {
		fail(w, r, span, logger, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "reordering items").Logger()
	logger.Info().Msg("reordering items")
	journey, err := t.service.ReorderItems(c, t.session(r), reqBody)
	if err != nil {
		fail(w, r, span, logger, statusOf(err), fmt.Errorf("failed reordering items with error=%w", err))
		return
	}
	logger.Info().Msg("reordered items")

	succeed(w, r, http.StatusOK, "successfully reordered items", map[string]interface{}{"journey": journey})
}

func (t JourneyController) ClearJourney(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "JourneyController ClearJourney")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "JourneyController ClearJourney").
		Str(log.KeyProcess, "clearing journey").
		Logger()
	logger.Info().Msg("clearing journey")
	journey, err := t.service.ClearJourney(c, t.session(r))
	if err != nil {
		fail(w, r, span, logger, statusOf(err), fmt.Errorf("failed clearing journey with error=%w", err))
		return
	}
	logger.Info().Msg("cleared journey")

	succeed(w, r, http.StatusOK, "successfully cleared journey", map[string]interface{}{"journey": journey})
}

func (t JourneyController) Drawer(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "JourneyController Drawer")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "JourneyController Drawer").Logger()

	param := request.Drawer{Action: mux.Vars(r)["action"]}
	logger = logger.With().Str(log.KeyDrawerAction, param.Action).Logger()
	if err := validate.StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating drawer action with error=%w", err)
		fail(w, r, span, logger, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "moving drawer").Logger()
	logger.Debug().Msg("moving drawer")
	journey, err := t.service.Drawer(c, t.session(r), param)
	if err != nil {
		fail(w, r, span, logger, statusOf(err), fmt.Errorf("failed moving drawer with error=%w", err))
		return
	}
	logger.Debug().Msg("moved drawer")

	succeed(w, r, http.StatusOK, "successfully moved drawer", map[string]interface{}{"journey": journey})
}

func (t JourneyController) FindConflicts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "JourneyController FindConflicts")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "JourneyController FindConflicts").
		Str(log.KeyProcess, "finding conflicts").
		Logger()
	logger.Info().Msg("finding conflicts")
	conflicts, err := t.service.Conflicts(c, t.session(r))
	if err != nil {
		fail(w, r, span, logger, statusOf(err), fmt.Errorf("failed finding conflicts with error=%w", err))
		return
	}
	logger.Info().Int(log.KeyConflicts, len(conflicts)).Msg("found conflicts")

	succeed(w, r, http.StatusOK, "successfully found conflicts", map[string]interface{}{"conflicts": conflicts})
}

func (t JourneyController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "JourneyController Checkout")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "JourneyController Checkout").Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Debug().Msg("decoding request body")
	reqBody := handoff.Contact{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		fail(w, r, span, logger, http.StatusBadRequest, err)
		return
	}
	logger.Debug().Msg("decoded request body")

	session := t.session(r)
	if reqBody.Locale != "" {
		session.Locale = i18n.Match(reqBody.Locale, session.Locale)
	}

	logger = logger.With().
		Str(log.KeyProcess, "checking out journey").
		Str(log.KeyLocale, session.Locale.String()).
		Logger()
	logger.Info().Msg("checking out journey")
	checkout, err := t.service.Checkout(c, session, reqBody)
	if err != nil {
		fail(w, r, span, logger, statusOf(err), fmt.Errorf("failed checking out journey with error=%w", err))
		return
	}
	logger.Info().Msg("checked out journey")

	succeed(w, r, http.StatusOK, "successfully checked out journey", map[string]interface{}{
		"link":    checkout.Link,
		"message": checkout.Message,
		"journey": checkout.Journey,
	})
}
