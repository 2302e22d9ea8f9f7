package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Alturino/journey/cart/internal/service"
	"github.com/Alturino/journey/cart/pkg/request"
	"github.com/Alturino/journey/cart/pkg/response"
	"github.com/Alturino/journey/internal/config"
	"github.com/Alturino/journey/internal/constants"
	inErrors "github.com/Alturino/journey/internal/errors"
	"github.com/Alturino/journey/internal/i18n"
	"github.com/Alturino/journey/internal/log"
)

// RunInspect prints the journey stored for sessionID, or every known session
// id when sessionID is empty.
func RunInspect(c context.Context, cfg *config.Config, out io.Writer, sessionID string, locale string) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppJourneyInspect).
		Str(log.KeyTag, "main RunInspect").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing storage").Logger()
	logger.Debug().Msg("initializing storage")
	kv, err := openStorage(logger.WithContext(c), cfg, true)
	if errors.Is(err, inErrors.ErrStorageLocked) {
		err = fmt.Errorf("%w, stop the journey service or use storage.driver=redis to inspect a running one", err)
	}
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer kv.Close()
	logger.Debug().Msg("initialized storage")

	svc, err := service.NewJourneyService(kv, cfg.Handoff, prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("failed initializing journey service with error=%w", err)
	}
	c = logger.WithContext(c)

	if sessionID == "" {
		sessions, err := svc.Sessions(c)
		if err != nil {
			return err
		}
		for _, id := range sessions {
			fmt.Fprintln(out, id)
		}
		return nil
	}

	if locale == "" {
		locale = cfg.Handoff.DefaultLocale
	}
	journey, err := svc.Journey(c, request.Session{ID: sessionID, Locale: i18n.Parse(locale)})
	if err != nil {
		return err
	}
	return printJourney(out, journey, cfg.Handoff.Currency)
}

func printJourney(out io.Writer, journey response.Journey, currency string) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTYPE\tID\tTITLE\tDATE\tGUESTS\tPRICE")
	for i, item := range journey.Items {
		date := item.Date
		if date == "" {
			date = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n", i+1, item.Type, item.ID, item.Title, date, item.GuestCount(), item.Price)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nitems=%d guests=%d total=%s%s\n",
		journey.TotalItems, journey.TotalGuests, currency, journey.TotalPrice.StringFixed(2))
	for _, conflict := range journey.Conflicts {
		fmt.Fprintf(out, "⚠ %s\n", conflict.Message)
	}
	return nil
}
