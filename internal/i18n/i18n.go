// Package i18n carries the English and French strings the journey renders
// outside the site templates: conflict warnings and the hand-off message.
package i18n

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var (
	English = language.English
	French  = language.French

	supported = []language.Tag{English, French}
	matcher   = language.NewMatcher(supported)
	builder   = newBuilder()
)

const (
	MsgConflict          = "%d experiences scheduled on %s"
	MsgHandoffTitle      = "New journey request"
	MsgTraveler          = "Traveler"
	MsgName              = "Name: %s"
	MsgEmail             = "Email: %s"
	MsgPhone             = "Phone: %s"
	MsgTravelDate        = "Travel date: %s"
	MsgTravelers         = "Travelers: %d"
	MsgJourney           = "Journey (%d items)"
	MsgItemDate          = "Date: %s"
	MsgDateToConfirm     = "Date to be confirmed"
	MsgGuests            = "Guests: %d"
	MsgPrice             = "Price: %s"
	MsgPriceOnRequest    = "Price on request"
	MsgEstimatedTotal    = "Estimated total: %s"
	MsgSchedulingWarning = "Scheduling warnings"
	MsgNotes             = "Notes"
	MsgTypeTour          = "Tour"
	MsgTypeExperience    = "Experience"
	MsgTypeActivity      = "Activity"
	MsgTypeService       = "Transport service"
)

var french = map[string]string{
	MsgConflict:          "%d expériences prévues le %s",
	MsgHandoffTitle:      "Nouvelle demande de voyage",
	MsgTraveler:          "Voyageur",
	MsgName:              "Nom : %s",
	MsgEmail:             "E-mail : %s",
	MsgPhone:             "Téléphone : %s",
	MsgTravelDate:        "Date du voyage : %s",
	MsgTravelers:         "Voyageurs : %d",
	MsgJourney:           "Voyage (%d éléments)",
	MsgItemDate:          "Date : %s",
	MsgDateToConfirm:     "Date à confirmer",
	MsgGuests:            "Personnes : %d",
	MsgPrice:             "Prix : %s",
	MsgPriceOnRequest:    "Prix sur demande",
	MsgEstimatedTotal:    "Total estimé : %s",
	MsgSchedulingWarning: "Conflits de planning",
	MsgNotes:             "Remarques",
	MsgTypeTour:          "Circuit",
	MsgTypeExperience:    "Expérience",
	MsgTypeActivity:      "Activité",
	MsgTypeService:       "Service de transport",
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

func newBuilder() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(English))
	for key, fr := range french {
		if err := b.SetString(English, key, key); err != nil {
			panic(fmt.Sprintf("failed registering english message=%q with error=%s", key, err))
		}
		if err := b.SetString(French, key, fr); err != nil {
			panic(fmt.Sprintf("failed registering french message=%q with error=%s", key, err))
		}
	}
	return b
}

// Match picks a supported locale from an Accept-Language header or a bare
// tag such as "fr". Unknown or empty input yields fallback.
func Match(header string, fallback language.Tag) language.Tag {
	if header == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return supported[index]
}

// Parse resolves a configured locale name, falling back to English.
func Parse(name string) language.Tag {
	return Match(name, English)
}

func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(builder))
}

// FormatDate renders an ISO calendar date for humans. Input that is not a
// YYYY-MM-DD date is returned untouched.
func FormatDate(tag language.Tag, iso string) string {
	t, err := time.Parse(time.DateOnly, iso)
	if err != nil {
		return iso
	}
	if base, _ := tag.Base(); base.String() == "fr" {
		return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
	}
	return t.Format("January 2, 2006")
}
