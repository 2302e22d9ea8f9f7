// Package handoff flattens a journey and its contact form into the text
// message and wa.me link the traveller sends to the agency.
package handoff

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/Alturino/journey/cart/internal/conflict"
	"github.com/Alturino/journey/cart/internal/price"
	"github.com/Alturino/journey/cart/pkg/model"
	inErrors "github.com/Alturino/journey/internal/errors"
	"github.com/Alturino/journey/internal/i18n"
)

const baseURL = "https://wa.me/"

var typeLabels = map[model.ItemType]string{
	model.TypeTour:       i18n.MsgTypeTour,
	model.TypeExperience: i18n.MsgTypeExperience,
	model.TypeActivity:   i18n.MsgTypeActivity,
	model.TypeService:    i18n.MsgTypeService,
}

// BuildMessage renders the hand-off text. currency prefixes the estimated
// total; a total of zero is shown as on request.
func BuildMessage(tag language.Tag, contact Contact, items []model.CartItem, currency string) string {
	p := i18n.NewPrinter(tag)
	var b strings.Builder
	line := func(indent string, key string, args ...interface{}) {
		b.WriteString(indent + "• " + p.Sprintf(key, args...) + "\n")
	}
	heading := func(format string, args ...interface{}) {
		b.WriteString("\n*" + p.Sprintf(format, args...) + "*\n")
	}

	b.WriteString("*" + p.Sprintf(i18n.MsgHandoffTitle) + "*\n")

	heading(i18n.MsgTraveler)
	line("", i18n.MsgName, contact.Name)
	line("", i18n.MsgEmail, contact.Email)
	if contact.Phone != "" {
		line("", i18n.MsgPhone, contact.Phone)
	}
	line("", i18n.MsgTravelDate, i18n.FormatDate(tag, contact.TravelDate))
	if contact.Travelers > 0 {
		line("", i18n.MsgTravelers, contact.Travelers)
	}

	heading(i18n.MsgJourney, len(items))
	for i, item := range items {
		b.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, item.Title, p.Sprintf(typeLabels[item.Type])))
		if item.Date != "" {
			line("   ", i18n.MsgItemDate, i18n.FormatDate(tag, item.Date))
		} else {
			line("   ", i18n.MsgDateToConfirm)
		}
		line("   ", i18n.MsgGuests, item.GuestCount())
		if item.Price != "" {
			line("   ", i18n.MsgPrice, item.Price)
		} else {
			line("   ", i18n.MsgPriceOnRequest)
		}
	}

	total := price.Total(items)
	if total.IsZero() {
		heading(i18n.MsgEstimatedTotal, p.Sprintf(i18n.MsgPriceOnRequest))
	} else {
		heading(i18n.MsgEstimatedTotal, currency+total.StringFixed(2))
	}

	if conflicts := conflict.Detect(items, tag); len(conflicts) > 0 {
		heading(i18n.MsgSchedulingWarning)
		for _, c := range conflicts {
			b.WriteString("⚠ " + c.Message + "\n")
		}
	}

	if notes := strings.TrimSpace(contact.Notes); notes != "" {
		heading(i18n.MsgNotes)
		b.WriteString(notes + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// Link builds the wa.me deep link. Everything but digits is dropped from
// number so "+212 600-000000" and "212600000000" give the same link.
func Link(number string, message string) (string, error) {
	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return "", inErrors.ErrMissingRecipient
	}
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return baseURL + digits.String() + "?text=" + text, nil
}
