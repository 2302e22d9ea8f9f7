// Package conflict flags journey dates that hold more than one item.
package conflict

import (
	"golang.org/x/text/language"

	"github.com/Alturino/journey/cart/pkg/model"
	"github.com/Alturino/journey/internal/i18n"
)

// Detect groups dated items by date and reports every date shared by more
// than one item, in the order each date is first seen. It is advisory only
// and keeps no state between calls.
func Detect(items []model.CartItem, tag language.Tag) []model.Conflict {
	byDate := map[string][]model.Key{}
	order := []string{}
	for _, item := range items {
		if item.Date == "" {
			continue
		}
		if _, ok := byDate[item.Date]; !ok {
			order = append(order, item.Date)
		}
		byDate[item.Date] = append(byDate[item.Date], item.Key())
	}

	printer := i18n.NewPrinter(tag)
	conflicts := []model.Conflict{}
	for _, date := range order {
		keys := byDate[date]
		if len(keys) < 2 {
			continue
		}
		conflicts = append(conflicts, model.Conflict{
			ItemKeys: keys,
			Date:     date,
			Severity: model.SeverityWarning,
			Message:  printer.Sprintf(i18n.MsgConflict, len(keys), i18n.FormatDate(tag, date)),
		})
	}
	return conflicts
}
