package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/Alturino/journey/cart/pkg/model"
	"github.com/Alturino/journey/internal/i18n"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		items    []model.CartItem
		tag      language.Tag
		expected []model.Conflict
	}{
		{
			name: "given two items on one date should report a single conflict",
			items: []model.CartItem{
				{ID: "a", Type: model.TypeTour, Date: "2025-05-01"},
				{ID: "b", Type: model.TypeExperience, Date: "2025-05-01"},
				{ID: "c", Type: model.TypeActivity, Date: "2025-05-02"},
			},
			tag: i18n.English,
			expected: []model.Conflict{
				{
					ItemKeys: []model.Key{
						{ID: "a", Type: model.TypeTour},
						{ID: "b", Type: model.TypeExperience},
					},
					Date:     "2025-05-01",
					Severity: model.SeverityWarning,
					Message:  "2 experiences scheduled on May 1, 2025",
				},
			},
		},
		{
			name: "given undated items should ignore them",
			items: []model.CartItem{
				{ID: "a", Type: model.TypeTour},
				{ID: "b", Type: model.TypeTour},
			},
			tag:      i18n.English,
			expected: []model.Conflict{},
		},
		{
			name: "given several conflicting dates should keep first seen order",
			items: []model.CartItem{
				{ID: "a", Type: model.TypeTour, Date: "2025-06-10"},
				{ID: "b", Type: model.TypeTour, Date: "2025-05-01"},
				{ID: "c", Type: model.TypeService, Date: "2025-05-01"},
				{ID: "d", Type: model.TypeActivity, Date: "2025-06-10"},
				{ID: "e", Type: model.TypeActivity, Date: "2025-06-10"},
			},
			tag: i18n.French,
			expected: []model.Conflict{
				{
					ItemKeys: []model.Key{
						{ID: "a", Type: model.TypeTour},
						{ID: "d", Type: model.TypeActivity},
						{ID: "e", Type: model.TypeActivity},
					},
					Date:     "2025-06-10",
					Severity: model.SeverityWarning,
					Message:  "3 expériences prévues le 10 juin 2025",
				},
				{
					ItemKeys: []model.Key{
						{ID: "b", Type: model.TypeTour},
						{ID: "c", Type: model.TypeService},
					},
					Date:     "2025-05-01",
					Severity: model.SeverityWarning,
					Message:  "2 expériences prévues le 1 mai 2025",
				},
			},
		},
		{
			name: "given same catalog id under two types on one date should report both keys",
			items: []model.CartItem{
				{ID: "x", Type: model.TypeTour, Date: "2025-07-14"},
				{ID: "x", Type: model.TypeService, Date: "2025-07-14"},
			},
			tag: i18n.English,
			expected: []model.Conflict{
				{
					ItemKeys: []model.Key{
						{ID: "x", Type: model.TypeTour},
						{ID: "x", Type: model.TypeService},
					},
					Date:     "2025-07-14",
					Severity: model.SeverityWarning,
					Message:  "2 experiences scheduled on July 14, 2025",
				},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Detect(test.items, test.tag))
		})
	}
}
