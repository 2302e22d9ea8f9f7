package handoff

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/journey/cart/pkg/model"
	inErrors "github.com/Alturino/journey/internal/errors"
	"github.com/Alturino/journey/internal/i18n"
)

func intPtr(i int) *int { return &i }

func sampleItems() []model.CartItem {
	return []model.CartItem{
		{ID: "a", Type: model.TypeTour, Title: "Merzouga Desert", Price: "€100", Guests: intPtr(2), Date: "2025-05-01"},
		{ID: "b", Type: model.TypeExperience, Title: "Hammam", Price: "Contact for price", Date: "2025-05-01"},
		{ID: "c", Type: model.TypeService, Title: "Airport transfer"},
	}
}

func sampleContact() Contact {
	return Contact{
		Name:       "Amina",
		Email:      "amina@example.com",
		Phone:      "+33 6 00",
		TravelDate: "2025-05-01",
		Travelers:  2,
		Notes:      "  Vegetarian meals please ",
	}
}

func TestBuildMessage(t *testing.T) {
	expected := `*New journey request*

*Traveler*
• Name: Amina
• Email: amina@example.com
• Phone: +33 6 00
• Travel date: May 1, 2025
• Travelers: 2

*Journey (3 items)*
1. Merzouga Desert (Tour)
   • Date: May 1, 2025
   • Guests: 2
   • Price: €100
2. Hammam (Experience)
   • Date: May 1, 2025
   • Guests: 1
   • Price: Contact for price
3. Airport transfer (Transport service)
   • Date to be confirmed
   • Guests: 1
   • Price on request

*Estimated total: €200.00*

*Scheduling warnings*
⚠ 2 experiences scheduled on May 1, 2025

*Notes*
Vegetarian meals please`

	assert.Equal(t, expected, BuildMessage(i18n.English, sampleContact(), sampleItems(), "€"))
}

func TestBuildMessageFrench(t *testing.T) {
	contact := sampleContact()
	contact.Phone = ""
	contact.Notes = ""
	items := sampleItems()[2:]

	msg := BuildMessage(i18n.French, contact, items, "€")

	assert.Contains(t, msg, "*Nouvelle demande de voyage*")
	assert.Contains(t, msg, "• Date du voyage : 1 mai 2025")
	assert.Contains(t, msg, "1. Airport transfer (Service de transport)")
	assert.Contains(t, msg, "   • Date à confirmer")
	assert.Contains(t, msg, "*Total estimé : Prix sur demande*")
	assert.NotContains(t, msg, "Téléphone")
	assert.NotContains(t, msg, "Remarques")
	assert.NotContains(t, msg, "Conflits de planning")
}

func TestLink(t *testing.T) {
	tests := []struct {
		name        string
		number      string
		message     string
		expectedURL string
		expectedErr error
	}{
		{
			name:        "given formatted number should keep digits only",
			number:      "+212 600-000000",
			message:     "Hi & welcome",
			expectedURL: "https://wa.me/212600000000?text=Hi%20%26%20welcome",
		},
		{
			name:        "given plus sign in text should escape it",
			number:      "212600000000",
			message:     "2+2",
			expectedURL: "https://wa.me/212600000000?text=2%2B2",
		},
		{
			name:        "given empty number should fail",
			number:      " - ",
			message:     "hi",
			expectedErr: inErrors.ErrMissingRecipient,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			link, err := Link(test.number, test.message)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedURL, link)
		})
	}
}

func TestLinkRoundTrip(t *testing.T) {
	msg := BuildMessage(i18n.English, sampleContact(), sampleItems(), "€")
	link, err := Link("+212600000000", msg)
	require.NoError(t, err)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", parsed.Host)
	assert.Equal(t, "/212600000000", parsed.Path)
	assert.Equal(t, msg, parsed.Query().Get("text"))
}

func TestContactValidate(t *testing.T) {
	tests := []struct {
		name     string
		contact  func() Contact
		expected map[string]string
	}{
		{name: "given complete form should pass", contact: sampleContact},
		{
			name: "given missing name email and date should list all three",
			contact: func() Contact {
				return Contact{}
			},
			expected: map[string]string{
				"name":       "is required",
				"email":      "is required",
				"travelDate": "is required",
			},
		},
		{
			name: "given malformed email and date should describe them",
			contact: func() Contact {
				c := sampleContact()
				c.Email = "amina"
				c.TravelDate = "01/05/2025"
				return c
			},
			expected: map[string]string{
				"email":      "must be a valid email address",
				"travelDate": "must be a date formatted as YYYY-MM-DD",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.contact().Validate(context.Background())
			if test.expected == nil {
				assert.NoError(t, err)
				return
			}
			var validationErr ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, test.expected, validationErr.Fields)
			assert.ErrorIs(t, err, inErrors.ErrInvalidContact)
		})
	}
}
