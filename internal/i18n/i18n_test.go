package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected language.Tag
	}{
		{name: "given empty header should fall back", header: "", expected: English},
		{name: "given french browser should pick french", header: "fr-FR,fr;q=0.9,en;q=0.8", expected: French},
		{name: "given bare tag should pick it", header: "fr", expected: French},
		{name: "given unsupported locale should fall back", header: "ja-JP", expected: English},
		{name: "given garbage should fall back", header: ";;;", expected: English},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Match(test.header, English))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "May 1, 2025", FormatDate(English, "2025-05-01"))
	assert.Equal(t, "1 mai 2025", FormatDate(French, "2025-05-01"))
	assert.Equal(t, "someday", FormatDate(French, "someday"))
}

func TestPrinter(t *testing.T) {
	assert.Equal(t, "2 experiences scheduled on May 1, 2025",
		NewPrinter(English).Sprintf(MsgConflict, 2, FormatDate(English, "2025-05-01")))
	assert.Equal(t, "3 expériences prévues le 1 mai 2025",
		NewPrinter(French).Sprintf(MsgConflict, 3, FormatDate(French, "2025-05-01")))
}
