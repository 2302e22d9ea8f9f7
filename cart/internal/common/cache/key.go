package cache

import (
	"fmt"
	"strings"
)

const (
	PrefixJourney   = "journey:"
	KeyJourneyItems = PrefixJourney + "%s:items"
)

func JourneyItemsKey(sessionID string) string {
	return fmt.Sprintf(KeyJourneyItems, sessionID)
}

// SessionFromKey reverses JourneyItemsKey. ok is false for foreign keys.
func SessionFromKey(key string) (sessionID string, ok bool) {
	rest, found := strings.CutPrefix(key, PrefixJourney)
	if !found {
		return "", false
	}
	sessionID, found = strings.CutSuffix(rest, ":items")
	if !found || sessionID == "" {
		return "", false
	}
	return sessionID, true
}
