package service

import (
	"golang.org/x/text/language"

	"github.com/Alturino/journey/cart/internal/conflict"
	"github.com/Alturino/journey/cart/internal/store"
	"github.com/Alturino/journey/cart/pkg/response"
)

func toResponse(snapshot store.Snapshot, tag language.Tag) response.Journey {
	return response.Journey{
		Items:       snapshot.Items,
		IsOpen:      snapshot.IsOpen,
		TotalItems:  snapshot.TotalItems,
		TotalGuests: snapshot.TotalGuests,
		TotalPrice:  snapshot.TotalPrice,
		Conflicts:   conflict.Detect(snapshot.Items, tag),
	}
}
