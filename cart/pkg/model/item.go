package model

import (
	"fmt"

	inErrors "github.com/Alturino/journey/internal/errors"
)

type ItemType string

const (
	TypeTour       ItemType = "tour"
	TypeExperience ItemType = "experience"
	TypeActivity   ItemType = "activity"
	TypeService    ItemType = "service"
)

func ParseItemType(s string) (ItemType, error) {
	switch t := ItemType(s); t {
	case TypeTour, TypeExperience, TypeActivity, TypeService:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", inErrors.ErrInvalidItemType, s)
}

// Key identifies an entry in a journey. A catalog id may appear once per type.
type Key struct {
	ID   string   `json:"id"`
	Type ItemType `json:"type"`
}

func (k Key) String() string {
	return string(k.Type) + "/" + k.ID
}

// CartItem is one bookable unit. Guests is left nil until the traveller picks
// a number; GuestCount supplies the default of 1.
type CartItem struct {
	ID     string   `json:"id"               validate:"required"`
	Type   ItemType `json:"type"             validate:"required,oneof=tour experience activity service"`
	Title  string   `json:"title"`
	Image  string   `json:"image,omitempty"`
	Price  string   `json:"price,omitempty"`
	Date   string   `json:"date,omitempty"   validate:"omitempty,datetime=2006-01-02"`
	Guests *int     `json:"guests,omitempty" validate:"omitempty,gte=1"`
}

func (i CartItem) Key() Key {
	return Key{ID: i.ID, Type: i.Type}
}

func (i CartItem) GuestCount() int {
	if i.Guests == nil {
		return 1
	}
	return *i.Guests
}

// Clone copies the item so callers never share the Guests pointer.
func (i CartItem) Clone() CartItem {
	if i.Guests != nil {
		g := *i.Guests
		i.Guests = &g
	}
	return i
}

// NewItem is what a catalog page hands over when a traveller adds something.
type NewItem struct {
	ID     string   `json:"id"               validate:"required"`
	Type   ItemType `json:"type"             validate:"required,oneof=tour experience activity service"`
	Title  string   `json:"title"            validate:"required"`
	Image  string   `json:"image,omitempty"`
	Price  string   `json:"price,omitempty"`
	Guests *int     `json:"guests,omitempty" validate:"omitempty,gte=1"`
}

func (n NewItem) Item() CartItem {
	return CartItem{
		ID:     n.ID,
		Type:   n.Type,
		Title:  n.Title,
		Image:  n.Image,
		Price:  n.Price,
		Guests: n.Guests,
	}.Clone()
}

// ItemPatch is a shallow update. Nil fields are left alone and the item key
// cannot be patched.
type ItemPatch struct {
	Title  *string `json:"title,omitempty"`
	Image  *string `json:"image,omitempty"`
	Price  *string `json:"price,omitempty"`
	Date   *string `json:"date,omitempty"   validate:"omitempty,datetime=2006-01-02"`
	Guests *int    `json:"guests,omitempty" validate:"omitempty,gte=1"`
}

func (p ItemPatch) Apply(item CartItem) CartItem {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Image != nil {
		item.Image = *p.Image
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Date != nil {
		item.Date = *p.Date
	}
	if p.Guests != nil {
		g := *p.Guests
		item.Guests = &g
	}
	return item
}

func (p ItemPatch) IsEmpty() bool {
	return p.Title == nil && p.Image == nil && p.Price == nil && p.Date == nil && p.Guests == nil
}

const SeverityWarning = "warning"

// Conflict flags a date that holds more than one item.
type Conflict struct {
	ItemKeys []Key  `json:"itemKeys"`
	Date     string `json:"date"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}
