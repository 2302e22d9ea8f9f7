package request

import (
	"golang.org/x/text/language"

	"github.com/Alturino/journey/cart/pkg/model"
)

// Session scopes a call to one browser session and the locale it reads in.
type Session struct {
	ID     string       `validate:"required,uuid"`
	Locale language.Tag `validate:"-"`
}

type ReorderItems struct {
	Items []model.CartItem `json:"items" validate:"dive"`
}

const (
	DrawerToggle = "toggle"
	DrawerOpen   = "open"
	DrawerClose  = "close"
)

type Drawer struct {
	Action string `validate:"required,oneof=toggle open close"`
}
