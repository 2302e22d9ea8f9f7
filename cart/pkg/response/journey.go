package response

import (
	"github.com/shopspring/decimal"

	"github.com/Alturino/journey/cart/pkg/model"
)

type Journey struct {
	Items       []model.CartItem `json:"items"`
	IsOpen      bool             `json:"isOpen"`
	TotalItems  int              `json:"totalItems"`
	TotalGuests int              `json:"totalGuests"`
	TotalPrice  decimal.Decimal  `json:"totalPrice"`
	Conflicts   []model.Conflict `json:"conflicts"`
}

type Checkout struct {
	Link    string  `json:"link"`
	Message string  `json:"message"`
	Journey Journey `json:"journey"`
}
