package errors

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrEmptyJourney     = errors.New("journey has no items")
	ErrInvalidItemType  = errors.New("invalid item type")
	ErrInvalidContact   = errors.New("invalid contact details")
	ErrMissingSession   = errors.New("missing journey session")
	ErrMissingRecipient = errors.New("missing whatsapp number")
	ErrKeyNotFound      = errors.New("key not found")
	ErrDuplicateItem    = errors.New("duplicate journey item")
	ErrStorageLocked    = errors.New("storage is locked by another process")
)

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
