package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// EventType identifies the kind of catalog change carried by an Event.
type EventType string

const (
	EventProduct           EventType = "product"
	EventOptionSetUpserted EventType = "option_set_upserted"
	EventOptionSetRemoved  EventType = "option_set_removed"
	EventSelectionUpserted EventType = "selection_upserted"
	EventSelectionRemoved  EventType = "selection_removed"
)

// ErrInvalidEvent is returned by Event.Validate.
var ErrInvalidEvent = errors.New("invalid event")

// Event represents an incoming catalog change for one product.
type Event struct {
	ProductID   string     `json:"product_id" validate:"required"`
	Type        EventType  `json:"type" validate:"required,oneof=product option_set_upserted option_set_removed selection_upserted selection_removed"`
	Name        string     `json:"name,omitempty"`
	BaseSKU     string     `json:"base_sku,omitempty"`
	OptionSet   *OptionSet `json:"option_set,omitempty" validate:"-"`
	OptionSetID string     `json:"option_set_id,omitempty"`
	Selection   *Selection `json:"selection,omitempty" validate:"-"`
	SelectionID string     `json:"selection_id,omitempty"`
	Sequence    uint64     `json:"-"`
}

// EnsureDefaults assigns generated IDs to option sets, options and
// selections that arrive without one, and links options to their set.
func (e *Event) EnsureDefaults() {
	if e.OptionSet != nil {
		if e.OptionSet.ID == "" {
			e.OptionSet.ID = uuid.NewString()
		}
		for i := range e.OptionSet.Options {
			o := &e.OptionSet.Options[i]
			if o.ID == "" {
				o.ID = uuid.NewString()
			}
			o.OptionSetID = e.OptionSet.ID
		}
	}
	if e.Selection != nil && e.Selection.ID == "" {
		e.Selection.ID = uuid.NewString()
	}
}

// Validate checks the envelope and the payload required by e.Type.
func (e *Event) Validate() error {
	if err := ValidateStruct(e); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	switch e.Type {
	case EventOptionSetUpserted:
		if e.OptionSet == nil {
			return fmt.Errorf("%w: option_set is required", ErrInvalidEvent)
		}
		if err := ValidateStruct(e.OptionSet); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
	case EventOptionSetRemoved:
		if e.OptionSetID == "" {
			return fmt.Errorf("%w: option_set_id is required", ErrInvalidEvent)
		}
	case EventSelectionUpserted:
		if e.Selection == nil {
			return fmt.Errorf("%w: selection is required", ErrInvalidEvent)
		}
		if err := ValidateStruct(e.Selection); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
	case EventSelectionRemoved:
		if e.SelectionID == "" {
			return fmt.Errorf("%w: selection_id is required", ErrInvalidEvent)
		}
	}
	return nil
}
