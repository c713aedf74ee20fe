// Package edit holds the per-record edit flow of the transaction list.
//
// The controller is always in exactly one State: Viewing, Editing or
// Saving. Only one record can be edited at a time, and a record is never
// sent to the store until its form passes validation.
package edit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fluxo/internal/money"
	"github.com/MrJamesThe3rd/fluxo/internal/period"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

var (
	ErrBusy       = errors.New("a save is already in progress")
	ErrNotEditing = errors.New("no record is being edited")
	// ErrSaveFailed is what the user sees when the store rejects an update.
	ErrSaveFailed = errors.New("could not save the transaction, try again")
)

type Updater interface {
	Update(ctx context.Context, ownerID, id uuid.UUID, patch transaction.Patch) error
}

// Form holds the raw values of the edit fields.
type Form struct {
	Type     transaction.Type
	Amount   string
	Category string
	Note     string
	DayKey   string
}

// FieldErrors maps a form field to its validation error.
type FieldErrors map[string]error

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}

	sort.Strings(fields)

	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f + ": " + fe[f].Error()
	}

	return strings.Join(msgs, "; ")
}

type State interface {
	isState()
}

type Viewing struct{}

type Editing struct {
	ID     uuid.UUID
	Form   Form
	Errors FieldErrors
	// Failure is set when the last save attempt failed remotely.
	Failure error
}

type Saving struct {
	ID   uuid.UUID
	Form Form
}

func (Viewing) isState() {}
func (Editing) isState() {}
func (Saving) isState()  {}

type Controller struct {
	store   Updater
	ownerID uuid.UUID
	state   State
}

func NewController(store Updater, ownerID uuid.UUID) *Controller {
	return &Controller{store: store, ownerID: ownerID, state: Viewing{}}
}

func (c *Controller) State() State {
	return c.state
}

// Editing returns the record id whose form is open, if any.
func (c *Controller) Editing() (uuid.UUID, bool) {
	switch s := c.state.(type) {
	case Editing:
		return s.ID, true
	case Saving:
		return s.ID, true
	}

	return uuid.Nil, false
}

// Begin opens the form for tx, pre-filled with its values. Missing values
// default to the "otros" category and the first day of month.
func (c *Controller) Begin(tx *transaction.Transaction, month string) error {
	if _, ok := c.state.(Saving); ok {
		return ErrBusy
	}

	form := Form{
		Type:     tx.Type,
		Amount:   money.Major(tx.Amount),
		Category: tx.Category,
		Note:     tx.Note,
		DayKey:   tx.DayKey,
	}

	if form.Type == "" {
		form.Type = transaction.TypeExpense
	}

	if form.Category == "" {
		form.Category = transaction.DefaultCategory
	}

	if form.DayKey == "" {
		form.DayKey = month + "-01"
	}

	c.state = Editing{ID: tx.ID, Form: form}

	return nil
}

// SetForm replaces the form values of the open record.
func (c *Controller) SetForm(form Form) error {
	s, ok := c.state.(Editing)
	if !ok {
		return ErrNotEditing
	}

	s.Form = form
	c.state = s

	return nil
}

// Cancel discards the open form. It has no effect while saving.
func (c *Controller) Cancel() {
	if _, ok := c.state.(Editing); ok {
		c.state = Viewing{}
	}
}

// Submit validates the open form. On success the controller moves to Saving
// and returns the patch to send; on failure it stays in Editing with the
// field errors set.
func (c *Controller) Submit() (uuid.UUID, transaction.Patch, error) {
	s, ok := c.state.(Editing)
	if !ok {
		if _, saving := c.state.(Saving); saving {
			return uuid.Nil, transaction.Patch{}, ErrBusy
		}

		return uuid.Nil, transaction.Patch{}, ErrNotEditing
	}

	patch, errs := s.Form.patch()
	if len(errs) > 0 {
		s.Errors = errs
		s.Failure = nil
		c.state = s

		return uuid.Nil, transaction.Patch{}, errs
	}

	c.state = Saving{ID: s.ID, Form: s.Form}

	return s.ID, patch, nil
}

// Complete records the outcome of the store call started by Submit. It
// reports whether the list must be reloaded.
func (c *Controller) Complete(err error) bool {
	s, ok := c.state.(Saving)
	if !ok {
		return false
	}

	if err != nil {
		c.state = Editing{ID: s.ID, Form: s.Form, Failure: ErrSaveFailed}
		return false
	}

	c.state = Viewing{}

	return true
}

// Save runs Submit, the store update and Complete in one call.
func (c *Controller) Save(ctx context.Context) (bool, error) {
	id, patch, err := c.Submit()
	if err != nil {
		return false, err
	}

	updateErr := c.store.Update(ctx, c.ownerID, id, patch)
	if !c.Complete(updateErr) {
		return false, fmt.Errorf("%w: %w", ErrSaveFailed, updateErr)
	}

	return true, nil
}

func (f Form) patch() (transaction.Patch, FieldErrors) {
	errs := FieldErrors{}

	if !f.Type.Valid() {
		errs["type"] = transaction.ErrInvalidType
	}

	cents, err := money.ParsePositiveCents(f.Amount)
	if err != nil {
		errs["amount"] = err
	}

	dayKey := strings.TrimSpace(f.DayKey)
	if !period.ValidDayKey(dayKey) {
		errs["day_key"] = period.ErrInvalidDayKey
	}

	if len(errs) > 0 {
		return transaction.Patch{}, errs
	}

	category := strings.TrimSpace(f.Category)
	if category == "" {
		category = transaction.DefaultCategory
	}

	return transaction.Patch{
		Type:     &f.Type,
		Amount:   &cents,
		Category: &category,
		Note:     new(strings.TrimSpace(f.Note)),
		DayKey:   &dayKey,
	}, nil
}
