package state

import (
	"github.com/charmbracelet/huh"

	"github.com/bbct/bbct/internal/models"
	"github.com/bbct/bbct/internal/tui/huhforms"
)

// FormState holds the open details or filter form.
// At most one of the two is non-nil at a time.
type FormState struct {
	// CardForm edits CardFields, which started out as Original
	CardForm   *huh.Form
	CardFields *huhforms.CardFields
	Original   models.CardDraft

	// Saving is set while a save of the draft is in flight
	Saving bool

	FilterForm   *huh.Form
	FilterFields *huhforms.FilterFields
}

// NewFormState creates a FormState with no open form
func NewFormState() *FormState {
	return &FormState{}
}

// OpenCard binds a details form to draft
func (s *FormState) OpenCard(form *huh.Form, fields *huhforms.CardFields, draft models.CardDraft) {
	s.CardForm = form
	s.CardFields = fields
	s.Original = draft
}

// Draft returns the draft as currently edited
func (s *FormState) Draft() models.CardDraft {
	if s.CardFields == nil {
		return s.Original
	}
	return s.CardFields.Draft(s.Original)
}

// HasCardChanges reports whether the draft differs from what was loaded
func (s *FormState) HasCardChanges() bool {
	return s.CardFields != nil && s.Draft() != s.Original
}

// ClearCard closes the details form
func (s *FormState) ClearCard() {
	s.CardForm = nil
	s.CardFields = nil
	s.Original = models.CardDraft{}
	s.Saving = false
}

// OpenFilter binds a filter form
func (s *FormState) OpenFilter(form *huh.Form, fields *huhforms.FilterFields) {
	s.FilterForm = form
	s.FilterFields = fields
}

// ClearFilter closes the filter form
func (s *FormState) ClearFilter() {
	s.FilterForm = nil
	s.FilterFields = nil
}
