package state

import (
	"slices"

	"github.com/bbct/bbct/internal/models"
)

// CardListState holds the latest card snapshot, the row cursor, the
// marked rows and the filter the snapshot was queried with.
type CardListState struct {
	cards  []models.BaseballCard
	cursor int
	offset int
	marked map[int64]bool
	filter models.CardFilter
	seq    int64
}

// NewCardListState creates an empty list with no filter
func NewCardListState() *CardListState {
	return &CardListState{marked: make(map[int64]bool)}
}

// Cards returns the current snapshot
func (s *CardListState) Cards() []models.BaseballCard {
	return s.cards
}

// Len returns the number of cards in the snapshot
func (s *CardListState) Len() int {
	return len(s.cards)
}

// Seq returns the sequence number of the snapshot being shown
func (s *CardListState) Seq() int64 {
	return s.seq
}

// SetCards replaces the snapshot. The cursor stays on the same card when it
// still exists, otherwise it is clamped. Marks on vanished cards are dropped.
func (s *CardListState) SetCards(cards []models.BaseballCard, seq int64) {
	var selectedID int64
	if c, ok := s.Selected(); ok {
		selectedID = c.ID
	}

	s.cards = cards
	s.seq = seq

	present := make(map[int64]bool, len(cards))
	for i, c := range cards {
		present[c.ID] = true
		if c.ID == selectedID {
			s.cursor = i
		}
	}
	for id := range s.marked {
		if !present[id] {
			delete(s.marked, id)
		}
	}
	s.clamp()
}

// Cursor returns the index of the selected row
func (s *CardListState) Cursor() int {
	return s.cursor
}

// Selected returns the card under the cursor
func (s *CardListState) Selected() (models.BaseballCard, bool) {
	if s.cursor < 0 || s.cursor >= len(s.cards) {
		return models.BaseballCard{}, false
	}
	return s.cards[s.cursor], true
}

// MoveUp moves the cursor one row up. Returns false at the top.
func (s *CardListState) MoveUp() bool {
	if s.cursor == 0 {
		return false
	}
	s.cursor--
	s.clamp()
	return true
}

// MoveDown moves the cursor one row down. Returns false at the bottom.
func (s *CardListState) MoveDown() bool {
	if s.cursor >= len(s.cards)-1 {
		return false
	}
	s.cursor++
	return true
}

// GotoTop selects the first row
func (s *CardListState) GotoTop() {
	s.cursor = 0
	s.offset = 0
}

// GotoBottom selects the last row
func (s *CardListState) GotoBottom() {
	s.cursor = max(len(s.cards)-1, 0)
}

// Window returns the visible slice of rows for a viewport of height rows,
// scrolling just enough to keep the cursor visible. The returned start is
// the index of the first visible card.
func (s *CardListState) Window(height int) (start int, cards []models.BaseballCard) {
	if height <= 0 || len(s.cards) == 0 {
		return 0, nil
	}
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+height {
		s.offset = s.cursor - height + 1
	}
	s.offset = min(s.offset, max(len(s.cards)-height, 0))
	end := min(s.offset+height, len(s.cards))
	return s.offset, s.cards[s.offset:end]
}

// ToggleMark marks or unmarks the selected card
func (s *CardListState) ToggleMark() {
	c, ok := s.Selected()
	if !ok {
		return
	}
	if s.marked[c.ID] {
		delete(s.marked, c.ID)
	} else {
		s.marked[c.ID] = true
	}
}

// IsMarked reports whether the card is marked
func (s *CardListState) IsMarked(id int64) bool {
	return s.marked[id]
}

// MarkedCount returns the number of marked cards
func (s *CardListState) MarkedCount() int {
	return len(s.marked)
}

// ClearMarks unmarks every card
func (s *CardListState) ClearMarks() {
	clear(s.marked)
}

// DeleteTargets returns the marked IDs in ascending order, or the selected
// card when nothing is marked
func (s *CardListState) DeleteTargets() []int64 {
	if len(s.marked) == 0 {
		if c, ok := s.Selected(); ok {
			return []int64{c.ID}
		}
		return nil
	}
	ids := make([]int64, 0, len(s.marked))
	for id := range s.marked {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Filter returns the active filter
func (s *CardListState) Filter() models.CardFilter {
	return s.filter
}

// SetFilter replaces the active filter and resets the cursor
func (s *CardListState) SetFilter(f models.CardFilter) {
	s.filter = f
	s.cursor = 0
	s.offset = 0
}

func (s *CardListState) clamp() {
	if s.cursor >= len(s.cards) {
		s.cursor = len(s.cards) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}
