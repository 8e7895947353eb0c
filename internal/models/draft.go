package models

import (
	"fmt"
	"strconv"
	"strings"
)

// CardDraft is the editable state of one details screen.
// Numeric fields are kept as the text the user typed and are only parsed
// when the draft is committed. Setters return a modified copy; the receiver
// is never changed, so a screen can keep the previous draft for undo.
type CardDraft struct {
	ID          int64  `json:"id,omitempty"`
	Autographed bool   `json:"autographed"`
	Condition   string `json:"condition"`
	Brand       string `json:"brand"`
	Year        string `json:"year"`
	Number      string `json:"number"`
	Value       string `json:"value"`
	Quantity    string `json:"quantity"`
	PlayerName  string `json:"player_name"`
	Team        string `json:"team"`
	Position    string `json:"position"`
}

// DraftFieldError reports a draft field whose text could not be parsed
type DraftFieldError struct {
	Field string
	Value string
}

func (e *DraftFieldError) Error() string {
	return fmt.Sprintf("%s must be a whole number, got %q", e.Field, e.Value)
}

// NewDraft returns an empty draft for a card that does not exist yet
func NewDraft() CardDraft {
	return CardDraft{}
}

// DraftFromCard returns a draft pre-filled with an existing card
func DraftFromCard(c BaseballCard) CardDraft {
	return CardDraft{
		ID:          c.ID,
		Autographed: c.Autographed,
		Condition:   c.Condition,
		Brand:       c.Brand,
		Year:        formatInt(c.Year),
		Number:      c.Number,
		Value:       formatInt(c.Value),
		Quantity:    formatInt(c.Quantity),
		PlayerName:  c.PlayerName,
		Team:        c.Team,
		Position:    c.Position,
	}
}

// IsNew reports whether committing the draft creates a card
func (d CardDraft) IsNew() bool {
	return d.ID == 0
}

func (d CardDraft) WithAutographed(v bool) CardDraft {
	d.Autographed = v
	return d
}

func (d CardDraft) WithCondition(v string) CardDraft {
	d.Condition = v
	return d
}

func (d CardDraft) WithBrand(v string) CardDraft {
	d.Brand = v
	return d
}

func (d CardDraft) WithYear(v string) CardDraft {
	d.Year = v
	return d
}

func (d CardDraft) WithNumber(v string) CardDraft {
	d.Number = v
	return d
}

func (d CardDraft) WithValue(v string) CardDraft {
	d.Value = v
	return d
}

func (d CardDraft) WithQuantity(v string) CardDraft {
	d.Quantity = v
	return d
}

func (d CardDraft) WithPlayerName(v string) CardDraft {
	d.PlayerName = v
	return d
}

func (d CardDraft) WithTeam(v string) CardDraft {
	d.Team = v
	return d
}

func (d CardDraft) WithPosition(v string) CardDraft {
	d.Position = v
	return d
}

// Card parses the draft into a BaseballCard.
// Text fields are trimmed. Empty numeric fields become zero.
func (d CardDraft) Card() (BaseballCard, error) {
	year, err := parseDraftInt("year", d.Year)
	if err != nil {
		return BaseballCard{}, err
	}
	value, err := parseDraftInt("value", d.Value)
	if err != nil {
		return BaseballCard{}, err
	}
	quantity, err := parseDraftInt("quantity", d.Quantity)
	if err != nil {
		return BaseballCard{}, err
	}

	return BaseballCard{
		ID:          d.ID,
		Autographed: d.Autographed,
		Condition:   strings.TrimSpace(d.Condition),
		Brand:       strings.TrimSpace(d.Brand),
		Year:        year,
		Number:      strings.TrimSpace(d.Number),
		Value:       value,
		Quantity:    quantity,
		PlayerName:  strings.TrimSpace(d.PlayerName),
		Team:        strings.TrimSpace(d.Team),
		Position:    strings.TrimSpace(d.Position),
	}, nil
}

func parseDraftInt(field, text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, &DraftFieldError{Field: field, Value: text}
	}
	return n, nil
}

func formatInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
