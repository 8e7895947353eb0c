package huhforms

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/bbct/bbct/internal/models"
)

// noneLabel is shown for an empty condition or position
const noneLabel = "(none)"

// CardFields are the values a details form edits in place.
// Numbers stay as typed text until the draft is committed.
type CardFields struct {
	Autographed bool
	Condition   string
	Brand       string
	Year        string
	Number      string
	Value       string
	Quantity    string
	PlayerName  string
	Team        string
	Position    string
}

// NewCardFields copies a draft into editable fields
func NewCardFields(d models.CardDraft) *CardFields {
	return &CardFields{
		Autographed: d.Autographed,
		Condition:   d.Condition,
		Brand:       d.Brand,
		Year:        d.Year,
		Number:      d.Number,
		Value:       d.Value,
		Quantity:    d.Quantity,
		PlayerName:  d.PlayerName,
		Team:        d.Team,
		Position:    d.Position,
	}
}

// Draft applies the edited fields on top of base
func (f *CardFields) Draft(base models.CardDraft) models.CardDraft {
	return base.
		WithAutographed(f.Autographed).
		WithCondition(f.Condition).
		WithBrand(f.Brand).
		WithYear(f.Year).
		WithNumber(f.Number).
		WithValue(f.Value).
		WithQuantity(f.Quantity).
		WithPlayerName(f.PlayerName).
		WithTeam(f.Team).
		WithPosition(f.Position)
}

// CardFormOptions supplies the choices and suggestions a details form offers
type CardFormOptions struct {
	Conditions []string
	Positions  []string

	Brands  []string
	Players []string
	Teams   []string
}

// CreateCardForm creates a huh form for adding/editing a card.
// The form updates fields in place.
func CreateCardForm(fields *CardFields, opts CardFormOptions, isNew bool) *huh.Form {
	title := "Edit Card"
	if isNew {
		title = "New Card"
	}

	player := huh.NewInput().
		Key("player_name").
		Title(title).
		Description("Player").
		Placeholder("Nolan Ryan").
		Suggestions(opts.Players).
		Value(&fields.PlayerName)

	details := huh.NewGroup(
		player,
		huh.NewInput().
			Key("team").
			Title("Team").
			Suggestions(opts.Teams).
			Value(&fields.Team),
		huh.NewSelect[string]().
			Key("position").
			Title("Position").
			Options(selectOptions(opts.Positions, fields.Position)...).
			Value(&fields.Position),
		huh.NewInput().
			Key("brand").
			Title("Brand").
			Placeholder("Topps").
			Suggestions(opts.Brands).
			Value(&fields.Brand),
		huh.NewInput().
			Key("year").
			Title("Year").
			Validate(wholeNumber("year")).
			Value(&fields.Year),
		huh.NewInput().
			Key("number").
			Title("Number").
			Value(&fields.Number),
	)

	collection := huh.NewGroup(
		huh.NewSelect[string]().
			Key("condition").
			Title("Condition").
			Options(selectOptions(opts.Conditions, fields.Condition)...).
			Value(&fields.Condition),
		huh.NewInput().
			Key("value").
			Title("Value").
			Description("In cents").
			Validate(wholeNumber("value")).
			Value(&fields.Value),
		huh.NewInput().
			Key("quantity").
			Title("Quantity").
			Validate(wholeNumber("quantity")).
			Value(&fields.Quantity),
		huh.NewConfirm().
			Key("autographed").
			Title("Autographed?").
			Affirmative("Yes").
			Negative("No").
			Value(&fields.Autographed),
	)

	form := huh.NewForm(details, collection)
	return form.WithKeyMap(CreateKeyMap()).WithShowHelp(false)
}

// selectOptions offers choices plus an empty entry. A current value missing
// from choices is kept so editing never silently changes it.
func selectOptions(choices []string, current string) []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption(noneLabel, "")}
	for _, c := range choices {
		options = append(options, huh.NewOption(c, c))
	}
	if current != "" && !slices.Contains(choices, current) {
		options = append(options, huh.NewOption(current, current))
	}
	return options
}

func wholeNumber(field string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if _, err := strconv.Atoi(s); err != nil {
			return fmt.Errorf("%s must be a whole number", field)
		}
		return nil
	}
}
