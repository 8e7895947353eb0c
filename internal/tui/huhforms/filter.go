package huhforms

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/bbct/bbct/internal/models"
)

// FilterFields are the values the filter form edits in place.
// An empty field places no constraint on the list.
type FilterFields struct {
	Brand      string
	Year       string
	Number     string
	PlayerName string
	Team       string
}

// NewFilterFields copies an existing filter into editable fields
func NewFilterFields(f models.CardFilter) *FilterFields {
	fields := &FilterFields{}
	if f.Brand != nil {
		fields.Brand = *f.Brand
	}
	if f.Year != nil {
		fields.Year = strconv.Itoa(*f.Year)
	}
	if f.Number != nil {
		fields.Number = *f.Number
	}
	if f.PlayerName != nil {
		fields.PlayerName = *f.PlayerName
	}
	if f.Team != nil {
		fields.Team = *f.Team
	}
	return fields
}

// Filter builds the card filter. A blank field adds no predicate; any other
// text is used as the pattern exactly as typed, % and _ wildcards included.
func (f *FilterFields) Filter() (models.CardFilter, error) {
	var filter models.CardFilter

	if strings.TrimSpace(f.Brand) != "" {
		filter = filter.WithBrand(f.Brand)
	}
	if s := strings.TrimSpace(f.Year); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			return models.CardFilter{}, &models.DraftFieldError{Field: "year", Value: s}
		}
		filter = filter.WithYear(year)
	}
	if strings.TrimSpace(f.Number) != "" {
		filter = filter.WithNumber(f.Number)
	}
	if strings.TrimSpace(f.PlayerName) != "" {
		filter = filter.WithPlayerName(f.PlayerName)
	}
	if strings.TrimSpace(f.Team) != "" {
		filter = filter.WithTeam(f.Team)
	}
	return filter, nil
}

// CreateFilterForm creates the filter form, suggesting values already in the collection
func CreateFilterForm(fields *FilterFields, opts CardFormOptions) *huh.Form {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Key("brand").
			Title("Filter Cards").
			Description("Brand (% matches anything)").
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
		huh.NewInput().
			Key("player_name").
			Title("Player").
			Suggestions(opts.Players).
			Value(&fields.PlayerName),
		huh.NewInput().
			Key("team").
			Title("Team").
			Suggestions(opts.Teams).
			Value(&fields.Team),
	))
	return form.WithKeyMap(CreateKeyMap()).WithShowHelp(false)
}
