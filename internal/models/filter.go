package models

// CardFilter selects cards by optional field predicates.
// A nil field matches every card. String fields are SQL LIKE patterns:
// '%' and '_' keep their wildcard meaning and matching is case-insensitive
// for ASCII letters. Patterns are used exactly as given, surrounding spaces
// included: nothing trims or escapes them. Year is compared exactly.
type CardFilter struct {
	Brand      *string `json:"brand,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Number     *string `json:"number,omitempty"`
	PlayerName *string `json:"player_name,omitempty"`
	Team       *string `json:"team,omitempty"`
}

// IsEmpty reports whether the filter has no predicates
func (f CardFilter) IsEmpty() bool {
	return f.Brand == nil && f.Year == nil && f.Number == nil && f.PlayerName == nil && f.Team == nil
}

// WithBrand returns a copy of the filter matching brand
func (f CardFilter) WithBrand(pattern string) CardFilter {
	f.Brand = &pattern
	return f
}

// WithYear returns a copy of the filter matching year exactly
func (f CardFilter) WithYear(year int) CardFilter {
	f.Year = &year
	return f
}

// WithNumber returns a copy of the filter matching number
func (f CardFilter) WithNumber(pattern string) CardFilter {
	f.Number = &pattern
	return f
}

// WithPlayerName returns a copy of the filter matching player name
func (f CardFilter) WithPlayerName(pattern string) CardFilter {
	f.PlayerName = &pattern
	return f
}

// WithTeam returns a copy of the filter matching team
func (f CardFilter) WithTeam(pattern string) CardFilter {
	f.Team = &pattern
	return f
}

// Contains returns a LIKE pattern matching any value containing s
func Contains(s string) string {
	return "%" + s + "%"
}
