package state

// ValuesState holds the distinct brands, player names and teams, used as
// suggestions by the forms. Each list is kept current by its own live query.
type ValuesState struct {
	Brands  []string
	Players []string
	Teams   []string
}

// NewValuesState creates an empty ValuesState
func NewValuesState() *ValuesState {
	return &ValuesState{}
}
