package models

// BaseballCard represents a single card in the collection.
// Value is stored in whole cents. Absence is the zero value, never NULL.
type BaseballCard struct {
	ID          int64  `db:"_id" json:"id"`
	Autographed bool   `db:"autographed" json:"autographed"`
	Condition   string `db:"condition" json:"condition"`
	Brand       string `db:"brand" json:"brand"`
	Year        int    `db:"year" json:"year"`
	Number      string `db:"number" json:"number"`
	Value       int    `db:"value" json:"value"`
	Quantity    int    `db:"quantity" json:"quantity"`
	PlayerName  string `db:"player_name" json:"player_name"`
	Team        string `db:"team" json:"team"`
	Position    string `db:"position" json:"position"`
}

// GetID implements the GetID interface used by quiet CLI output
func (c BaseballCard) GetID() int {
	return int(c.ID)
}

// SameFields reports whether two cards are equal in every field except ID
func (c BaseballCard) SameFields(other BaseballCard) bool {
	c.ID = 0
	other.ID = 0
	return c == other
}

// CardIDs extracts the identifiers of the given cards, in order
func CardIDs(cards []BaseballCard) []int64 {
	ids := make([]int64, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}
