package models

// ============================================================================
// CARD CONDITIONS
// ============================================================================

// DefaultConditions lists the card grades offered by the details form.
// The store does not enforce membership; the card service validates against
// the configured list, which defaults to this one.
var DefaultConditions = []string{
	"Mint",
	"Near Mint",
	"Excellent",
	"Very Good",
	"Good",
	"Fair",
	"Poor",
}

// ============================================================================
// PLAYER POSITIONS
// ============================================================================

// DefaultPositions lists the fielding positions offered by the details form
var DefaultPositions = []string{
	"Pitcher",
	"Catcher",
	"First Base",
	"Second Base",
	"Third Base",
	"Shortstop",
	"Left Field",
	"Center Field",
	"Right Field",
	"Designated Hitter",
}

// ============================================================================
// FIELD LIMITS
// ============================================================================

// MaxTextFieldLength bounds every free-text card field
const MaxTextFieldLength = 100

// MinCardYear and MaxCardYear bound a non-zero card year
const (
	MinCardYear = 1860
	MaxCardYear = 2100
)
