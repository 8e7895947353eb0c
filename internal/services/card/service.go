package card

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/bbct/bbct/internal/models"
	"github.com/bbct/bbct/internal/store"
)

// Service defines all card-related business operations
type Service interface {
	// Read operations
	GetCard(ctx context.Context, id int64) (models.BaseballCard, error)
	ListCards(ctx context.Context) ([]models.BaseballCard, error)
	FindCards(ctx context.Context, filter models.CardFilter) ([]models.BaseballCard, error)
	Brands(ctx context.Context) ([]string, error)
	PlayerNames(ctx context.Context) ([]string, error)
	Teams(ctx context.Context) ([]string, error)

	// Live operations
	WatchCards(ctx context.Context, filter models.CardFilter) (*store.Subscription[[]models.BaseballCard], error)
	WatchBrands(ctx context.Context) (*store.Subscription[[]string], error)
	WatchPlayerNames(ctx context.Context) (*store.Subscription[[]string], error)
	WatchTeams(ctx context.Context) (*store.Subscription[[]string], error)

	// Write operations
	CreateCard(ctx context.Context, req CreateCardRequest) (models.BaseballCard, error)
	UpdateCard(ctx context.Context, req UpdateCardRequest) (models.BaseballCard, error)
	SaveDraft(ctx context.Context, draft models.CardDraft) (models.BaseballCard, error)
	DeleteCards(ctx context.Context, ids []int64) (int, error)

	// Options offered by forms
	Conditions() []string
	Positions() []string
}

// CardStore is the part of *store.Store the service needs
type CardStore interface {
	Insert(ctx context.Context, card models.BaseballCard) (int64, error)
	Update(ctx context.Context, card models.BaseballCard) error
	DeleteIDs(ctx context.Context, ids []int64) (int, error)
	Get(ctx context.Context, id int64) (models.BaseballCard, bool, error)
	Cards(ctx context.Context) ([]models.BaseballCard, error)
	FindCards(ctx context.Context, filter models.CardFilter) ([]models.BaseballCard, error)
	Brands(ctx context.Context) ([]string, error)
	PlayerNames(ctx context.Context) ([]string, error)
	Teams(ctx context.Context) ([]string, error)
	List(ctx context.Context) (*store.Subscription[[]models.BaseballCard], error)
	Query(ctx context.Context, filter models.CardFilter) (*store.Subscription[[]models.BaseballCard], error)
	DistinctBrands(ctx context.Context) (*store.Subscription[[]string], error)
	DistinctPlayerNames(ctx context.Context) (*store.Subscription[[]string], error)
	DistinctTeams(ctx context.Context) (*store.Subscription[[]string], error)
}

var _ CardStore = (*store.Store)(nil)

// CreateCardRequest encapsulates data for creating a card
type CreateCardRequest struct {
	Autographed bool
	Condition   string
	Brand       string
	Year        int
	Number      string
	Value       int
	Quantity    int
	PlayerName  string
	Team        string
	Position    string
}

// Card returns the card the request describes, without an identifier
func (r CreateCardRequest) Card() models.BaseballCard {
	return models.BaseballCard{
		Autographed: r.Autographed,
		Condition:   r.Condition,
		Brand:       r.Brand,
		Year:        r.Year,
		Number:      r.Number,
		Value:       r.Value,
		Quantity:    r.Quantity,
		PlayerName:  r.PlayerName,
		Team:        r.Team,
		Position:    r.Position,
	}
}

// UpdateCardRequest encapsulates data for updating a card.
// Nil fields keep their stored value.
type UpdateCardRequest struct {
	ID          int64
	Autographed *bool
	Condition   *string
	Brand       *string
	Year        *int
	Number      *string
	Value       *int
	Quantity    *int
	PlayerName  *string
	Team        *string
	Position    *string
}

// apply returns existing with every non-nil field of r replaced
func (r UpdateCardRequest) apply(existing models.BaseballCard) models.BaseballCard {
	c := existing
	if r.Autographed != nil {
		c.Autographed = *r.Autographed
	}
	if r.Condition != nil {
		c.Condition = *r.Condition
	}
	if r.Brand != nil {
		c.Brand = *r.Brand
	}
	if r.Year != nil {
		c.Year = *r.Year
	}
	if r.Number != nil {
		c.Number = *r.Number
	}
	if r.Value != nil {
		c.Value = *r.Value
	}
	if r.Quantity != nil {
		c.Quantity = *r.Quantity
	}
	if r.PlayerName != nil {
		c.PlayerName = *r.PlayerName
	}
	if r.Team != nil {
		c.Team = *r.Team
	}
	if r.Position != nil {
		c.Position = *r.Position
	}
	return c
}

// Option configures the service
type Option func(*service)

// WithConditions sets the accepted card conditions
func WithConditions(conditions []string) Option {
	return func(s *service) {
		if len(conditions) > 0 {
			s.conditions = conditions
		}
	}
}

// WithPositions sets the accepted player positions
func WithPositions(positions []string) Option {
	return func(s *service) {
		if len(positions) > 0 {
			s.positions = positions
		}
	}
}

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// service implements Service interface
type service struct {
	store      CardStore
	conditions []string
	positions  []string
	logger     *slog.Logger
}

// NewService creates a new card service
func NewService(st CardStore, opts ...Option) Service {
	s := &service{
		store:      st,
		conditions: models.DefaultConditions,
		positions:  models.DefaultPositions,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================================
// Reads
// ============================================================================

// GetCard retrieves one card or ErrCardNotFound
func (s *service) GetCard(ctx context.Context, id int64) (models.BaseballCard, error) {
	if id <= 0 {
		return models.BaseballCard{}, ErrInvalidCardID
	}
	c, found, err := s.store.Get(ctx, id)
	if err != nil {
		return models.BaseballCard{}, fmt.Errorf("failed to get card: %w", err)
	}
	if !found {
		return models.BaseballCard{}, models.NotFound("get", id)
	}
	return c, nil
}

func (s *service) ListCards(ctx context.Context) ([]models.BaseballCard, error) {
	return s.store.Cards(ctx)
}

func (s *service) FindCards(ctx context.Context, filter models.CardFilter) ([]models.BaseballCard, error) {
	if filter.IsEmpty() {
		return s.store.Cards(ctx)
	}
	return s.store.FindCards(ctx, filter)
}

func (s *service) Brands(ctx context.Context) ([]string, error) {
	return s.store.Brands(ctx)
}

func (s *service) PlayerNames(ctx context.Context) ([]string, error) {
	return s.store.PlayerNames(ctx)
}

func (s *service) Teams(ctx context.Context) ([]string, error) {
	return s.store.Teams(ctx)
}

// ============================================================================
// Live reads
// ============================================================================

// WatchCards observes every card, or the matching ones when filter is not empty
func (s *service) WatchCards(ctx context.Context, filter models.CardFilter) (*store.Subscription[[]models.BaseballCard], error) {
	if filter.IsEmpty() {
		return s.store.List(ctx)
	}
	return s.store.Query(ctx, filter)
}

func (s *service) WatchBrands(ctx context.Context) (*store.Subscription[[]string], error) {
	return s.store.DistinctBrands(ctx)
}

func (s *service) WatchPlayerNames(ctx context.Context) (*store.Subscription[[]string], error) {
	return s.store.DistinctPlayerNames(ctx)
}

func (s *service) WatchTeams(ctx context.Context) (*store.Subscription[[]string], error) {
	return s.store.DistinctTeams(ctx)
}

// ============================================================================
// Writes
// ============================================================================

// CreateCard validates and stores a new card
func (s *service) CreateCard(ctx context.Context, req CreateCardRequest) (models.BaseballCard, error) {
	c := req.Card()
	if err := s.validate(c); err != nil {
		return models.BaseballCard{}, err
	}

	id, err := s.store.Insert(ctx, c)
	if err != nil {
		return models.BaseballCard{}, fmt.Errorf("failed to create card: %w", err)
	}
	c.ID = id

	s.logger.Info("card created", "id", id, "brand", c.Brand, "year", c.Year)
	return c, nil
}

// UpdateCard applies the non-nil fields of req to the stored card
func (s *service) UpdateCard(ctx context.Context, req UpdateCardRequest) (models.BaseballCard, error) {
	if req.ID <= 0 {
		return models.BaseballCard{}, ErrInvalidCardID
	}

	existing, err := s.GetCard(ctx, req.ID)
	if err != nil {
		return models.BaseballCard{}, err
	}

	c := req.apply(existing)
	if err := s.validate(c); err != nil {
		return models.BaseballCard{}, err
	}

	if err := s.store.Update(ctx, c); err != nil {
		return models.BaseballCard{}, fmt.Errorf("failed to update card: %w", err)
	}

	s.logger.Info("card updated", "id", c.ID)
	return c, nil
}

// SaveDraft commits a details-screen draft: new drafts are inserted, others replace the stored card.
func (s *service) SaveDraft(ctx context.Context, draft models.CardDraft) (models.BaseballCard, error) {
	c, err := draft.Card()
	if err != nil {
		return models.BaseballCard{}, fmt.Errorf("%w: %w", ErrInvalidDraftField, err)
	}
	if err := s.validate(c); err != nil {
		return models.BaseballCard{}, err
	}

	if draft.IsNew() {
		id, err := s.store.Insert(ctx, c)
		if err != nil {
			return models.BaseballCard{}, fmt.Errorf("failed to create card: %w", err)
		}
		c.ID = id
		s.logger.Info("card created from draft", "id", id)
		return c, nil
	}

	if err := s.store.Update(ctx, c); err != nil {
		return models.BaseballCard{}, fmt.Errorf("failed to update card: %w", err)
	}
	s.logger.Info("card updated from draft", "id", c.ID)
	return c, nil
}

// DeleteCards removes the listed cards and reports how many existed
func (s *service) DeleteCards(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoCardsSelected
	}
	for _, id := range ids {
		if id <= 0 {
			return 0, ErrInvalidCardID
		}
	}

	n, err := s.store.DeleteIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cards: %w", err)
	}

	s.logger.Info("cards deleted", "requested", len(ids), "removed", n)
	return n, nil
}

func (s *service) Conditions() []string {
	return slices.Clone(s.conditions)
}

func (s *service) Positions() []string {
	return slices.Clone(s.positions)
}

// ============================================================================
// Validation
// ============================================================================

func (s *service) validate(c models.BaseballCard) error {
	if c.Year != 0 && (c.Year < models.MinCardYear || c.Year > models.MaxCardYear) {
		return fmt.Errorf("%w: %d is not between %d and %d", ErrInvalidYear, c.Year, models.MinCardYear, models.MaxCardYear)
	}
	if c.Value < 0 {
		return ErrNegativeValue
	}
	if c.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if c.Condition != "" && !slices.Contains(s.conditions, c.Condition) {
		return fmt.Errorf("%w: %q", ErrUnknownCondition, c.Condition)
	}
	if c.Position != "" && !slices.Contains(s.positions, c.Position) {
		return fmt.Errorf("%w: %q", ErrUnknownPosition, c.Position)
	}

	// checked in column order so the first long field is the one reported
	fields := []struct{ name, value string }{
		{"brand", c.Brand},
		{"number", c.Number},
		{"player name", c.PlayerName},
		{"team", c.Team},
	}
	for _, f := range fields {
		if len(f.value) > models.MaxTextFieldLength {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrFieldTooLong, f.name, models.MaxTextFieldLength)
		}
	}
	return nil
}
