// Package api serves the card store over HTTP: a small JSON API plus a
// WebSocket endpoint that streams live query snapshots.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	"github.com/bbct/bbct/internal/models"
	cardservice "github.com/bbct/bbct/internal/services/card"
)

const maxBodyBytes = 1 << 20

// Handler serves the card API
type Handler struct {
	cards   cardservice.Service
	logger  *slog.Logger
	origins []string
}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// WithLogger sets the request logger
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithAllowedOrigins restricts cross-origin requests to origins
func WithAllowedOrigins(origins ...string) HandlerOption {
	return func(h *Handler) {
		if len(origins) > 0 {
			h.origins = origins
		}
	}
}

// NewHandler creates a handler over the card service
func NewHandler(cards cardservice.Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		cards:   cards,
		logger:  slog.Default(),
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes builds the router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(Logging(h.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", h.listCards)
			r.Post("/", h.createCard)
			r.Delete("/", h.deleteCards)
			r.Get("/{id}", h.getCard)
			r.Put("/{id}", h.updateCard)
			r.Delete("/{id}", h.deleteCard)
		})

		r.Get("/brands", h.values(cardservice.Service.Brands))
		r.Get("/players", h.values(cardservice.Service.PlayerNames))
		r.Get("/teams", h.values(cardservice.Service.Teams))

		r.Get("/ws", h.serveWS)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ============================================================================
// Cards
// ============================================================================

func (h *Handler) listCards(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		BadRequest(w, err.Error())
		return
	}
	cards, err := h.cards.FindCards(r.Context(), filter)
	if err != nil {
		Error(w, err)
		return
	}
	if cards == nil {
		cards = []models.BaseballCard{}
	}
	JSON(w, http.StatusOK, cards)
}

func (h *Handler) getCard(w http.ResponseWriter, r *http.Request) {
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	c, err := h.cards.GetCard(r.Context(), id)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, c)
}

func (h *Handler) createCard(w http.ResponseWriter, r *http.Request) {
	var c models.BaseballCard
	if !decode(w, r, &c) {
		return
	}
	created, err := h.cards.CreateCard(r.Context(), cardservice.CreateCardRequest{
		Autographed: c.Autographed,
		Condition:   c.Condition,
		Brand:       c.Brand,
		Year:        c.Year,
		Number:      c.Number,
		Value:       c.Value,
		Quantity:    c.Quantity,
		PlayerName:  c.PlayerName,
		Team:        c.Team,
		Position:    c.Position,
	})
	if err != nil {
		Error(w, err)
		return
	}
	w.Header().Set("Location", "/v1/cards/"+strconv.FormatInt(created.ID, 10))
	JSON(w, http.StatusCreated, created)
}

// cardPatch is the body of PUT /v1/cards/{id}. Omitted fields keep their value.
type cardPatch struct {
	Autographed *bool   `json:"autographed"`
	Condition   *string `json:"condition"`
	Brand       *string `json:"brand"`
	Year        *int    `json:"year"`
	Number      *string `json:"number"`
	Value       *int    `json:"value"`
	Quantity    *int    `json:"quantity"`
	PlayerName  *string `json:"player_name"`
	Team        *string `json:"team"`
	Position    *string `json:"position"`
}

func (h *Handler) updateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	var p cardPatch
	if !decode(w, r, &p) {
		return
	}
	updated, err := h.cards.UpdateCard(r.Context(), cardservice.UpdateCardRequest{
		ID:          id,
		Autographed: p.Autographed,
		Condition:   p.Condition,
		Brand:       p.Brand,
		Year:        p.Year,
		Number:      p.Number,
		Value:       p.Value,
		Quantity:    p.Quantity,
		PlayerName:  p.PlayerName,
		Team:        p.Team,
		Position:    p.Position,
	})
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, updated)
}

type deleteRequest struct {
	IDs []int64 `json:"ids"`
}

type deleteResponse struct {
	Deleted int `json:"deleted"`
}

func (h *Handler) deleteCards(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if !decode(w, r, &req) {
		return
	}
	h.delete(w, r, req.IDs)
}

func (h *Handler) deleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	h.delete(w, r, []int64{id})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, ids []int64) {
	n, err := h.cards.DeleteCards(r.Context(), ids)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, deleteResponse{Deleted: n})
}

// ============================================================================
// Distinct values
// ============================================================================

type loadValues func(cardservice.Service, context.Context) ([]string, error)

func (h *Handler) values(load loadValues) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := load(h.cards, r.Context())
		if err != nil {
			Error(w, err)
			return
		}
		if values == nil {
			values = []string{}
		}
		JSON(w, http.StatusOK, values)
	}
}

// ============================================================================
// Request helpers
// ============================================================================

func cardID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(w, "card ID must be a positive integer")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		BadRequest(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// filterFromQuery reads brand, year, number, player and team parameters.
// contains=true wraps every text pattern in %.
func filterFromQuery(q url.Values) (models.CardFilter, error) {
	var filter models.CardFilter

	contains, _ := strconv.ParseBool(q.Get("contains"))
	pattern := func(s string) string {
		if contains {
			return models.Contains(s)
		}
		return s
	}

	if q.Has("brand") {
		filter = filter.WithBrand(pattern(q.Get("brand")))
	}
	if q.Has("number") {
		filter = filter.WithNumber(pattern(q.Get("number")))
	}
	if q.Has("player") {
		filter = filter.WithPlayerName(pattern(q.Get("player")))
	}
	if q.Has("team") {
		filter = filter.WithTeam(pattern(q.Get("team")))
	}
	if q.Has("year") {
		year, err := strconv.Atoi(q.Get("year"))
		if err != nil {
			return filter, fmt.Errorf("invalid year %q", q.Get("year"))
		}
		filter = filter.WithYear(year)
	}
	return filter, nil
}
