package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbct/bbct/internal/app"
	"github.com/bbct/bbct/internal/logging"
	"github.com/bbct/bbct/internal/models"
	"github.com/bbct/bbct/internal/store"
	"github.com/bbct/bbct/internal/testutil"
	clitest "github.com/bbct/bbct/internal/testutil/cli"
	"github.com/bbct/bbct/internal/tui/state"
)

// setupModel seeds the sample cards and returns a model that has received
// its first snapshot of every live query
func setupModel(t *testing.T) (Model, *app.App, []models.BaseballCard) {
	t.Helper()

	a := clitest.SetupCLITest(t)
	cards := testutil.SeedCards(t, a.Store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	m, err := InitialModel(ctx, a, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(m.Close)

	m = receiveCards(t, m)
	m = receiveValues(t, m, brandValues)
	m = receiveValues(t, m, playerValues)
	m = receiveValues(t, m, teamValues)
	return m, a, cards
}

// receiveCards blocks until the card query delivers and applies the snapshot
func receiveCards(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.waitForCards()()
	cardsMsg, ok := msg.(CardsMsg)
	require.True(t, ok, "expected CardsMsg, got %T", msg)
	return update(t, m, cardsMsg)
}

func receiveValues(t *testing.T, m Model, kind valueKind) Model {
	t.Helper()
	var sub *store.Subscription[[]string]
	switch kind {
	case brandValues:
		sub = m.subs.brands
	case playerValues:
		sub = m.subs.players
	case teamValues:
		sub = m.subs.teams
	}
	msg := m.waitForValues(kind, sub)()
	valuesMsg, ok := msg.(ValuesMsg)
	require.True(t, ok, "expected ValuesMsg, got %T", msg)
	return update(t, m, valuesMsg)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

// pressAndRun presses key and feeds the result of its command back into the
// model, the way the program loop would
func pressAndRun(t *testing.T, m Model, key string) Model {
	t.Helper()
	next, cmd := m.Update(keyMsg(key))
	model, ok := next.(Model)
	require.True(t, ok)
	require.NotNil(t, cmd)
	return update(t, model, cmd())
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func TestInitialModel_LoadsLiveQueries(t *testing.T) {
	m, _, cards := setupModel(t)

	assert.Equal(t, len(cards), m.ListState.Len())
	assert.Equal(t, "bbct_test", m.StoreName)
	assert.Equal(t, []string{"Donruss", "Topps", "Upper Deck"}, m.ValuesState.Brands)
	assert.Len(t, m.ValuesState.Players, 4)
	assert.Len(t, m.ValuesState.Teams, 4)
}

func TestNavigation(t *testing.T) {
	m, _, cards := setupModel(t)

	assert.Equal(t, 0, m.ListState.Cursor())

	m = press(t, m, "j", "down")
	assert.Equal(t, 2, m.ListState.Cursor())

	m = press(t, m, "k")
	assert.Equal(t, 1, m.ListState.Cursor())

	m = press(t, m, "G")
	assert.Equal(t, len(cards)-1, m.ListState.Cursor())

	// already at the bottom
	m = press(t, m, "j")
	assert.Equal(t, len(cards)-1, m.ListState.Cursor())

	m = press(t, m, "g", "up")
	assert.Equal(t, 0, m.ListState.Cursor())
}

func TestAddCard(t *testing.T) {
	m, a, cards := setupModel(t)

	m = press(t, m, "a")
	require.Equal(t, state.CardFormMode, m.UIState.Mode())
	assert.True(t, m.FormState.Original.IsNew())
	assert.Equal(t, "1", m.FormState.CardFields.Quantity)

	m.FormState.CardFields.PlayerName = "Cal Ripken Jr."
	m.FormState.CardFields.Brand = "Fleer"
	m.FormState.CardFields.Year = "1982"
	m.FormState.CardFields.Number = "176"
	m.FormState.CardFields.Team = "Orioles"

	m = pressAndRun(t, m, "ctrl+s")
	assert.Equal(t, state.NormalMode, m.UIState.Mode())
	require.Len(t, m.NotificationState.All(), 1)
	assert.Equal(t, state.LevelSuccess, m.NotificationState.All()[0].Level)
	assert.Nil(t, m.FormState.CardForm)

	found, err := a.CardService.FindCards(context.Background(), models.CardFilter{}.WithPlayerName("Cal Ripken Jr."))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 1982, found[0].Year)
	assert.Equal(t, 1, found[0].Quantity)

	m = receiveCards(t, m)
	assert.Equal(t, len(cards)+1, m.ListState.Len())
}

func TestAddCard_InvalidDraftKeepsForm(t *testing.T) {
	m, a, cards := setupModel(t)

	m = press(t, m, "a")
	m.FormState.CardFields.PlayerName = "Someone"
	m.FormState.CardFields.Year = "nineteen"

	m = pressAndRun(t, m, "ctrl+s")
	assert.Equal(t, state.CardFormMode, m.UIState.Mode())
	require.Len(t, m.NotificationState.All(), 1)
	assert.Equal(t, state.LevelError, m.NotificationState.All()[0].Level)
	assert.Equal(t, "Someone", m.FormState.CardFields.PlayerName)

	all, err := a.CardService.ListCards(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, len(cards))
}

func TestAddCard_SaveRunsInCommand(t *testing.T) {
	m, a, cards := setupModel(t)

	m = press(t, m, "a")
	m.FormState.CardFields.PlayerName = "Tony Gwynn"
	m.FormState.CardFields.Brand = "Donruss"
	m.FormState.CardFields.Year = "1983"
	m.FormState.CardFields.Number = "598"
	m.FormState.CardFields.Team = "Padres"

	next, cmd := m.Update(keyMsg("ctrl+s"))
	m = next.(Model)
	require.NotNil(t, cmd)

	// nothing is written until the command runs
	assert.Equal(t, state.CardFormMode, m.UIState.Mode())
	assert.True(t, m.FormState.Saving)
	all, err := a.CardService.ListCards(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, len(cards))

	// keys are ignored while the save is in flight
	again, againCmd := m.Update(keyMsg("ctrl+s"))
	assert.Nil(t, againCmd)
	m = again.(Model)
	m = press(t, m, "esc")
	assert.Equal(t, state.CardFormMode, m.UIState.Mode())

	msg := cmd()
	saved, ok := msg.(CardSavedMsg)
	require.True(t, ok, "expected CardSavedMsg, got %T", msg)
	require.NoError(t, saved.Err)

	m = update(t, m, saved)
	assert.Equal(t, state.NormalMode, m.UIState.Mode())
	assert.False(t, m.FormState.Saving)
	require.Len(t, m.NotificationState.All(), 1)
	assert.Equal(t, fmt.Sprintf("Added card %d", saved.Card.ID), m.NotificationState.All()[0].Message)
}

func TestDeleteCards_RunsInCommand(t *testing.T) {
	m, a, cards := setupModel(t)

	m = press(t, m, "d")
	next, cmd := m.Update(keyMsg("y"))
	m = next.(Model)
	require.NotNil(t, cmd)

	assert.Equal(t, state.NormalMode, m.UIState.Mode())
	assert.Nil(t, m.PendingDelete)
	assert.Empty(t, m.NotificationState.All())
	all, err := a.CardService.ListCards(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, len(cards))

	m = update(t, m, cmd())
	require.Len(t, m.NotificationState.All(), 1)
	assert.Equal(t, "Deleted 1 card(s)", m.NotificationState.All()[0].Message)

	all, err = a.CardService.ListCards(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, len(cards)-1)
}

func TestDeleteCards_ErrorReported(t *testing.T) {
	m, _, _ := setupModel(t)

	m = update(t, m, CardsDeletedMsg{IDs: []int64{1}, Err: errors.New("disk full")})
	require.Len(t, m.NotificationState.All(), 1)
	assert.Equal(t, state.LevelError, m.NotificationState.All()[0].Level)
	assert.Equal(t, "Error deleting cards: disk full", m.NotificationState.All()[0].Message)
}

func TestEditCard(t *testing.T) {
	m, a, cards := setupModel(t)

	m = press(t, m, "j", "enter")
	require.Equal(t, state.CardFormMode, m.UIState.Mode())
	assert.Equal(t, cards[1].ID, m.FormState.Original.ID)
	assert.Equal(t, cards[1].PlayerName, m.FormState.CardFields.PlayerName)
	assert.False(t, m.FormState.HasCardChanges())

	m.FormState.CardFields.Team = "Giants"
	assert.True(t, m.FormState.HasCardChanges())

	m = pressAndRun(t, m, "ctrl+s")
	assert.Equal(t, state.NormalMode, m.UIState.Mode())

	got, err := a.CardService.GetCard(context.Background(), cards[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Giants", got.Team)
	assert.Equal(t, cards[1].Value, got.Value)

	m = receiveCards(t, m)
	selected, ok := m.ListState.Selected()
	require.True(t, ok)
	assert.Equal(t, "Giants", selected.Team)
}

func TestEditCard_DiscardConfirmation(t *testing.T) {
	m, a, cards := setupModel(t)

	m = press(t, m, "enter")
	m.FormState.CardFields.Brand = "Score"

	m = press(t, m, "esc")
	require.Equal(t, state.DiscardConfirmMode, m.UIState.Mode())

	// n returns to the form with the edit intact
	m = press(t, m, "n")
	require.Equal(t, state.CardFormMode, m.UIState.Mode())
	assert.Equal(t, "Score", m.FormState.CardFields.Brand)

	m = press(t, m, "esc", "y")
	assert.Equal(t, state.NormalMode, m.UIState.Mode())
	assert.Nil(t, m.FormState.CardFields)

	got, err := a.CardService.GetCard(context.Background(), cards[0].ID)
	require.NoError(t, err)
	assert.Equal(t, cards[0].Brand, got.Brand)
}

func TestEditCard_EscWithoutChangesCloses(t *testing.T) {
	m, _, _ := setupModel(t)

	m = press(t, m, "enter", "esc")
	assert.Equal(t, state.NormalMode, m.UIState.Mode())
}

func TestEditCard_EmptyList(t *testing.T) {
	a := clitest.SetupCLITest(t)
	m, err := InitialModel(context.Background(), a, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(m.Close)
	m = receiveCards(t, m)

	m = press(t, m, "enter")
	assert.Equal(t, state.NormalMode, m.UIState.Mode())
	require.Len(t, m.NotificationState.All(), 1)
	assert.Equal(t, "No card selected", m.NotificationState.All()[0].Message)

	m = press(t, m, "d")
	assert.Equal(t, state.NormalMode, m.UIState.Mode())
}

func TestDeleteMarkedCards(t *testing.T) {
	m, a, cards := setupModel(t)

	// space marks the row and moves down
	m = press(t, m, " ", " ")
	assert.Equal(t, 2, m.ListState.MarkedCount())

	m = press(t, m, "d")
	require.Equal(t, state.DeleteConfirmMode, m.UIState.Mode())
	assert.Equal(t, []int64{cards[0].ID, cards[1].ID}, m.PendingDelete)

	m = pressAndRun(t, m, "y")
	assert.Equal(t, state.NormalMode, m.UIState.Mode())
	assert.Equal(t, 0, m.ListState.MarkedCount())
	require.Len(t, m.NotificationState.All(), 1)
	assert.Equal(t, "Deleted 2 card(s)", m.NotificationState.All()[0].Message)

	remaining, err := a.CardService.ListCards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{cards[2].ID, cards[3].ID}, models.CardIDs(remaining))

	m = receiveCards(t, m)
	assert.Equal(t, 2, m.ListState.Len())
}

func TestDeleteSelectedCard_Cancel(t *testing.T) {
	m, a, cards := setupModel(t)

	m = press(t, m, "d")
	require.Equal(t, state.DeleteConfirmMode, m.UIState.Mode())
	assert.Equal(t, []int64{cards[0].ID}, m.PendingDelete)

	m = press(t, m, "n")
	assert.Equal(t, state.NormalMode, m.UIState.Mode())
	assert.Nil(t, m.PendingDelete)

	all, err := a.CardService.ListCards(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, len(cards))
}

func TestClearMarks(t *testing.T) {
	m, _, _ := setupModel(t)

	m = press(t, m, " ")
	require.Equal(t, 1, m.ListState.MarkedCount())

	m = press(t, m, "esc")
	assert.Equal(t, 0, m.ListState.MarkedCount())
}

func TestFilterForm(t *testing.T) {
	m, _, _ := setupModel(t)

	m = press(t, m, "/")
	require.Equal(t, state.FilterFormMode, m.UIState.Mode())

	m.FormState.FilterFields.Brand = "topps"
	m = press(t, m, "ctrl+s")
	require.Equal(t, state.NormalMode, m.UIState.Mode())
	require.NotNil(t, m.ListState.Filter().Brand)
	assert.Equal(t, "topps", *m.ListState.Filter().Brand)

	m = receiveCards(t, m)
	require.Equal(t, 2, m.ListState.Len())
	for _, c := range m.ListState.Cards() {
		assert.Equal(t, "Topps", c.Brand)
	}

	m = press(t, m, "c")
	assert.True(t, m.ListState.Filter().IsEmpty())
	m = receiveCards(t, m)
	assert.Equal(t, 4, m.ListState.Len())
}

func TestFilterForm_InvalidYear(t *testing.T) {
	m, _, _ := setupModel(t)

	m = press(t, m, "/")
	m.FormState.FilterFields.Year = "ninety"
	m = press(t, m, "ctrl+s")

	assert.Equal(t, state.FilterFormMode, m.UIState.Mode())
	require.Len(t, m.NotificationState.All(), 1)
	assert.Equal(t, state.LevelError, m.NotificationState.All()[0].Level)
	assert.True(t, m.ListState.Filter().IsEmpty())
}

func TestFilterForm_EscCancels(t *testing.T) {
	m, _, _ := setupModel(t)

	m = press(t, m, "/")
	m.FormState.FilterFields.Team = "Yankees"
	m = press(t, m, "esc")

	assert.Equal(t, state.NormalMode, m.UIState.Mode())
	assert.True(t, m.ListState.Filter().IsEmpty())
}

func TestStaleSnapshotIgnored(t *testing.T) {
	m, _, cards := setupModel(t)

	m = update(t, m, CardsMsg{
		SubscriptionID: "replaced",
		Snapshot:       store.Snapshot[[]models.BaseballCard]{Value: nil, Seq: 99},
	})
	assert.Equal(t, len(cards), m.ListState.Len())
}

func TestLiveUpdateFromOutside(t *testing.T) {
	m, a, cards := setupModel(t)

	_, err := a.Store.Insert(context.Background(), models.BaseballCard{PlayerName: "Tony Gwynn", Brand: "Fleer", Year: 1983})
	require.NoError(t, err)

	m = receiveCards(t, m)
	assert.Equal(t, len(cards)+1, m.ListState.Len())

	m = receiveValues(t, m, brandValues)
	assert.Contains(t, m.ValuesState.Brands, "Fleer")
}

func TestQuit(t *testing.T) {
	m, _, _ := setupModel(t)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView(t *testing.T) {
	m, _, _ := setupModel(t)

	assert.Equal(t, "Loading...", m.View())

	m = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 30})
	view := m.View()
	assert.Contains(t, view, "Nolan Ryan")
	assert.Contains(t, view, "bbct_test")
	assert.Contains(t, view, "all cards")
	assert.Contains(t, view, "4 card(s)")

	m = press(t, m, "?")
	assert.Equal(t, state.HelpMode, m.UIState.Mode())
	assert.Contains(t, m.View(), "filter cards")

	// any key closes help
	m = press(t, m, "x")
	assert.Equal(t, state.NormalMode, m.UIState.Mode())

	m = press(t, m, "d")
	assert.Contains(t, m.View(), "Delete Nolan Ryan 1991 Topps #1?")
}

func TestDescribeFilter(t *testing.T) {
	assert.Equal(t, "all cards", describeFilter(models.CardFilter{}))
	assert.Equal(t, "brand=Topps year=1991 team=%Sox",
		describeFilter(models.CardFilter{}.WithBrand("Topps").WithYear(1991).WithTeam("%Sox")))
}
