package card

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/models"
	"github.com/bbct/bbct/internal/testutil"
	clitest "github.com/bbct/bbct/internal/testutil/cli"
)

func TestCardCmd_Subcommands(t *testing.T) {
	cmd := CardCmd()
	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"add", "update", "delete", "show", "list", "filter"}, names)
}

// ============================================================================
// add
// ============================================================================

func TestAdd_JSON(t *testing.T) {
	a := clitest.SetupCLITest(t)

	out, _, err := clitest.ExecuteCommand(t, a, AddCmd(),
		"--player=Nolan Ryan", "--brand=Topps", "--year=1991", "--number=1",
		"--value=10.50", "--condition=Near Mint", "--team=Rangers", "--position=Pitcher", "--json")
	require.NoError(t, err)

	result := clitest.ParseJSON(t, out)
	assert.Equal(t, true, result["success"])
	data := result["data"].(map[string]any)
	assert.Equal(t, "Nolan Ryan", data["player_name"])
	assert.Equal(t, float64(1050), data["value"])
	assert.Equal(t, float64(1), data["quantity"])
	assert.Greater(t, data["id"].(float64), float64(0))

	cards, err := a.Store.Cards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Rangers", cards[0].Team)
}

func TestAdd_Quiet(t *testing.T) {
	a := clitest.SetupCLITest(t)

	out, _, err := clitest.ExecuteCommand(t, a, AddCmd(), "--brand=Fleer", "--quiet")
	require.NoError(t, err)

	cards, err := a.Store.Cards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, cards[0].GetID(), mustAtoi(t, strings.TrimSpace(out)))
}

func TestAdd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no identifying field", []string{"--year=1991"}, cli.ExitUsage},
		{"year out of range", []string{"--player=X", "--year=1700"}, cli.ExitValidation},
		{"unknown condition", []string{"--player=X", "--condition=Shiny"}, cli.ExitValidation},
		{"bad value", []string{"--player=X", "--value=1.234"}, cli.ExitUsage},
		{"negative quantity", []string{"--player=X", "--quantity=-1"}, cli.ExitValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := clitest.SetupCLITest(t)
			_, stderr, err := clitest.ExecuteCommand(t, a, AddCmd(), tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, cli.ExitCode(err))
			assert.Contains(t, stderr, "Error:")

			cards, err := a.Store.Cards(context.Background())
			require.NoError(t, err)
			assert.Empty(t, cards)
		})
	}
}

// ============================================================================
// update
// ============================================================================

func TestUpdate_ChangesOnlyGivenFields(t *testing.T) {
	a := clitest.SetupCLITest(t)
	seeded := testutil.SeedCards(t, a.Store)
	target := seeded[0]

	out, _, err := clitest.ExecuteCommand(t, a, UpdateCmd(), itoa(target.ID), "--value=15", "--autographed", "--json")
	require.NoError(t, err)
	data := clitest.ParseJSON(t, out)["data"].(map[string]any)
	assert.Equal(t, float64(1500), data["value"])

	got, found, err := a.Store.Get(context.Background(), target.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1500, got.Value)
	assert.True(t, got.Autographed)
	assert.Equal(t, target.PlayerName, got.PlayerName)
	assert.Equal(t, target.Brand, got.Brand)
	assert.Equal(t, target.Quantity, got.Quantity)
}

func TestUpdate_IDFlag(t *testing.T) {
	a := clitest.SetupCLITest(t)
	seeded := testutil.SeedCards(t, a.Store)

	out, _, err := clitest.ExecuteCommand(t, a, UpdateCmd(), "--id="+itoa(seeded[1].ID), "--team=Giants")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated card")

	got, _, err := a.Store.Get(context.Background(), seeded[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Giants", got.Team)
}

func TestUpdate_Missing(t *testing.T) {
	a := clitest.SetupCLITest(t)

	out, _, err := clitest.ExecuteCommand(t, a, UpdateCmd(), "999", "--team=Cubs", "--json")
	require.Error(t, err)
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))

	result := clitest.ParseJSON(t, out)
	assert.Equal(t, false, result["success"])
	errData := result["error"].(map[string]any)
	assert.Equal(t, "CARD_NOT_FOUND", errData["code"])
	assert.Contains(t, errData["suggestion"], "bbct card list")
}

func TestUpdate_NothingToChange(t *testing.T) {
	a := clitest.SetupCLITest(t)
	seeded := testutil.SeedCards(t, a.Store)

	_, _, err := clitest.ExecuteCommand(t, a, UpdateCmd(), itoa(seeded[0].ID))
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

// ============================================================================
// delete
// ============================================================================

func TestDelete(t *testing.T) {
	a := clitest.SetupCLITest(t)
	seeded := testutil.SeedCards(t, a.Store)

	out, _, err := clitest.ExecuteCommand(t, a, DeleteCmd(), itoa(seeded[0].ID), itoa(seeded[1].ID), "999", "--json")
	require.NoError(t, err)

	data := clitest.ParseJSON(t, out)["data"].(map[string]any)
	assert.Equal(t, float64(2), data["deleted"])

	cards, err := a.Store.Cards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.CardIDs(seeded[2:]), models.CardIDs(cards))
}

func TestDelete_Human(t *testing.T) {
	a := clitest.SetupCLITest(t)
	seeded := testutil.SeedCards(t, a.Store)

	out, _, err := clitest.ExecuteCommand(t, a, DeleteCmd(), "--id="+itoa(seeded[3].ID))
	require.NoError(t, err)
	assert.Equal(t, "Deleted 1 of 1 card(s)\n", out)
}

func TestDelete_NoIDs(t *testing.T) {
	a := clitest.SetupCLITest(t)

	_, _, err := clitest.ExecuteCommand(t, a, DeleteCmd())
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

// ============================================================================
// show
// ============================================================================

func TestShow(t *testing.T) {
	a := clitest.SetupCLITest(t)
	seeded := testutil.SeedCards(t, a.Store)

	out, _, err := clitest.ExecuteCommand(t, a, ShowCmd(), itoa(seeded[2].ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Griffey")
	assert.Contains(t, out, "Mariners")

	out, _, err = clitest.ExecuteCommand(t, a, ShowCmd(), itoa(seeded[2].ID), "--json")
	require.NoError(t, err)
	data := clitest.ParseJSON(t, out)["data"].(map[string]any)
	assert.Equal(t, true, data["autographed"])
	assert.Equal(t, "Donruss", data["brand"])
}

func TestShow_NotFound(t *testing.T) {
	a := clitest.SetupCLITest(t)

	_, stderr, err := clitest.ExecuteCommand(t, a, ShowCmd(), "42")
	require.Error(t, err)
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
	assert.Contains(t, stderr, "Suggestion:")
}

func TestCardMarkdown(t *testing.T) {
	md := cardMarkdown(models.BaseballCard{ID: 7, PlayerName: "Derek Jeter", Brand: "Upper Deck", Year: 1993, Number: "455", Value: 75, Quantity: 3})

	assert.True(t, strings.HasPrefix(md, "# Derek Jeter 1993 Upper Deck #455\n"))
	assert.Contains(t, md, "| Value | $0.75 |")
	assert.Contains(t, md, "| Team | - |")
	assert.NotContains(t, md, "Autographed")
}

// ============================================================================
// list / filter
// ============================================================================

func TestList(t *testing.T) {
	a := clitest.SetupCLITest(t)

	out, _, err := clitest.ExecuteCommand(t, a, ListCmd())
	require.NoError(t, err)
	assert.Equal(t, "No cards found\n", out)

	testutil.SeedCards(t, a.Store)

	out, _, err = clitest.ExecuteCommand(t, a, ListCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Nolan Ryan")
	assert.Contains(t, out, "$50.00")
	assert.Contains(t, out, "4 card(s)")

	out, _, err = clitest.ExecuteCommand(t, a, ListCmd(), "--json")
	require.NoError(t, err)
	assert.Len(t, clitest.ParseJSON(t, out)["data"], 4)
}

func TestList_EmptyJSONIsArray(t *testing.T) {
	a := clitest.SetupCLITest(t)

	out, _, err := clitest.ExecuteCommand(t, a, ListCmd(), "--json")
	require.NoError(t, err)
	assert.Equal(t, []any{}, clitest.ParseJSON(t, out)["data"])
}

func TestFilter(t *testing.T) {
	a := clitest.SetupCLITest(t)
	testutil.SeedCards(t, a.Store)

	tests := []struct {
		name    string
		args    []string
		players []string
	}{
		{"brand ignores case", []string{"--brand=topps"}, []string{"Nolan Ryan", "Barry Bonds"}},
		{"year exact", []string{"--year=1989"}, []string{"Ken Griffey Jr."}},
		{"wildcard", []string{"--player=%r%"}, []string{"Nolan Ryan", "Barry Bonds", "Ken Griffey Jr.", "Derek Jeter"}},
		{"contains", []string{"--team=ank", "--contains"}, []string{"Derek Jeter"}},
		{"combined", []string{"--brand=Topps", "--team=Pirates"}, []string{"Barry Bonds"}},
		{"no match", []string{"--year=2001"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := clitest.ExecuteCommand(t, a, FilterCmd(), append(tt.args, "--json")...)
			require.NoError(t, err)

			var players []string
			for _, c := range clitest.ParseJSON(t, out)["data"].([]any) {
				players = append(players, c.(map[string]any)["player_name"].(string))
			}
			assert.Equal(t, tt.players, players)
		})
	}
}

func TestFilter_RequiresPredicate(t *testing.T) {
	a := clitest.SetupCLITest(t)

	_, _, err := clitest.ExecuteCommand(t, a, FilterCmd())
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestList_Watch(t *testing.T) {
	a := clitest.SetupCLITest(t)

	cmd := ListCmd()
	out := &syncBuffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--watch", "--json"})
	cmd.SilenceUsage = true

	ctx, cancel := context.WithCancel(cli.WithApp(context.Background(), a))
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "\n") >= 1
	}, 2*time.Second, 10*time.Millisecond)

	testutil.SeedCards(t, a.Store, testutil.SampleCards()[0])

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Nolan Ryan")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

// ============================================================================
// distinct values
// ============================================================================

func TestValues(t *testing.T) {
	a := clitest.SetupCLITest(t)
	testutil.SeedCards(t, a.Store)
	testutil.SeedCards(t, a.Store, models.BaseballCard{Brand: "Topps", Quantity: 1})

	out, _, err := clitest.ExecuteCommand(t, a, BrandsCmd(), "--json")
	require.NoError(t, err)
	assert.Equal(t, []any{"Donruss", "Topps", "Upper Deck"}, clitest.ParseJSON(t, out)["data"])

	out, _, err = clitest.ExecuteCommand(t, a, TeamsCmd())
	require.NoError(t, err)
	assert.Equal(t, "Mariners\nPirates\nRangers\nYankees\n", out)

	out, _, err = clitest.ExecuteCommand(t, a, PlayersCmd(), "--json")
	require.NoError(t, err)
	assert.Equal(t, []any{"Barry Bonds", "Derek Jeter", "Ken Griffey Jr.", "Nolan Ryan"}, clitest.ParseJSON(t, out)["data"])
}

func TestValues_EmptyIsArray(t *testing.T) {
	a := clitest.SetupCLITest(t)

	out, _, err := clitest.ExecuteCommand(t, a, TeamsCmd(), "--json")
	require.NoError(t, err)
	assert.Equal(t, []any{}, clitest.ParseJSON(t, out)["data"])
}

// ============================================================================
// Helpers
// ============================================================================

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}
