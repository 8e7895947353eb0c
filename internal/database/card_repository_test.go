package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bbct/bbct/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Local Test Helpers (to avoid import cycle with testutil)
// ============================================================================

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func toppsCard(year int, player, team string) models.BaseballCard {
	return models.BaseballCard{
		Condition:  "Near Mint",
		Brand:      "Topps",
		Year:       year,
		Number:     "123",
		Value:      1000,
		Quantity:   1,
		PlayerName: player,
		Team:       team,
		Position:   "Pitcher",
	}
}

func insertAll(t *testing.T, repo *CardRepo, cards ...models.BaseballCard) []models.BaseballCard {
	t.Helper()
	stored := make([]models.BaseballCard, len(cards))
	for i, c := range cards {
		id, err := repo.InsertCard(context.Background(), c)
		require.NoError(t, err)
		c.ID = id
		stored[i] = c
	}
	return stored
}

// ============================================================================
// Open / Migration Tests
// ============================================================================

func TestOpen_RunsMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", TestName+".db")
	ctx := context.Background()

	db, err := Open(ctx, path)
	require.NoError(t, err)

	var applied int
	require.NoError(t, db.Get(&applied, "SELECT COUNT(*) FROM schema_migrations"))
	names, err := migrationNames(migrationFiles)
	require.NoError(t, err)
	assert.Equal(t, len(names), applied)

	_, err = NewCardRepo(db).InsertCard(ctx, toppsCard(1987, "John Doe", "Cubs"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// reopening must keep data and not re-apply anything
	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Get(&applied, "SELECT COUNT(*) FROM schema_migrations"))
	assert.Equal(t, len(names), applied)

	cards, err := NewCardRepo(db).ListCards(ctx)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, filepath.Join("/data", "bbct.db"), PathFor("/data", DefaultName))
	assert.Equal(t, filepath.Join("/data", "bbct_test.db"), PathFor("/data", TestName))
}

func TestUpSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (x INT);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (x INT);\n", upSection(content))
	assert.Equal(t, "SELECT 1;", upSection("SELECT 1;"))
}

// ============================================================================
// Write Tests
// ============================================================================

func TestInsertCard_AssignsFreshID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)
	ctx := context.Background()

	card := toppsCard(1987, "John Doe", "Cubs")
	card.ID = 99
	id, err := repo.InsertCard(ctx, card)
	require.NoError(t, err)
	assert.NotEqual(t, int64(99), id, "caller supplied ID must be ignored")

	second, err := repo.InsertCard(ctx, card)
	require.NoError(t, err)
	assert.Greater(t, second, id)

	got, found, err := repo.GetCard(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, got.ID)
	assert.True(t, card.SameFields(got))
}

func TestInsertCard_RoundTripsEveryField(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)

	card := models.BaseballCard{
		Autographed: true,
		Condition:   "Mint",
		Brand:       "Fleer",
		Year:        1993,
		Number:      "12a",
		Value:       12345,
		Quantity:    3,
		PlayerName:  "Jane Roe",
		Team:        "Mets",
		Position:    "Shortstop",
	}
	stored := insertAll(t, repo, card)[0]

	got, found, err := repo.GetCard(context.Background(), stored.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, stored, got)
}

func TestUpdateCard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)
	ctx := context.Background()

	stored := insertAll(t, repo, toppsCard(1987, "John Doe", "Cubs"))[0]
	stored.Team = "Mets"
	stored.Autographed = true

	require.NoError(t, repo.UpdateCard(ctx, stored))
	// applying the same update again is harmless
	require.NoError(t, repo.UpdateCard(ctx, stored))

	got, _, err := repo.GetCard(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestUpdateCard_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)

	card := toppsCard(1987, "John Doe", "Cubs")
	card.ID = 42
	err := repo.UpdateCard(context.Background(), card)

	assert.ErrorIs(t, err, models.ErrNotFound)
	var storeErr *models.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, int64(42), storeErr.ID)
}

func TestDeleteCards_RemovesExactSubset(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)
	ctx := context.Background()

	stored := insertAll(t, repo,
		toppsCard(1985, "A", "Cubs"),
		toppsCard(1986, "B", "Cubs"),
		toppsCard(1987, "C", "Cubs"),
		toppsCard(1988, "D", "Cubs"),
	)

	removed, err := repo.DeleteCards(ctx, []int64{stored[1].ID, stored[3].ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	cards, err := repo.ListCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.BaseballCard{stored[0], stored[2]}, cards)
}

func TestDeleteCards_MissingIsNoop(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)
	ctx := context.Background()

	removed, err := repo.DeleteCards(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = repo.DeleteCards(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

// ============================================================================
// Read Tests
// ============================================================================

func TestGetCard_Absent(t *testing.T) {
	db := setupTestDB(t)

	_, found, err := NewCardRepo(db).GetCard(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestListCards_EmptyAndOrdered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)
	ctx := context.Background()

	cards, err := repo.ListCards(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)

	stored := insertAll(t, repo, toppsCard(1990, "Z", "Cubs"), toppsCard(1980, "A", "Cubs"))
	cards, err = repo.ListCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, cards)
}

func TestFindCards(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)

	johnCubs := toppsCard(1987, "John Doe", "Cubs")
	janeCubs := toppsCard(1987, "Jane Doe", "Cubs")
	johnMets := toppsCard(1990, "John Smith", "Mets")
	fleer := toppsCard(1987, "Ed Roe", "Mets")
	fleer.Brand = "Fleer"
	fleer.Number = "55b"
	stored := insertAll(t, repo, johnCubs, janeCubs, johnMets, fleer)

	tests := []struct {
		name   string
		filter models.CardFilter
		want   []models.BaseballCard
	}{
		{"empty filter matches all", models.CardFilter{}, stored},
		{"brand exact", models.CardFilter{}.WithBrand("Topps"), stored[:3]},
		{"brand case-insensitive", models.CardFilter{}.WithBrand("fLeEr"), stored[3:]},
		{"year exact", models.CardFilter{}.WithYear(1987), []models.BaseballCard{stored[0], stored[1], stored[3]}},
		{"player wildcard", models.CardFilter{}.WithPlayerName("%Doe%"), stored[:2]},
		{"player single-char wildcard", models.CardFilter{}.WithPlayerName("J_n%"), []models.BaseballCard{stored[1]}},
		{"team and year", models.CardFilter{}.WithTeam("Mets").WithYear(1987), stored[3:]},
		{"number pattern", models.CardFilter{}.WithNumber("%b"), stored[3:]},
		{"all fields", models.CardFilter{}.WithBrand("Topps").WithYear(1990).WithNumber("123").WithPlayerName("John%").WithTeam("Mets"), stored[2:3]},
		{"no match", models.CardFilter{}.WithBrand("Upper Deck"), []models.BaseballCard{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindCards(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterClause(t *testing.T) {
	where, args := filterClause(models.CardFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = filterClause(models.CardFilter{}.WithTeam("Cubs").WithYear(1987))
	assert.Equal(t, " WHERE year = ? AND team LIKE ?", where)
	assert.Equal(t, []any{1987, "Cubs"}, args)
}

// ============================================================================
// Projection Tests
// ============================================================================

func TestDistinctProjections(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)
	ctx := context.Background()

	a := toppsCard(1987, "John Doe", "Cubs")
	b := toppsCard(1988, "John Doe", "Mets")
	c := toppsCard(1989, "Jane Roe", "Cubs")
	c.Brand = "Fleer"
	d := toppsCard(1990, "", "")
	d.Brand = ""
	insertAll(t, repo, a, b, c, d)

	brands, err := repo.DistinctBrands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fleer", "Topps"}, brands)

	players, err := repo.DistinctPlayerNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Roe", "John Doe"}, players)

	teams, err := repo.DistinctTeams(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cubs", "Mets"}, teams)
}

func TestDistinct_Empty(t *testing.T) {
	db := setupTestDB(t)

	brands, err := NewCardRepo(db).DistinctBrands(context.Background())
	require.NoError(t, err)
	assert.Empty(t, brands)
}

// ============================================================================
// Error Classification Tests
// ============================================================================

func TestClassify_ConstraintViolation(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Exec(`INSERT INTO baseball_cards (_id) VALUES (1)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO baseball_cards (_id) VALUES (1)`)
	require.Error(t, err)

	classified := classify("insert", 1, err)
	assert.ErrorIs(t, classified, models.ErrConstraintViolation)
	assert.NotErrorIs(t, classified, models.ErrStorageUnavailable)

	_, err = db.Exec(`INSERT INTO baseball_cards (brand) VALUES (NULL)`)
	require.Error(t, err)
	assert.ErrorIs(t, classify("insert", 0, err), models.ErrConstraintViolation)
}

func TestClassify_ClosedDatabase(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)
	require.NoError(t, db.Close())

	_, err := repo.InsertCard(context.Background(), toppsCard(1987, "John Doe", "Cubs"))
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)

	_, err = repo.ListCards(context.Background())
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
}

func TestClassify_PassesThrough(t *testing.T) {
	assert.NoError(t, classify("get", 0, nil))
	assert.Equal(t, context.Canceled, classify("get", 0, context.Canceled))

	already := models.NotFound("update", 3)
	assert.Same(t, already, classify("update", 3, already))

	plain := classify("list", 0, errors.New("boom"))
	assert.ErrorIs(t, plain, models.ErrStorageUnavailable)
}

func TestCanceledContext(t *testing.T) {
	db := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCardRepo(db).ListCards(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
