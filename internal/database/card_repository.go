package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bbct/bbct/internal/models"
	"github.com/jmoiron/sqlx"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

const cardColumns = `_id, autographed, condition, brand, year, number, value, quantity, player_name, team, position`

// CardRepo handles baseball card persistence.
type CardRepo struct {
	db *sqlx.DB
}

// NewCardRepo creates a CardRepo over db
func NewCardRepo(db *sqlx.DB) *CardRepo {
	return &CardRepo{db: db}
}

// ============================================================================
// Writes
// ============================================================================

// InsertCard stores card under a freshly assigned identifier and returns it.
// card.ID is ignored.
func (r *CardRepo) InsertCard(ctx context.Context, card models.BaseballCard) (int64, error) {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO baseball_cards (autographed, condition, brand, year, number, value, quantity, player_name, team, position)
		VALUES (:autographed, :condition, :brand, :year, :number, :value, :quantity, :player_name, :team, :position)
	`, card)
	if err != nil {
		return 0, classify("insert", 0, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, classify("insert", 0, err)
	}
	return id, nil
}

// UpdateCard replaces every field of the card with card.ID
func (r *CardRepo) UpdateCard(ctx context.Context, card models.BaseballCard) error {
	result, err := r.db.NamedExecContext(ctx, `
		UPDATE baseball_cards SET
			autographed = :autographed,
			condition = :condition,
			brand = :brand,
			year = :year,
			number = :number,
			value = :value,
			quantity = :quantity,
			player_name = :player_name,
			team = :team,
			position = :position
		WHERE _id = :_id
	`, card)
	if err != nil {
		return classify("update", card.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return classify("update", card.ID, err)
	}
	if rows == 0 {
		return models.NotFound("update", card.ID)
	}
	return nil
}

// DeleteCards removes every listed card in one transaction.
// Identifiers with no stored card are skipped; the count of removed rows is returned.
func (r *CardRepo) DeleteCards(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM baseball_cards WHERE _id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}

	var removed int64
	err = withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return err
		}
		removed, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, classify("delete", 0, err)
	}
	return int(removed), nil
}

// ============================================================================
// Reads
// ============================================================================

// GetCard retrieves one card. A missing card is reported as found == false.
func (r *CardRepo) GetCard(ctx context.Context, id int64) (models.BaseballCard, bool, error) {
	var card models.BaseballCard
	err := r.db.GetContext(ctx, &card, `SELECT `+cardColumns+` FROM baseball_cards WHERE _id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BaseballCard{}, false, nil
	}
	if err != nil {
		return models.BaseballCard{}, false, classify("get", id, err)
	}
	return card, true, nil
}

// ListCards retrieves every card ordered by identifier
func (r *CardRepo) ListCards(ctx context.Context) ([]models.BaseballCard, error) {
	cards := []models.BaseballCard{}
	err := r.db.SelectContext(ctx, &cards, `SELECT `+cardColumns+` FROM baseball_cards ORDER BY _id`)
	if err != nil {
		return nil, classify("list", 0, err)
	}
	return cards, nil
}

// FindCards retrieves the cards matching every supplied filter field, ordered by identifier
func (r *CardRepo) FindCards(ctx context.Context, filter models.CardFilter) ([]models.BaseballCard, error) {
	where, args := filterClause(filter)

	cards := []models.BaseballCard{}
	err := r.db.SelectContext(ctx, &cards, `SELECT `+cardColumns+` FROM baseball_cards`+where+` ORDER BY _id`, args...)
	if err != nil {
		return nil, classify("query", 0, err)
	}
	return cards, nil
}

// filterClause builds the WHERE clause for filter. SQLite LIKE is already
// case-insensitive for ASCII, and caller wildcards are kept.
func filterClause(filter models.CardFilter) (string, []any) {
	var conds []string
	var args []any

	like := func(column string, pattern *string) {
		if pattern != nil {
			conds = append(conds, column+" LIKE ?")
			args = append(args, *pattern)
		}
	}

	like("brand", filter.Brand)
	if filter.Year != nil {
		conds = append(conds, "year = ?")
		args = append(args, *filter.Year)
	}
	like("number", filter.Number)
	like("player_name", filter.PlayerName)
	like("team", filter.Team)

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ============================================================================
// Projections
//
// An empty text field means the value was never entered, so "" is left out
// of every projection: it is absence, not a brand, player or team to offer
// as a suggestion.
// ============================================================================

// DistinctBrands retrieves every brand once, ascending. Cards with no brand
// contribute nothing, since an empty brand was never entered.
func (r *CardRepo) DistinctBrands(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "brand")
}

// DistinctPlayerNames retrieves every non-empty player name once, ascending
func (r *CardRepo) DistinctPlayerNames(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "player_name")
}

// DistinctTeams retrieves every non-empty team once, ascending
func (r *CardRepo) DistinctTeams(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "team")
}

// distinct must only be called with a constant column name
func (r *CardRepo) distinct(ctx context.Context, column string) ([]string, error) {
	values := []string{}
	query := fmt.Sprintf(`SELECT DISTINCT %[1]s FROM baseball_cards WHERE %[1]s <> '' ORDER BY %[1]s`, column)
	if err := r.db.SelectContext(ctx, &values, query); err != nil {
		return nil, classify("distinct "+column, 0, err)
	}
	return values, nil
}
