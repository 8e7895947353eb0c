package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bbct/bbct/internal/models"
)

func TestCardMarkdown(t *testing.T) {
	md := CardMarkdown(models.BaseballCard{
		ID:          3,
		Autographed: true,
		Brand:       "Donruss",
		Year:        1989,
		Number:      "33",
		Value:       5000,
		Quantity:    1,
		PlayerName:  "Ken Griffey Jr.",
	})

	assert.True(t, strings.HasPrefix(md, "## Ken Griffey Jr.\n"))
	assert.Contains(t, md, "*Autographed*")
	assert.Contains(t, md, "- **Year:** 1989")
	assert.Contains(t, md, "- **Value:** $50.00")
	assert.Contains(t, md, "- **Team:** -")
}

func TestRenderCardDetail_NoCard(t *testing.T) {
	assert.Contains(t, RenderCardDetail(CardDetailProps{Width: 40}), "No card selected")
}

func TestRenderCardTable(t *testing.T) {
	cards := []models.BaseballCard{
		{ID: 1, PlayerName: "Nolan Ryan", Brand: "Topps", Year: 1991, Value: 1000, Quantity: 1},
		{ID: 2, PlayerName: "Barry Bonds", Brand: "Topps", Autographed: true},
	}
	out := RenderCardTable(CardTableProps{
		Cards:  cards,
		Cursor: 1,
		Marked: func(id int64) bool { return id == 1 },
	})

	assert.Contains(t, out, "Player")
	assert.Contains(t, out, "Nolan Ryan")
	assert.Contains(t, out, "$10.00")
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "✎")
}

func TestCardRow(t *testing.T) {
	row := cardRow(models.BaseballCard{PlayerName: "X", Quantity: 2}, false)
	assert.Equal(t, []string{" ", "X", "", "", "", "", "", "$0.00", "2"}, row)
}

func TestStatusBar(t *testing.T) {
	bar := RenderStatusBar(StatusBarProps{Width: 80, Mode: "NORMAL", Store: "bbct", Info: "3 card(s)"})
	assert.Contains(t, bar, "NORMAL")
	assert.Contains(t, bar, "bbct")
	assert.Contains(t, bar, "3 card(s)")
	assert.Contains(t, bar, "press ? for help")
}

func TestTableRows(t *testing.T) {
	assert.Equal(t, 6, TableRows(10))
	assert.Equal(t, 0, TableRows(2))
}
