package components

const (
	tableChromeLines = 4  // top border, header, header separator, bottom border
	MinTableWidth    = 60 // narrower tables hide the detail pane
	DetailWidth      = 44 // width of the detail pane beside the table

	// Dialog footer strings
	ConfirmFooter = "y: confirm  n/esc: cancel"
	FormFooter    = "ctrl+s: save  esc: cancel  tab/shift+tab: move"
)

// TableRows returns how many card rows fit in a table of the given total height
func TableRows(height int) int {
	return max(height-tableChromeLines, 0)
}
