package ui

const (
	minCols = 60
	minRows = 20
)

func DetermineLayoutMode(cols, rows int) LayoutMode {
	if cols < minCols || rows < minRows {
		return LayoutTooSmall
	}
	if cols >= 100 && rows >= 24 {
		return LayoutWide
	}
	return LayoutCompact
}
