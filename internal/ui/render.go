package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"reactants/internal/game"
)

func (r *Root) renderSettings() string {
	width := max(20, r.cols)
	header := r.theme.Header.Width(width).Render(trimForWidth("Reactants, Products and Leftovers", width-2))

	listLines := make([]string, 0, len(r.levels)+1)
	if len(r.levels) == 0 {
		listLines = append(listLines, r.theme.Muted.Render("No levels loaded."))
	}
	for i, lvl := range r.levels {
		marker := "  "
		if i == r.levelIndex {
			marker = "> "
		}
		line := fmt.Sprintf("%s%d. %s", marker, i+1, lvl.Title)
		if lvl.PerfectScore > 0 {
			line += fmt.Sprintf("  best %d/%d", lvl.BestScore, lvl.PerfectScore)
		}
		if lvl.BestTimeMS > 0 {
			line += "  " + formatElapsed(time.Duration(lvl.BestTimeMS)*time.Millisecond)
		}
		if i == r.levelIndex {
			line = r.theme.Accent.Render(line)
		}
		listLines = append(listLines, line)
	}

	listWidth := max(24, width*2/5)
	detailWidth := max(24, width-listWidth)
	if r.layout != LayoutWide {
		listWidth, detailWidth = width, width
	}

	detail := []string{}
	if len(r.levels) > 0 {
		lvl := r.levels[r.levelIndex]
		md := strings.TrimSpace(lvl.SummaryMD + "\n\n" + lvl.DescriptionMD)
		detail = append(detail, strings.Split(r.renderMarkdown(md), "\n")...)
		detail = append(detail, "", fmt.Sprintf("Challenges: %d", lvl.Challenges))
		if lvl.LastRun != "" {
			detail = append(detail, r.theme.Muted.Render("Last run: "+lvl.LastRun))
		}
	}
	detail = append(detail, "", "Visibility: "+r.theme.Accent.Render("< "+r.visibility.String()+" >"))

	panels := []string{
		r.drawPanel("Levels", listLines, listWidth, len(listLines)+2),
		r.drawPanel("Details", detail, detailWidth, len(detail)+2),
	}
	var body string
	if r.layout == LayoutWide {
		body = lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, panels...)
	}

	parts := []string{header, body}
	if r.setupMsg != "" {
		errLines := []string{r.theme.Fail.Render(r.setupMsg)}
		if r.setupDetails != "" {
			errLines = append(errLines, strings.Split(r.setupDetails, "\n")...)
		}
		parts = append(parts, r.drawPanel("Setup Error", errLines, width, len(errLines)+2))
	}
	parts = append(parts, r.statusLine(width))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (r *Root) renderPlaying() string {
	if r.layout == LayoutTooSmall {
		msg := fmt.Sprintf("Terminal too small: need at least %dx%d (have %dx%d).", minCols, minRows, r.cols, r.rows)
		return lipgloss.Place(r.cols, r.rows, lipgloss.Center, lipgloss.Center, r.theme.Fail.Render(msg))
	}
	width := max(20, r.cols)
	s := r.state

	title := fmt.Sprintf("Level %d: %s   Challenge %d/%d   Score %d",
		s.Level+1, s.LevelTitle, s.ChallengeIndex+1, s.ChallengeCount, s.Score)
	if label := r.timerLabel(); label != "" {
		title += "   " + label
	}
	header := r.theme.Header.Width(width).Render(trimForWidth(title, width-2))
	equation := r.theme.Accent.Render(trimForWidth(s.Equation, width))
	if len(s.Points) > 0 {
		equation += "   " + r.pointsLine(s.Points)
	}

	molecules, numbers := Mask(s.Play, s.Visibility)
	beforeLines := make([]string, 0, len(s.Before))
	for _, row := range s.Before {
		beforeLines = append(beforeLines, r.beforeRow(row, molecules, numbers))
	}
	if !molecules && !numbers {
		beforeLines = append(beforeLines, r.theme.Muted.Render("hidden until you try again"))
	}
	afterLines := make([]string, 0, len(s.After))
	for i, row := range s.After {
		afterLines = append(afterLines, r.afterRow(row, i == r.fieldIndex && s.Play.InputsEnabled()))
	}

	height := max(len(beforeLines), len(afterLines)) + 2
	var body string
	if r.layout == LayoutWide {
		boxWidth := (width - 5) / 2
		arrow := lipgloss.Place(5, height, lipgloss.Center, lipgloss.Center, r.arrow())
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			r.drawPanel("Before Reaction", beforeLines, boxWidth, height),
			arrow,
			r.drawPanel("After Reaction", afterLines, width-5-boxWidth, height),
		)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			r.drawPanel("Before Reaction", beforeLines, width, len(beforeLines)+2),
			r.drawPanel("After Reaction", afterLines, width, len(afterLines)+2),
		)
	}

	parts := []string{header, equation, body}
	if fb := r.feedbackLine(); fb != "" {
		parts = append(parts, fb)
	}
	parts = append(parts, r.statusLine(width))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (r *Root) renderResults() string {
	res := r.result
	width := max(20, min(r.cols, 64))

	shown := int(r.shownScore + 0.5)
	if shown > res.Score {
		shown = res.Score
	}
	ratio := 0.0
	if res.PerfectScore > 0 {
		ratio = r.shownScore / float64(res.PerfectScore)
	}
	bar := r.scoreBar
	bar.SetWidth(max(10, width-8))

	lines := []string{
		r.theme.OverlayTitle.Render(trimForWidth("Level Complete: "+res.LevelTitle, width-6)),
		"",
		fmt.Sprintf("Score: %d / %d", shown, res.PerfectScore),
		bar.ViewAs(clamp01(ratio)),
		"Points: " + r.pointsLine(res.Points),
	}
	if res.TimerEnabled {
		line := "Time: " + formatElapsed(res.Elapsed)
		if res.NewBestTime {
			line += "  " + r.theme.Pass.Render("new best!")
		}
		lines = append(lines, line)
	}
	if res.RewardEligible {
		lines = append(lines, "", r.theme.Pass.Render("Perfect score! Reward unlocked."))
	}
	lines = append(lines, "", r.theme.Muted.Render("Enter: New Game"))

	box := r.theme.Overlay.Width(width).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.Place(r.cols, max(1, r.rows-1), lipgloss.Center, lipgloss.Center, box),
		r.statusLine(max(20, r.cols)),
	)
}

func (r *Root) beforeRow(row QuantityRow, molecules, numbers bool) string {
	count := " ?"
	if numbers {
		count = fmt.Sprintf("%2d", row.Quantity)
	}
	glyphs := ""
	if molecules {
		glyphs = r.theme.Reactant.Render(r.moleculeGlyphs(row.Quantity))
	}
	if !molecules && !numbers {
		return fmt.Sprintf("%-6s", row.Symbol)
	}
	return fmt.Sprintf("%-6s %s  %s", row.Symbol, count, glyphs)
}

func (r *Root) afterRow(row QuantityRow, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}
	field := fmt.Sprintf("[%2d]", row.Quantity)
	if selected {
		field = r.theme.Accent.Render(field)
	}
	style := r.theme.Reactant
	kind := "left"
	if row.Product {
		style = r.theme.Product
		kind = "made"
	}
	line := fmt.Sprintf("%s%-6s %s %s  %s", marker, row.Symbol, r.theme.Muted.Render(kind), field, style.Render(r.moleculeGlyphs(row.Quantity)))
	switch row.Status {
	case "pass":
		line += " " + r.theme.Pass.Render(r.mark(true))
	case "fail":
		line += " " + r.theme.Fail.Render(r.mark(false))
	}
	return line
}

func (r *Root) feedbackLine() string {
	s := r.state
	switch s.Play {
	case game.PlayTryAgain:
		return r.theme.Fail.Render(firstNonEmptyStr(s.Feedback, "Not quite. Try again."))
	case game.PlayShowAnswer:
		return r.theme.Fail.Render(firstNonEmptyStr(s.Feedback, "Still not right. Show the answer."))
	case game.PlayNext:
		return r.theme.Pass.Render(firstNonEmptyStr(s.Feedback, "Correct!"))
	}
	if s.Feedback != "" {
		return r.theme.Info.Render(s.Feedback)
	}
	return ""
}

func (r *Root) statusLine(width int) string {
	line := r.helpView()
	if r.statusFlash != "" {
		line = r.statusFlash + "  " + line
	}
	return r.theme.Status.Width(width).Render(trimForWidth(line, max(1, width-2)))
}

func (r *Root) timerLabel() string {
	s := r.state
	if s.ElapsedLabel != "" {
		return s.ElapsedLabel
	}
	if !s.TimerEnabled || s.StartedAt.IsZero() {
		return ""
	}
	return formatElapsed(time.Since(s.StartedAt))
}

func (r *Root) pointsLine(points []int) string {
	if len(points) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(points))
	for _, p := range points {
		switch {
		case p >= 2:
			parts = append(parts, r.theme.Pass.Render(r.star(2)))
		case p == 1:
			parts = append(parts, r.theme.Pending.Render(r.star(1)))
		default:
			parts = append(parts, r.theme.Muted.Render(r.star(0)))
		}
	}
	return strings.Join(parts, " ")
}

func (r *Root) renderMarkdown(md string) string {
	md = strings.TrimSpace(md)
	if md == "" || r.markdown == nil || r.ascii {
		return md
	}
	out, err := r.markdown.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func (r *Root) moleculeGlyphs(n int) string {
	if n <= 0 {
		return ""
	}
	if r.ascii {
		return strings.Repeat("o", n)
	}
	return strings.Repeat("●", n)
}

func (r *Root) arrow() string {
	if r.ascii {
		return "->"
	}
	return "➜"
}

func (r *Root) mark(pass bool) string {
	switch {
	case pass && r.ascii:
		return "ok"
	case pass:
		return "✓"
	case r.ascii:
		return "x"
	default:
		return "✗"
	}
}

func (r *Root) star(points int) string {
	if r.ascii {
		return []string{".", "+", "*"}[points]
	}
	return []string{"·", "☆", "★"}[points]
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	if width < 4 || height < 3 {
		return ""
	}
	innerW := width - 2
	innerH := height - 2
	h, v := "─", "│"
	tl, tr, bl, br := "┌", "┐", "└", "┘"
	if r.ascii {
		h, v = "-", "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	titleText := " " + trimForWidth(title, max(0, innerW-2)) + " "
	top := tl + r.theme.PanelTitle.Render(titleText) + r.theme.PanelBorder.Render(strings.Repeat(h, max(0, innerW-ansi.StringWidth(titleText)))) + tr
	out := []string{top}
	for i := 0; i < innerH; i++ {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		out = append(out, r.theme.PanelBorder.Render(v)+padCell(line, innerW)+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

// padCell fits s, which may carry styling, to exactly width columns.
func padCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", max(0, width-ansi.StringWidth(s)))
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return ansi.Truncate(s, width, "")
	}
	return ansi.Truncate(s, width, "...")
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func firstNonEmptyStr(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
