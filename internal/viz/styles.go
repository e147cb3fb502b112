package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles are rebuilt from CurrentTheme by applyTheme.
var (
	Panel         lipgloss.Style
	Subtle        lipgloss.Style
	StatusRunning lipgloss.Style
	StatusPaused  lipgloss.Style
	ErrorText     lipgloss.Style
	MetricValue   lipgloss.Style
	MetricLabel   lipgloss.Style
	KeyHint       lipgloss.Style
	HeaderStyle   lipgloss.Style
	GraphStyle    lipgloss.Style

	barHigh, barMid, barLow lipgloss.Style
)

func init() {
	applyTheme(CurrentTheme)
}

func applyTheme(t Theme) {
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2)
	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	StatusPaused = lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
	ErrorText = lipgloss.NewStyle().Foreground(t.Error)
	MetricValue = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	MetricLabel = lipgloss.NewStyle().Foreground(t.Label)
	KeyHint = lipgloss.NewStyle().Italic(true).Foreground(t.Muted)
	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Border)
	GraphStyle = lipgloss.NewStyle().Foreground(t.Primary)

	barHigh = lipgloss.NewStyle().Foreground(t.Success)
	barMid = lipgloss.NewStyle().Foreground(t.Warning)
	barLow = lipgloss.NewStyle().Foreground(t.Error)
}

// GradientText blends each rune's color from start to end in Lab space.
// Colors that fail to parse render the text unstyled.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	c0, err0 := colorful.Hex(string(start))
	c1, err1 := colorful.Hex(string(end))
	if err0 != nil || err1 != nil {
		return text
	}

	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		col := lipgloss.Color(c0.BlendLab(c1, t).Clamped().Hex())
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(col).Render(string(r)))
	}
	return b.String()
}

// ProgressBar renders a fraction in [0, 1]; values outside are clamped.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(width, filled))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case fraction > 0.8:
		return barHigh.Render(bar)
	case fraction > 0.4:
		return barMid.Render(bar)
	}
	return barLow.Render(bar)
}

// CenterBar renders a signed value in [-1, 1] growing out from the middle.
func CenterBar(v float64, width int) string {
	half := width / 2
	n := int(v * float64(half))
	n = max(-half, min(half, n))

	left, right := strings.Repeat("░", half), strings.Repeat("░", half)
	if n < 0 {
		left = strings.Repeat("░", half+n) + strings.Repeat("█", -n)
	} else if n > 0 {
		right = strings.Repeat("█", n) + strings.Repeat("░", half-n)
	}
	return barMid.Render(left) + Subtle.Render("│") + barMid.Render(right)
}

// BoxWithTitle draws content in a rounded box with the title set into the
// top border.
func BoxWithTitle(title, content string, width int) string {
	t := CurrentTheme
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	border := lipgloss.NewStyle().Foreground(t.Border)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderTop(false).
		BorderForeground(t.Border).
		Width(width).
		Padding(0, 1)

	fill := max(0, width-lipgloss.Width(title)-3)
	header := border.Render("╭─ ") + titleStyle.Render(title) + border.Render(" "+strings.Repeat("─", fill)+"╮")
	return header + "\n" + box.Render(content)
}

func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(0, mid-3))
	right := strings.Repeat("─", max(0, width-mid-3))
	return Subtle.Render(left + " ◆ " + right)
}
