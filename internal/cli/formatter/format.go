package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stempelbot/stempel/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
)

// DisableStyles strips all color styling, used when stdout is not a
// terminal.
func DisableStyles() {
	plain := lipgloss.NewStyle()
	StyleGreen = plain
	StyleYellow = plain
	StyleBlue = plain
	StyleDim = plain
	StyleHeader = plain
}

// Duration renders a minute count as "3h 20m" or "45m".
func Duration(minutes int64) string {
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

var medals = []string{"1.", "2.", "3."}

// Leaderboard renders leaderboard entries, one per line. Entries with equal
// totals appear in store order.
func Leaderboard(title string, entries []domain.LeaderboardEntry) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render(title))
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString(StyleDim.Render("no data yet"))
		b.WriteString("\n")
		return b.String()
	}
	for i, e := range entries {
		prefix := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			prefix = StyleYellow.Render(medals[i])
		}
		fmt.Fprintf(&b, "%s %s  %s\n", prefix, e.Username, StyleGreen.Render(Duration(e.TotalMinutes)))
	}
	return b.String()
}

// Breakdown renders per-(user, activity) entries grouped under each user.
func Breakdown(entries []domain.ActivityEntry) string {
	if len(entries) == 0 {
		return StyleDim.Render("no data yet") + "\n"
	}
	var b strings.Builder
	var lastUser string
	for _, e := range entries {
		if e.Username != lastUser {
			b.WriteString(StyleHeader.Render(e.Username))
			b.WriteString("\n")
			lastUser = e.Username
		}
		fmt.Fprintf(&b, "  %s  %s", e.Activity, StyleGreen.Render(Duration(e.TotalMinutes)))
		if e.SessionCount > 0 {
			fmt.Fprintf(&b, " %s", StyleDim.Render(fmt.Sprintf("(%d sessions)", e.SessionCount)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Summary renders the weekly summary block.
func Summary(s *domain.WeeklySummary) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("This week"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "total %s across %d sessions by %d workers\n",
		Duration(s.TotalMinutes), s.TotalSessions, s.UniqueWorkers)
	if s.MVP != nil {
		fmt.Fprintf(&b, "mvp: %s (%s)\n", StyleBlue.Render(s.MVP.Username), Duration(s.MVP.Minutes))
	}
	if s.TopActivity != nil {
		fmt.Fprintf(&b, "top activity: %s (%s)\n", s.TopActivity.Activity, Duration(s.TopActivity.Minutes))
	}
	if s.LongestSession != nil {
		fmt.Fprintf(&b, "longest session: %s on %s (%s)\n",
			s.LongestSession.Username, s.LongestSession.Activity, Duration(s.LongestSession.Minutes))
	}
	if len(s.Breakdown) > 0 {
		b.WriteString("\n")
		b.WriteString(Breakdown(s.Breakdown))
	}
	return b.String()
}
