package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/galacticode/galacticode/internal/challenge"
	"github.com/galacticode/galacticode/internal/store"
	"github.com/galacticode/galacticode/internal/ui/components"
	"github.com/galacticode/galacticode/internal/ui/theme"
)

const titleArt = `·   ✦        ·      ✦     ·
  G A L A C T I C O D E
 ✦     ·   ✦      ·      ✦`

const titleCompact = "G A L A C T I C O D E"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// cabinet border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 60)
}

func renderTitle(cw int, compact bool) string {
	art := titleArt
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Accent).
		Bold(true).
		Render(art)
}

func renderCatalogLine(c challenge.Catalog, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s · %d challenges · %d points to win", c.Name, c.Len(), c.TotalPoints()))
}

// renderStatsBar renders best score and level in a double-bordered box.
func renderStatsBar(st store.Stats, cw int) string {
	best := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("★ BEST %d", st.BestScore))
	level := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Render(fmt.Sprintf("LV %d", st.BestLevel))
	games := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("◎ %d GAMES", st.Sessions))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(best + "   " + level + "   " + games)
}

func renderMenu(m components.Menu, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(m.View())
}

// renderCabinetFrame wraps content in a double-border frame, centered in
// the given area.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
