package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/galacticode/galacticode/internal/ui/theme"
)

const tagline = "Code your way across the galaxy!"

const bannerArt = ` ___   _   _      _   ___ _____ ___ ___ ___  ___  ___
/ __| /_\ | |    /_\ / __|_   _|_ _/ __/ _ \|   \| __|
| (_ |/ _ \| |__ / _ \ (__  | |  | | (_| (_) | |) | _|
\___/_/ \_\____/_/ \_\___| |_| |___\___\___/|___/|___|`

const bannerCompact = "G A L A C T I C O D E"

// RenderBanner renders the wordmark, falling back to spaced letters below
// 58 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if width < 58 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
