package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gradepath/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██████╗  █████╗ ██████╗ ███████╗██████╗  █████╗ ████████╗██╗  ██╗
 ██╔════╝ ██╔══██╗██╔══██╗██╔══██╗██╔════╝██╔══██╗██╔══██╗╚══██╔══╝██║  ██║
 ██║  ███╗██████╔╝███████║██║  ██║█████╗  ██████╔╝███████║   ██║   ███████║
 ██║   ██║██╔══██╗██╔══██║██║  ██║██╔══╝  ██╔═══╝ ██╔══██║   ██║   ██╔══██║
 ╚██████╔╝██║  ██║██║  ██║██████╔╝███████╗██║     ██║  ██║   ██║   ██║  ██║
  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝ ╚══════╝╚═╝     ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝`

const bannerCompact = "G R A D E P A T H"

// RenderBanner returns the banner in the primary colour, or the compact
// form when the terminal is narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 78 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
