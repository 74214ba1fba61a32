package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██████╗  █████╗ ███╗   ███╗███╗   ███╗ █████╗ ██████╗
 ██╔════╝ ██╔══██╗██╔══██╗████╗ ████║████╗ ████║██╔══██╗██╔══██╗
 ██║  ███╗██████╔╝███████║██╔████╔██║██╔████╔██║███████║██████╔╝
 ██║   ██║██╔══██╗██╔══██║██║╚██╔╝██║██║╚██╔╝██║██╔══██║██╔══██╗
 ╚██████╔╝██║  ██║██║  ██║██║ ╚═╝ ██║██║ ╚═╝ ██║██║  ██║██║  ██║
  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝     ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝

               ███████╗██╗      ██████╗ ██╗    ██╗
               ██╔════╝██║     ██╔═══██╗██║    ██║
               █████╗  ██║     ██║   ██║██║ █╗ ██║
               ██╔══╝  ██║     ██║   ██║██║███╗██║
               ██║     ███████╗╚██████╔╝╚███╔███╔╝
               ╚═╝     ╚══════╝ ╚═════╝  ╚══╝╚══╝`

const bannerCompact = "G R A M M A R F L O W"

// bannerWidth is the widest line of bannerArt.
const bannerWidth = 64

// RenderBanner returns the GRAMMARFLOW banner styled in the primary color.
// Uses a compact fallback for terminals narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth+2 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
