package login

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██████╗  █████╗  ██████╗████████╗██╗███████╗
 ██╔══██╗██╔══██╗██╔══██╗██╔════╝╚══██╔══╝██║╚══███╔╝
 ██████╔╝██████╔╝███████║██║        ██║   ██║  ███╔╝
 ██╔═══╝ ██╔══██╗██╔══██║██║        ██║   ██║ ███╔╝
 ██║     ██║  ██║██║  ██║╚██████╗   ██║   ██║███████╗
 ╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝   ╚═╝   ╚═╝╚══════╝`

const bannerCompact = "P R A C T I Z"

// RenderBanner returns the PRACTIZ banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 55 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 55 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
