package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavescope/internal/ui/styles"
)

func barStyle() lipgloss.Style { return styles.T().S().Panel }

func titleStyle() lipgloss.Style { return styles.T().S().Title }

func infoStyle() lipgloss.Style { return styles.T().S().Muted }

func metaStyle() lipgloss.Style { return styles.T().S().Subtle }

func timeStyle() lipgloss.Style { return styles.T().S().Muted }

func progressFilledStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Primary)
}

func progressEmptyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Border)
}
