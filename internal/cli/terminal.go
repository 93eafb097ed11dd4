package cli

import (
	"fmt"

	"github.com/bastiangx/bufcomplete/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
)

var (
	matchStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	expansionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	continuationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	rangeStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	lineNumberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func kindStyle(k suggest.Kind) lipgloss.Style {
	switch k {
	case suggest.KindExpansion:
		return expansionStyle
	case suggest.KindContinuation:
		return continuationStyle
	default:
		return matchStyle
	}
}

// formatSuggestion renders one numbered result line
func (h *InputHandler) formatSuggestion(n int, s suggest.Suggestion) string {
	line := fmt.Sprintf("%2d. %-40s %-12s", n, kindStyle(s.Kind).Render(s.Text), s.Kind)
	if h.showRanges && s.Source != nil {
		line += " " + rangeStyle.Render("from "+s.Source.String())
	}
	return line
}
