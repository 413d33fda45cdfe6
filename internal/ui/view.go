package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"todoclient/internal/todo"
)

const (
	gridColumns = 3
	cardWidth   = 26
)

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	completedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	taskStyle         = lipgloss.NewStyle().Bold(true)
	cardStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1).Width(cardWidth)
	selectedCardStyle = cardStyle.BorderForeground(lipgloss.Color("205"))
	dialogStyle       = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("63")).Padding(1, 2)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("TODOs List"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	if m.state.Searching() {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Searching %q: %d results", m.state.Query, m.state.Results)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.fetchErr != nil:
		b.WriteString(errorStyle.Render("Error fetching TODOs: " + m.fetchErr.Error()))
	case m.fetching && len(m.state.Todos) == 0:
		b.WriteString(m.spin.View() + " Loading TODOs...")
	default:
		b.WriteString(m.renderGrid())
		b.WriteString("\n")
		b.WriteString(m.renderPagination())
	}
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		b.WriteString("\n")
		b.WriteString(m.renderAddDialog())
		b.WriteString("\n")
	case modeConfirmDelete:
		b.WriteString("\n")
		b.WriteString(m.renderDeleteDialog())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(mutedStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderGrid() string {
	if len(m.state.Paged) == 0 {
		if m.state.Searching() {
			return mutedStyle.Render("No TODOs match your search.")
		}
		if len(m.state.Todos) > 0 {
			return mutedStyle.Render("Nothing on this page.")
		}
		return mutedStyle.Render(fmt.Sprintf("No TODOs yet. Press '%s' to add one.", m.keys.Add.Help().Key))
	}

	var rows []string
	for start := 0; start < len(m.state.Paged); start += gridColumns {
		end := start + gridColumns
		if end > len(m.state.Paged) {
			end = len(m.state.Paged)
		}
		cards := make([]string, 0, gridColumns)
		for i := start; i < end; i++ {
			cards = append(cards, renderCard(m.state.Paged[i], i == m.cursor && m.mode == modeList))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(t todo.Todo, selected bool) string {
	checkbox := "[ ]"
	status := pendingStyle.Render(humanDone(false))
	if t.Completed {
		checkbox = "[x]"
		status = completedStyle.Render(humanDone(true))
	}

	lines := []string{
		checkbox + " " + taskStyle.Render(t.Task),
		status,
	}
	if t.Image != "" {
		lines = append(lines, mutedStyle.Render(t.Image))
	}

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderPagination() string {
	if m.state.TotalPages == 0 {
		return ""
	}
	line := fmt.Sprintf("Page %d of %d", m.state.Page, m.state.TotalPages)
	if m.state.Page > m.state.TotalPages {
		line += mutedStyle.Render(fmt.Sprintf(" (past the last page, press %s to go back)", m.keys.PrevPage.Help().Key))
	}
	if m.state.Loading {
		line += " " + m.spin.View()
	}
	return line
}

func (m Model) renderAddDialog() string {
	var b strings.Builder
	b.WriteString(taskStyle.Render("Add TODO"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	if m.dialogErr != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.dialogErr))
	}
	if m.state.Loading {
		b.WriteString("\n\n")
		b.WriteString(m.spin.View() + " Saving...")
	}
	return dialogStyle.Render(b.String())
}

func (m Model) renderDeleteDialog() string {
	task := ""
	if m.pendingDel != nil {
		task = m.pendingDel.Task
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Are you sure you want to delete \"%s\"?", task))
	if m.dialogErr != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.dialogErr))
	}
	if m.state.Loading {
		b.WriteString("\n\n")
		b.WriteString(m.spin.View() + " Deleting...")
	}
	return dialogStyle.Render(b.String())
}

func (m Model) renderHelp() string {
	switch m.mode {
	case modeSearch, modeAdd:
		return m.help.ShortHelpView([]key.Binding{m.keys.Confirm, m.keys.Cancel})
	case modeConfirmDelete:
		return m.help.ShortHelpView([]key.Binding{m.keys.ConfirmDelete, m.keys.CancelDelete})
	}
	return m.help.View(m.keys)
}
