// Package tui implements the interactive cache browser reachable via
// `cjdk browse`, adapted from a bubbletea list view over installed JDKs.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maskedsyntax/cjdk/internal/jdk"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginLeft(2).
			MarginTop(1)
)

type item struct {
	key  string
	path string
}

func (i item) Title() string       { return "  " + i.key }
func (i item) Description() string { return i.path }
func (i item) FilterValue() string { return i.key }

type keyMap struct {
	Remove key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Remove: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "remove"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type model struct {
	list     list.Model
	facade   *jdk.Facade
	status   string
	quitting bool
}

func initialModel(f *jdk.Facade, installed []jdk.InstalledJDK) model {
	items := buildItemList(installed)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.NormalTitle = normalStyle

	l := list.New(items, delegate, 60, 20)
	l.Title = "cjdk - Cached JDKs"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return model{list: l, facade: f}
}

func buildItemList(installed []jdk.InstalledJDK) []list.Item {
	items := make([]list.Item, 0, len(installed))
	for _, entry := range installed {
		items = append(items, item{key: entry.Key, path: entry.Path})
	}
	return items
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Remove):
			if i, ok := m.list.SelectedItem().(item); ok {
				if err := os.RemoveAll(i.path); err != nil {
					m.status = fmt.Sprintf("Error: %v", err)
				} else {
					m.status = fmt.Sprintf("Removed %s", i.key)
					m.list.RemoveItem(m.list.Index())
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.list.View())

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	help := helpStyle.Render("d: remove | /: filter | q: quit")
	b.WriteString("\n")
	b.WriteString(help)

	return b.String()
}

// Browse launches the interactive cache browser over f's installed JDKs.
func Browse(ctx context.Context, f *jdk.Facade) error {
	installed, err := f.ListJDKs(ctx)
	if err != nil {
		return fmt.Errorf("tui: list installed jdks: %w", err)
	}
	if len(installed) == 0 {
		return fmt.Errorf("tui: no JDKs installed; run 'cjdk cache <specifier>' first")
	}

	p := tea.NewProgram(initialModel(f, installed), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
