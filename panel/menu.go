package panel

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Action identifies a menu entry.
type Action string

const (
	ActionNone           Action = ""
	ActionGenerateModule Action = "module"
	ActionGenerateOCMod  Action = "ocmod"
	ActionGenerateTwig   Action = "twig"
	ActionGenerateTpl    Action = "tpl"
	ActionInsertSnippet  Action = "snippet"
	ActionOpenChat       Action = "chat"
	ActionIndex          Action = "index"
	ActionSettings       Action = "settings"
)

// Entry is one line of the menu.
type Entry struct {
	title   string
	section string
	action  Action
}

func (i Entry) Title() string       { return i.title }
func (i Entry) Description() string { return i.section }
func (i Entry) FilterValue() string { return i.title }

// Entries is the fixed content of the menu, in display order.
var Entries = []Entry{
	{"Generate Module", "Generators", ActionGenerateModule},
	{"Generate OCMod", "Generators", ActionGenerateOCMod},
	{"Generate Twig Template", "Generators", ActionGenerateTwig},
	{"Generate TPL Template", "Generators", ActionGenerateTpl},
	{"Insert Snippet", "Snippets", ActionInsertSnippet},
	{"Open AI Assistant", "AI", ActionOpenChat},
	{"Index OpenCart Files", "Tools", ActionIndex},
	{"Settings", "Tools", ActionSettings},
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel lets the user pick one action. Quitting without a pick leaves Choice empty.
type MenuModel struct {
	list   list.Model
	choice Action
}

// NewMenuModel builds the menu; status is shown under the title, e.g. the index state.
func NewMenuModel(status string) MenuModel {
	items := make([]list.Item, 0, len(Entries))
	for _, entry := range Entries {
		items = append(items, entry)
	}

	l := list.New(items, list.NewDefaultDelegate(), 60, 30)
	l.Title = "OpenCart Scaffold"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	if status != "" {
		l.NewStatusMessage(statusStyle.Render(status))
		l.SetShowStatusBar(true)
	}

	return MenuModel{list: l}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(Entry); ok {
				m.choice = item.action
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.choice = ActionNone
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m MenuModel) View() string {
	return m.list.View()
}

// Choice is the action picked with enter, or ActionNone.
func (m MenuModel) Choice() Action {
	return m.choice
}

// RunMenu shows the menu until the user picks an entry or quits.
func RunMenu(ctx context.Context, status string) (Action, error) {
	final, err := tea.NewProgram(NewMenuModel(status), tea.WithContext(ctx)).Run()
	if err != nil {
		return ActionNone, fmt.Errorf("menu failed: %w", err)
	}
	model, ok := final.(MenuModel)
	if !ok {
		return ActionNone, nil
	}
	return model.Choice(), nil
}
