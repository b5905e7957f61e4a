package operator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/hydr0-downloader/internal/model"
)

var (
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Confirm key.Binding
	Skip    key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space"),
		key.WithHelp("space", "toggle"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "download selected"),
	),
	Skip: key.NewBinding(
		key.WithKeys("n", "esc", "ctrl+c"),
		key.WithHelp("n", "skip"),
	),
}

func (k keyMap) help() string {
	parts := make([]string, 0, 5)
	for _, b := range []key.Binding{k.Up, k.Down, k.Toggle, k.Confirm, k.Skip} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return dimStyle.Render(strings.Join(parts, " • "))
}

// pickerModel is the Bubble Tea model behind Picker.
type pickerModel struct {
	query      string
	candidates []model.Track
	cursor     int
	checked    map[int]bool
	order      []int
	done       bool
	skip       bool
	warning    string
}

func newPickerModel(query string, candidates []model.Track) pickerModel {
	return pickerModel{
		query:      query,
		candidates: candidates,
		checked:    make(map[int]bool),
	}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Toggle):
		m.warning = ""
		m.toggle(m.cursor)
	case key.Matches(keyMsg, keys.Confirm):
		if len(m.order) == 0 {
			m.warning = fmt.Sprintf("select at least one track or press %s to skip", SkipToken)
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Skip):
		m.done = true
		m.skip = true
		return m, tea.Quit
	}
	return m, nil
}

// toggle flips candidate i, keeping the order in which candidates were picked.
func (m *pickerModel) toggle(i int) {
	if m.checked[i] {
		delete(m.checked, i)
		order := m.order[:0]
		for _, j := range m.order {
			if j != i {
				order = append(order, j)
			}
		}
		m.order = order
		return
	}
	m.checked[i] = true
	m.order = append(m.order, i)
}

func (m pickerModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(queryStyle.Render("Search results for: "+m.query) + "\n\n")
	for i, c := range m.candidates {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if m.checked[i] {
			box = checkedStyle.Render("[x]")
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", cursor, box, c.ArtistTitle(), dimStyle.Render(c.Duration))
	}
	if m.warning != "" {
		b.WriteString("\n" + errorStyle.Render(m.warning) + "\n")
	}
	b.WriteString("\n" + keys.help())
	return boxStyle.Render(b.String()) + "\n"
}

// selection converts the final model state into a Selection.
func (m pickerModel) selection() Selection {
	if m.skip || len(m.order) == 0 {
		return Selection{Skip: true}
	}
	return Selection{Indices: append([]int(nil), m.order...)}
}

// Picker is an interactive terminal Operator.
type Picker struct {
	in  io.Reader
	out io.Writer
}

// NewPicker creates a Picker using the given terminal streams.
func NewPicker(in io.Reader, out io.Writer) *Picker {
	return &Picker{in: in, out: out}
}

// Select runs the picker until the operator confirms or skips.
func (p *Picker) Select(ctx context.Context, query string, candidates []model.Track) (Selection, error) {
	program := tea.NewProgram(
		newPickerModel(query, candidates),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := program.Run()
	if err != nil {
		return Selection{}, fmt.Errorf("run picker: %w", err)
	}
	return final.(pickerModel).selection(), nil
}
