package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type pickerItem struct {
	id    string
	label string
	desc  string
}

func (i pickerItem) Title() string       { return i.label }
func (i pickerItem) Description() string { return i.desc }
func (i pickerItem) FilterValue() string { return i.label + " " + i.desc }

var pickerKeys = struct {
	Up, Down, Select, Cancel key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Down:   key.NewBinding(key.WithKeys("down", "ctrl+n")),
	Select: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc")),
}

// picker is a modal list with a query box. Typing only reaches the input; the
// list moves with the arrow keys.
type picker struct {
	title    string
	input    textinput.Model
	list     list.Model
	all      []pickerItem
	onSelect func(pickerItem) tea.Cmd
}

func newPicker(title string, items []pickerItem, onSelect func(pickerItem) tea.Cmd) *picker {
	inp := textinput.New()
	inp.Placeholder = "filter"
	inp.Prompt = "> "
	inp.Focus()
	lst := list.New(toListItems(items), list.NewDefaultDelegate(), 48, 14)
	lst.SetShowTitle(false)
	lst.SetShowStatusBar(false)
	lst.SetFilteringEnabled(false)
	lst.SetShowHelp(false)
	return &picker{title: title, input: inp, list: lst, all: items, onSelect: onSelect}
}

func (p *picker) Title() string { return p.title }

func (p *picker) Init() tea.Cmd { return textinput.Blink }

func (p *picker) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd, false
	}
	switch {
	case key.Matches(km, pickerKeys.Cancel):
		return p, nil, true
	case key.Matches(km, pickerKeys.Select):
		it, ok := p.list.SelectedItem().(pickerItem)
		if !ok || p.onSelect == nil {
			return p, nil, true
		}
		return p, p.onSelect(it), true
	case key.Matches(km, pickerKeys.Up):
		p.list.CursorUp()
		return p, nil, false
	case key.Matches(km, pickerKeys.Down):
		p.list.CursorDown()
		return p, nil, false
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(km)
	p.list.SetItems(toListItems(rankItems(p.input.Value(), p.all)))
	p.list.Select(0)
	return p, cmd, false
}

func (p *picker) View(width, height int) string {
	return titleStyle.Render(p.title) + "\n" + p.input.View() + "\n" + p.list.View() +
		"\n" + mutedStyle.Render("[enter] Select  [esc] Cancel")
}

func toListItems(items []pickerItem) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	return out
}

// rankItems keeps substring matches first in their original order, then
// close misspellings by edit distance.
func rankItems(query string, items []pickerItem) []pickerItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	type scored struct {
		item pickerItem
		dist int
	}
	var exact []pickerItem
	var fuzzy []scored
	limit := len(q)/3 + 1
	for _, it := range items {
		label := strings.ToLower(it.label)
		if strings.Contains(label, q) || strings.Contains(strings.ToLower(it.desc), q) {
			exact = append(exact, it)
			continue
		}
		best := levenshtein.ComputeDistance(q, label)
		for _, word := range strings.Fields(label) {
			if d := levenshtein.ComputeDistance(q, word); d < best {
				best = d
			}
		}
		if best <= limit {
			fuzzy = append(fuzzy, scored{item: it, dist: best})
		}
	}
	sort.SliceStable(fuzzy, func(i, j int) bool { return fuzzy[i].dist < fuzzy[j].dist })
	out := make([]pickerItem, 0, len(exact)+len(fuzzy))
	out = append(out, exact...)
	for _, s := range fuzzy {
		out = append(out, s.item)
	}
	return out
}
