package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/galacticode/galacticode/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a verdict mark and a locked state.
type TextInput struct {
	Model     textinput.Model
	submitted bool
	valid     bool
	locked    bool
}

// NewTextInput creates a new focused text input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()

	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. A locked input ignores everything.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.locked {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.submitted {
		if t.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Submit marks the input as submitted with a validation result.
func (t *TextInput) Submit(valid bool) {
	t.submitted = true
	t.valid = valid
}

// Lock blurs the input so it stops accepting keys.
func (t *TextInput) Lock() {
	t.locked = true
	t.Model.Blur()
}

// Locked reports whether the input is locked.
func (t TextInput) Locked() bool {
	return t.locked
}

// Reset clears the value and verdict and unlocks the input.
func (t *TextInput) Reset() tea.Cmd {
	t.Model.SetValue("")
	t.submitted = false
	t.locked = false
	return t.Model.Focus()
}
