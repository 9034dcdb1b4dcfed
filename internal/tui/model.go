package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/muurk/joinpanel/internal/events"
	"github.com/muurk/joinpanel/internal/joinform"
	"github.com/muurk/joinpanel/internal/logging"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenForm      Screen = "form"
	ScreenSummary   Screen = "summary"
	ScreenCancelled Screen = "cancelled"
)

// Options wires the model to a form controller and the topics it listens on.
type Options struct {
	Form     *joinform.Controller
	Keyboard *events.Topic[joinform.Key]
	Focus    *events.Topic[joinform.Kind]
	Notifier *events.Topic[joinform.RelayAddressChanged]

	ConfigPath string // shown in the header
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// sessionState survives the value copies bubbletea makes of Model.
type sessionState struct {
	address string // last announced relay address
	submits int    // submits that committed at least one field
	sub     *events.Subscription
}

// Model is the top-level bubbletea model. It turns terminal keys into form
// events and renders the form and its result screens.
type Model struct {
	CurrentScreen Screen

	opts   Options
	state  *sessionState
	result joinform.SubmitResult
	notice string // shown under the form after a submit that changed nothing
	copied string // clipboard outcome on the summary screen

	Width  int
	Height int

	Help       help.Model
	FormKeys   formKeyMap
	ResultKeys resultKeyMap
}

// NewModel shows the form and subscribes to relay address notifications.
func NewModel(opts Options) Model {
	width, height := GetTerminalSize()
	m := Model{
		CurrentScreen: ScreenForm,
		opts:          opts,
		state:         &sessionState{},
		Width:         width,
		Height:        height,
		Help:          help.New(),
		FormKeys:      newFormKeyMap(),
		ResultKeys:    newResultKeyMap(),
	}

	if opts.Notifier != nil {
		state := m.state
		state.sub = opts.Notifier.Subscribe(func(ev joinform.RelayAddressChanged) {
			state.address = ev.Address
		})
	}
	if opts.Form != nil {
		opts.Form.Show()
	}
	return m
}

// Close stops listening for relay address notifications.
func (m Model) Close() {
	if m.state != nil {
		m.state.sub.Unsubscribe()
	}
}

// RelayAddress returns the last announced relay address.
func (m Model) RelayAddress() string {
	return m.state.address
}

// Committed reports whether any submit in this session changed a record.
func (m Model) Committed() bool {
	return m.state.submits > 0
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles all messages and routes them to the appropriate screen
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.CurrentScreen {
		case ScreenForm:
			return m.updateForm(msg)
		case ScreenSummary, ScreenCancelled:
			return m.updateResult(msg)
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.FormKeys.Submit):
		m.publish(joinform.Enter)
		return m.afterSubmit()

	case key.Matches(msg, m.FormKeys.Cancel):
		m.publish(joinform.Escape)
		if !m.formVisible() {
			m.CurrentScreen = ScreenCancelled
			m.notice = ""
		}
		return m, nil

	case key.Matches(msg, m.FormKeys.Next):
		m.publish(joinform.Tab)

	case key.Matches(msg, m.FormKeys.Delete):
		m.publish(joinform.Backspace)

	case key.Matches(msg, m.FormKeys.Jump):
		s := msg.String()
		idx := int(s[len(s)-1] - '1')
		if idx >= 0 && idx < len(joinform.FocusOrder) && m.opts.Focus != nil {
			m.opts.Focus.Publish(joinform.FocusOrder[idx])
		}

	case msg.Type == tea.KeyRunes && !msg.Alt:
		for _, r := range msg.Runes {
			m.publish(joinform.RuneKey(r))
		}

	case msg.Type == tea.KeySpace:
		m.publish(joinform.RuneKey(' '))
	}
	return m, nil
}

func (m Model) afterSubmit() (tea.Model, tea.Cmd) {
	if m.opts.Form == nil {
		return m, nil
	}
	m.result = m.opts.Form.LastResult()
	if m.formVisible() {
		m.notice = joinform.Warning
		return m, nil
	}
	m.notice = ""
	m.state.submits++
	m.CurrentScreen = ScreenSummary
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ResultKeys.Edit):
		if m.opts.Form != nil {
			m.opts.Form.Show()
		}
		m.CurrentScreen = ScreenForm
		m.result = joinform.SubmitResult{}
		m.copied = ""
		return m, nil

	case key.Matches(msg, m.ResultKeys.Copy):
		if m.CurrentScreen != ScreenSummary || m.result.RelayAddress == "" {
			return m, nil
		}
		if err := writeClipboard(m.result.RelayAddress); err != nil {
			logging.Warn("Clipboard unavailable", zap.Error(err))
			m.copied = "Could not copy: " + err.Error()
		} else {
			m.copied = "Copied " + m.result.RelayAddress + " to the clipboard"
		}
		return m, nil

	case key.Matches(msg, m.ResultKeys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) publish(k joinform.Key) {
	if m.opts.Keyboard == nil {
		logging.Debug("Key dropped, no keyboard topic", zap.Int("type", int(k.Type)))
		return
	}
	m.opts.Keyboard.Publish(k)
}

func (m Model) formVisible() bool {
	return m.opts.Form != nil && m.opts.Form.Visible()
}

// View renders the current screen
func (m Model) View() string {
	var content, helpText string
	switch m.CurrentScreen {
	case ScreenForm:
		content = m.buildFormContent()
		helpText = m.Help.View(m.FormKeys)
	case ScreenSummary:
		content = m.buildSummaryContent()
		helpText = m.Help.View(m.ResultKeys)
	case ScreenCancelled:
		content = m.buildCancelledContent()
		helpText = m.Help.View(m.ResultKeys)
	default:
		return "Unknown screen"
	}
	return RenderApplicationContainer(content, helpText, m.opts.ConfigPath, m.Width, m.Height)
}

func (m Model) buildFormContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Join a server"))
	b.WriteString("\n")

	if m.opts.Form == nil {
		b.WriteString(RenderError("no form attached"))
		return b.String()
	}

	active, hasActive := m.opts.Form.Active()
	for i, f := range m.opts.Form.Fields() {
		focused := hasActive && f.Kind == active
		b.WriteString(renderField(i+1, f, focused))
		b.WriteString("\n")
	}

	if problems := m.opts.Form.Problems(); len(problems) > 0 {
		b.WriteString("\n")
		b.WriteString(RenderWarning(m.wrap(joinform.FormatErrors(problems))))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n")
		msg := m.notice
		if len(m.result.Errors) > 0 {
			msg += "\n" + joinform.FormatErrors(m.result.Errors)
		}
		b.WriteString(RenderError(m.wrap(strings.TrimRight(msg, "\n"))))
		b.WriteString("\n")
	}

	if m.state.address != "" {
		b.WriteString("\n")
		b.WriteString(StatusStyle.Render("Relay: " + m.state.address))
		b.WriteString("\n")
	}

	return b.String()
}

func renderField(n int, f joinform.Field, focused bool) string {
	label := fmt.Sprintf("%d %s", n, f.Kind.Label())

	var value string
	switch {
	case f.Empty():
		value = PlaceholderStyle.Render(f.Placeholder)
	case focused:
		value = FocusedInputStyle.Render(f.Text())
	default:
		value = f.Text()
	}

	if focused {
		return "→ " + FocusedLabelStyle.Render(label) + value + "█"
	}
	return "  " + LabelStyle.Render(label) + value
}

func (m Model) buildSummaryContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("✓ Settings saved"))
	b.WriteString("\n")

	var committed []string
	for _, k := range m.result.Committed {
		committed = append(committed, k.Label())
	}
	b.WriteString(SuccessBoxStyle.Render("Committed: " + strings.Join(committed, ", ")))
	b.WriteString("\n\n")

	if m.result.RelayAddress != "" {
		state := "announced"
		if !m.result.Persisted {
			state = "announced, not saved"
		}
		fmt.Fprintf(&b, "  Relay address: %s (%s)\n\n", m.result.RelayAddress, state)
	}

	if len(m.result.Errors) > 0 {
		b.WriteString(RenderWarning(m.wrap(strings.TrimRight(joinform.FormatErrors(m.result.Errors), "\n"))))
		b.WriteString("\n\n")
	}

	if m.copied != "" {
		b.WriteString(StatusStyle.Render(m.copied))
		b.WriteString("\n\n")
	}

	b.WriteString("What would you like to do next?\n\n")
	b.WriteString(MenuItemStyle.Render("e - Edit again"))
	b.WriteString("\n")
	if m.result.RelayAddress != "" {
		b.WriteString(MenuItemStyle.Render("c - Copy relay address"))
		b.WriteString("\n")
	}
	b.WriteString(MenuItemStyle.Render("q - Exit application"))
	b.WriteString("\n")

	return b.String()
}

// wrap fits boxed text inside the container.
func (m Model) wrap(s string) string {
	width := m.Width - 12
	if width < MinTerminalWidth-12 {
		width = MinTerminalWidth - 12
	}
	return wordwrap.String(s, width)
}

func (m Model) buildCancelledContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Cancelled"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Nothing was changed."))
	b.WriteString("\n\n")
	b.WriteString(MenuItemStyle.Render("e - Edit again"))
	b.WriteString("\n")
	b.WriteString(MenuItemStyle.Render("q - Exit application"))
	b.WriteString("\n")

	return b.String()
}
