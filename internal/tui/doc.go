// Package tui hosts the join form in a Bubble Tea terminal program.
//
// The model owns no form state of its own. Terminal keys are translated
// into joinform.Key events and published on the keyboard topic; alt+1 to
// alt+5 publish on the focus topic. After every key the model reads the
// controller back to decide which screen to show:
//   - Form: the five fields, collaborator warnings and the last relay address
//   - Summary: after a submit that committed something
//   - Cancelled: after Escape
//
// Both result screens offer "e" to edit again and "q" to quit.
//
// # Usage Example
//
//	model := tui.NewModel(tui.Options{
//	    Form:     form,
//	    Keyboard: keyboard,
//	    Focus:    focus,
//	    Notifier: notifier,
//	})
//	defer model.Close()
//
//	program := tea.NewProgram(model, tea.WithAltScreen())
//	if _, err := program.Run(); err != nil {
//	    return err
//	}
package tui
