// Package joinform implements the join form controller.
//
// The form has five fields, always visited in this order:
//
//	Join Code -> Server IP -> Server Port -> Relay IP -> Relay Port
//
// Each field only accepts its own character class (see Accepts) and never
// grows beyond its maximum length. Key events arrive through an
// events.Topic[Key]; Enter submits, Escape cancels, Tab moves focus and
// Backspace deletes.
//
// # Submitting
//
// Submit validates every non-empty field in order. Primary server fields
// commit independently: a bad port does not stop a good IP from being
// written. The relay fields commit as a pair through RelayAddresser. When
// the pair commits, the composed "ip:port" is stored under
// config.RelayAddressKey and a RelayAddressChanged event is published.
//
//	keyboard := events.NewTopic[joinform.Key]()
//	notifier := events.NewTopic[joinform.RelayAddressChanged]()
//
//	form := joinform.New(joinform.Options{
//	    Primary:  registry.Primary,
//	    Relay:    joinform.NewRelayAdapter(registry.Relay),
//	    Store:    registry,
//	    Keyboard: keyboard,
//	    Notifier: notifier,
//	})
//	form.Show()
//	defer form.Teardown()
//
// # Error Handling
//
// Nothing here is fatal. Missing collaborators, invalid fields and
// malformed addresses are returned as *FormError values in SubmitResult
// and logged; the form stays usable.
package joinform
