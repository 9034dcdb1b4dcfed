package joinform

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/joinpanel/internal/config"
	"github.com/muurk/joinpanel/internal/events"
	"github.com/muurk/joinpanel/internal/logging"
)

// Options wires the controller to its collaborators. Every field is
// optional; whatever is missing is reported and the operations that need
// it are skipped.
type Options struct {
	Primary *config.PrimaryServer
	Relay   RelayAddresser
	Store   KeyValueStore

	Keyboard *events.Topic[Key]
	Buttons  *events.Topic[Button]
	Focus    *events.Topic[Kind]
	Notifier *events.Topic[RelayAddressChanged]

	// Resolve, when set, is called once by Initialize to fill in
	// collaborators that are still nil.
	Resolve func(*Options)
}

// SubmitResult describes what a Submit did.
type SubmitResult struct {
	Committed    []Kind  // Fields written into a config record, in submit order
	Errors       []error // Everything that was reported, in submit order
	RelayAddress string  // Composed "ip:port", empty if the relay group did not commit
	Persisted    bool    // RelayAddress was written to the store
	Notified     bool    // RelayAddressChanged was published
}

// Changed reports whether at least one field was committed.
func (r SubmitResult) Changed() bool {
	return len(r.Committed) > 0
}

// Warning is the message shown when a submit changed nothing.
const Warning = "no valid changes to submit"

// Controller owns the five form fields and turns keyboard, button and focus
// events into edits, commits and notifications.
//
// It is not safe for concurrent use; all events must be delivered from the
// goroutine that owns the form.
type Controller struct {
	opts Options

	fields  [fieldCount]*Field
	active  *Field
	visible bool

	initialized bool
	disposed    bool
	subs        []*events.Subscription

	problems   []error
	lastResult SubmitResult
}

// New creates a controller with empty fields. Nothing is subscribed until
// Initialize or Show is called.
func New(opts Options) *Controller {
	c := &Controller{opts: opts}
	for _, k := range FocusOrder {
		c.fields[k] = newField(k)
	}
	return c
}

// Initialize resolves collaborators, subscribes to the event sources and
// pre-fills the IP and port fields. Calling it again does nothing.
func (c *Controller) Initialize() {
	if c.initialized || c.disposed {
		return
	}
	c.initialized = true

	if c.opts.Resolve != nil {
		c.opts.Resolve(&c.opts)
	}

	c.problems = c.problems[:0]
	c.checkCollaborators()

	if c.opts.Keyboard != nil {
		c.subs = append(c.subs, c.opts.Keyboard.Subscribe(c.HandleKey))
	}
	if c.opts.Buttons != nil {
		c.subs = append(c.subs, c.opts.Buttons.Subscribe(c.handleButton))
	}
	if c.opts.Focus != nil {
		c.subs = append(c.subs, c.opts.Focus.Subscribe(c.FocusField))
	}

	c.prefill()

	logging.Debug("Join form initialized",
		zap.Int("subscriptions", len(c.subs)),
		zap.Int("problems", len(c.problems)),
	)
}

func (c *Controller) checkCollaborators() {
	missing := func(name string) {
		err := NewMissingCollaboratorError(name)
		c.problems = append(c.problems, err)
		logging.Warn("Join form collaborator missing", zap.String("collaborator", name))
	}

	if c.opts.Primary == nil {
		missing("primary server config")
	}
	if c.opts.Relay == nil {
		missing("relay server config")
	}
	if c.opts.Store == nil {
		missing("key-value store")
	}
	if c.opts.Keyboard == nil {
		missing("keyboard")
	}
	if c.opts.Buttons == nil {
		missing("buttons")
	}
	if c.opts.Notifier == nil {
		missing("relay address notifier")
	}
}

// Problems returns the collaborator problems found by Initialize.
func (c *Controller) Problems() []error {
	return append([]error(nil), c.problems...)
}

// prefill copies the current IP and port values from the primary record
// and the relay capability into their fields.
func (c *Controller) prefill() {
	if p := c.opts.Primary; p != nil {
		c.setField(ServerIP, p.ServerIP)
		if p.ServerPort > 0 {
			c.setField(ServerPort, strconv.Itoa(p.ServerPort))
		} else {
			c.setField(ServerPort, "")
		}
	}

	ip, port := config.DefaultRelayIP, strconv.Itoa(config.DefaultRelayPort)
	if c.opts.Relay == nil {
		logging.Warn("Relay config unavailable, using defaults",
			zap.String("address", ip+":"+port))
	} else if rip, rport, err := c.opts.Relay.Address(); err != nil {
		logging.Warn("Relay config unreadable, using defaults",
			zap.String("address", ip+":"+port),
			zap.Error(err))
	} else {
		if rip = strings.TrimSpace(rip); rip != "" {
			ip = rip
		} else {
			logging.Warn("Relay config has no send_to_ip, using default", zap.String("ip", ip))
		}
		if rport = strings.TrimSpace(rport); rport != "" {
			port = rport
		} else {
			logging.Warn("Relay config has no send_to_port, using default", zap.String("port", port))
		}
	}
	c.setField(RelayIP, ip)
	c.setField(RelayPort, port)
}

func (c *Controller) setField(k Kind, value string) {
	if dropped := c.fields[k].set(value); dropped {
		logging.Warn("Pre-fill value trimmed to fit field",
			zap.String("field", k.String()),
			zap.String("value", value),
			zap.String("kept", c.fields[k].Text()),
		)
	}
}

// Show makes the form visible with fresh placeholders, an empty join code,
// re-pre-filled values and focus on the join code.
func (c *Controller) Show() {
	if c.disposed {
		return
	}
	if !c.initialized {
		c.Initialize()
	} else {
		c.prefill()
	}

	for _, f := range c.fields {
		f.Placeholder = f.Kind.DefaultPlaceholder()
	}
	c.fields[JoinCode].set("")

	c.visible = true
	c.active = c.fields[JoinCode]

	logging.Info("Join form shown", zap.String("focus", JoinCode.String()))
}

// Hide makes the form invisible. Field contents are kept.
func (c *Controller) Hide() {
	c.visible = false
}

// Visible reports whether the form is shown.
func (c *Controller) Visible() bool {
	return c.visible
}

// Active returns the focused field, if any.
func (c *Controller) Active() (Kind, bool) {
	if c.active == nil {
		return noField, false
	}
	return c.active.Kind, true
}

// Field returns a copy of one field.
func (c *Controller) Field(k Kind) Field {
	return *c.fields[k]
}

// Fields returns copies of all fields in focus order.
func (c *Controller) Fields() []Field {
	out := make([]Field, 0, fieldCount)
	for _, k := range FocusOrder {
		out = append(out, *c.fields[k])
	}
	return out
}

// LastResult returns the result of the most recent Submit.
func (c *Controller) LastResult() SubmitResult {
	return c.lastResult
}

// FocusField moves focus to k. Ignored while hidden or disposed.
func (c *Controller) FocusField(k Kind) {
	if c.disposed || !c.visible || !k.Valid() {
		return
	}
	c.active = c.fields[k]
}

// HandleKey applies one keyboard event. Ignored while hidden or disposed.
func (c *Controller) HandleKey(key Key) {
	if c.disposed || !c.visible {
		return
	}

	switch key.Type {
	case KeyEnter:
		c.Submit()

	case KeyEscape:
		c.Cancel()

	case KeyTab:
		if c.active == nil {
			c.active = c.fields[JoinCode]
		} else {
			c.active = c.fields[c.active.Kind.Next()]
		}

	case KeyBackspace:
		if c.active != nil {
			c.active.backspace()
		}

	case KeyRune:
		if c.active != nil {
			if !c.active.insert(key.Rune) {
				logging.Debug("Key dropped",
					zap.String("field", c.active.Kind.String()),
					zap.String("rune", string(key.Rune)),
				)
			}
		}
	}
}

func (c *Controller) handleButton(b Button) {
	if c.disposed || !c.visible {
		return
	}
	switch b {
	case ButtonSubmit:
		c.Submit()
	case ButtonCancel:
		c.Cancel()
	}
}

// Cancel hides the form without touching any config record.
func (c *Controller) Cancel() {
	if c.disposed {
		return
	}
	c.Hide()
	logging.Info("Join form cancelled")
}

// Submit validates every non-empty field in focus order and commits the
// valid ones. The relay fields commit as a pair.
//
// When anything was committed, the relay address is persisted and
// announced whenever both relay fields are valid, even if the relay record
// itself could not take them, and the form hides. When nothing
// was committed the form stays visible and the result carries Warning.
func (c *Controller) Submit() SubmitResult {
	if c.disposed {
		return SubmitResult{}
	}

	var res SubmitResult
	commit := func(k Kind, target, value string) {
		res.Committed = append(res.Committed, k)
		logging.LogFieldCommit(k.String(), target, value)
	}
	report := func(err error) {
		res.Errors = append(res.Errors, err)
		if k, ok := FieldOf(err); ok {
			logging.LogFieldRejected(k.String(), c.trimmed(k), err)
		} else {
			logging.Warn("Submit problem", zap.Error(err))
		}
	}
	primary := c.opts.Primary

	if v := c.trimmed(JoinCode); v != "" {
		if err := ValidateJoinCode(v); err != nil {
			report(err)
		} else if primary == nil {
			report(NewMissingCollaboratorError("primary server config"))
		} else {
			primary.PairingCode = v
			commit(JoinCode, "primary.pairing_code", v)
		}
	}

	if v := c.trimmed(ServerIP); v != "" {
		if err := ValidateHost(ServerIP, v); err != nil {
			report(err)
		} else if primary == nil {
			report(NewMissingCollaboratorError("primary server config"))
		} else {
			primary.ServerIP = v
			commit(ServerIP, "primary.server_ip", v)
		}
	}

	if v := c.trimmed(ServerPort); v != "" {
		if port, err := ValidatePort(ServerPort, v); err != nil {
			report(err)
		} else if primary == nil {
			report(NewMissingCollaboratorError("primary server config"))
		} else {
			primary.ServerPort = port
			commit(ServerPort, "primary.server_port", v)
		}
	}

	relayIP, relayPort, relayOK := c.validateRelay(report)
	if relayOK {
		if c.opts.Relay == nil {
			report(NewMissingCollaboratorError("relay server config"))
		} else if err := c.opts.Relay.SetAddress(relayIP, relayPort); err != nil {
			report(NewPersistenceError("relay config rejected the address", err))
		} else {
			commit(RelayIP, "relay.send_to_ip", relayIP)
			commit(RelayPort, "relay.send_to_port", strconv.Itoa(relayPort))
		}
	}

	if !res.Changed() {
		logging.Warn("Join form submit made no changes", zap.Int("problems", len(res.Errors)))
		c.lastResult = res
		return res
	}

	if relayOK {
		c.announceRelay(FormatAddress(relayIP, relayPort), &res, report)
	}

	committed := make([]string, len(res.Committed))
	for i, k := range res.Committed {
		committed[i] = k.String()
	}
	logging.LogSubmit(committed, len(res.Errors), res.RelayAddress)

	c.Hide()
	c.lastResult = res
	return res
}

// validateRelay checks both relay fields. It returns ok only when both
// halves are present and valid; a lone valid half is reported as an error
// naming the half that is missing.
func (c *Controller) validateRelay(report func(error)) (string, int, bool) {
	ipText, portText := c.trimmed(RelayIP), c.trimmed(RelayPort)
	if ipText == "" && portText == "" {
		return "", 0, false
	}

	ipOK, portOK := false, false
	var port int

	if ipText != "" {
		if err := ValidateHost(RelayIP, ipText); err != nil {
			report(err)
		} else {
			ipOK = true
		}
	}
	if portText != "" {
		p, err := ValidatePort(RelayPort, portText)
		if err != nil {
			report(err)
		} else {
			port, portOK = p, true
		}
	}

	switch {
	case ipOK && portText == "":
		report(NewValidationError(RelayPort, "relay port is required with a relay IP"))
	case portOK && ipText == "":
		report(NewValidationError(RelayIP, "relay IP is required with a relay port"))
	}

	return ipText, port, ipOK && portOK
}

// announceRelay checks the composed address, persists it and publishes it.
func (c *Controller) announceRelay(address string, res *SubmitResult, report func(error)) {
	if _, _, err := ParseAddress(address); err != nil {
		report(err)
		return
	}
	res.RelayAddress = address

	if c.opts.Store == nil {
		report(NewMissingCollaboratorError("key-value store"))
	} else if err := c.opts.Store.SetString(config.RelayAddressKey, address); err != nil {
		report(NewPersistenceError("could not persist relay address", err))
	} else {
		res.Persisted = true
	}

	if c.opts.Notifier == nil {
		report(NewMissingCollaboratorError("relay address notifier"))
		return
	}
	logging.LogRelayAddress(config.RelayAddressKey, address)
	c.opts.Notifier.Publish(RelayAddressChanged{Address: address})
	res.Notified = true
}

func (c *Controller) trimmed(k Kind) string {
	return strings.TrimSpace(c.fields[k].Text())
}

// Teardown detaches every listener registered by Initialize. The controller
// ignores all further input, and it also hides the form and drops focus so
// Visible and Active report a form that can no longer be used.
func (c *Controller) Teardown() {
	if c.disposed {
		return
	}
	for _, sub := range c.subs {
		sub.Unsubscribe()
	}
	c.subs = nil
	c.disposed = true
	c.visible = false
	c.active = nil
	logging.Debug("Join form torn down")
}
