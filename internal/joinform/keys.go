package joinform

// KeyType classifies an on-screen keyboard key.
type KeyType int

const (
	KeyRune KeyType = iota
	KeyBackspace
	KeyEnter
	KeyEscape
	KeyTab
)

// Key is a single keyboard event. Rune is only meaningful for KeyRune.
type Key struct {
	Type KeyType
	Rune rune
}

// RuneKey returns the event for a printable character.
func RuneKey(r rune) Key {
	return Key{Type: KeyRune, Rune: r}
}

// Special keys.
var (
	Backspace = Key{Type: KeyBackspace}
	Enter     = Key{Type: KeyEnter}
	Escape    = Key{Type: KeyEscape}
	Tab       = Key{Type: KeyTab}
)

// Button is a click on one of the form's buttons.
type Button int

const (
	ButtonSubmit Button = iota
	ButtonCancel
)

func (b Button) String() string {
	switch b {
	case ButtonSubmit:
		return "submit"
	case ButtonCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// RelayAddressChanged is published after a submit commits and persists a
// new relay address.
type RelayAddressChanged struct {
	Address string
}
