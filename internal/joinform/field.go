package joinform

import (
	"fmt"
	"unicode/utf8"
)

// Kind identifies one of the five form fields.
type Kind int

const (
	JoinCode Kind = iota
	ServerIP
	ServerPort
	RelayIP
	RelayPort
)

// fieldCount is the number of fields on the form.
const fieldCount = 5

// FocusOrder is the Tab cycle, which is also the submit order.
var FocusOrder = [fieldCount]Kind{JoinCode, ServerIP, ServerPort, RelayIP, RelayPort}

// Maximum lengths, in runes.
const (
	JoinCodeMaxLength = 16
	HostMaxLength     = 64
	PortMaxLength     = 5
)

// String returns the snake_case name used in logs.
func (k Kind) String() string {
	switch k {
	case JoinCode:
		return "join_code"
	case ServerIP:
		return "server_ip"
	case ServerPort:
		return "server_port"
	case RelayIP:
		return "relay_ip"
	case RelayPort:
		return "relay_port"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Label returns the human-readable field label.
func (k Kind) Label() string {
	switch k {
	case JoinCode:
		return "Join Code"
	case ServerIP:
		return "Server IP"
	case ServerPort:
		return "Server Port"
	case RelayIP:
		return "Relay IP"
	case RelayPort:
		return "Relay Port"
	default:
		return k.String()
	}
}

// Valid reports whether k names a form field.
func (k Kind) Valid() bool {
	return k >= JoinCode && k <= RelayPort
}

// Next returns the field after k in the Tab cycle.
func (k Kind) Next() Kind {
	return FocusOrder[(int(k)+1)%fieldCount]
}

// IsPort reports whether k is one of the numeric port fields.
func (k Kind) IsPort() bool {
	return k == ServerPort || k == RelayPort
}

// IsHost reports whether k is one of the IP fields.
func (k Kind) IsHost() bool {
	return k == ServerIP || k == RelayIP
}

// MaxLength returns the rune limit for fields of kind k.
func (k Kind) MaxLength() int {
	switch {
	case k == JoinCode:
		return JoinCodeMaxLength
	case k.IsHost():
		return HostMaxLength
	case k.IsPort():
		return PortMaxLength
	default:
		return 0
	}
}

// DefaultPlaceholder is the hint shown while a field is empty.
func (k Kind) DefaultPlaceholder() string {
	switch k {
	case JoinCode:
		return "Enter join code"
	case ServerIP:
		return "Server IP"
	case RelayIP:
		return "Relay IP"
	case ServerPort, RelayPort:
		return "Port"
	default:
		return ""
	}
}

// Accepts reports whether r may be typed into a field of kind k.
//   - JoinCode: ASCII letters, digits and '-'
//   - ServerIP, RelayIP: ASCII letters, digits, '.' and ':'
//   - ServerPort, RelayPort: digits
func Accepts(k Kind, r rune) bool {
	switch {
	case k == JoinCode:
		return isASCIIAlnum(r) || r == '-'
	case k.IsHost():
		return isASCIIAlnum(r) || r == '.' || r == ':'
	case k.IsPort():
		return isDigit(r)
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCIIAlnum(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Field is a single text entry on the form. Its text never exceeds
// MaxLength runes and only ever holds characters its kind accepts.
type Field struct {
	Kind        Kind
	MaxLength   int
	Placeholder string

	text string
}

func newField(k Kind) *Field {
	return &Field{
		Kind:        k,
		MaxLength:   k.MaxLength(),
		Placeholder: k.DefaultPlaceholder(),
	}
}

// Text returns the current contents.
func (f Field) Text() string {
	return f.text
}

// Len returns the length of the contents in runes.
func (f Field) Len() int {
	return utf8.RuneCountInString(f.text)
}

// Empty reports whether the field holds no text.
func (f Field) Empty() bool {
	return f.text == ""
}

// insert appends r if the field's kind accepts it and there is room.
func (f *Field) insert(r rune) bool {
	if !Accepts(f.Kind, r) || f.Len() >= f.MaxLength {
		return false
	}
	f.text += string(r)
	return true
}

// backspace removes the last rune. No-op on an empty field.
func (f *Field) backspace() bool {
	if f.text == "" {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(f.text)
	f.text = f.text[:len(f.text)-size]
	return true
}

// set replaces the contents, keeping only accepted runes up to MaxLength.
// It reports whether anything had to be dropped.
func (f *Field) set(s string) (dropped bool) {
	f.text = ""
	for _, r := range s {
		if !f.insert(r) {
			dropped = true
		}
	}
	return dropped
}
