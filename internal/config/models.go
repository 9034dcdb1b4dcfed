package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RelayAddressKey is the key the relay address ("ip:port") is stored under
// in the registry's key-value section.
const RelayAddressKey = "RelayServerAddress"

// Built-in relay defaults, used when no relay record is available.
const (
	DefaultRelayIP   = "127.0.0.1"
	DefaultRelayPort = 8009
)

// Registry represents the entire configuration file.
type Registry struct {
	Version int               `yaml:"version"`
	Primary *PrimaryServer    `yaml:"primary,omitempty"`
	Relay   *RelayServer      `yaml:"relay,omitempty"`
	Values  map[string]string `yaml:"values,omitempty"` // Durable key-value entries

	path string
}

// PrimaryServer is the application server the join code is redeemed against.
type PrimaryServer struct {
	PairingCode string `yaml:"pairing_code,omitempty"`
	ServerIP    string `yaml:"server_ip,omitempty"`
	ServerPort  int    `yaml:"server_port,omitempty"` // 1-65535, 0 means unset
}

// RelayServer is the messaging server used for real-time message routing.
type RelayServer struct {
	SendToIP   string `yaml:"send_to_ip,omitempty"`
	SendToPort Port   `yaml:"send_to_port,omitempty"`
}

// Port is a port number that may be written in YAML either as an integer
// (send_to_port: 8009) or as a string (send_to_port: "8009").
//
// The raw text is kept so a value that does not parse can still be shown
// back to the user.
type Port struct {
	Raw string
}

// PortFromInt builds a Port from a number. Zero yields an empty Port.
func PortFromInt(n int) Port {
	if n == 0 {
		return Port{}
	}
	return Port{Raw: strconv.Itoa(n)}
}

// String returns the port as text.
func (p Port) String() string {
	return p.Raw
}

// IsZero reports whether the port is unset. yaml.v3 uses it for omitempty.
func (p Port) IsZero() bool {
	return strings.TrimSpace(p.Raw) == ""
}

// Int parses the port as a number.
func (p Port) Int() (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(p.Raw))
	if err != nil {
		return 0, fmt.Errorf("port %q is not a number: %w", p.Raw, err)
	}
	return n, nil
}

// UnmarshalYAML accepts both scalar forms.
func (p *Port) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: send_to_port must be a string or an integer", value.Line)
	}
	switch value.Tag {
	case "!!int", "!!str", "!!null":
	default:
		return fmt.Errorf("line %d: send_to_port must be a string or an integer, got %s", value.Line, value.Tag)
	}
	if value.Tag == "!!null" {
		p.Raw = ""
		return nil
	}
	p.Raw = value.Value
	return nil
}

// MarshalYAML writes numeric ports as integers and anything else as a string.
func (p Port) MarshalYAML() (interface{}, error) {
	if n, err := p.Int(); err == nil {
		return n, nil
	}
	return p.Raw, nil
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Primary: &PrimaryServer{},
		Relay: &RelayServer{
			SendToIP:   DefaultRelayIP,
			SendToPort: PortFromInt(DefaultRelayPort),
		},
		Values: make(map[string]string),
	}
}

// Path returns the file the registry is loaded from and saved to.
func (r *Registry) Path() string {
	return r.path
}

// GetString returns the stored value for key and whether it was present.
func (r *Registry) GetString(key string) (string, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// SetString stores value under key and saves the registry to disk.
func (r *Registry) SetString(key, value string) error {
	if r.Values == nil {
		r.Values = make(map[string]string)
	}
	previous, existed := r.Values[key]
	r.Values[key] = value

	if err := r.Save(); err != nil {
		// Keep memory and disk in agreement.
		if existed {
			r.Values[key] = previous
		} else {
			delete(r.Values, key)
		}
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

// RelayAddress returns the persisted relay address, if any.
func (r *Registry) RelayAddress() string {
	v, _ := r.GetString(RelayAddressKey)
	return v
}
