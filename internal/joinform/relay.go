package joinform

import (
	"errors"

	"github.com/muurk/joinpanel/internal/config"
)

// RelayAddresser is the capability the form needs from a relay configuration.
//
// Address returns the stored host and port as text; an empty string means
// that half is not set. SetAddress stores both halves together.
type RelayAddresser interface {
	Address() (ip string, port string, err error)
	SetAddress(ip string, port int) error
}

// KeyValueStore is durable storage for the persisted relay address.
type KeyValueStore interface {
	SetString(key, value string) error
}

var errNoRelayRecord = errors.New("relay record is nil")

// RelayAdapter exposes a config.RelayServer as a RelayAddresser.
type RelayAdapter struct {
	cfg *config.RelayServer
}

// NewRelayAdapter wraps cfg. A nil cfg yields an adapter whose methods fail.
func NewRelayAdapter(cfg *config.RelayServer) *RelayAdapter {
	return &RelayAdapter{cfg: cfg}
}

// Address implements RelayAddresser.
func (a *RelayAdapter) Address() (string, string, error) {
	if a == nil || a.cfg == nil {
		return "", "", errNoRelayRecord
	}
	return a.cfg.SendToIP, a.cfg.SendToPort.String(), nil
}

// SetAddress implements RelayAddresser.
func (a *RelayAdapter) SetAddress(ip string, port int) error {
	if a == nil || a.cfg == nil {
		return errNoRelayRecord
	}
	a.cfg.SendToIP = ip
	a.cfg.SendToPort = config.PortFromInt(port)
	return nil
}
