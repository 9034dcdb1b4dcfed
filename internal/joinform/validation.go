package joinform

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Port range accepted for both server and relay ports.
const (
	MinPort = 1
	MaxPort = 65535
)

// ValidateJoinCode checks a trimmed join code against the JoinCode class.
func ValidateJoinCode(code string) error {
	return validateClass(JoinCode, code)
}

// ValidateHost checks a trimmed IP field value for the given kind.
func ValidateHost(kind Kind, host string) error {
	if err := validateClass(kind, host); err != nil {
		return err
	}
	if strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return NewValidationError(kind, fmt.Sprintf("%q cannot start or end with '.'", host))
	}
	if strings.Contains(host, "..") {
		return NewValidationError(kind, fmt.Sprintf("%q contains an empty label", host))
	}
	return nil
}

// ValidatePort parses a trimmed port field value.
// Valid range: 1-65535
func ValidatePort(kind Kind, value string) (int, error) {
	if err := validateClass(kind, value); err != nil {
		return 0, err
	}
	port, err := strconv.Atoi(value)
	if err != nil {
		return 0, NewValidationError(kind, fmt.Sprintf("%q is not a number", value))
	}
	if port < MinPort || port > MaxPort {
		return 0, NewValidationError(kind, fmt.Sprintf("port must be %d-%d, got %d", MinPort, MaxPort, port))
	}
	return port, nil
}

func validateClass(kind Kind, value string) error {
	if value == "" {
		return NewValidationError(kind, "value is empty")
	}
	if n := utf8.RuneCountInString(value); n > kind.MaxLength() {
		return NewValidationError(kind, fmt.Sprintf("too long (max %d chars): %d chars", kind.MaxLength(), n))
	}
	for _, r := range value {
		if !Accepts(kind, r) {
			return NewValidationError(kind, fmt.Sprintf("character %q is not allowed", r))
		}
	}
	return nil
}

// FormatAddress joins a host and port into the persisted "ip:port" form.
func FormatAddress(ip string, port int) string {
	return ip + ":" + strconv.Itoa(port)
}

// ParseAddress splits an "ip:port" string. The port is taken after the
// last colon so hosts that contain colons survive a round trip.
func ParseAddress(address string) (string, int, error) {
	i := strings.LastIndexByte(address, ':')
	if i < 0 {
		return "", 0, NewMalformedAddressError(address, "missing ':' separator")
	}

	host, portText := address[:i], address[i+1:]
	if host == "" {
		return "", 0, NewMalformedAddressError(address, "missing host")
	}

	port, err := strconv.Atoi(portText)
	if err != nil {
		return "", 0, NewMalformedAddressError(address, "port is not a number")
	}
	if port < MinPort || port > MaxPort {
		return "", 0, NewMalformedAddressError(address, fmt.Sprintf("port must be %d-%d", MinPort, MaxPort))
	}

	return host, port, nil
}
