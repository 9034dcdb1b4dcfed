// Package config stores the join form's configuration records.
//
// A single YAML file holds three things:
//   - primary: the application server (pairing code, IP, port)
//   - relay: the messaging server (send_to_ip, send_to_port)
//   - values: a small durable key-value section; the form writes the
//     relay address there under RelayServerAddress
//
// send_to_port may be written either as a number or a quoted string.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/joinpanel/config.yaml or $HOME/.config/joinpanel/config.yaml
//   - macOS: $HOME/.config/joinpanel/config.yaml
//   - Windows: %LOCALAPPDATA%\joinpanel\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.Primary.ServerIP = "10.0.0.5"
//	if err := registry.SetString(config.RelayAddressKey, "192.168.1.1:8009"); err != nil {
//	    log.Fatal(err)
//	}
//
// SetString saves the whole file, so records mutated in memory beforehand
// are written along with the key.
//
// # Thread Safety
//
// File writes are serialised by a package mutex and go through a temporary
// file and rename. Registry values themselves are not locked; callers
// mutate them from a single goroutine.
package config
