package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/joinpanel/internal/config"
	"github.com/muurk/joinpanel/internal/joinform"
	"github.com/muurk/joinpanel/internal/logging"
)

func newTestSession(t *testing.T) *session {
	t.Helper()
	s, err := openSession(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("openSession() error = %v", err)
	}
	t.Cleanup(s.close)
	return s
}

func TestApplySetPrimaryOnly(t *testing.T) {
	s := newTestSession(t)

	res := applySet(s, map[joinform.Kind]string{
		joinform.JoinCode:   "abc-123",
		joinform.ServerIP:   "10.0.0.5",
		joinform.ServerPort: "7000",
	})

	want := []joinform.Kind{joinform.JoinCode, joinform.ServerIP, joinform.ServerPort}
	if len(res.Committed) != len(want) {
		t.Fatalf("Committed = %v, want %v", res.Committed, want)
	}
	for i := range want {
		if res.Committed[i] != want[i] {
			t.Errorf("Committed[%d] = %v, want %v", i, res.Committed[i], want[i])
		}
	}
	if res.RelayAddress != "" {
		t.Errorf("relay should not be touched, got %q", res.RelayAddress)
	}

	p := s.registry.Primary
	if p.PairingCode != "abc-123" || p.ServerIP != "10.0.0.5" || p.ServerPort != 7000 {
		t.Errorf("primary = %+v", p)
	}
}

func TestApplySetRelayPersists(t *testing.T) {
	s := newTestSession(t)

	res := applySet(s, map[joinform.Kind]string{
		joinform.RelayIP:   "192.168.1.1",
		joinform.RelayPort: "8009",
	})

	if !res.Persisted || !res.Notified {
		t.Errorf("Persisted = %v, Notified = %v", res.Persisted, res.Notified)
	}

	reloaded, err := config.Load(s.registry.Path())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := reloaded.RelayAddress(); got != "192.168.1.1:8009" {
		t.Errorf("persisted relay address = %q", got)
	}
	if reloaded.Relay.SendToIP != "192.168.1.1" {
		t.Errorf("relay record = %+v", reloaded.Relay)
	}
}

func TestApplySetKeepsOtherRelayHalf(t *testing.T) {
	s := newTestSession(t)

	res := applySet(s, map[joinform.Kind]string{
		joinform.RelayPort: "9100",
	})

	if res.RelayAddress != "127.0.0.1:9100" {
		t.Errorf("RelayAddress = %q, want %q", res.RelayAddress, "127.0.0.1:9100")
	}
}

func TestApplySetFiltersInput(t *testing.T) {
	s := newTestSession(t)

	res := applySet(s, map[joinform.Kind]string{
		joinform.JoinCode:   "abc_123!",
		joinform.ServerPort: "99999",
	})

	if s.registry.Primary.PairingCode != "abc123" {
		t.Errorf("PairingCode = %q, want filtered %q", s.registry.Primary.PairingCode, "abc123")
	}
	if s.registry.Primary.ServerPort != 0 {
		t.Errorf("ServerPort = %d, want unchanged", s.registry.Primary.ServerPort)
	}
	if len(res.Errors) != 1 || !joinform.IsValidationError(res.Errors[0]) {
		t.Errorf("Errors = %v", res.Errors)
	}
}

func TestApplySetNothingValid(t *testing.T) {
	s := newTestSession(t)

	res := applySet(s, map[joinform.Kind]string{
		joinform.ServerIP: "..",
	})

	if res.Changed() {
		t.Errorf("Committed = %v, want none", res.Committed)
	}

	var out bytes.Buffer
	printResult(&out, res)
	if !strings.Contains(out.String(), joinform.Warning) {
		t.Errorf("printResult() = %q, want warning", out.String())
	}
}

func TestPrintShow(t *testing.T) {
	registry := config.NewRegistry()
	registry.Primary.PairingCode = "abc-123"
	registry.Primary.ServerPort = 7000
	registry.Values[config.RelayAddressKey] = "10.0.0.1:8009"

	tests := []struct {
		format string
		want   []string
	}{
		{"detailed", []string{"Join Code:   abc-123", "Server IP:   (not set)", "Server Port: 7000", "RelayServerAddress: 10.0.0.1:8009"}},
		{"json", []string{`"pairing_code": "abc-123"`, `"server_port": 7000`, `"relay_address": "10.0.0.1:8009"`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var out bytes.Buffer
			if err := printShow(&out, registry, tt.format); err != nil {
				t.Fatalf("printShow() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
			if tt.format == "json" && !json.Valid(out.Bytes()) {
				t.Error("json output is not valid JSON")
			}
		})
	}

	if err := printShow(&bytes.Buffer{}, registry, "xml"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestSetupLogging(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantDir bool
	}{
		{"silent", "", false},
		{"enabled", "info", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(logging.LogLevelEnvVar, "")
			dir := filepath.Join(t.TempDir(), "joinpanel")
			configPath, logLevel, logFile = filepath.Join(dir, "config.yaml"), tt.level, ""
			t.Cleanup(func() {
				configPath, logLevel = "", ""
				logging.SetLogger(nil)
			})

			if err := setupLogging(rootCmd, nil); err != nil {
				t.Fatalf("setupLogging() error = %v", err)
			}

			_, err := os.Stat(dir)
			if exists := err == nil; exists != tt.wantDir {
				t.Errorf("log directory exists = %v, want %v", exists, tt.wantDir)
			}
		})
	}
}
