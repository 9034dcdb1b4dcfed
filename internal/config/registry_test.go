package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	}

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "joinpanel") {
		t.Errorf("GetConfigDir() = %v, should contain 'joinpanel'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	default:
		if configDir != filepath.Join("/tmp/xdg-test", "joinpanel") {
			t.Errorf("GetConfigDir() = %v, want XDG_CONFIG_HOME based path", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Primary == nil {
		t.Fatal("NewRegistry().Primary should not be nil")
	}
	if reg.Relay == nil {
		t.Fatal("NewRegistry().Relay should not be nil")
	}
	if reg.Relay.SendToIP != DefaultRelayIP {
		t.Errorf("Relay.SendToIP = %q, want %q", reg.Relay.SendToIP, DefaultRelayIP)
	}
	if port, err := reg.Relay.SendToPort.Int(); err != nil || port != DefaultRelayPort {
		t.Errorf("Relay.SendToPort = %v (%v), want %d", port, err, DefaultRelayPort)
	}
	if reg.Values == nil {
		t.Error("NewRegistry().Values should not be nil")
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Path() != path {
		t.Errorf("Path() = %q, want %q", reg.Path(), path)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Load() should not create the file")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	reg.Primary.PairingCode = "abc-123"
	reg.Primary.ServerIP = "10.0.0.5"
	reg.Primary.ServerPort = 7000
	reg.Relay.SendToIP = "192.168.1.1"
	reg.Relay.SendToPort = PortFromInt(9000)

	if err := reg.SetString(RelayAddressKey, "192.168.1.1:9000"); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if !strings.HasPrefix(string(data), "# joinpanel configuration") {
		t.Error("saved file should start with the header comment")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded.Primary != *reg.Primary {
		t.Errorf("Primary = %+v, want %+v", *loaded.Primary, *reg.Primary)
	}
	if loaded.Relay.SendToIP != "192.168.1.1" || loaded.Relay.SendToPort.String() != "9000" {
		t.Errorf("Relay = %+v", *loaded.Relay)
	}
	if got := loaded.RelayAddress(); got != "192.168.1.1:9000" {
		t.Errorf("RelayAddress() = %q, want 192.168.1.1:9000", got)
	}
}

func TestSetStringWithoutPath(t *testing.T) {
	reg := NewRegistry()

	if err := reg.SetString(RelayAddressKey, "10.0.0.1:8009"); err == nil {
		t.Fatal("SetString() on a registry without a path should fail")
	}
	if _, ok := reg.GetString(RelayAddressKey); ok {
		t.Error("failed SetString() should not leave the value behind")
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 1\nprimary:\n  server_ip: 10.1.1.1\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Primary.ServerIP != "10.1.1.1" {
		t.Errorf("Primary.ServerIP = %q", reg.Primary.ServerIP)
	}
	if reg.Relay == nil || reg.Values == nil {
		t.Error("missing sections should be initialised")
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 2\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should reject version 2")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: [1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should reject malformed YAML")
	}
}

func TestPortUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    string
		wantErr bool
	}{
		{"integer", "send_to_port: 8009\n", "8009", false},
		{"quoted string", "send_to_port: \"8010\"\n", "8010", false},
		{"non numeric string", "send_to_port: relay\n", "relay", false},
		{"null", "send_to_port: null\n", "", false},
		{"list", "send_to_port: [1, 2]\n", "", true},
		{"float", "send_to_port: 80.5\n", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var relay RelayServer
			err := yaml.Unmarshal([]byte(tt.doc), &relay)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && relay.SendToPort.String() != tt.want {
				t.Errorf("SendToPort = %q, want %q", relay.SendToPort.String(), tt.want)
			}
		})
	}
}

func TestPortMarshal(t *testing.T) {
	out, err := yaml.Marshal(RelayServer{SendToIP: "10.0.0.1", SendToPort: PortFromInt(8009)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(out), "send_to_port: 8009") {
		t.Errorf("numeric port should marshal as an integer, got:\n%s", out)
	}

	out, err = yaml.Marshal(RelayServer{SendToIP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(out), "send_to_port") {
		t.Errorf("empty port should be omitted, got:\n%s", out)
	}
}

func TestPortInt(t *testing.T) {
	if _, err := (Port{Raw: "abc"}).Int(); err == nil {
		t.Error("Int() on non-numeric port should fail")
	}
	if n, err := (Port{Raw: " 443 "}).Int(); err != nil || n != 443 {
		t.Errorf("Int() = %d, %v; want 443", n, err)
	}
	if !PortFromInt(0).IsZero() {
		t.Error("PortFromInt(0) should be zero")
	}
}

func BenchmarkSave(b *testing.B) {
	reg, err := Load(filepath.Join(b.TempDir(), "config.yaml"))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = reg.Save()
	}
}
