package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/joinpanel/internal/config"
	"github.com/muurk/joinpanel/internal/joinform"
	"github.com/muurk/joinpanel/internal/logging"
	"github.com/muurk/joinpanel/internal/tui"
)

// Global flags
var (
	configPath   string
	logLevel     string
	logFile      string
	outputFormat string
)

// set command flags, by field
var setFlags = map[joinform.Kind]string{
	joinform.JoinCode:   "join-code",
	joinform.ServerIP:   "server-ip",
	joinform.ServerPort: "server-port",
	joinform.RelayIP:    "relay-ip",
	joinform.RelayPort:  "relay-port",
}

var setValueFlags = make(map[joinform.Kind]*string)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $"+logging.LogLevelEnvVar+", else silent)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file (default: joinpanel.log next to the configuration for the form, stderr otherwise)")

	showCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")

	for _, k := range joinform.FocusOrder {
		setValueFlags[k] = setCmd.Flags().String(setFlags[k], "", k.Label())
	}

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(setCmd)
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := logging.ResolveLevel(logLevel)
	if level == "" {
		return logging.Initialize("")
	}

	var paths []string
	switch {
	case logFile != "":
		paths = []string{logFile}
	case !cmd.HasParent():
		// The form owns the terminal; keep log lines out of it.
		path, err := defaultLogPath()
		if err != nil {
			return err
		}
		paths = []string{path}
	default:
		paths = []string{"stderr"}
	}
	if err := logging.Initialize(level, paths...); err != nil {
		return err
	}
	// Every run appends to the same log file; tag its lines.
	logging.SetLogger(logging.GetLogger().With(
		zap.String("session", uuid.NewString()),
		zap.String("command", cmd.Name()),
	))
	return nil
}

func defaultLogPath() (string, error) {
	dir := filepath.Dir(configPath)
	if configPath == "" {
		var err error
		if dir, err = config.GetConfigDir(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	return filepath.Join(dir, "joinpanel.log"), nil
}

func runForm(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive form needs a terminal; use 'joinpanel set' instead")
	}

	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	defer s.close()

	model := tui.NewModel(tui.Options{
		Form:       s.form,
		Keyboard:   s.keyboard,
		Focus:      s.focus,
		Notifier:   s.notifier,
		ConfigPath: s.registry.Path(),
	})
	defer model.Close()

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("form error: %w", err)
	}

	if m, ok := final.(tui.Model); ok && m.Committed() {
		if err := s.save(); err != nil {
			return err
		}
		logging.Info("Configuration saved", zap.String("path", s.registry.Path()))
	}
	return nil
}

// showCmd displays the current configuration
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Long: `Display the primary server record, the relay server record and the
persisted relay address.`,
	Example: `  # Human-readable output
  joinpanel show

  # JSON output for scripting
  joinpanel show --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(configPath)
		if err != nil {
			return err
		}
		return printShow(cmd.OutOrStdout(), s.registry, outputFormat)
	},
}

type showOutput struct {
	Path         string      `json:"path"`
	Primary      primaryJSON `json:"primary"`
	Relay        relayJSON   `json:"relay"`
	RelayAddress string      `json:"relay_address"`
}

type primaryJSON struct {
	PairingCode string `json:"pairing_code"`
	ServerIP    string `json:"server_ip"`
	ServerPort  int    `json:"server_port"`
}

type relayJSON struct {
	SendToIP   string `json:"send_to_ip"`
	SendToPort string `json:"send_to_port"`
}

func printShow(w io.Writer, registry *config.Registry, format string) error {
	out := showOutput{
		Path:         registry.Path(),
		RelayAddress: registry.RelayAddress(),
	}
	if p := registry.Primary; p != nil {
		out.Primary = primaryJSON{PairingCode: p.PairingCode, ServerIP: p.ServerIP, ServerPort: p.ServerPort}
	}
	if r := registry.Relay; r != nil {
		out.Relay = relayJSON{SendToIP: r.SendToIP, SendToPort: r.SendToPort.String()}
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "detailed", "":
		fmt.Fprintf(w, "Configuration: %s\n\n", out.Path)
		fmt.Fprintln(w, "Primary server:")
		fmt.Fprintf(w, "  Join Code:   %s\n", orUnset(out.Primary.PairingCode))
		fmt.Fprintf(w, "  Server IP:   %s\n", orUnset(out.Primary.ServerIP))
		port := ""
		if out.Primary.ServerPort > 0 {
			port = fmt.Sprint(out.Primary.ServerPort)
		}
		fmt.Fprintf(w, "  Server Port: %s\n\n", orUnset(port))
		fmt.Fprintln(w, "Relay server:")
		fmt.Fprintf(w, "  Relay IP:    %s\n", orUnset(out.Relay.SendToIP))
		fmt.Fprintf(w, "  Relay Port:  %s\n\n", orUnset(out.Relay.SendToPort))
		fmt.Fprintf(w, "%s: %s\n", config.RelayAddressKey, orUnset(out.RelayAddress))
	default:
		return fmt.Errorf("unknown format %q (want detailed or json)", format)
	}
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// setCmd fills the form from flags and submits it
var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set fields without the interactive form",
	Long: `Type the given values into the form and submit it.

Each value goes through the same filters as keyboard input: characters a
field does not accept are dropped and values are cut at the field's
maximum length. Fields that are not given are left unchanged. The relay IP
and port are saved together; giving only one of them keeps the other at
its current value.`,
	Example: `  # Set the join code and primary server
  joinpanel set --join-code abc-123 --server-ip 10.0.0.5 --server-port 7000

  # Point at a new relay
  joinpanel set --relay-ip 192.168.1.1 --relay-port 8009`,
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	values := make(map[joinform.Kind]string)
	for _, k := range joinform.FocusOrder {
		if cmd.Flags().Changed(setFlags[k]) {
			values[k] = *setValueFlags[k]
		}
	}
	if len(values) == 0 {
		return errors.New("nothing to set; pass at least one of --join-code, --server-ip, --server-port, --relay-ip, --relay-port")
	}

	s, err := openSession(configPath)
	if err != nil {
		return err
	}
	defer s.close()

	res := applySet(s, values)
	printResult(cmd.OutOrStdout(), res)

	if !res.Changed() {
		return errors.New(joinform.Warning)
	}
	return s.save()
}

// applySet types values into a freshly shown form and submits it. Fields
// without a value are cleared so they are not re-committed, except that a
// relay half is kept when the other half is given.
func applySet(s *session, values map[joinform.Kind]string) joinform.SubmitResult {
	s.form.Show()

	_, relayIP := values[joinform.RelayIP]
	_, relayPort := values[joinform.RelayPort]
	relayGiven := relayIP || relayPort

	for _, k := range joinform.FocusOrder {
		v, ok := values[k]
		switch {
		case ok:
			s.replace(k, v)
		case (k == joinform.RelayIP || k == joinform.RelayPort) && relayGiven:
			// keep the pre-filled half
		default:
			s.replace(k, "")
		}
	}

	s.buttons.Publish(joinform.ButtonSubmit)
	return s.form.LastResult()
}

func printResult(w io.Writer, res joinform.SubmitResult) {
	if res.Changed() {
		fmt.Fprintln(w, "✓ Committed:")
		for _, k := range res.Committed {
			fmt.Fprintf(w, "  - %s\n", k.Label())
		}
	} else {
		fmt.Fprintf(w, "✗ %s\n", joinform.Warning)
	}

	if res.RelayAddress != "" {
		fmt.Fprintf(w, "\nRelay address: %s\n", res.RelayAddress)
	}
	if len(res.Errors) > 0 {
		fmt.Fprintf(w, "\n%s", joinform.FormatErrors(res.Errors))
	}
}
