// Package logging provides structured logging for joinpanel.
//
// It wraps a package-global zap logger with a few helpers for the events
// the join form produces: field commits, rejected fields, submissions and
// relay address updates.
//
// # Configuration
//
// Logging is silent unless a level is supplied, either directly or through
// the JOINPANEL_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize("debug", "/tmp/joinpanel.log"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// The interactive form always logs to a file, since anything written to
// stdout or stderr would corrupt the terminal UI.
//
// # Structured Logging
//
//	logging.Info("Form shown",
//	    zap.String("focus", "join_code"),
//	)
//
//	logging.LogFieldCommit("server_port", "primary.server_port", "7000")
//	logging.LogRelayAddress("RelayServerAddress", "192.168.1.1:8009")
package logging
