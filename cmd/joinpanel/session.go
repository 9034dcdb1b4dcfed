package main

import (
	"fmt"

	"github.com/muurk/joinpanel/internal/config"
	"github.com/muurk/joinpanel/internal/events"
	"github.com/muurk/joinpanel/internal/joinform"
)

// session is one loaded registry with a form wired to it.
type session struct {
	registry *config.Registry

	keyboard *events.Topic[joinform.Key]
	buttons  *events.Topic[joinform.Button]
	focus    *events.Topic[joinform.Kind]
	notifier *events.Topic[joinform.RelayAddressChanged]

	form *joinform.Controller
}

// openSession loads the registry at path, or the default registry when
// path is empty.
func openSession(path string) (*session, error) {
	var (
		registry *config.Registry
		err      error
	)
	if path != "" {
		registry, err = config.Load(path)
	} else {
		registry, err = config.LoadRegistry()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return newSession(registry), nil
}

func newSession(registry *config.Registry) *session {
	s := &session{
		registry: registry,
		keyboard: events.NewTopic[joinform.Key](),
		buttons:  events.NewTopic[joinform.Button](),
		focus:    events.NewTopic[joinform.Kind](),
		notifier: events.NewTopic[joinform.RelayAddressChanged](),
	}
	s.form = joinform.New(joinform.Options{
		Primary:  registry.Primary,
		Relay:    joinform.NewRelayAdapter(registry.Relay),
		Store:    registry,
		Keyboard: s.keyboard,
		Buttons:  s.buttons,
		Focus:    s.focus,
		Notifier: s.notifier,
	})
	return s
}

// replace focuses k, clears it and types value key by key, so the same
// filters apply as for interactive input.
func (s *session) replace(k joinform.Kind, value string) {
	s.focus.Publish(k)
	for i := s.form.Field(k).Len(); i > 0; i-- {
		s.keyboard.Publish(joinform.Backspace)
	}
	for _, r := range value {
		s.keyboard.Publish(joinform.RuneKey(r))
	}
}

// save writes the primary and relay records, which the form edits in memory.
func (s *session) save() error {
	if err := s.registry.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

func (s *session) close() {
	s.form.Teardown()
}
