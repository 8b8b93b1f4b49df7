// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds the observable state of one client activation: the
// selected file, the chosen target format, and the phase of the current
// conversion attempt. State changes go through an explicit transition table
// and are pushed to subscribers as immutable snapshots.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pdiddy/file-converter/internal/catalog"
	"github.com/pdiddy/file-converter/pkg/types"
)

var (
	// ErrBusy is returned when a change is requested while an upload or
	// convert call is in flight.
	ErrBusy = errors.New("conversion in progress")

	// ErrIncomplete is returned by Begin when no file or no target format is set.
	ErrIncomplete = errors.New("file and target format are required")

	// ErrStale is returned when a completion belongs to an attempt that was
	// superseded by Reset.
	ErrStale = errors.New("stale attempt")

	// ErrInvalidTransition is returned for an event the current phase does not accept.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrUnknownFormat is returned when a format is not in the catalog.
	ErrUnknownFormat = errors.New("unknown target format")
)

// State is a point-in-time copy of the session.
type State struct {
	Phase Phase `json:"phase" yaml:"phase"`

	// File is nil when no file is selected.
	File *types.SelectedFile `json:"file,omitempty" yaml:"file,omitempty"`

	// Format is empty when no target format is set.
	Format types.FormatID `json:"target_format,omitempty" yaml:"target_format,omitempty"`

	// ConversionID is set once the upload call succeeds.
	ConversionID string `json:"conversion_id,omitempty" yaml:"conversion_id,omitempty"`

	// Result is set only in PhaseSucceeded.
	Result *types.ConversionResult `json:"result,omitempty" yaml:"result,omitempty"`

	// Message is the user-facing failure message, set only in PhaseFailed.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Session is the state machine for one client activation. It is safe for
// concurrent use.
type Session struct {
	mu          sync.Mutex
	state       State
	generation  uint64
	subscribers map[int]func(State)
	nextSubID   int
}

// New returns a session in PhaseIdle.
func New() *Session {
	return &Session{
		state:       State{Phase: PhaseIdle},
		subscribers: make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Subscribe registers fn to receive a snapshot after every state change and
// returns a function that removes the subscription.
func (s *Session) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Select replaces the selected file, clears any prior result or failure
// message, and applies the suggested target format when one is given. An
// empty suggestion leaves the current format as it is.
func (s *Session) Select(file types.SelectedFile, suggested types.FormatID) error {
	if suggested != "" && !catalog.Contains(suggested) {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, suggested)
	}
	return s.apply(evSelect, func(st *State) {
		f := file
		st.File = &f
		st.Result = nil
		st.Message = ""
		st.ConversionID = ""
		if suggested != "" {
			st.Format = suggested
		}
	})
}

// ChooseFormat sets the target format explicitly. It is allowed in any phase
// except while a remote call is in flight and does not change the phase.
func (s *Session) ChooseFormat(id types.FormatID) error {
	f, ok := catalog.Lookup(string(id))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, id)
	}

	s.mu.Lock()
	if s.state.Phase.IsActive() {
		s.mu.Unlock()
		return ErrBusy
	}
	s.state.Format = f.ID
	snap, subs := s.copyLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

// Begin moves to PhaseUploading and returns the generation that the
// attempt's later completions must carry. Any prior result or message is
// cleared.
func (s *Session) Begin() (uint64, State, error) {
	s.mu.Lock()
	if s.state.Phase.IsActive() {
		s.mu.Unlock()
		return 0, State{}, ErrBusy
	}
	if s.state.File == nil || s.state.Format == "" {
		s.mu.Unlock()
		return 0, State{}, ErrIncomplete
	}
	to, ok := next(s.state.Phase, evStart)
	if !ok {
		from := s.state.Phase
		s.mu.Unlock()
		return 0, State{}, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, evStart, from)
	}
	s.generation++
	gen := s.generation
	s.state.Phase = to
	s.state.Result = nil
	s.state.Message = ""
	s.state.ConversionID = ""
	snap, subs := s.copyLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return gen, snap, nil
}

// Uploaded records the conversion identifier and moves to PhaseConverting.
func (s *Session) Uploaded(gen uint64, conversionID string) error {
	return s.applyGen(gen, evUploaded, func(st *State) {
		st.ConversionID = conversionID
	})
}

// Succeed stores the result and moves to PhaseSucceeded.
func (s *Session) Succeed(gen uint64, result types.ConversionResult) error {
	return s.applyGen(gen, evSucceed, func(st *State) {
		r := result.Clone()
		st.Result = &r
	})
}

// Fail moves an in-flight attempt to PhaseFailed with message.
func (s *Session) Fail(gen uint64, message string) error {
	return s.applyGen(gen, evFail, func(st *State) {
		st.Result = nil
		st.Message = message
	})
}

// Reject moves to PhaseFailed without starting an attempt. It is used when
// Start is invoked before a file and format are set.
func (s *Session) Reject(message string) error {
	return s.apply(evReject, func(st *State) {
		st.Result = nil
		st.Message = message
	})
}

// Reset clears the file, format, result and message and returns to
// PhaseIdle. Completions from an attempt started before Reset are ignored.
func (s *Session) Reset() {
	s.mu.Lock()
	s.generation++
	s.state = State{Phase: PhaseIdle}
	snap, subs := s.copyLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

func (s *Session) apply(ev event, mutate func(*State)) error {
	return s.transition(nil, ev, mutate)
}

func (s *Session) applyGen(gen uint64, ev event, mutate func(*State)) error {
	return s.transition(&gen, ev, mutate)
}

// transition runs one event through the table. When gen is non-nil the event
// is dropped unless it belongs to the current attempt.
func (s *Session) transition(gen *uint64, ev event, mutate func(*State)) error {
	s.mu.Lock()
	if gen != nil && *gen != s.generation {
		s.mu.Unlock()
		return ErrStale
	}
	from := s.state.Phase
	if from.IsActive() && (ev == evSelect || ev == evReject) {
		s.mu.Unlock()
		return ErrBusy
	}
	to, ok := next(from, ev)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, from)
	}
	mutate(&s.state)
	s.state.Phase = to
	snap, subs := s.copyLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

func (s *Session) copyLocked() State {
	st := s.state
	if st.File != nil {
		f := *st.File
		st.File = &f
	}
	if st.Result != nil {
		r := st.Result.Clone()
		st.Result = &r
	}
	return st
}

func (s *Session) subscribersLocked() []func(State) {
	subs := make([]func(State), 0, len(s.subscribers))
	for i := 0; i < s.nextSubID; i++ {
		if fn, ok := s.subscribers[i]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}

func notify(subs []func(State), st State) {
	for _, fn := range subs {
		fn(st)
	}
}
