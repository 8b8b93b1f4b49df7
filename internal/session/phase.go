// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

// Phase is the lifecycle position of the current conversion attempt.
type Phase string

const (
	// PhaseIdle means no file is selected and nothing has been attempted.
	PhaseIdle Phase = "idle"

	// PhaseFileSelected means a file is selected and no attempt is running.
	PhaseFileSelected Phase = "file_selected"

	// PhaseUploading means the upload request is in flight.
	PhaseUploading Phase = "uploading"

	// PhaseConverting means the convert request is in flight.
	PhaseConverting Phase = "converting"

	// PhaseSucceeded means the last attempt produced a result.
	PhaseSucceeded Phase = "succeeded"

	// PhaseFailed means the last attempt or Start validation failed.
	PhaseFailed Phase = "failed"
)

// String returns the string representation of the phase.
func (p Phase) String() string { return string(p) }

// IsActive reports whether a remote call is in flight.
func (p Phase) IsActive() bool {
	return p == PhaseUploading || p == PhaseConverting
}

// IsFinished reports whether the last attempt reached a terminal outcome.
func (p Phase) IsFinished() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// event is an input to the transition table.
type event string

const (
	evSelect   event = "select"
	evStart    event = "start"
	evUploaded event = "uploaded"
	evSucceed  event = "succeed"
	evFail     event = "fail"
	evReject   event = "reject"
	evReset    event = "reset"
)

// transitions is the complete state machine. A (phase, event) pair that is
// absent is an invalid transition.
var transitions = map[Phase]map[event]Phase{
	PhaseIdle: {
		evSelect: PhaseFileSelected,
		evReject: PhaseFailed,
		evReset:  PhaseIdle,
	},
	PhaseFileSelected: {
		evSelect: PhaseFileSelected,
		evStart:  PhaseUploading,
		evReject: PhaseFailed,
		evReset:  PhaseIdle,
	},
	PhaseUploading: {
		evUploaded: PhaseConverting,
		evFail:     PhaseFailed,
		evReset:    PhaseIdle,
	},
	PhaseConverting: {
		evSucceed: PhaseSucceeded,
		evFail:    PhaseFailed,
		evReset:   PhaseIdle,
	},
	PhaseSucceeded: {
		evSelect: PhaseFileSelected,
		evStart:  PhaseUploading,
		evReject: PhaseFailed,
		evReset:  PhaseIdle,
	},
	PhaseFailed: {
		evSelect: PhaseFileSelected,
		evStart:  PhaseUploading,
		evReject: PhaseFailed,
		evReset:  PhaseIdle,
	},
}

// next returns the phase reached from p on ev.
func next(p Phase, ev event) (Phase, bool) {
	to, ok := transitions[p][ev]
	return to, ok
}
