// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"

	"github.com/pdiddy/file-converter/internal/session"
)

// Kind classifies a failed conversion attempt.
type Kind string

const (
	// KindValidation means Start was invoked without a file or target format.
	KindValidation Kind = "validation"
	// KindEncoding means the file could not be read into an upload payload.
	KindEncoding Kind = "encoding"
	// KindUpload means the upload call failed or returned non-2xx.
	KindUpload Kind = "upload"
	// KindConvert means the convert call failed, returned non-2xx, or could
	// not be issued because upload returned no conversion identifier.
	KindConvert Kind = "convert"
)

// User-facing messages placed into the Failed state.
const (
	MsgMissingInput  = "Please select a file and target format"
	msgUploadPrefix  = "Failed to upload file: "
	msgConvertPrefix = "Failed to convert file: "
)

var (
	// ErrBusy is returned when Start is invoked while an attempt is in flight.
	ErrBusy = session.ErrBusy

	// ErrMissingConversionID is the cause when a successful upload response
	// carries no conversion_id.
	ErrMissingConversionID = errors.New("upload response did not include a conversion_id")
)

// Error is a failed attempt. Error returns the message shown to the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, cause error) *Error {
	var msg string
	switch kind {
	case KindValidation:
		msg = MsgMissingInput
	case KindEncoding, KindUpload:
		msg = msgUploadPrefix + cause.Error()
	default:
		msg = msgConvertPrefix + cause.Error()
	}
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
