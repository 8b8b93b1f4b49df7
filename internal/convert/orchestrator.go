// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert sequences one conversion attempt: encode the selected
// file, upload it, then convert it using the identifier the upload returned.
// Every outcome is written into the session state; nothing is retried.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/pdiddy/file-converter/internal/encode"
	"github.com/pdiddy/file-converter/internal/intake"
	"github.com/pdiddy/file-converter/internal/remote"
	"github.com/pdiddy/file-converter/internal/session"
	"github.com/pdiddy/file-converter/pkg/types"
)

// Recorder stores finished attempts.
type Recorder interface {
	Record(ctx context.Context, a types.Attempt) error
}

// Orchestrator owns the session of one client activation and drives the
// upload then convert sequence against a remote.Service.
type Orchestrator struct {
	token    session.Token
	session  *session.Session
	intake   *intake.Intake
	encoder  encode.Encoder
	service  remote.Service
	recorder Recorder
	log      *slog.Logger
	now      func() time.Time
}

// Option customizes the orchestrator.
type Option func(*Orchestrator)

// WithRecorder stores every finished attempt in r.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithLogger overrides the default discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock overrides time.Now for attempt timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New returns an orchestrator with a fresh idle session. The token is used
// for every upload made through it and never changes.
func New(token session.Token, in *intake.Intake, enc encode.Encoder, svc remote.Service, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		token:   token,
		session: session.New(),
		intake:  in,
		encoder: enc,
		service: svc,
		log:     slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.With("session", token.String())
	return o
}

// Token returns the session token.
func (o *Orchestrator) Token() session.Token { return o.token }

// Session returns the observable session state.
func (o *Orchestrator) Session() *session.Session { return o.session }

// SelectFile takes the file carried by src. It reports false, with no state
// change, when src carries no file.
func (o *Orchestrator) SelectFile(src intake.Source) (bool, error) {
	file, suggested, ok, err := o.intake.Select(src)
	if err != nil || !ok {
		return false, err
	}
	if err := o.session.Select(file, suggested); err != nil {
		return false, err
	}
	o.log.Debug("file selected", "file", file.Name, "size", file.Size, "suggested_format", string(suggested))
	return true, nil
}

// ChooseFormat overrides the target format with a catalog identifier.
func (o *Orchestrator) ChooseFormat(id string) error {
	return o.session.ChooseFormat(types.FormatID(id))
}

// Reset clears the file, format and outcome. The token is kept.
func (o *Orchestrator) Reset() {
	o.session.Reset()
	o.log.Debug("session reset")
}

// HandleConvert runs one attempt. On failure the session ends in
// PhaseFailed and the returned error is an *Error carrying the same
// message. ErrBusy is returned, with no state change, when an attempt is
// already running. When Reset runs while a call is in flight, the outcome of
// that call is dropped and the error wraps session.ErrStale.
func (o *Orchestrator) HandleConvert(ctx context.Context) (types.ConversionResult, error) {
	st := o.session.Snapshot()
	if st.Phase.IsActive() {
		return types.ConversionResult{}, ErrBusy
	}
	if st.File == nil || st.Format == "" {
		return types.ConversionResult{}, o.reject(ctx, st)
	}

	gen, st, err := o.session.Begin()
	switch {
	case errors.Is(err, session.ErrIncomplete):
		return types.ConversionResult{}, o.reject(ctx, o.session.Snapshot())
	case err != nil:
		return types.ConversionResult{}, err
	}

	file, format := *st.File, st.Format
	attempt := types.Attempt{
		Session:      o.token.String(),
		FileName:     file.Name,
		TargetFormat: format,
	}
	log := o.log.With("file", file.Name, "format", string(format))
	log.Debug("uploading", "size", file.Size)

	payload, err := o.encoder.Encode(ctx, file)
	if err != nil {
		return types.ConversionResult{}, o.fail(ctx, gen, attempt, newError(KindEncoding, err))
	}

	up, err := o.service.Upload(ctx, remote.UploadRequest{
		FileData:    encode.StripDataURL(payload),
		FileName:    file.Name,
		ContentType: file.ContentType,
		UserSession: o.token.String(),
	})
	if err != nil {
		return types.ConversionResult{}, o.fail(ctx, gen, attempt, newError(KindUpload, err))
	}
	if up.ConversionID == "" {
		return types.ConversionResult{}, o.fail(ctx, gen, attempt, newError(KindConvert, ErrMissingConversionID))
	}
	attempt.ConversionID = up.ConversionID
	log = log.With("conversion_id", up.ConversionID)

	if err := o.session.Uploaded(gen, up.ConversionID); err != nil {
		log.Debug("upload completion dropped", "error", err)
		return types.ConversionResult{}, fmt.Errorf("upload of %s: %w", file.Name, err)
	}
	log.Debug("converting")

	result, err := o.service.Convert(ctx, remote.ConvertRequest{
		ConversionID: up.ConversionID,
		TargetFormat: format,
	})
	if err != nil {
		return types.ConversionResult{}, o.fail(ctx, gen, attempt, newError(KindConvert, err))
	}

	if err := o.session.Succeed(gen, result); err != nil {
		log.Debug("convert completion dropped", "error", err)
		return types.ConversionResult{}, fmt.Errorf("conversion of %s: %w", file.Name, err)
	}

	attempt.Outcome = types.OutcomeSucceeded
	attempt.DownloadURL = result.DownloadURL
	o.record(ctx, attempt)
	log.Info("conversion succeeded", "download_url", result.DownloadURL)
	return result, nil
}

func (o *Orchestrator) reject(ctx context.Context, st session.State) error {
	e := newError(KindValidation, nil)
	if err := o.session.Reject(e.Message); err != nil {
		return err
	}
	attempt := types.Attempt{
		Session:      o.token.String(),
		TargetFormat: st.Format,
		Outcome:      types.OutcomeFailed,
		Message:      e.Message,
	}
	if st.File != nil {
		attempt.FileName = st.File.Name
	}
	o.record(ctx, attempt)
	o.log.Warn("conversion not started", "error", e.Message)
	return e
}

func (o *Orchestrator) fail(ctx context.Context, gen uint64, attempt types.Attempt, e *Error) error {
	if err := o.session.Fail(gen, e.Message); err != nil {
		o.log.Debug("failure dropped", "kind", string(e.Kind), "cause", e.Message, "error", err)
		return fmt.Errorf("%s of %s: %w", e.Kind, attempt.FileName, err)
	}
	attempt.Outcome = types.OutcomeFailed
	attempt.Message = e.Message
	o.record(ctx, attempt)
	o.log.Warn("conversion failed", "kind", string(e.Kind), "file", attempt.FileName, "error", e.Message)
	return e
}

func (o *Orchestrator) record(ctx context.Context, a types.Attempt) {
	if o.recorder == nil {
		return
	}
	a.CreatedAt = o.now().UTC()
	if err := o.recorder.Record(ctx, a); err != nil {
		o.log.Warn("recording attempt", "error", err)
	}
}
