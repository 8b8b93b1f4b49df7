// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/file-converter/pkg/types"
)

func photo() types.SelectedFile {
	return types.SelectedFile{Name: "photo.jpg", Path: "/tmp/photo.jpg", ContentType: "image/jpeg", Size: 1536000}
}

func TestNewStartsIdle(t *testing.T) {
	s := New()
	st := s.Snapshot()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Nil(t, st.File)
	assert.Empty(t, st.Format)
}

func TestSelectAppliesSuggestion(t *testing.T) {
	s := New()
	require.NoError(t, s.Select(photo(), "png"))

	st := s.Snapshot()
	assert.Equal(t, PhaseFileSelected, st.Phase)
	require.NotNil(t, st.File)
	assert.Equal(t, "photo.jpg", st.File.Name)
	assert.Equal(t, types.FormatID("png"), st.Format)
}

func TestSelectWithoutSuggestionKeepsFormat(t *testing.T) {
	s := New()
	require.NoError(t, s.Select(types.SelectedFile{Name: "notes.txt"}, ""))
	assert.Empty(t, s.Snapshot().Format)

	require.NoError(t, s.ChooseFormat("gif"))
	require.NoError(t, s.Select(types.SelectedFile{Name: "other.doc"}, ""))
	assert.Equal(t, types.FormatID("gif"), s.Snapshot().Format)
}

func TestSelectRejectsUnknownSuggestion(t *testing.T) {
	s := New()
	err := s.Select(photo(), "heic")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, PhaseIdle, s.Snapshot().Phase)
}

func TestSelectClearsPriorOutcome(t *testing.T) {
	s := New()
	require.NoError(t, s.Select(photo(), "png"))
	gen, _, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.Fail(gen, "Failed to upload file: Upload failed"))

	require.NoError(t, s.Select(types.SelectedFile{Name: "b.gif"}, "jpg"))
	st := s.Snapshot()
	assert.Equal(t, PhaseFileSelected, st.Phase)
	assert.Empty(t, st.Message)
	assert.Nil(t, st.Result)
}

func TestChooseFormat(t *testing.T) {
	s := New()
	require.NoError(t, s.ChooseFormat("WEBP"))
	assert.Equal(t, types.FormatID("webp"), s.Snapshot().Format)

	assert.ErrorIs(t, s.ChooseFormat("svg"), ErrUnknownFormat)
	assert.Equal(t, types.FormatID("webp"), s.Snapshot().Format)
}

func TestHappyPathTransitions(t *testing.T) {
	s := New()
	var phases []Phase
	cancel := s.Subscribe(func(st State) { phases = append(phases, st.Phase) })
	defer cancel()

	require.NoError(t, s.Select(photo(), "png"))
	gen, st, err := s.Begin()
	require.NoError(t, err)
	assert.Equal(t, PhaseUploading, st.Phase)

	require.NoError(t, s.Uploaded(gen, "abc123"))
	assert.Equal(t, "abc123", s.Snapshot().ConversionID)

	result := types.ConversionResult{DownloadURL: "https://cdn.example.com/abc123.png"}
	require.NoError(t, s.Succeed(gen, result))

	final := s.Snapshot()
	assert.Equal(t, PhaseSucceeded, final.Phase)
	require.NotNil(t, final.Result)
	assert.Equal(t, result.DownloadURL, final.Result.DownloadURL)

	assert.Equal(t, []Phase{PhaseFileSelected, PhaseUploading, PhaseConverting, PhaseSucceeded}, phases)
}

func TestBeginRequiresFileAndFormat(t *testing.T) {
	s := New()
	_, _, err := s.Begin()
	assert.ErrorIs(t, err, ErrIncomplete)

	require.NoError(t, s.Select(types.SelectedFile{Name: "notes.txt"}, ""))
	_, _, err = s.Begin()
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestBusyWhileInFlight(t *testing.T) {
	s := New()
	require.NoError(t, s.Select(photo(), "png"))
	_, _, err := s.Begin()
	require.NoError(t, err)

	_, _, err = s.Begin()
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, s.Select(photo(), "jpg"), ErrBusy)
	assert.ErrorIs(t, s.ChooseFormat("gif"), ErrBusy)
	assert.ErrorIs(t, s.Reject("nope"), ErrBusy)
}

func TestRejectFromIdle(t *testing.T) {
	s := New()
	require.NoError(t, s.Reject("Please select a file and target format"))
	st := s.Snapshot()
	assert.Equal(t, PhaseFailed, st.Phase)
	assert.Equal(t, "Please select a file and target format", st.Message)
}

func TestInvalidTransition(t *testing.T) {
	s := New()
	require.NoError(t, s.Select(photo(), "png"))
	gen, _, err := s.Begin()
	require.NoError(t, err)

	err = s.Succeed(gen, types.ConversionResult{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, PhaseUploading, s.Snapshot().Phase)
}

func TestFailClearsResult(t *testing.T) {
	s := New()
	require.NoError(t, s.Select(photo(), "png"))
	gen, _, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.Uploaded(gen, "abc123"))
	require.NoError(t, s.Succeed(gen, types.ConversionResult{DownloadURL: "u"}))

	gen, _, err = s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.Fail(gen, "Failed to upload file: boom"))

	st := s.Snapshot()
	assert.Equal(t, PhaseFailed, st.Phase)
	assert.Nil(t, st.Result)
	assert.Equal(t, "Failed to upload file: boom", st.Message)
}

func TestResetClearsEverything(t *testing.T) {
	for _, end := range []Phase{PhaseSucceeded, PhaseFailed} {
		t.Run(string(end), func(t *testing.T) {
			s := New()
			require.NoError(t, s.Select(photo(), "png"))
			gen, _, err := s.Begin()
			require.NoError(t, err)
			if end == PhaseSucceeded {
				require.NoError(t, s.Uploaded(gen, "abc123"))
				require.NoError(t, s.Succeed(gen, types.ConversionResult{DownloadURL: "u"}))
			} else {
				require.NoError(t, s.Fail(gen, "Failed to upload file: x"))
			}

			s.Reset()
			assert.Equal(t, State{Phase: PhaseIdle}, s.Snapshot())
		})
	}
}

func TestResetIsIdempotent(t *testing.T) {
	s := New()
	require.NoError(t, s.Select(photo(), "png"))

	s.Reset()
	once := s.Snapshot()
	s.Reset()
	assert.Equal(t, once, s.Snapshot())
}

func TestStaleCompletionAfterReset(t *testing.T) {
	s := New()
	require.NoError(t, s.Select(photo(), "png"))
	gen, _, err := s.Begin()
	require.NoError(t, err)

	s.Reset()

	assert.ErrorIs(t, s.Uploaded(gen, "abc123"), ErrStale)
	assert.ErrorIs(t, s.Fail(gen, "late"), ErrStale)
	assert.Equal(t, State{Phase: PhaseIdle}, s.Snapshot())
}

func TestStaleCompletionAfterRestart(t *testing.T) {
	s := New()
	require.NoError(t, s.Select(photo(), "png"))
	oldGen, _, err := s.Begin()
	require.NoError(t, err)
	s.Reset()

	require.NoError(t, s.Select(photo(), "gif"))
	newGen, _, err := s.Begin()
	require.NoError(t, err)
	require.NotEqual(t, oldGen, newGen)

	assert.ErrorIs(t, s.Uploaded(oldGen, "old"), ErrStale)
	require.NoError(t, s.Uploaded(newGen, "new"))
	assert.Equal(t, "new", s.Snapshot().ConversionID)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	require.NoError(t, s.Select(photo(), "png"))
	st := s.Snapshot()
	st.File.Name = "mutated"
	assert.Equal(t, "photo.jpg", s.Snapshot().File.Name)
}

func TestSnapshotResultIsACopy(t *testing.T) {
	s := New()
	require.NoError(t, s.Select(photo(), "png"))
	gen, _, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.Uploaded(gen, "abc123"))

	var pushed State
	cancel := s.Subscribe(func(st State) { pushed = st })
	defer cancel()

	require.NoError(t, s.Succeed(gen, types.ConversionResult{
		DownloadURL: "u",
		Fields: map[string]any{
			"download_url": "u",
			"meta":         map[string]any{"w": float64(10)},
		},
	}))

	st := s.Snapshot()
	st.Result.Fields["download_url"] = "mutated"
	st.Result.Fields["meta"].(map[string]any)["w"] = float64(99)
	st.Result.DownloadURL = "mutated"

	fresh := s.Snapshot()
	assert.Equal(t, "u", fresh.Result.DownloadURL)
	assert.Equal(t, "u", fresh.Result.Fields["download_url"])
	assert.Equal(t, float64(10), fresh.Result.Fields["meta"].(map[string]any)["w"])

	require.NotNil(t, pushed.Result)
	pushed.Result.Fields["download_url"] = "mutated"
	assert.Equal(t, "u", s.Snapshot().Result.Fields["download_url"])
}

func TestSubscribeCancel(t *testing.T) {
	s := New()
	calls := 0
	cancel := s.Subscribe(func(State) { calls++ })
	s.Reset()
	cancel()
	s.Reset()
	assert.Equal(t, 1, calls)
}

func TestPhaseHelpers(t *testing.T) {
	tests := []struct {
		phase    Phase
		active   bool
		finished bool
	}{
		{PhaseIdle, false, false},
		{PhaseFileSelected, false, false},
		{PhaseUploading, true, false},
		{PhaseConverting, true, false},
		{PhaseSucceeded, false, true},
		{PhaseFailed, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			assert.Equal(t, tt.active, tt.phase.IsActive())
			assert.Equal(t, tt.finished, tt.phase.IsFinished())
		})
	}
}

func TestEveryPhaseAcceptsReset(t *testing.T) {
	for phase, events := range transitions {
		to, ok := events[evReset]
		assert.True(t, ok, "phase %s must accept reset", phase)
		assert.Equal(t, PhaseIdle, to)
	}
}

func TestNewTokenIsUniqueAndStable(t *testing.T) {
	a := NewToken()
	b := NewToken()
	assert.NotEmpty(t, a.String())
	assert.NotEqual(t, a, b)
}
