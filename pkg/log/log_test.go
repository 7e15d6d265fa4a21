package log

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameEvent(session string, dir Direction, opcode uint8, value int64) Event {
	return Event{
		Timestamp:  time.Now(),
		SessionID:  session,
		Direction:  dir,
		Category:   CategoryFrame,
		Port:       "/dev/ttyACM0",
		ModuleAddr: 1,
		Frame: &FrameEvent{
			Raw:    []byte{1, opcode, 0, 0, 0, 0, 0, byte(value), 0},
			Opcode: opcode,
			Value:  value,
		},
	}
}

func TestEncodeDecodeEvent(t *testing.T) {
	event := frameEvent("sess-1", DirectionOut, 4, 4000)
	event.Frame.Command = "mvp"

	data, err := EncodeEvent(event)
	require.NoError(t, err)

	decoded, err := DecodeEvent(data)
	require.NoError(t, err)

	assert.Equal(t, event.SessionID, decoded.SessionID)
	assert.Equal(t, event.Direction, decoded.Direction)
	assert.Equal(t, event.Category, decoded.Category)
	assert.Equal(t, event.ModuleAddr, decoded.ModuleAddr)
	require.NotNil(t, decoded.Frame)
	assert.Equal(t, event.Frame.Raw, decoded.Frame.Raw)
	assert.Equal(t, "mvp", decoded.Frame.Command)
	assert.Equal(t, event.Frame.Value, decoded.Frame.Value)
}

func TestFileLoggerReaderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchange.cborlog")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	logger.Log(frameEvent("sess-1", DirectionOut, 6, 0))
	logger.Log(frameEvent("sess-1", DirectionIn, 6, 150))
	logger.Log(frameEvent("sess-2", DirectionOut, 3, 0))
	require.NoError(t, logger.Close())

	// Close is idempotent and logging after close is a no-op.
	require.NoError(t, logger.Close())
	logger.Log(frameEvent("sess-1", DirectionOut, 1, 0))

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	events, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, uint8(6), events[0].Frame.Opcode)
	assert.Equal(t, DirectionIn, events[1].Direction)
	assert.Equal(t, "sess-2", events[2].SessionID)
}

func TestFilteredReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchange.cborlog")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)
	logger.Log(frameEvent("sess-1", DirectionOut, 6, 0))
	logger.Log(frameEvent("sess-1", DirectionIn, 6, 150))
	logger.Log(frameEvent("sess-2", DirectionOut, 3, 0))
	require.NoError(t, logger.Close())

	in := DirectionIn
	reader, err := NewFilteredReader(path, Filter{SessionID: "sess-1", Direction: &in})
	require.NoError(t, err)
	defer reader.Close()

	event, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, DirectionIn, event.Direction)
	assert.Equal(t, "sess-1", event.SessionID)

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestMultiLogger(t *testing.T) {
	var a, b recordingLogger
	multi := NewMultiLogger(&a, &b)

	multi.Log(frameEvent("sess-1", DirectionOut, 4, 1))
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestSlogAdapter(t *testing.T) {
	// Smoke test: the adapter must not panic on any event shape.
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	adapter.Log(frameEvent("sess-1", DirectionOut, 4, 4000))
	adapter.Log(Event{
		Timestamp: time.Now(),
		SessionID: "sess-1",
		Category:  CategoryState,
		StateChange: &StateChangeEvent{
			OldState: "idle",
			NewState: "closed",
			Reason:   "shutdown",
		},
	})
	adapter.Log(Event{
		Timestamp: time.Now(),
		SessionID: "sess-1",
		Category:  CategoryError,
		Error:     &ErrorEventData{Message: "read timed out", Command: "gap"},
	})
}

func TestNoopLogger(t *testing.T) {
	var logger NoopLogger
	logger.Log(frameEvent("sess-1", DirectionOut, 4, 0)) // must not panic
}

// recordingLogger collects events for assertions.
type recordingLogger struct {
	events []Event
}

func (r *recordingLogger) Log(event Event) {
	r.events = append(r.events, event)
}
