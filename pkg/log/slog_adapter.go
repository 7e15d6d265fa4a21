package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see exchanges in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Port != "" {
		attrs = append(attrs, slog.String("port", event.Port))
	}
	if event.ModuleAddr != 0 {
		attrs = append(attrs, slog.Uint64("module_addr", uint64(event.ModuleAddr)))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.String("raw", fmt.Sprintf("% x", event.Frame.Raw)),
			slog.Uint64("opcode", uint64(event.Frame.Opcode)),
			slog.Int64("value", event.Frame.Value),
		)
		if event.Frame.Command != "" {
			attrs = append(attrs, slog.String("command", event.Frame.Command))
		}
		if event.Direction == DirectionIn {
			attrs = append(attrs, slog.Uint64("status", uint64(event.Frame.Status)))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Command != "" {
			attrs = append(attrs, slog.String("command", event.Error.Command))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "tmcl event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
