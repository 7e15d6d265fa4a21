// Package commands implements the tmcm-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/tmcl-protocol/tmcm-go/pkg/log"
	"github.com/tmcl-protocol/tmcm-go/pkg/wire"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	SessionID string
	Direction *log.Direction
	Category  *log.Category
}

// ParseDirectionFlag converts a -direction flag value to a log.Direction.
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want in or out)", s)
	}
}

// ParseCategoryFlag converts a -category flag value to a log.Category.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "frame":
		return log.CategoryFrame, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category %q (want frame, state or error)", s)
	}
}

// RunView reads the log file and writes matching events to output in
// human-readable form.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, log.Filter{
		SessionID: filter.SessionID,
		Direction: filter.Direction,
		Category:  filter.Category,
	})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] DIRECTION CATEGORY
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenSessionID(event.SessionID)
	dir := event.Direction.String()

	fmt.Fprintf(w, "%s [session:%s] %-3s %s\n", ts, session, dir, event.Category.String())

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Direction, event.Frame)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatFrameDetails writes frame-specific details.
func formatFrameDetails(w io.Writer, dir log.Direction, frame *log.FrameEvent) {
	if len(frame.Raw) > 0 {
		fmt.Fprintf(w, "  Raw: %s\n", hex.EncodeToString(frame.Raw))
	}

	if dir == log.DirectionOut {
		name := frame.Command
		if name == "" {
			name = fmt.Sprintf("opcode %d", frame.Opcode)
		}
		fmt.Fprintf(w, "  Command: %s  Type: %d  Motor: %d  Value: %d\n",
			name, frame.Type, frame.Motor, frame.Value)
		return
	}

	status := wire.Status(frame.Status)
	fmt.Fprintf(w, "  Reply to opcode %d  Status: %s (%d)  Value: %d\n",
		frame.Opcode, status.String(), frame.Status, frame.Value)
}

// formatStateChangeDetails writes state-change details.
func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  %s -> %s", sc.OldState, sc.NewState)
	if sc.Reason != "" {
		fmt.Fprintf(w, " (%s)", sc.Reason)
	}
	fmt.Fprintln(w)
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	if e.Command != "" {
		fmt.Fprintf(w, "  Command: %s\n", e.Command)
	}
	fmt.Fprintf(w, "  Error: %s\n", e.Message)
}
