package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tmcl-protocol/tmcm-go/pkg/log"
)

func TestFormatRequestFrame(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 15, 32, 123456000, time.UTC)
	event := log.Event{
		Timestamp: ts,
		SessionID: "abc12345-6789-0123-4567-890abcdef012",
		Direction: log.DirectionOut,
		Category:  log.CategoryFrame,
		Frame: &log.FrameEvent{
			Raw:     []byte{0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x07, 0xff, 0x08},
			Command: "ror",
			Opcode:  1,
			Value:   2047,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "2026-03-14T10:15:32.123456Z") {
		t.Errorf("expected formatted timestamp, got: %s", output)
	}
	if !strings.Contains(output, "[session:abc12345]") {
		t.Errorf("expected shortened session ID, got: %s", output)
	}
	if !strings.Contains(output, "OUT") {
		t.Errorf("expected OUT direction, got: %s", output)
	}
	if !strings.Contains(output, "FRAME") {
		t.Errorf("expected FRAME category, got: %s", output)
	}
	if !strings.Contains(output, "Command: ror") {
		t.Errorf("expected command mnemonic, got: %s", output)
	}
	if !strings.Contains(output, "Value: 2047") {
		t.Errorf("expected value, got: %s", output)
	}
	if !strings.Contains(output, "01010000000007ff08") {
		t.Errorf("expected hex frame dump, got: %s", output)
	}
}

func TestFormatReplyFrame(t *testing.T) {
	event := log.Event{
		Timestamp: time.Now(),
		SessionID: "short",
		Direction: log.DirectionIn,
		Category:  log.CategoryFrame,
		Frame: &log.FrameEvent{
			Raw:    []byte{0x02, 0x01, 0x05, 0x06, 0x00, 0x00, 0x00, 0x00, 0x0e},
			Opcode: 6,
			Status: 5,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "[session:short]") {
		t.Errorf("expected session ID shorter than 8 chars unchanged, got: %s", output)
	}
	if !strings.Contains(output, "Configuration EEPROM locked") {
		t.Errorf("expected decoded status message, got: %s", output)
	}
	if !strings.Contains(output, "Reply to opcode 6") {
		t.Errorf("expected reply opcode, got: %s", output)
	}
}

func TestFormatStateChange(t *testing.T) {
	event := log.Event{
		Timestamp: time.Now(),
		SessionID: "abc12345-6789",
		Direction: log.DirectionOut,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: "idle",
			NewState: "closed",
			Reason:   "shutdown",
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "idle -> closed (shutdown)") {
		t.Errorf("expected state transition, got: %s", output)
	}
}

func TestFormatError(t *testing.T) {
	event := log.Event{
		Timestamp: time.Now(),
		SessionID: "abc12345-6789",
		Direction: log.DirectionIn,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Message: "frame checksum mismatch",
			Command: "gap",
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "Error: frame checksum mismatch") {
		t.Errorf("expected error message, got: %s", output)
	}
	if !strings.Contains(output, "Command: gap") {
		t.Errorf("expected failed command, got: %s", output)
	}
}

func TestParseDirectionFlag(t *testing.T) {
	d, err := ParseDirectionFlag("Out")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != log.DirectionOut {
		t.Errorf("expected DirectionOut, got %v", d)
	}

	if _, err := ParseDirectionFlag("sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestParseCategoryFlag(t *testing.T) {
	c, err := ParseCategoryFlag("error")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != log.CategoryError {
		t.Errorf("expected CategoryError, got %v", c)
	}

	if _, err := ParseCategoryFlag("bogus"); err == nil {
		t.Error("expected error for unknown category")
	}
}
