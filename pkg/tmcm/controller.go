package tmcm

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tmcl-protocol/tmcm-go/pkg/log"
	"github.com/tmcl-protocol/tmcm-go/pkg/transport"
	"github.com/tmcl-protocol/tmcm-go/pkg/wire"
)

// DefaultModuleAddr is the factory-set module address.
const DefaultModuleAddr = 1

// Config holds controller settings.
type Config struct {
	// ModuleAddr is the module address on the serial bus (1..255).
	// Defaults to DefaultModuleAddr when zero.
	ModuleAddr uint8

	// Port is the serial device path, recorded in log events.
	Port string

	// Logger receives protocol log events. Nil disables logging.
	Logger log.Logger
}

// Controller drives one TMCM-140 module over a serial transport.
//
// All public operations are fully serialized: the session mutex is
// held for the entire command/reply exchange, never per step.
type Controller struct {
	mu sync.Mutex

	tr         transport.Transport
	moduleAddr uint8
	port       string
	sessionID  string
	logger     log.Logger

	// awaitingReply is the single piece of mutable protocol state: at
	// most one request may be outstanding per session. It is reset on
	// every exit path of an exchange.
	awaitingReply bool
	closed        bool
}

// New creates a controller on an open transport.
func New(tr transport.Transport, cfg Config) (*Controller, error) {
	if cfg.ModuleAddr == 0 {
		cfg.ModuleAddr = DefaultModuleAddr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}

	c := &Controller{
		tr:         tr,
		moduleAddr: cfg.ModuleAddr,
		port:       cfg.Port,
		sessionID:  uuid.NewString(),
		logger:     logger,
	}
	c.logState("", "idle", "session opened")
	return c, nil
}

// SessionID returns the unique ID of this controller session.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Command sends a named TMCL command and returns the validated reply.
//
// The exchange is atomic: encode, transmit, block for the 9-byte
// reply, then drain the link. Stale bytes found before sending or
// trailing bytes found after the reply fail with ErrExtraData. A
// timeout leaves the session idle again but the caller cannot know
// whether the module executed the command.
func (c *Controller) Command(name string, typ, motor uint8, value int64) (*wire.Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandLocked(name, typ, motor, value)
}

// commandLocked performs a full exchange. Callers must hold c.mu.
func (c *Controller) commandLocked(name string, typ, motor uint8, value int64) (*wire.Reply, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.awaitingReply {
		return nil, ErrAwaitingReply
	}

	// Stale bytes mean an earlier exchange was torn down mid-reply or
	// the hardware is confused; refuse to send into that.
	stale, err := c.tr.ReadAvailable()
	if err != nil {
		return nil, fmt.Errorf("drain before send failed: %w", err)
	}
	if len(stale) > 0 {
		err := fmt.Errorf("%w: %d stale bytes buffered before send", ErrExtraData, len(stale))
		c.logError(name, err)
		return nil, err
	}

	frame, err := wire.EncodeCommand(c.moduleAddr, name, typ, motor, value)
	if err != nil {
		return nil, err
	}

	if err := c.tr.Write(frame[:]); err != nil {
		c.logError(name, err)
		return nil, err
	}
	c.awaitingReply = true
	c.logFrame(log.DirectionOut, &log.FrameEvent{
		Raw:     frame[:],
		Command: name,
		Opcode:  frame[1],
		Type:    typ,
		Motor:   motor,
		Value:   value,
	})

	reply, err := c.receiveLocked(name)
	if err != nil {
		c.logError(name, err)
		return nil, err
	}
	return reply, nil
}

// receiveLocked reads and validates the reply to the in-flight
// command. The awaiting-reply flag is cleared on every exit path so a
// failed exchange never wedges the session.
func (c *Controller) receiveLocked(name string) (*wire.Reply, error) {
	defer func() { c.awaitingReply = false }()

	raw, err := c.tr.ReadExact(wire.FrameSize)
	if err != nil {
		return nil, fmt.Errorf("no reply to %q: %w", name, err)
	}

	extra, err := c.tr.ReadAvailable()
	if err != nil {
		return nil, fmt.Errorf("drain after reply failed: %w", err)
	}
	if len(extra) > 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after reply to %q", ErrExtraData, len(extra), name)
	}

	reply, err := wire.DecodeReply(raw)
	if err != nil {
		return nil, fmt.Errorf("bad reply to %q: %w", name, err)
	}

	c.logFrame(log.DirectionIn, &log.FrameEvent{
		Raw:    raw,
		Opcode: reply.Opcode,
		Value:  int64(reply.Value),
		Status: uint8(reply.Status),
	})
	return reply, nil
}

// Close closes the session and the underlying transport.
// It is safe to call Close multiple times.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.logState("idle", "closed", "close requested")
	return c.tr.Close()
}

// event builds the shared envelope for a log event.
func (c *Controller) event(category log.Category) log.Event {
	return log.Event{
		Timestamp:  time.Now(),
		SessionID:  c.sessionID,
		Category:   category,
		Port:       c.port,
		ModuleAddr: c.moduleAddr,
	}
}

func (c *Controller) logFrame(dir log.Direction, frame *log.FrameEvent) {
	event := c.event(log.CategoryFrame)
	event.Direction = dir
	event.Frame = frame
	c.logger.Log(event)
}

func (c *Controller) logError(command string, err error) {
	event := c.event(log.CategoryError)
	event.Error = &log.ErrorEventData{Message: err.Error(), Command: command}
	c.logger.Log(event)
}

func (c *Controller) logState(oldState, newState, reason string) {
	event := c.event(log.CategoryState)
	event.StateChange = &log.StateChangeEvent{OldState: oldState, NewState: newState, Reason: reason}
	c.logger.Log(event)
}
