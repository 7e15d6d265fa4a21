package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/tmcl-protocol/tmcm-go/pkg/log"
	"github.com/tmcl-protocol/tmcm-go/pkg/wire"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Sessions          map[string]*SessionStats
	CommandCounts     map[string]int
	DeviceErrors      map[wire.Status]int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single controller session.
type SessionStats struct {
	FirstSeen  time.Time
	LastSeen   time.Time
	Events     int
	Port       string
	ModuleAddr uint8
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Sessions:          make(map[string]*SessionStats),
		CommandCounts:     make(map[string]int),
		DeviceErrors:      make(map[wire.Status]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++
		stats.EventsByDirection[event.Direction]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		sess, ok := stats.Sessions[event.SessionID]
		if !ok {
			sess = &SessionStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Sessions[event.SessionID] = sess
		}
		sess.Events++
		if event.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = event.Timestamp
		}
		if event.Port != "" && sess.Port == "" {
			sess.Port = event.Port
		}
		if event.ModuleAddr != 0 && sess.ModuleAddr == 0 {
			sess.ModuleAddr = event.ModuleAddr
		}

		if event.Frame != nil {
			if event.Direction == log.DirectionOut {
				name := event.Frame.Command
				if name == "" {
					name = fmt.Sprintf("opcode %d", event.Frame.Opcode)
				}
				stats.CommandCounts[name]++
			} else if status := wire.Status(event.Frame.Status); status.IsError() {
				stats.DeviceErrors[status]++
			}
		}

		if event.Error != nil {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== TMCM Exchange Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryFrame, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.CommandCounts) > 0 {
		fmt.Fprintln(w, "Commands Sent:")
		names := make([]string, 0, len(stats.CommandCounts))
		for name := range stats.CommandCounts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %-24s %d\n", name, stats.CommandCounts[name])
		}
		fmt.Fprintln(w)
	}

	if len(stats.DeviceErrors) > 0 {
		fmt.Fprintln(w, "Device Errors:")
		codes := make([]wire.Status, 0, len(stats.DeviceErrors))
		for code := range stats.DeviceErrors {
			codes = append(codes, code)
		}
		sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
		for _, code := range codes {
			fmt.Fprintf(w, "  %-32s %d\n", code.String(), stats.DeviceErrors[code])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Failed Exchanges: %d\n", stats.Errors)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})
		for _, s := range sessions {
			fmt.Fprintf(w, "  %s  port=%s addr=%d events=%d duration=%s\n",
				shortenSessionID(s.id), s.stats.Port, s.stats.ModuleAddr,
				s.stats.Events, s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond))
		}
	}
}
