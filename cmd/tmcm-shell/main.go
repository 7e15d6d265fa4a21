// Command tmcm-shell is an interactive console for TMCM-140 modules.
//
// This command demonstrates a complete driver session with:
//   - CLI argument parsing
//   - Configuration file support
//   - Interactive command interface
//   - Exchange logging to a CBOR file (readable with tmcm-log)
//
// Usage:
//
//	tmcm-shell [flags]
//
// Flags:
//
//	-port string       Serial device path (default "/dev/ttyUSB0")
//	-baud int          Baud rate (default 9600)
//	-address int       Module address (default 1)
//	-timeout duration  Reply timeout (default 500ms)
//	-config string     Configuration file path (YAML)
//	-event-log string  Write exchange events to this file
//	-profiles string   Parameter profile store path (default "profiles.json")
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Connect with default settings
//	tmcm-shell -port /dev/ttyUSB0
//
//	# Connect using a config file, recording all exchanges
//	tmcm-shell -config motor.yaml -event-log session.tlog
//
//	# Debug a flaky link
//	tmcm-shell -port /dev/ttyACM0 -timeout 2s -log-level debug
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tmcl-protocol/tmcm-go/cmd/tmcm-shell/interactive"
	tmcmlog "github.com/tmcl-protocol/tmcm-go/pkg/log"
	"github.com/tmcl-protocol/tmcm-go/pkg/profile"
	"github.com/tmcl-protocol/tmcm-go/pkg/tmcm"
	"github.com/tmcl-protocol/tmcm-go/pkg/transport"
)

// Config holds the shell configuration. YAML fields mirror the flags;
// explicit flags take precedence over the config file.
type Config struct {
	Port     string        `yaml:"port"`
	Baud     int           `yaml:"baud"`
	Address  uint          `yaml:"address"`
	Timeout  time.Duration `yaml:"timeout"`
	EventLog string        `yaml:"event_log"`
	Profiles string        `yaml:"profiles"`
	LogLevel string        `yaml:"log_level"`
}

var (
	config     Config
	configFile string
)

func init() {
	flag.StringVar(&config.Port, "port", "/dev/ttyUSB0", "Serial device path")
	flag.IntVar(&config.Baud, "baud", transport.DefaultBaud, "Baud rate")
	flag.UintVar(&config.Address, "address", tmcm.DefaultModuleAddr, "Module address (0-255)")
	flag.DurationVar(&config.Timeout, "timeout", transport.DefaultTimeout, "Reply timeout")
	flag.StringVar(&config.EventLog, "event-log", "", "Write exchange events to this file")
	flag.StringVar(&config.Profiles, "profiles", "profiles.json", "Parameter profile store path")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&configFile, "config", "", "Configuration file path (YAML)")
}

func main() {
	flag.Parse()

	if configFile != "" {
		if err := loadConfigFile(configFile); err != nil {
			log.Fatalf("Invalid config file: %v", err)
		}
	}

	if err := validateConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	setupLogging(config.LogLevel)

	log.Println("TMCM-140 Interactive Shell")
	log.Println("==========================")
	log.Printf("Port: %s (%d baud)", config.Port, config.Baud)
	log.Printf("Module address: %d", config.Address)

	// Set up exchange logging if requested
	eventLogger := buildEventLogger()

	port, err := transport.Open(transport.Config{
		Device:  config.Port,
		Baud:    config.Baud,
		Timeout: config.Timeout,
	})
	if err != nil {
		log.Fatalf("Failed to open serial port: %v", err)
	}

	ctrl, err := tmcm.New(port, tmcm.Config{
		ModuleAddr: uint8(config.Address),
		Port:       config.Port,
		Logger:     eventLogger,
	})
	if err != nil {
		port.Close()
		log.Fatalf("Failed to create controller: %v", err)
	}
	defer ctrl.Close()

	if version, err := ctrl.FirmwareVersion(); err != nil {
		log.Printf("Warning: firmware version query failed: %v", err)
	} else {
		log.Printf("Firmware version: %d", version)
	}

	shell, err := interactive.New(ctrl, profile.NewStore(config.Profiles))
	if err != nil {
		log.Fatalf("Failed to start shell: %v", err)
	}
	shell.Run()

	log.Println("Goodbye!")
}

// loadConfigFile merges the YAML config beneath any explicitly set flags.
func loadConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("YAML parse error: %w", err)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["port"] && fromFile.Port != "" {
		config.Port = fromFile.Port
	}
	if !set["baud"] && fromFile.Baud != 0 {
		config.Baud = fromFile.Baud
	}
	if !set["address"] && fromFile.Address != 0 {
		config.Address = fromFile.Address
	}
	if !set["timeout"] && fromFile.Timeout != 0 {
		config.Timeout = fromFile.Timeout
	}
	if !set["event-log"] && fromFile.EventLog != "" {
		config.EventLog = fromFile.EventLog
	}
	if !set["profiles"] && fromFile.Profiles != "" {
		config.Profiles = fromFile.Profiles
	}
	if !set["log-level"] && fromFile.LogLevel != "" {
		config.LogLevel = fromFile.LogLevel
	}
	return nil
}

func validateConfig() error {
	if config.Port == "" {
		return fmt.Errorf("serial port path required")
	}
	if config.Address > 255 {
		return fmt.Errorf("module address must be 0-255, got %d", config.Address)
	}
	if config.Baud <= 0 {
		return fmt.Errorf("baud rate must be positive, got %d", config.Baud)
	}
	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}
	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", config.LogLevel)
	}
	return nil
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

// buildEventLogger assembles the exchange logger: a CBOR file logger
// when -event-log is set, plus an slog mirror at debug level.
func buildEventLogger() tmcmlog.Logger {
	var loggers []tmcmlog.Logger

	if config.EventLog != "" {
		fileLogger, err := tmcmlog.NewFileLogger(config.EventLog)
		if err != nil {
			log.Fatalf("Failed to create event log: %v", err)
		}
		log.Printf("Exchange logging to: %s", config.EventLog)
		loggers = append(loggers, fileLogger)
	}

	if config.LogLevel == "debug" {
		loggers = append(loggers, tmcmlog.NewSlogAdapter(slog.Default()))
	}

	switch len(loggers) {
	case 0:
		return tmcmlog.NoopLogger{}
	case 1:
		return loggers[0]
	default:
		return tmcmlog.NewMultiLogger(loggers...)
	}
}
