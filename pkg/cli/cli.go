// Package cli parses the mediastation command line.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zurustar/mediastation/pkg/logger"
)

// Config holds the settings parsed from flags and the environment.
type Config struct {
	TitlePath string        // title directory containing title.toml
	Timeout   time.Duration // 0 runs until the title terminates
	LogLevel  string
	LogFile   string
	Headless  bool
	Strict    bool // UNSUPPORTED errors are fatal
	SoundFont string
	Disasm    string // header file to disassemble instead of playing
	ShowHelp  bool
}

var boolFlags = map[string]bool{
	"-h": true, "--h": true, "-help": true, "--help": true,
	"-headless": true, "--headless": true,
	"-strict": true, "--strict": true,
}

// ParseArgs parses args (without the program name). Flags win over the
// environment variables TIMEOUT, LOG_LEVEL, LOG_FILE, HEADLESS, STRICT and
// SOUNDFONT.
func ParseArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("mediastation", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	config := &Config{}
	var timeoutSec int
	fs.IntVar(&timeoutSec, "timeout", 0, "")
	fs.IntVar(&timeoutSec, "t", 0, "")
	fs.StringVar(&config.LogLevel, "log-level", "", "")
	fs.StringVar(&config.LogLevel, "l", "", "")
	fs.StringVar(&config.LogFile, "log-file", "", "")
	fs.BoolVar(&config.Headless, "headless", false, "")
	fs.BoolVar(&config.Strict, "strict", false, "")
	fs.StringVar(&config.SoundFont, "soundfont", "", "")
	fs.StringVar(&config.Disasm, "disasm", "", "")
	fs.BoolVar(&config.ShowHelp, "help", false, "")
	fs.BoolVar(&config.ShowHelp, "h", false, "")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return nil, err
	}

	if !config.Headless {
		config.Headless = envBool("HEADLESS")
	}
	if !config.Strict {
		config.Strict = envBool("STRICT")
	}
	if timeoutSec == 0 {
		if v := os.Getenv("TIMEOUT"); v != "" {
			if t, err := strconv.Atoi(v); err == nil && t > 0 {
				timeoutSec = t
			}
		}
	}
	if config.LogLevel == "" {
		config.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFile == "" {
		config.LogFile = os.Getenv("LOG_FILE")
	}
	if config.SoundFont == "" {
		config.SoundFont = os.Getenv("SOUNDFONT")
	}

	if timeoutSec < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}
	config.Timeout = time.Duration(timeoutSec) * time.Second

	if _, err := logger.ParseLevel(config.LogLevel); err != nil {
		return nil, fmt.Errorf("%w (must be debug, info, warn, or error)", err)
	}

	if fs.NArg() > 0 {
		config.TitlePath = fs.Arg(0)
	}
	return config, nil
}

func envBool(name string) bool {
	v := strings.ToLower(os.Getenv(name))
	return v == "1" || v == "true"
}

// reorderArgs moves flags (and their values) ahead of positional arguments
// so that "mediastation DIR --headless" parses.
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			continue
		}
		flags = append(flags, arg)
		if strings.Contains(arg, "=") || boolFlags[arg] {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			flags = append(flags, args[i])
		}
	}
	return append(flags, positional...)
}

// PrintHelp writes usage to w.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `mediastation - Media Station title player

Usage:
  mediastation [options] <title-dir>

Arguments:
  title-dir    directory containing title.toml

Options:
  -t, --timeout <seconds>     stop after the given number of seconds (default: none)
  -l, --log-level <level>     debug, info, warn or error (default: info)
  --log-file <path>           also append logs to this file
  --headless                  run without a window or audio output
  --strict                    treat unsupported built-ins as fatal
  --soundfont <path>          SoundFont (.sf2) used for MIDI sounds
  --disasm <file>             print the event handlers of an asset header file
  -h, --help                  show this help

Environment Variables:
  TIMEOUT, LOG_LEVEL, LOG_FILE, HEADLESS=1, STRICT=1, SOUNDFONT

Examples:
  mediastation ./titles/demo
  mediastation --headless --timeout 5 ./titles/demo
  mediastation --disasm ./titles/demo/screen1.hdr
`)
}
