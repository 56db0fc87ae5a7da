package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// ErrUsage marks argument errors that should be answered with the usage text.
var ErrUsage = errors.New("usage error")

// ErrHelp is returned when -h/--help was requested.
var ErrHelp = pflag.ErrHelp

// CLIArgs are the command-line arguments for a single run.
type CLIArgs struct {
	// LogFile is the Apache access log to scan (positional, required).
	LogFile string

	// ToDir is the destination directory; empty selects stdout listing.
	ToDir string

	// ConfigPath optionally points at a YAML config file.
	ConfigPath string

	// Host overrides the hostname derived from the log filename.
	Host string

	// Extension is the image suffix strategy: slice or path.
	Extension string

	// Timeout bounds each fetch; only meaningful when TimeoutSet.
	Timeout    time.Duration
	TimeoutSet bool

	Verbose bool
}

func newFlagSet() (*pflag.FlagSet, *CLIArgs) {
	fs := pflag.NewFlagSet("logpuzzle", pflag.ContinueOnError)
	a := &CLIArgs{}
	fs.StringVarP(&a.ToDir, "todir", "d", "", "destination directory for downloaded images")
	fs.StringVar(&a.ConfigPath, "config", "", "YAML config file")
	fs.StringVar(&a.Host, "host", "", "hostname to use instead of the one in the log filename")
	fs.StringVar(&a.Extension, "ext", "", "image suffix strategy: slice (last 4 chars of url) or path")
	fs.DurationVar(&a.Timeout, "timeout", 0, "per-image fetch timeout, 0 disables (default from config, 30s)")
	fs.BoolVarP(&a.Verbose, "verbose", "v", false, "log debug output to stderr")
	fs.SortFlags = false
	// Parse must not write to stdout/stderr; callers print Usage themselves.
	fs.SetOutput(io.Discard)
	return fs, a
}

// ParseArgs parses a slice of args and returns CLIArgs. It does not read os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs, a := newFlagSet()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	switch fs.NArg() {
	case 0:
		return nil, fmt.Errorf("%w: missing logfile argument", ErrUsage)
	case 1:
	default:
		return nil, fmt.Errorf("%w: unexpected arguments %s", ErrUsage, strings.Join(fs.Args()[1:], " "))
	}

	a.LogFile = fs.Arg(0)
	a.TimeoutSet = fs.Changed("timeout")
	return a, nil
}

// Usage writes the usage line and flag defaults to w.
func Usage(w io.Writer) {
	fs, _ := newFlagSet()
	fmt.Fprintln(w, "usage: logpuzzle [-d dir] [flags] logfile")
	fmt.Fprint(w, fs.FlagUsages())
}
