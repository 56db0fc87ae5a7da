package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/raysh454/logpuzzle/internal/cli"
	"github.com/raysh454/logpuzzle/internal/extractor"
	"github.com/raysh454/logpuzzle/internal/fetcher"
	"github.com/raysh454/logpuzzle/internal/logging"
	"github.com/raysh454/logpuzzle/internal/materializer"
	"github.com/raysh454/logpuzzle/internal/utils"
	"github.com/raysh454/logpuzzle/internal/webclient"
)

// Application holds everything a single run needs. Pass already-constructed
// parts so it is easy to drive from tests.
type Application struct {
	Config *Config
	Args   *cli.CLIArgs
	Logger logging.Logger

	// WebClient is used for directory mode. Nil means build a net/http client
	// from Config.Fetch.
	WebClient webclient.WebClient
}

func NewApplication(cfg *Config, args *cli.CLIArgs, logger logging.Logger) *Application {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Application{
		Config: cfg,
		Args:   args,
		Logger: logger,
	}
}

// Run extracts the puzzle URLs and either lists them on stdout or, when a
// destination directory was given, downloads them there. Nothing is written
// to stdout in directory mode.
func (a *Application) Run(ctx context.Context, stdout io.Writer) error {
	if a == nil || a.Config == nil || a.Args == nil {
		return errors.New("application is not configured")
	}

	opts := extractor.Options{
		Scheme: a.Config.Scheme,
		Marker: a.Config.Marker,
	}
	if a.Config.Host != "" {
		host, err := utils.CanonicalHost(a.Config.Host)
		if err != nil {
			return fmt.Errorf("configure host: %w", err)
		}
		opts.Host = host
	}

	a.Logger.Info("run starting",
		logging.Field{Key: "logfile", Value: a.Args.LogFile},
		logging.Field{Key: "todir", Value: a.Args.ToDir})

	urls, err := extractor.New(opts, a.Logger).ReadURLs(a.Args.LogFile)
	if err != nil {
		return err
	}

	if a.Args.ToDir == "" {
		return printURLs(stdout, urls)
	}
	return a.download(ctx, urls)
}

func (a *Application) download(ctx context.Context, urls []string) error {
	strategy, err := materializer.ParseExtensionStrategy(a.Config.ExtensionStrategy)
	if err != nil {
		return err
	}

	wc := a.WebClient
	if wc == nil {
		nhc, err := webclient.NewNetHTTPClient(webclient.Config{
			Timeout:      a.Config.Fetch.Timeout,
			UserAgent:    a.Config.Fetch.UserAgent,
			MaxBodyBytes: a.Config.Fetch.MaxBytes,
		}, a.Logger, nil)
		if err != nil {
			return fmt.Errorf("create webclient: %w", err)
		}
		wc = nhc
	}
	defer wc.Close()

	m := materializer.New(fetcher.New(wc, a.Logger), materializer.Options{Extension: strategy}, a.Logger)
	_, err = m.Materialize(ctx, urls, a.Args.ToDir)
	return err
}

func printURLs(w io.Writer, urls []string) error {
	bw := bufio.NewWriter(w)
	for _, u := range urls {
		if _, err := fmt.Fprintln(bw, u); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// Main runs the command line with args (without the program name) and
// returns the process exit status.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		cli.Usage(stderr)
		return 1
	}

	parsed, err := cli.ParseArgs(args)
	switch {
	case errors.Is(err, cli.ErrHelp):
		cli.Usage(stdout)
		return 0
	case err != nil:
		fmt.Fprintf(stderr, "logpuzzle: %v\n", err)
		cli.Usage(stderr)
		return 2
	}

	cfg := DefaultConfig()
	if parsed.ConfigPath != "" {
		if cfg, err = LoadConfig(parsed.ConfigPath); err != nil {
			fmt.Fprintf(stderr, "logpuzzle: %v\n", err)
			return 1
		}
	}
	cfg.ApplyArgs(parsed)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "logpuzzle: %v\n", err)
		return 2
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.NewJSONLogger(stderr, level, "logpuzzle").
		With(logging.Field{Key: "run_id", Value: uuid.New().String()})

	if err := NewApplication(cfg, parsed, logger).Run(ctx, stdout); err != nil {
		fmt.Fprintf(stderr, "logpuzzle: %v\n", err)
		return 1
	}
	return 0
}
