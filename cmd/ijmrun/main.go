// Command ijmrun runs a macro script against a fresh in-memory host and prints the log
// window when the script ends.
//
//	ijmrun [-engine starlark|risor] [-arg value] [-answers answers.yaml]
//	       [-ext plugin.yaml]... [-log-level debug] script.star
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	ijmacro "github.com/robbyt/go-ijmacro"
	engineTypes "github.com/robbyt/go-ijmacro/engines/types"
	"github.com/robbyt/go-ijmacro/macro"
	"github.com/robbyt/go-ijmacro/macro/dialog"
	"github.com/robbyt/go-ijmacro/macro/ext"
	"github.com/robbyt/go-ijmacro/options"
	"github.com/robbyt/go-ijmacro/platform/constants"
	"github.com/robbyt/go-ijmacro/platform/data"
)

type config struct {
	engine    string
	argument  string
	answers   string
	logLevel  slog.Level
	manifests []string
	script    string
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("ijmrun", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.engine, "engine", "", "script engine (starlark or risor); default from the file extension")
	fs.StringVar(&cfg.argument, "arg", "", "value returned by getArgument()")
	fs.StringVar(&cfg.answers, "answers", "", "YAML file with dialog answers keyed by dialog title and field label")
	fs.TextVar(&cfg.logLevel, "log-level", slog.LevelWarn, "log level (debug, info, warn, error)")
	fs.Func("ext", "YAML manifest of a WebAssembly extension (repeatable)", func(s string) error {
		cfg.manifests = append(cfg.manifests, s)
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one script file")
	}
	cfg.script = fs.Arg(0)
	return cfg, nil
}

// evaluatorOptions turns the flags into evaluator options.
func evaluatorOptions(cfg *config, handler slog.Handler) ([]options.Option, error) {
	opts := []options.Option{options.WithLogHandler(handler)}
	if cfg.engine != "" {
		t, err := engineTypes.Parse(cfg.engine)
		if err != nil {
			return nil, err
		}
		opts = append(opts, options.WithEngine(t))
	}
	if cfg.argument != "" {
		opts = append(opts, options.WithDataProvider(
			data.NewStaticProvider(map[string]any{constants.Argument: cfg.argument}),
		))
	}

	var sessionOpts []macro.Option
	if cfg.answers != "" {
		answers, err := dialog.LoadAnswersFile(cfg.answers)
		if err != nil {
			return nil, fmt.Errorf("answers: %w", err)
		}
		sessionOpts = append(sessionOpts, macro.WithPresenter(answers))
	}
	if len(cfg.manifests) > 0 {
		regOpts := []ext.Option{ext.WithLogHandler(handler)}
		for _, path := range cfg.manifests {
			m, err := ext.LoadManifest(path)
			if err != nil {
				return nil, fmt.Errorf("extension %s: %w", path, err)
			}
			regOpts = append(regOpts, ext.WithManifest(m))
		}
		reg, err := ext.NewRegistry(regOpts...)
		if err != nil {
			return nil, err
		}
		sessionOpts = append(sessionOpts, macro.WithRegistry(reg))
	}
	return append(opts, options.WithSessionOptions(sessionOpts...)), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.logLevel})

	opts, err := evaluatorOptions(cfg, handler)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(cfg.script)
	if err != nil {
		return err
	}

	e, err := ijmacro.FromScriptFile(path, opts...)
	if err != nil {
		return err
	}
	resp, err := e.Eval(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, resp.GetLog())
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "ijmrun:", err)
		}
		stop()
		os.Exit(1)
	}
}
