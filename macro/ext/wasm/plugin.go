// Package wasm loads macro extensions compiled to WebAssembly and runs them with
// Extism on the wazero runtime.
//
// A call marshals its arguments as a JSON array, passes them to the exported
// function, and decodes the function's output as JSON. Output that is not JSON is
// returned as a string. Modules may import the host function ijm_log (namespace
// extism:host/user) to write a line to the macro log.
package wasm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	extismSDK "github.com/extism/go-sdk"
	"github.com/robbyt/go-ijmacro/internal/helpers"
	"github.com/tetratelabs/wazero"
)

// LogFunction is the name of the host function that writes to the macro log.
const LogFunction = "ijm_log"

// Settings configures module compilation.
type Settings struct {
	EnableWASI    bool
	RuntimeConfig wazero.RuntimeConfig
	HostFunctions []extismSDK.HostFunction
}

// Compiler turns WASM bytes into a compiled plugin.
type Compiler func(ctx context.Context, wasm []byte, settings *Settings) (CompiledPlugin, error)

// Compile is the Extism compiler.
func Compile(ctx context.Context, wasm []byte, settings *Settings) (CompiledPlugin, error) {
	if len(wasm) == 0 {
		return nil, ErrContentNil
	}
	manifest := extismSDK.Manifest{
		Wasm: []extismSDK.Wasm{extismSDK.WasmData{Data: wasm}},
	}
	config := extismSDK.PluginConfig{
		EnableWasi:    settings.EnableWASI,
		RuntimeConfig: settings.RuntimeConfig,
	}
	plugin, err := extismSDK.NewCompiledPlugin(ctx, manifest, config, settings.HostFunctions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	return newCompiledPluginAdapter(plugin), nil
}

type config struct {
	compiler   Compiler
	enableWASI bool
	logSink    func(string)
	logHandler slog.Handler
	logger     *slog.Logger
}

// Option configures Load.
type Option func(*config) error

// WithCompiler replaces the Extism compiler.
func WithCompiler(c Compiler) Option {
	return func(cfg *config) error {
		if c == nil {
			return fmt.Errorf("compiler cannot be nil")
		}
		cfg.compiler = c
		return nil
	}
}

// WithoutWASI disables WASI for the module.
func WithoutWASI() Option {
	return func(cfg *config) error {
		cfg.enableWASI = false
		return nil
	}
}

// WithLogSink sets where ijm_log output goes.
func WithLogSink(sink func(string)) Option {
	return func(cfg *config) error {
		cfg.logSink = sink
		return nil
	}
}

// WithLogHandler sets the slog handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(cfg *config) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		cfg.logHandler = handler
		cfg.logger = nil
		return nil
	}
}

// WithLogger sets the slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		cfg.logger = logger
		cfg.logHandler = nil
		return nil
	}
}

// Plugin is a loaded WASM module with one live instance.
type Plugin struct {
	mu        sync.Mutex
	functions []string
	compiled  CompiledPlugin
	instance  PluginInstance
	logger    *slog.Logger
}

// Load compiles wasm and creates its instance. functions lists the exports the
// module offers to macros.
func Load(ctx context.Context, wasm []byte, functions []string, opts ...Option) (*Plugin, error) {
	cfg := &config{compiler: Compile, enableWASI: true}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying wasm option: %w", err)
		}
	}
	_, logger := helpers.ResolveLogger(cfg.logHandler, cfg.logger, "wasm", "Plugin")

	settings := &Settings{
		EnableWASI:    cfg.enableWASI,
		RuntimeConfig: wazero.NewRuntimeConfig(),
		HostFunctions: []extismSDK.HostFunction{logHostFunction(cfg.logSink, logger)},
	}
	compiled, err := cfg.compiler(ctx, wasm, settings)
	if err != nil {
		return nil, err
	}
	if compiled == nil {
		return nil, ErrContentNil
	}
	instance, err := compiled.Instance(ctx, newInstanceConfig())
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, fmt.Errorf("failed to create plugin instance: %w", err)
	}

	logger.DebugContext(ctx, "wasm plugin loaded", "size", len(wasm), "functions", functions)
	return &Plugin{
		functions: slices.Clone(functions),
		compiled:  compiled,
		instance:  instance,
		logger:    logger,
	}, nil
}

// LoadFile reads a module from disk and loads it.
func LoadFile(ctx context.Context, path string, functions []string, opts ...Option) (*Plugin, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(ctx, wasm, functions, opts...)
}

func logHostFunction(sink func(string), logger *slog.Logger) extismSDK.HostFunction {
	return extismSDK.NewHostFunctionWithStack(
		LogFunction,
		func(ctx context.Context, p *extismSDK.CurrentPlugin, stack []uint64) {
			msg, err := p.ReadString(stack[0])
			if err != nil {
				logger.WarnContext(ctx, "failed to read log message", "error", err)
				return
			}
			if sink == nil {
				logger.InfoContext(ctx, msg)
				return
			}
			sink(msg)
		},
		[]extismSDK.ValueType{extismSDK.ValueTypePTR},
		nil,
	)
}

func (p *Plugin) String() string {
	return fmt.Sprintf("wasm.Plugin{Functions: %v}", p.functions)
}

// Functions returns the declared function names.
func (p *Plugin) Functions() []string {
	return slices.Clone(p.functions)
}

// Exports reports whether the module exports name.
func (p *Plugin) Exports(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.instance != nil && p.instance.FunctionExists(name)
}

// Call runs the exported function name with args encoded as a JSON array.
func (p *Plugin) Call(ctx context.Context, name string, args []any) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.instance == nil {
		return nil, ErrClosed
	}
	if args == nil {
		args = []any{}
	}
	input, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal arguments: %w", err)
	}

	start := time.Now()
	exit, output, err := p.instance.CallWithContext(ctx, name, input)
	elapsed := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s cancelled: %w", ErrCallFailed, name, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrCallFailed, name, err)
	}
	if exit != 0 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrExitCode, name, exit)
	}

	result := decodeOutput(output)
	p.logger.DebugContext(ctx, "wasm call complete", "function", name, "execTime", elapsed)
	return result, nil
}

// Close releases the instance and the compiled module.
func (p *Plugin) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.instance == nil {
		return nil
	}
	err := p.instance.Close(ctx)
	if cerr := p.compiled.Close(ctx); err == nil {
		err = cerr
	}
	p.instance = nil
	return err
}

func decodeOutput(output []byte) any {
	if len(bytes.TrimSpace(output)) == 0 {
		return nil
	}
	var result any
	d := json.NewDecoder(bytes.NewReader(output))
	d.UseNumber()
	if err := d.Decode(&result); err != nil {
		return string(output)
	}
	return fixNumbers(result)
}

// fixNumbers turns json.Number values into int64 when integral and float64 otherwise.
func fixNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = fixNumbers(t[i])
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = fixNumbers(e)
		}
		return t
	}
	return v
}
