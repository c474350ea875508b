// Package ext implements capability-checked macro extensions.
//
// An extension is a Plugin that declares the functions it offers. Plugins are either
// Go factories registered under a dotted name or WebAssembly modules described by a
// Manifest. Install verifies that every declared function is really exported before
// handing out an Extension, and Extension.Call refuses names that were not declared.
package ext

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/robbyt/go-ijmacro/internal/helpers"
	"github.com/robbyt/go-ijmacro/macro/ext/wasm"
	"gopkg.in/yaml.v3"
)

// Plugin is a loaded extension.
type Plugin interface {
	Functions() []string
	Call(ctx context.Context, name string, args []any) (any, error)
	Close(ctx context.Context) error
}

// Exporter is implemented by plugins that can report what they actually export.
type Exporter interface {
	Exports(name string) bool
}

// Env is what a plugin gets from the session that installs it.
type Env struct {
	// Log writes a line to the macro log window.
	Log    func(string)
	Logger *slog.Logger
}

// Factory creates a Go plugin.
type Factory func(ctx context.Context, env Env) (Plugin, error)

// Manifest describes a WebAssembly extension.
type Manifest struct {
	Name      string   `yaml:"name"`
	Wasm      string   `yaml:"wasm"`
	Functions []string `yaml:"functions"`
	WASI      *bool    `yaml:"wasi,omitempty"`
}

func (m Manifest) validate() error {
	switch {
	case m.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidManifest)
	case m.Wasm == "":
		return fmt.Errorf("%w: %s: wasm path is required", ErrInvalidManifest, m.Name)
	case len(m.Functions) == 0:
		return fmt.Errorf("%w: %s: no functions declared", ErrInvalidManifest, m.Name)
	}
	return nil
}

// LoadManifest reads a YAML manifest. A relative wasm path is resolved against the
// manifest's directory.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, path, err)
	}
	if m.Wasm != "" && !filepath.IsAbs(m.Wasm) {
		m.Wasm = filepath.Join(filepath.Dir(path), m.Wasm)
	}
	return m, m.validate()
}

// Registry maps extension names to the means of loading them.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	manifests map[string]Manifest
	wasmOpts  []wasm.Option

	logHandler slog.Handler
	logger     *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry) error

// WithFactory registers a Go plugin under name.
func WithFactory(name string, f Factory) Option {
	return func(r *Registry) error {
		return r.Register(name, f)
	}
}

// WithManifest registers a WebAssembly plugin.
func WithManifest(m Manifest) Option {
	return func(r *Registry) error {
		return r.RegisterManifest(m)
	}
}

// WithWASMOptions passes options to every wasm.Load.
func WithWASMOptions(opts ...wasm.Option) Option {
	return func(r *Registry) error {
		r.wasmOpts = append(r.wasmOpts, opts...)
		return nil
	}
}

// WithLogHandler sets the slog handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Registry) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		r.logHandler = handler
		r.logger = nil
		return nil
	}
}

// WithLogger sets the slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		r.logger = logger
		r.logHandler = nil
		return nil
	}
}

// NewRegistry creates a Registry.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{
		factories: make(map[string]Factory),
		manifests: make(map[string]Manifest),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("error applying registry option: %w", err)
		}
	}
	r.logHandler, r.logger = helpers.ResolveLogger(r.logHandler, r.logger, "ext", "Registry")
	return r, nil
}

// Register adds a Go plugin factory.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("extension name and factory are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(name) {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.factories[name] = f
	return nil
}

// RegisterManifest adds a WebAssembly plugin.
func (r *Registry) RegisterManifest(m Manifest) error {
	if err := m.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(m.Name) {
		return fmt.Errorf("%w: %s", ErrDuplicate, m.Name)
	}
	m.Functions = slices.Clone(m.Functions)
	r.manifests[m.Name] = m
	return nil
}

func (r *Registry) taken(name string) bool {
	_, f := r.factories[name]
	_, m := r.manifests[name]
	return f || m
}

// Names returns the registered extension names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories)+len(r.manifests))
	for n := range r.factories {
		names = append(names, n)
	}
	for n := range r.manifests {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Install loads the extension called name and checks its declared functions.
func (r *Registry) Install(ctx context.Context, name string, env Env) (*Extension, error) {
	if env.Logger == nil {
		env.Logger = r.logger.With("extension", name)
	}

	r.mu.RLock()
	factory, isGo := r.factories[name]
	manifest, isWasm := r.manifests[name]
	r.mu.RUnlock()

	var (
		p   Plugin
		err error
	)
	switch {
	case isGo:
		p, err = factory(ctx, env)
	case isWasm:
		p, err = r.loadWasm(ctx, manifest, env)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExtension, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load extension %s: %w", name, err)
	}

	e, err := newExtension(name, p)
	if err != nil {
		if cerr := p.Close(ctx); cerr != nil {
			r.logger.WarnContext(ctx, "failed to close rejected extension", "name", name, "error", cerr)
		}
		return nil, err
	}
	r.logger.DebugContext(ctx, "extension installed", "name", name, "functions", e.Functions())
	return e, nil
}

func (r *Registry) loadWasm(ctx context.Context, m Manifest, env Env) (Plugin, error) {
	opts := slices.Clone(r.wasmOpts)
	opts = append(opts, wasm.WithLogger(env.Logger), wasm.WithLogSink(env.Log))
	if m.WASI != nil && !*m.WASI {
		opts = append(opts, wasm.WithoutWASI())
	}
	return wasm.LoadFile(ctx, m.Wasm, m.Functions, opts...)
}

// Extension is an installed plugin.
type Extension struct {
	name      string
	plugin    Plugin
	functions []string
}

func newExtension(name string, p Plugin) (*Extension, error) {
	functions := p.Functions()
	if ex, ok := p.(Exporter); ok {
		var missing []string
		for _, fn := range functions {
			if !ex.Exports(fn) {
				missing = append(missing, fn)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: %s: %s", ErrMissingFunction, name, strings.Join(missing, ", "))
		}
	}
	return &Extension{name: name, plugin: p, functions: slices.Clone(functions)}, nil
}

func (e *Extension) String() string {
	return fmt.Sprintf("ext.Extension{Name: %s}", e.name)
}

// Name returns the registered name.
func (e *Extension) Name() string { return e.name }

// Functions returns the declared function names.
func (e *Extension) Functions() []string { return slices.Clone(e.functions) }

// Call invokes a declared function.
func (e *Extension) Call(ctx context.Context, name string, args ...any) (any, error) {
	if !slices.Contains(e.functions, name) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownFunction, e.name, name)
	}
	return e.plugin.Call(ctx, name, args)
}

// Close releases the plugin.
func (e *Extension) Close(ctx context.Context) error {
	return e.plugin.Close(ctx)
}
