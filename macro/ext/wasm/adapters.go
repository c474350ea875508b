package wasm

import (
	"context"
	"crypto/rand"

	extismSDK "github.com/extism/go-sdk"
	"github.com/tetratelabs/wazero"
)

// CompiledPlugin abstracts extismSDK.CompiledPlugin.
type CompiledPlugin interface {
	Instance(ctx context.Context, config extismSDK.PluginInstanceConfig) (PluginInstance, error)
	Close(ctx context.Context) error
}

// PluginInstance abstracts extismSDK.Plugin.
type PluginInstance interface {
	Call(name string, data []byte) (uint32, []byte, error)
	CallWithContext(ctx context.Context, name string, data []byte) (uint32, []byte, error)
	FunctionExists(name string) bool
	Close(ctx context.Context) error
}

type sdkCompiledPlugin struct {
	plugin *extismSDK.CompiledPlugin
}

// newCompiledPluginAdapter wraps an SDK plugin; nil stays nil.
func newCompiledPluginAdapter(plugin *extismSDK.CompiledPlugin) CompiledPlugin {
	if plugin == nil {
		return nil
	}
	return &sdkCompiledPlugin{plugin: plugin}
}

func (c *sdkCompiledPlugin) Instance(
	ctx context.Context,
	config extismSDK.PluginInstanceConfig,
) (PluginInstance, error) {
	instance, err := c.plugin.Instance(ctx, config)
	if err != nil {
		return nil, err
	}
	return &sdkPluginAdapter{plugin: instance}, nil
}

func (c *sdkCompiledPlugin) Close(ctx context.Context) error {
	return c.plugin.Close(ctx)
}

type sdkPluginAdapter struct {
	plugin *extismSDK.Plugin
}

func (p *sdkPluginAdapter) Call(name string, data []byte) (uint32, []byte, error) {
	return p.plugin.Call(name, data)
}

func (p *sdkPluginAdapter) CallWithContext(
	ctx context.Context,
	name string,
	data []byte,
) (uint32, []byte, error) {
	return p.plugin.CallWithContext(ctx, name, data)
}

func (p *sdkPluginAdapter) FunctionExists(name string) bool {
	return p.plugin.FunctionExists(name)
}

func (p *sdkPluginAdapter) Close(ctx context.Context) error {
	return p.plugin.Close(ctx)
}

// newInstanceConfig gives plugins wall time, monotonic time and a secure random source.
func newInstanceConfig() extismSDK.PluginInstanceConfig {
	moduleConfig := wazero.NewModuleConfig().
		WithSysWalltime().
		WithSysNanotime().
		WithRandSource(rand.Reader)
	return extismSDK.PluginInstanceConfig{ModuleConfig: moduleConfig}
}
