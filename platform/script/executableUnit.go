package script

import (
	"fmt"
	"log/slog"
	"time"

	engineTypes "github.com/robbyt/go-ijmacro/engines/types"
	"github.com/robbyt/go-ijmacro/internal/helpers"
	"github.com/robbyt/go-ijmacro/platform/data"
	"github.com/robbyt/go-ijmacro/platform/script/loader"
)

const checksumLength = 12

// ExecutableUnit is one compiled version of a macro script together with the provider
// of its input data. It is compiled once and evaluated any number of times.
type ExecutableUnit struct {
	// ID identifies this version; derived from the source hash when not given.
	ID string

	CreatedAt    time.Time
	ScriptLoader loader.Loader
	Compiler     Compiler
	Content      ExecutableContent

	// DataProvider supplies the input data ("ctx" in scripts) of each evaluation.
	DataProvider data.Provider

	logHandler slog.Handler
	logger     *slog.Logger
}

// NewExecutableUnit loads the script with scriptLoader and compiles it.
func NewExecutableUnit(
	handler slog.Handler,
	versionID string,
	scriptLoader loader.Loader,
	compiler Compiler,
	dataProvider data.Provider,
) (*ExecutableUnit, error) {
	handler, logger := helpers.SetupLogger(handler, "script", "ExecutableUnit")

	if compiler == nil {
		return nil, ErrNilCompiler
	}
	if scriptLoader == nil {
		return nil, ErrNilLoader
	}

	reader, err := scriptLoader.GetReader()
	if err != nil {
		return nil, fmt.Errorf("failed to get reader from loader: %w", err)
	}

	exe, err := compiler.Compile(reader)
	if err != nil {
		return nil, fmt.Errorf("compiler failed: %w", err)
	}

	if versionID == "" {
		versionID = helpers.ShortHash([]byte(exe.GetSource()), checksumLength)
	}
	logger.Debug("script compiled", "ID", versionID, "engine", exe.GetMachineType())

	return &ExecutableUnit{
		ID:           versionID,
		CreatedAt:    time.Now(),
		ScriptLoader: scriptLoader,
		Content:      exe,
		Compiler:     compiler,
		DataProvider: dataProvider,
		logHandler:   handler,
		logger:       logger.With("ID", versionID),
	}, nil
}

func (exe *ExecutableUnit) String() string {
	return fmt.Sprintf("ExecutableUnit{ID: %s, CreatedAt: %s, Compiler: %s, Loader: %s}",
		exe.ID, exe.CreatedAt, exe.Compiler, exe.ScriptLoader)
}

func (exe *ExecutableUnit) GetID() string { return exe.ID }

// GetContent returns the compiled script.
func (exe *ExecutableUnit) GetContent() ExecutableContent { return exe.Content }

func (exe *ExecutableUnit) GetCreatedAt() time.Time { return exe.CreatedAt }

// GetMachineType returns the engine the script was compiled for.
func (exe *ExecutableUnit) GetMachineType() engineTypes.Type {
	return exe.Content.GetMachineType()
}

func (exe *ExecutableUnit) GetCompiler() Compiler { return exe.Compiler }

func (exe *ExecutableUnit) GetLoader() loader.Loader { return exe.ScriptLoader }

func (exe *ExecutableUnit) GetDataProvider() data.Provider { return exe.DataProvider }
