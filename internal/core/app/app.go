// Package app wires parsing, binding, rule dispatch and persistence into
// analysis runs.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gobwas/glob"

	"staticlint/internal/core/app/helpers"
	"staticlint/internal/core/config"
	"staticlint/internal/core/ports"
	"staticlint/internal/data/history"
	"staticlint/internal/engine/parser"
	"staticlint/internal/engine/rules"
	"staticlint/internal/engine/rules/builtin"
)

type App struct {
	Config       *config.Config
	Parser       ports.CodeParser
	Registry     *rules.Registry
	History      ports.HistoryStore
	IncludeTests bool

	paths        config.ResolvedPaths
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

// New builds an app for cfg, resolving relative paths against the working
// directory. The history store is opened when cfg.DB.Enabled is set.
func New(cfg *config.Config) (*App, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return NewWithRoot(cfg, cwd)
}

func NewWithRoot(cfg *config.Config, cwd string) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		return nil, err
	}

	excludeDirs, err := helpers.CompileGlobs(cfg.Exclude.Dirs, "exclude dir")
	if err != nil {
		return nil, err
	}
	excludeFiles, err := helpers.CompileGlobs(cfg.Exclude.Files, "exclude file")
	if err != nil {
		return nil, err
	}

	loader, err := parser.NewGrammarLoader()
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:       cfg,
		Parser:       parser.NewParser(loader),
		Registry:     builtin.Registry(),
		paths:        paths,
		excludeDirs:  excludeDirs,
		excludeFiles: excludeFiles,
	}

	if cfg.DB.Enabled {
		store, err := history.Open(paths.DBPath, cfg.DB.BusyTimeout)
		if err != nil {
			if history.IsCorruptError(err) {
				return nil, fmt.Errorf("history database %s is unusable, remove it to start over: %w", paths.DBPath, err)
			}
			return nil, err
		}
		slog.Debug("history store opened", "path", store.Path())
		a.History = store
	}
	return a, nil
}

// ProjectRoot is the directory report paths are made relative to.
func (a *App) ProjectRoot() string {
	return a.paths.ProjectRoot
}

// ProjectKey identifies this project's runs in the history store.
func (a *App) ProjectKey() string {
	return a.paths.ProjectRoot
}

func (a *App) Close() error {
	if a.History == nil {
		return nil
	}
	return a.History.Close()
}
