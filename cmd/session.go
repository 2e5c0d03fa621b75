package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/leefowlercu/graphiti-claude-integration/internal/config"
	"github.com/leefowlercu/graphiti-claude-integration/internal/corelib"
	"github.com/leefowlercu/graphiti-claude-integration/internal/fsutil"
	"github.com/leefowlercu/graphiti-claude-integration/internal/installer"
	"github.com/leefowlercu/graphiti-claude-integration/internal/layout"
	"github.com/leefowlercu/graphiti-claude-integration/internal/logging"
	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
	"github.com/leefowlercu/graphiti-claude-integration/internal/report"
	"github.com/spf13/cobra"
)

// session holds everything a subcommand needs for one run
type session struct {
	installer *installer.Installer
	color     bool
	closer    io.Closer
}

func (s *session) Close() error {
	return s.closer.Close()
}

// newSession resolves configuration, logging and paths into an installer
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration; %w", err)
	}

	logger, closer, err := logging.Setup(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging; %w", err)
	}

	rootDir, err := resolveRootDir(cfg.RootDir)
	if err != nil {
		closer.Close()
		return nil, err
	}

	sourceDir, err := resolveSourceDir(cfg.SourceDir)
	if err != nil {
		closer.Close()
		return nil, err
	}

	logger.Debug("resolved paths",
		"root", rootDir,
		"source", sourceDir,
		"core", cfg.CoreDir)

	fs := fsutil.NewOS()
	printer := report.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), manifest.PackageName, logger)

	inst := installer.New(installer.Options{
		Context: layout.New(rootDir, sourceDir),
		FS:      fs,
		Core:    corelib.NewResolver(fs, cfg.CoreDir, sourceDir),
		Printer: printer,
		Logger:  logger,
	})

	return &session{
		installer: inst,
		color:     report.ColorEnabled(cfg.Output.Color, cmd.OutOrStdout()),
		closer:    closer,
	}, nil
}

// resolveRootDir returns the configured project directory or the working directory
func resolveRootDir(configured string) (string, error) {
	if configured != "" {
		abs, err := filepath.Abs(configured)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s; %w", configured, err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", installer.MissingWorkingDirectory(err)
	}
	return wd, nil
}

// resolveSourceDir returns the configured asset directory, or the parent of
// the directory holding the executable
func resolveSourceDir(configured string) (string, error) {
	if configured != "" {
		abs, err := filepath.Abs(configured)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s; %w", configured, err)
		}
		return abs, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable; %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Dir(filepath.Dir(exe)), nil
}
