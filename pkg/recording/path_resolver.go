package recording

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

type PathResolver interface {
	OutputDir(ctx context.Context) (string, error)
}

// StaticDir always resolves to itself.
type StaticDir string

var _ PathResolver = StaticDir("")

func (d StaticDir) OutputDir(context.Context) (string, error) {
	if d == "" {
		return "", fmt.Errorf("the output directory is not set")
	}
	return string(d), nil
}

// AppDataDir resolves to the per-user data directory of the application:
// $XDG_DATA_HOME/<AppName> (or ~/.local/share/<AppName>) on Linux and
// the user config directory elsewhere.
type AppDataDir struct {
	AppName string
}

var _ PathResolver = AppDataDir{}

func (d AppDataDir) OutputDir(context.Context) (string, error) {
	if d.AppName == "" {
		return "", fmt.Errorf("the application name is not set")
	}
	base, err := userDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, d.AppName), nil
}

func userDataDir() (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("unable to get the user config directory: %w", err)
		}
		return dir, nil
	}

	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to get the home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share"), nil
}
