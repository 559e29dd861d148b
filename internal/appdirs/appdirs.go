// Package appdirs places assetgen's config, logs, ledger and generated
// files. Everything hangs off one base directory: ASSETGEN_HOME when set,
// <executable dir>/data in portable mode, otherwise the working directory
// (the web project root the content scripts always ran from).
package appdirs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	HomeEnv     = "ASSETGEN_HOME"
	PortableEnv = "ASSETGEN_PORTABLE"

	// SoundsRootName is the public directory every job writes under.
	SoundsRootName = "sounds"

	configFileName = "config.toml"
	dbFileName     = "assetgen.db"
)

type Paths struct {
	Portable   bool
	ConfigDir  string
	ConfigFile string
	LogDir     string
	OutputDir  string
	CacheDir   string
}

type locationEnv struct {
	Home     string `env:"ASSETGEN_HOME"`
	Portable bool   `env:"ASSETGEN_PORTABLE"`
}

type locator struct {
	// environ replaces the process environment when non-nil.
	environ    map[string]string
	executable func() (string, error)
}

func Resolve() (Paths, error) {
	return locator{executable: os.Executable}.resolve()
}

func (l locator) resolve() (Paths, error) {
	var le locationEnv
	if err := env.ParseWithOptions(&le, env.Options{Environment: l.environ}); err != nil {
		return Paths{}, fmt.Errorf("read location env: %w", err)
	}

	if home := strings.TrimSpace(le.Home); home != "" {
		return Under(filepath.Clean(home)), nil
	}
	if !le.Portable {
		return Under(""), nil
	}

	exe, err := l.executable()
	if err != nil {
		return Paths{}, fmt.Errorf("locate executable for portable mode: %w", err)
	}
	paths := Under(filepath.Join(filepath.Dir(exe), "data"))
	paths.Portable = true
	return paths, nil
}

// Under lays the standard directories out below base; an empty base
// gives working-directory relative paths.
func Under(base string) Paths {
	configDir := filepath.Join(base, "config")
	return Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, configFileName),
		LogDir:     filepath.Join(base, "logs"),
		OutputDir:  filepath.Join(base, "public"),
		CacheDir:   filepath.Join(base, "cache"),
	}
}

// OutputRootFor mirrors the web root: manifests reference files below it
// with a leading slash.
func OutputRootFor(paths Paths) string {
	return cleanOr(paths.OutputDir, ".")
}

func SoundsRootFor(paths Paths) string {
	return filepath.Join(OutputRootFor(paths), SoundsRootName)
}

// JobDirFor joins a slash separated job subdir such as "sounds/letters"
// onto the output root.
func JobDirFor(paths Paths, subdir string) string {
	subdir = strings.TrimSpace(subdir)
	if subdir == "" {
		return OutputRootFor(paths)
	}
	return filepath.Join(OutputRootFor(paths), filepath.FromSlash(subdir))
}

func DBPathFor(paths Paths) string {
	return filepath.Join(cleanOr(paths.CacheDir, "cache"), dbFileName)
}

func cleanOr(dir, fallback string) string {
	if dir = strings.TrimSpace(dir); dir == "" {
		return fallback
	}
	return filepath.Clean(dir)
}
