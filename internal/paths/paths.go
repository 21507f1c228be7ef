// Package paths locates navigator's configuration file and the files of
// the local contract store.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// File and directory names.
const (
	AppName            = "navigator"
	ConfigFileName     = "config.yaml"
	ContractsFileName  = "contracts.jsonl"
	DatabaseFileName   = "navigator.db"
	DefaultDataDirName = ".navigator-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "NAVIGATOR_CONFIG_DIR"
	EnvDataDir   = "NAVIGATOR_DATA_DIR"
)

// Source records which rule chose a directory.
type Source string

const (
	SourceFlag     Source = "flag"
	SourceConfig   Source = "config"
	SourceEnv      Source = "env"
	SourcePlatform Source = "platform"
	SourceWorkdir  Source = "workdir"
)

// Location is a resolved absolute directory and the rule that chose it.
type Location struct {
	Dir    string
	Source Source
}

// ConfigFile returns the path of config.yaml inside the directory.
func (l Location) ConfigFile() string {
	return filepath.Join(l.Dir, ConfigFileName)
}

// Store returns the file layout of a contract store rooted at the directory.
func (l Location) Store() Store {
	return Store{Dir: l.Dir}
}

// Store is the file layout of a contract store: contracts.jsonl is the
// source of truth, navigator.db is rebuilt from it on every attach.
type Store struct {
	Dir string
}

// Contracts returns the path of the JSONL contract file.
func (s Store) Contracts() string {
	return filepath.Join(s.Dir, ContractsFileName)
}

// Database returns the path of the derived SQLite database.
func (s Store) Database() string {
	return filepath.Join(s.Dir, DatabaseFileName)
}

// resolver holds the process lookups used to choose directories.
type resolver struct {
	lookupEnv     func(string) (string, bool)
	getwd         func() (string, error)
	userConfigDir func() (string, error)
}

var system = resolver{
	lookupEnv:     os.LookupEnv,
	getwd:         os.Getwd,
	userConfigDir: os.UserConfigDir,
}

// ConfigDir chooses the configuration directory: the flag, then
// NAVIGATOR_CONFIG_DIR, then navigator/ under the user's configuration
// directory ($XDG_CONFIG_HOME or ~/.config on Linux).
func ConfigDir(flag string) (Location, error) {
	return system.configDir(flag)
}

// DataDir chooses the data directory: the flag, then data_dir from
// config.yaml, then NAVIGATOR_DATA_DIR, then .navigator-db in the working
// directory.
func DataDir(flag, configured string) (Location, error) {
	return system.dataDir(flag, configured)
}

func (r resolver) configDir(flag string) (Location, error) {
	if loc, ok, err := r.explicit(flag, SourceFlag); ok {
		return loc, err
	}
	if loc, ok, err := r.fromEnv(EnvConfigDir); ok {
		return loc, err
	}
	base, err := r.userConfigDir()
	if err != nil {
		return Location{}, fmt.Errorf("locate user config dir: %w", err)
	}
	return Location{Dir: filepath.Join(base, AppName), Source: SourcePlatform}, nil
}

func (r resolver) dataDir(flag, configured string) (Location, error) {
	if loc, ok, err := r.explicit(flag, SourceFlag); ok {
		return loc, err
	}
	if loc, ok, err := r.explicit(configured, SourceConfig); ok {
		return loc, err
	}
	if loc, ok, err := r.fromEnv(EnvDataDir); ok {
		return loc, err
	}
	cwd, err := r.getwd()
	if err != nil {
		return Location{}, fmt.Errorf("locate working dir: %w", err)
	}
	return Location{Dir: filepath.Join(cwd, DefaultDataDirName), Source: SourceWorkdir}, nil
}

// fromEnv treats an empty variable as unset.
func (r resolver) fromEnv(name string) (Location, bool, error) {
	v, _ := r.lookupEnv(name)
	return r.explicit(v, SourceEnv)
}

// explicit makes a user-supplied directory absolute against the resolver's
// working directory. ok is false when dir is empty.
func (r resolver) explicit(dir string, src Source) (loc Location, ok bool, err error) {
	if dir == "" {
		return Location{}, false, nil
	}
	if !filepath.IsAbs(dir) {
		cwd, err := r.getwd()
		if err != nil {
			return Location{}, true, fmt.Errorf("locate working dir: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}
	return Location{Dir: filepath.Clean(dir), Source: src}, true, nil
}
