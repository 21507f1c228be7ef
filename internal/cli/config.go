package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/repotrading/navigator/internal/ctxlog"
	"github.com/repotrading/navigator/internal/paths"
	"github.com/repotrading/navigator/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	envPrefix = "NAVIGATOR"

	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyConfigMajor = "config_major"
	cfgKeyEngineMajor = "engine_major"
	cfgKeyUser        = "user"
	cfgKeyParty       = "party"
	cfgKeyRole        = "role"
	cfgKeyLogLevel    = "log_level"
	cfgKeyLogFormat   = "log_format"

	defaultMajor     = 2
	defaultLogLevel  = "warn"
	defaultLogFormat = "text"
)

// envKeys are the settings a NAVIGATOR_* environment variable may override.
// data_dir is absent: NAVIGATOR_DATA_DIR ranks below config.yaml and is
// resolved by the paths package.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyConfigMajor,
	cfgKeyEngineMajor,
	cfgKeyUser,
	cfgKeyParty,
	cfgKeyRole,
	cfgKeyLogLevel,
	cfgKeyLogFormat,
}

// settings is the resolved configuration for one invocation.
type settings struct {
	ConfigDir   paths.Location
	Backend     string
	DataDir     string
	ConfigMajor int
	EngineMajor int
	User        string
	Party       string
	Role        string
	LogLevel    string
	LogFormat   string
}

// newViper builds a Viper instance with defaults, environment bindings and
// config.yaml from configDir. A missing config.yaml is not an error.
func newViper(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyConfigMajor, defaultMajor)
	v.SetDefault(cfgKeyEngineMajor, defaultMajor)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultLogFormat)

	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// loadSettings resolves the configuration directory, reads config.yaml and
// installs a logger in the command context. It runs before every
// subcommand.
func loadSettings(cmd *cobra.Command, _ []string) error {
	configDir, err := paths.ConfigDir(flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := newViper(configDir.Dir)
	if err != nil {
		return err
	}
	pf := cmd.Root().PersistentFlags()
	for _, key := range []string{cfgKeyUser, cfgKeyParty, cfgKeyRole} {
		if err := v.BindPFlag(key, pf.Lookup(key)); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}

	current = settings{
		ConfigDir:   configDir,
		Backend:     v.GetString(cfgKeyBackend),
		DataDir:     v.GetString(cfgKeyDataDir),
		ConfigMajor: v.GetInt(cfgKeyConfigMajor),
		EngineMajor: v.GetInt(cfgKeyEngineMajor),
		User:        v.GetString(cfgKeyUser),
		Party:       v.GetString(cfgKeyParty),
		Role:        v.GetString(cfgKeyRole),
		LogLevel:    v.GetString(cfgKeyLogLevel),
		LogFormat:   v.GetString(cfgKeyLogFormat),
	}

	log := ctxlog.New(current.LogLevel, current.LogFormat, cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(ctxlog.WithLogger(ctx, log))
	log.Debug("config dir resolved", "dir", configDir.Dir, "source", configDir.Source)
	if used := v.ConfigFileUsed(); used != "" {
		log.Debug("config loaded", "path", filepath.Clean(used))
	}
	return nil
}
