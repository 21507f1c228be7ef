package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/repotrading/navigator/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir,omitempty"`
	ConfigMajor int    `yaml:"config_major"`
	EngineMajor int    `yaml:"engine_major"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize navigator configuration and storage",
		Long:  "Create the configuration and data directories, write a default config.yaml,\nthen initialize the contract store.",
		Args:  userArgs(cobra.NoArgs),
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	if err := os.MkdirAll(current.ConfigDir.Dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := writeConfigIfMissing(current.ConfigDir.ConfigFile(), flags.dataDir); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	store, err := attachStore(cmd)
	if err != nil {
		return err
	}
	if err := store.Detach(); err != nil {
		return fmt.Errorf("finalize store: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Navigator initialized successfully")
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		Backend:     types.BackendSQLite,
		DataDir:     dataDir,
		ConfigMajor: defaultMajor,
		EngineMajor: defaultMajor,
		LogLevel:    defaultLogLevel,
		LogFormat:   defaultLogFormat,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
