package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/config"
	logpkg "github.com/kailas-cloud/docchat/internal/logger"
	"github.com/kailas-cloud/docchat/internal/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	env        string
	configPath string
	envFile    string
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "docchat",
		Short:         "Ask questions about a single document",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.env, "env", "", "environment name, selects config/<env>.yaml (default: $ENV or local)")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "explicit config file path")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before the config")

	cmd.AddCommand(newServeCommand(flags))
	cmd.AddCommand(newAskCommand(flags))
	cmd.AddCommand(newChunkCommand())
	return cmd
}

// load reads .env, the config file and builds the logger.
func (f *globalFlags) load() (config.Config, *zap.Logger, string, error) {
	if f.envFile != "" {
		if err := godotenv.Load(f.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, nil, "", fmt.Errorf("load %s: %w", f.envFile, err)
		}
	}

	env := f.env
	if env == "" {
		env = config.GetEnv()
	}

	var (
		cfg config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, env, nil
}
