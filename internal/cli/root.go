package cli

import (
	"github.com/spf13/cobra"
	"github.com/terraincognita07/pitchlog/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the root command for the pitchlog CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pitchlog",
		Short: "pitchlog - a footballer's activity journal",
		Long: `A personal journal for matches, practice sessions, goals and reflections,
kept in one local SQLite file, with reminders before upcoming activities.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "optional YAML config file")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewRemindersCommand(opts))
	cmd.AddCommand(NewPasscodeCommand(opts))
	cmd.AddCommand(NewImportICSCommand(opts))

	return cmd
}

func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
