package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pders01/narou/internal/config"
	"github.com/pders01/narou/internal/render"
	"github.com/pders01/narou/internal/tui"
)

var forceGenerate bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenerateCmd = &cobra.Command{
	Use:         "generate",
	Short:       "Write the default configuration file",
	Annotations: map[string]string{annotationNoConfig: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configFilePath()
		if _, err := os.Stat(path); err == nil && !forceGenerate {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("generating config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if opts.json {
			return render.JSON(cmd.OutOrStdout(), cfg)
		}
		out, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print where the configuration file is read from",
	Annotations: map[string]string{annotationNoConfig: "true"},
	Args:        cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configFilePath())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		if !opts.quiet {
			tui.ShowBanner(out, Version)
		}
		fmt.Fprintf(out, "%s %s\n", tui.AppName, Version)
		fmt.Fprintln(out, "Syosetu user API client")
		fmt.Fprintln(out, "github.com/pders01/narou")
	},
}

func init() {
	configGenerateCmd.Flags().BoolVar(&forceGenerate, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configGenerateCmd, configShowCmd, configPathCmd)
	rootCmd.AddCommand(configCmd, versionCmd)
}

func configFilePath() string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return config.DefaultPath()
}
