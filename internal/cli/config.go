package cli

import (
	"fmt"
	"strconv"

	"github.com/roboco-io/docx2json/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage the docx2json configuration.

Config file location: ~/.docx2json/config.yaml

Subcommands:
  show    print the current configuration
  init    create a default config file
  set     change a configuration value
  path    print the config file path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Long: `Print the configuration as it is stored on disk.

API key placeholders like ${ANTHROPIC_API_KEY} are shown unexpanded so
secrets never end up in terminal scrollback.`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Long: `Change a configuration value.

Supported keys:
  default_provider        default model provider (anthropic, openai, gemini)
  generation.temperature  sampling temperature (0.0-1.0)

Examples:
  docx2json config set default_provider openai
  docx2json config set generation.temperature 0.5`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := config.NewLoader()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader, err := config.NewLoader()
	if err != nil {
		return err
	}
	cfg, err := loader.LoadRaw()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader, err := config.NewLoader()
	if err != nil {
		return err
	}
	if err := loader.Init(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "created %s\n", loader.ConfigPath())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	loader, err := config.NewLoader()
	if err != nil {
		return err
	}
	cfg, err := loader.LoadRaw()
	if err != nil {
		return err
	}

	switch key {
	case "default_provider":
		if _, ok := cfg.GetProvider(value); !ok {
			return fmt.Errorf("unknown provider: %s", value)
		}
		cfg.DefaultProvider = value
	case "generation.temperature":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil || t < 0 || t > 1 {
			return fmt.Errorf("temperature must be a number between 0.0 and 1.0")
		}
		cfg.Generation.Temperature = t
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := loader.Save(cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "updated %s\n", loader.ConfigPath())
	return nil
}
