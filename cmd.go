package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "banner",
	Short:         "Compose animated banners in the terminal",
	Long:          `Banner lays out text, shapes and images on a fixed-size canvas, gives them entrance animations and exports the result as static HTML or PNG.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEditor(cmd)
	},
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the interactive editor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEditor(cmd)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of banner",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("banner version %s\n", version)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", defaultConfigPath(), "Path to the YAML config file")
	rootCmd.PersistentFlags().Int("width", 0, "Banner width in pixels (overrides config)")
	rootCmd.PersistentFlags().Int("height", 0, "Banner height in pixels (overrides config)")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfig loads the config file and applies flag overrides.
func resolveConfig(cmd *cobra.Command) *Config {
	path, _ := cmd.Flags().GetString("config")
	config := loadConfig(expandPath(path))
	if width, _ := cmd.Flags().GetInt("width"); width > 0 {
		config.Banner.Width = width
	}
	if height, _ := cmd.Flags().GetInt("height"); height > 0 {
		config.Banner.Height = height
	}
	return config
}

func runEditor(cmd *cobra.Command) error {
	config := resolveConfig(cmd)
	logger, closer, err := newLogger(config)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closer.Close()

	scheduler := &teaScheduler{}
	m, err := newModel(config, logger, scheduler)
	if err != nil {
		return err
	}
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	scheduler.attach(p)

	logger.Info("editor started", "width", config.Banner.Width, "height", config.Banner.Height)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
