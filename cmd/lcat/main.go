package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"lcat/internal/config"
	"lcat/internal/pipeline"
)

var (
	rootCmd = &cobra.Command{
		Use:   "lcat",
		Short: "Documentation generator for Lua annotation comments",
	}
	configPath string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	generateCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory for the generated site")
	generateCmd.Flags().StringVar(&baseURL, "base-url", "", "Base URL prefixed to entity links")
	generateCmd.Flags().StringArrayVarP(&extraFiles, "file", "f", nil, "Extra Lua file to document (repeatable)")

	rootCmd.AddCommand(generateCmd)
}

func loadConfig() *config.Config {
	if configPath == "" {
		return config.Default()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

var (
	outDir     string
	baseURL    string
	extraFiles []string

	generateCmd = &cobra.Command{
		Use:   "generate [path]",
		Short: "Document the annotated Lua sources under a project root",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if len(args) > 0 {
				cfg.Project.Root = args[0]
			}
			if outDir != "" {
				cfg.Output.Dir = outDir
			}
			if baseURL != "" {
				cfg.Output.BaseURL = baseURL
			}
			cfg.Project.Files = append(cfg.Project.Files, extraFiles...)

			p := pipeline.New(afero.NewOsFs(), newLogger())
			if err := p.Run(cmd.Context(), cfg); err != nil {
				log.Fatalf("Generation failed: %v", err)
			}
		},
	}
)
