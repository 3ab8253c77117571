// Package cli provides the command-line interface for the automation runner.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/config"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "config",
		Usage: "Path to config.yaml",
	},
	&cli.StringFlag{
		Name:    "api-key",
		Usage:   "Vision API key",
		EnvVars: []string{"MOONDREAM_API_KEY"},
	},
	&cli.StringFlag{
		Name:    "vision-url",
		Usage:   "Vision API base URL (for self-hosted servers)",
		EnvVars: []string{"VISION_BASE_URL"},
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"s"},
		Usage:   "Device serial to run on (auto-detected when omitted)",
		EnvVars: []string{"DEVICE_SERIAL"},
	},
	&cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output directory for reports and screenshots",
		EnvVars: []string{"OUTPUT_DIR"},
	},
	&cli.BoolFlag{
		Name:    "basic",
		Usage:   "Disable intelligent mode (no auto-navigation)",
		EnvVars: []string{"BASIC_MODE"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable verbose logging to stderr",
		EnvVars: []string{"RUNNER_VERBOSE"},
	},
}

// Execute runs the CLI.
func Execute() {
	// .env is optional; flags and real env take precedence
	godotenv.Load()

	app := &cli.App{
		Name:    "andromator",
		Usage:   "Vision-driven Android test automation",
		Version: Version,
		Description: `Runs natural-language test cases against a connected Android device.
A vision model locates elements on screenshots; UIAutomator2 performs
the taps, swipes and typing.

Examples:
  andromator run testcase.yaml
  andromator serve --addr :8000
  andromator screen -o ./captures`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			runCommand,
			serveCommand,
			screenCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig builds the effective configuration from file, env and flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return nil, err
	}

	if v := c.String("api-key"); v != "" {
		cfg.Vision.APIKey = v
	}
	if v := c.String("vision-url"); v != "" {
		cfg.Vision.BaseURL = v
	}
	if v := c.String("device"); v != "" {
		cfg.Device.Serial = v
	}
	if v := c.String("output"); v != "" {
		cfg.Output = v
	}
	if c.Bool("basic") {
		f := false
		cfg.Agent.Intelligent = &f
	}

	return cfg, nil
}

// initLogging sets up the file logger under the output directory.
func initLogging(cfg *config.Config, verbose bool) error {
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return err
	}
	if err := logger.Init(filepath.Join(cfg.Output, "runner.log")); err != nil {
		return err
	}
	logger.SetVerbose(verbose)
	return nil
}
