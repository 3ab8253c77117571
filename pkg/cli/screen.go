package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/logger"
)

var screenCommand = &cli.Command{
	Name:  "screen",
	Usage: "Capture the current device screen",
	Description: `Captures a screenshot and the UI hierarchy from the connected device.

Examples:
  andromator screen
  andromator screen -o ./captures --hierarchy`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "hierarchy",
			Usage: "Also dump the UI hierarchy XML",
		},
	},
	Action: screenAction,
}

func screenAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := initLogging(cfg, c.Bool("verbose")); err != nil {
		return err
	}
	defer logger.Close()

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	data, err := sess.Agent.CaptureScreen()
	if err != nil {
		return err
	}

	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(cfg.Output, "screen-"+stamp+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Screenshot: %s\n", path)

	if c.Bool("hierarchy") {
		xml, err := sess.Agent.Hierarchy()
		if err != nil {
			return err
		}
		hPath := filepath.Join(cfg.Output, "hierarchy-"+stamp+".xml")
		if err := os.WriteFile(hPath, xml, 0o644); err != nil {
			return err
		}
		fmt.Printf("Hierarchy:  %s\n", hPath)
	}

	return nil
}
