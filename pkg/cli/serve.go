package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/logger"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/report"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/server"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the HTTP API server",
	Description: `Connects to the device and exposes the automation agent over HTTP.

Endpoints:
  POST /run_test        execute a test case
  GET  /health          agent status
  GET  /screen          capture the current screen
  GET  /hierarchy       dump the UI hierarchy
  POST /query_screen    ask a question about the screen
  POST /validate_screen check an expectation against the screen`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Usage:   "Listen address",
			Value:   ":8000",
			EnvVars: []string{"SERVER_ADDR"},
		},
	},
	Action: serveAction,
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
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

	reports, err := report.NewWriter(cfg.Output)
	if err != nil {
		return err
	}

	srv := server.New(sess.Agent, reports)
	return srv.ListenAndServe(cfg.Server.Addr)
}
