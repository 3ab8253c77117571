package cli

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/agent"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/core"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/jsengine"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/logger"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/report"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/testcase"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Run a test-case file on a connected device",
	ArgsUsage: "<testcase.yaml>",
	Description: `Run a YAML test case with natural-language steps.

Steps support ${expr} JavaScript interpolation and $VAR lookups against
the env block and -e flags.

Examples:
  andromator run login.yaml
  andromator run checkout.yaml -e USER=test -e PASS=secret
  andromator run flow.yaml --plan`,
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "env",
			Aliases: []string{"e"},
			Usage:   "Variables for step interpolation (KEY=VALUE)",
		},
		&cli.BoolFlag{
			Name:  "plan",
			Usage: "Parse and print the step plan without executing",
		},
	},
	Action: runAction,
}

func runAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit("expected exactly one test-case file", 2)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := initLogging(cfg, c.Bool("verbose")); err != nil {
		return err
	}
	defer logger.Close()

	tc, err := testcase.Load(c.Args().First())
	if err != nil {
		return err
	}

	eng := jsengine.New()
	eng.ImportSystemEnv()
	eng.SetVariables(cfg.Env)
	for _, kv := range c.StringSlice("env") {
		if k, v, ok := splitKV(kv); ok {
			eng.SetVariable(k, v)
		}
	}
	tc, err = tc.Interpolate(eng)
	if err != nil {
		return err
	}

	if c.Bool("plan") {
		printPlan(agent.Plan(tc))
		return nil
	}

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	start := time.Now()
	result := sess.Agent.RunTestCase(c.Context, tc)
	elapsed := time.Since(start)

	if w, err := report.NewWriter(cfg.Output); err == nil {
		if runID, err := w.Write(result, start, elapsed); err == nil {
			fmt.Printf("Report: %s\n", runID)
		} else {
			logger.Warn("failed to write report: %v", err)
		}
	}

	printSummary(result, elapsed)

	if result.Status != core.RunSuccess {
		return cli.Exit("", 1)
	}
	return nil
}

func printPlan(result *agent.Result) {
	fmt.Printf("%s: %d steps\n", result.App, result.TotalSteps)
	for _, sr := range result.Steps {
		fmt.Printf("  %2d. [%-6s] %s\n", sr.Index, sr.Kind, sr.Text)
	}
}

func printSummary(result *agent.Result, elapsed time.Duration) {
	fmt.Printf("\n%s: %s\n", result.App, result.Status)
	fmt.Printf("Steps:    %d/%d completed\n", result.CompletedSteps, result.TotalSteps)
	if result.FailedStep != "" {
		fmt.Printf("Failed:   %s\n", result.FailedStep)
	}
	fmt.Printf("Duration: %s\n", elapsed.Round(time.Millisecond))

	s := result.Statistics
	fmt.Printf("Vision:   %d query, %d point, %d reasoning calls\n",
		s.APICalls.Query, s.APICalls.Point, s.APICalls.Reasoning)
	if s.Navigation.AutoNavigations > 0 {
		fmt.Printf("Auto-navigations: %d\n", s.Navigation.AutoNavigations)
	}
}

func splitKV(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], i > 0
		}
	}
	return "", "", false
}
