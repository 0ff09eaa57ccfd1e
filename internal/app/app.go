package app

import (
	"context"
	"fmt"
	"io"

	"github.com/klokku/timetrack/internal/config"
	"github.com/klokku/timetrack/internal/files"
	"github.com/klokku/timetrack/internal/utils"
	"github.com/klokku/timetrack/pkg/activity"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Application wires configuration, storage and the command line interface.
type Application struct {
	cli    *cli.App
	stdout io.Writer
	clock  utils.Clock
	deps   *Dependencies
}

// NewApplication constructs the command line application. Dependencies are
// built on first use so commands like dump-default-config work without a
// valid configuration.
func NewApplication(stdout, stderr io.Writer, clock utils.Clock) *Application {
	a := &Application{stdout: stdout, clock: clock}
	a.cli = &cli.App{
		Name:                 files.ScopeName,
		Usage:                "track working time and generate timesheets",
		Writer:               stdout,
		ErrWriter:            stderr,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"TIMETRACK_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "directory holding the activity catalog and the entry log",
				EnvVars: []string{"TIMETRACK_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "logrus level (panic, fatal, error, warn, info, debug, trace)",
			},
		},
		Before: func(c *cli.Context) error {
			if level := c.String("log-level"); level != "" {
				logrusLevel, err := log.ParseLevel(level)
				if err != nil {
					return err
				}
				log.SetLevel(logrusLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "start",
				Usage:     "start tracking an activity, ending the previous one",
				ArgsUsage: "[activity]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "attendance", Aliases: []string{"a"}, Usage: "attendance type or alias"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "overrides the activity's default description"},
					&cli.StringFlag{Name: "at", Usage: "start time instead of now"},
				},
				Action: a.start,
			},
			{
				Name:   "end",
				Usage:  "stop tracking",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "at", Usage: "end time instead of now"}},
				Action: a.end,
			},
			{
				Name:   "status",
				Usage:  "show the activity being tracked",
				Action: a.status,
			},
			{
				Name:      "log",
				Usage:     "show recent entries",
				ArgsUsage: "[N | Nh | Nd | Nm]",
				Action:    a.showLog,
			},
			{
				Name:    "activity",
				Aliases: []string{"activities"},
				Usage:   "manage the activity catalog",
				Subcommands: []*cli.Command{
					{
						Name:      "list",
						Aliases:   []string{"ls"},
						Usage:     "list activities",
						ArgsUsage: "[category]",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "expand", Aliases: []string{"e"}, Usage: "list every activity with its full path"},
							&cli.BoolFlag{Name: "raw", Aliases: []string{"r"}, Usage: "tab separated output without a table"},
						},
						Action: a.listActivities,
					},
					{
						Name:      "add",
						Aliases:   []string{"new"},
						Usage:     "define a new activity",
						ArgsUsage: "<path> <wbs> [description]",
						Action:    a.addActivity,
					},
					{
						Name:      "remove",
						Aliases:   []string{"rm"},
						Usage:     "remove an activity",
						ArgsUsage: "<path>",
						Action:    a.removeActivity,
					},
				},
			},
			{
				Name:  "generate",
				Usage: "generate the timesheet for a time frame",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "stdout", Aliases: []string{"s"}, Usage: "print to stdout instead of saving to a file"},
					&cli.StringFlag{Name: "file-path", Aliases: []string{"f"}, Usage: "save to a custom file or directory"},
					&cli.StringFlag{Name: "from", Usage: "window start, defaults to the start of the month"},
					&cli.StringFlag{Name: "to", Usage: "window end, defaults to now"},
				},
				Action: a.generate,
			},
			{
				Name:  "dump-default-config",
				Usage: "print a reference configuration",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(a.stdout, config.DefaultYAML)
					return err
				},
			},
		},
	}
	return a
}

// Run parses args (including the program name) and executes the command.
func (a *Application) Run(ctx context.Context, args []string) error {
	return a.cli.RunContext(ctx, args)
}

func (a *Application) dependencies(c *cli.Context) (*Dependencies, error) {
	if a.deps != nil {
		return a.deps, nil
	}
	paths, err := files.Resolve(c.String("data-dir"))
	if err != nil {
		return nil, err
	}
	if path := c.String("config"); path != "" {
		paths.ConfigFile = path
	}
	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return nil, err
	}
	deps, err := BuildDependencies(paths, cfg, a.clock, a.stdout)
	if err != nil {
		return nil, err
	}
	a.deps = deps
	return deps, nil
}

func requireArgs(c *cli.Context, minArgs, maxArgs int) error {
	if c.NArg() < minArgs || c.NArg() > maxArgs {
		return fmt.Errorf("%s: expected arguments %s, got %d", c.Command.FullName(), c.Command.ArgsUsage, c.NArg())
	}
	return nil
}

func activityOrIdle(c *cli.Context) string {
	if c.NArg() == 0 {
		return activity.IdleName
	}
	return c.Args().First()
}
