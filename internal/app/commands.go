package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klokku/timetrack/internal/table"
	"github.com/klokku/timetrack/pkg/entry"
	"github.com/klokku/timetrack/pkg/report"
	"github.com/urfave/cli/v2"
)

const defaultLogRange = "10"

func (a *Application) start(c *cli.Context) error {
	if err := requireArgs(c, 0, 1); err != nil {
		return err
	}
	deps, err := a.dependencies(c)
	if err != nil {
		return err
	}
	at, err := optionalTime(c.String("at"), deps.Clock.Now(), deps.Location)
	if err != nil {
		return err
	}
	start, err := deps.EntryService.Start(c.Context, entry.StartRequest{
		Activity:       activityOrIdle(c),
		AttendanceType: c.String("attendance"),
		Description:    c.String("description"),
		At:             at,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "Started %s (%s, %s) at %s\n",
		start.Activity, start.BillingCode, start.AttendanceType, start.Time.Format(time.DateTime))
	return err
}

func (a *Application) end(c *cli.Context) error {
	if err := requireArgs(c, 0, 0); err != nil {
		return err
	}
	deps, err := a.dependencies(c)
	if err != nil {
		return err
	}
	at, err := optionalTime(c.String("at"), deps.Clock.Now(), deps.Location)
	if err != nil {
		return err
	}
	end, err := deps.EntryService.End(c.Context, at)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "Ended at %s\n", end.Time.Format(time.DateTime))
	return err
}

func (a *Application) status(c *cli.Context) error {
	deps, err := a.dependencies(c)
	if err != nil {
		return err
	}
	current, err := deps.EntryService.Current(c.Context)
	if err != nil {
		return err
	}
	if current == nil {
		_, err = fmt.Fprintln(a.stdout, "Not tracking")
		return err
	}
	now := deps.Clock.Now()
	line := fmt.Sprintf("Tracking %s (%s, %s) since %s, %s",
		current.Activity, current.BillingCode, current.AttendanceType,
		current.Time.Format(time.DateTime), humanize.RelTime(current.Time, now, "ago", "from now"))
	if current.Description != "" {
		line += ": " + current.Description
	}
	_, err = fmt.Fprintln(a.stdout, line)
	return err
}

func (a *Application) showLog(c *cli.Context) error {
	if err := requireArgs(c, 0, 1); err != nil {
		return err
	}
	value := c.Args().First()
	if value == "" {
		value = defaultLogRange
	}
	r, err := entry.ParseRange(value)
	if err != nil {
		return err
	}
	deps, err := a.dependencies(c)
	if err != nil {
		return err
	}
	entries, err := deps.EntryService.Recent(c.Context, r)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err = fmt.Fprintf(a.stdout, "No entries in the last %s\n", r)
		return err
	}

	now := deps.Clock.Now()
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		when := e.Timestamp().In(deps.Location)
		row := []string{when.Format(time.DateTime), humanize.RelTime(when, now, "ago", "from now")}
		switch e := e.(type) {
		case entry.Start:
			until := now
			if i+1 < len(entries) {
				until = entries[i+1].Timestamp()
			}
			row = append(row, e.Activity, e.AttendanceType, e.BillingCode, e.Description,
				until.Sub(e.Time).Round(time.Second).String())
		case entry.End:
			row = append(row, "(end)", "", "", "", "")
		}
		rows = append(rows, row)
	}
	return a.printTable(deps, []string{"Time", "When", "Activity", "Attendance", "WBS", "Description", "Duration"}, rows)
}

func (a *Application) listActivities(c *cli.Context) error {
	if err := requireArgs(c, 0, 1); err != nil {
		return err
	}
	deps, err := a.dependencies(c)
	if err != nil {
		return err
	}
	listed, err := deps.ActivityService.List(c.Context, c.Args().First(), c.Bool("expand"))
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(listed))
	for _, row := range listed {
		rows = append(rows, []string{row.Name, row.BillingCode, row.Description})
	}
	if c.Bool("raw") {
		for _, row := range rows {
			if _, err := fmt.Fprintln(a.stdout, strings.Join(row, "\t")); err != nil {
				return err
			}
		}
		return nil
	}
	return a.printTable(deps, []string{"Activity", "WBS", "Description"}, rows)
}

func (a *Application) addActivity(c *cli.Context) error {
	if err := requireArgs(c, 2, 3); err != nil {
		return err
	}
	deps, err := a.dependencies(c)
	if err != nil {
		return err
	}
	added, err := deps.ActivityService.Add(c.Context, c.Args().Get(0), c.Args().Get(1), c.Args().Get(2))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "Added %s (%s)\n", added.FullPath(), added.BillingCode)
	return err
}

func (a *Application) removeActivity(c *cli.Context) error {
	if err := requireArgs(c, 1, 1); err != nil {
		return err
	}
	deps, err := a.dependencies(c)
	if err != nil {
		return err
	}
	removed, err := deps.ActivityService.Remove(c.Context, c.Args().First())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "Removed %s\n", removed.FullPath())
	return err
}

func (a *Application) generate(c *cli.Context) error {
	if err := requireArgs(c, 0, 0); err != nil {
		return err
	}
	deps, err := a.dependencies(c)
	if err != nil {
		return err
	}
	now := deps.Clock.Now()
	from, err := optionalTime(c.String("from"), now, deps.Location)
	if err != nil {
		return err
	}
	to, err := optionalTime(c.String("to"), now, deps.Location)
	if err != nil {
		return err
	}
	result, err := deps.ReportService.Generate(c.Context, report.GenerateRequest{
		From:     from,
		To:       to,
		Stdout:   c.Bool("stdout"),
		FilePath: c.String("file-path"),
	})
	if err != nil {
		return err
	}
	if result.Path != "" {
		_, err = fmt.Fprintf(a.stdout, "Wrote %d rows to %s\n", result.Rows, result.Path)
	}
	return err
}

func (a *Application) printTable(deps *Dependencies, headers []string, rows [][]string) error {
	style, err := table.StyleByName(deps.Config.Table.Style)
	if err != nil {
		return err
	}
	out := table.Render(headers, rows, table.Options{
		Style:       style,
		Colored:     deps.Config.Table.Color && table.IsTerminal(a.stdout),
		HeaderColor: table.Cyan,
		LineColor:   table.Blue,
	})
	_, err = fmt.Fprintln(a.stdout, out)
	return err
}
