package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const EnvPrefix = "TIMETRACK_"

type Application struct {
	EmployeeName      string `koanf:"employee_name"`
	EmployeeNumber    string `koanf:"employee_number"`
	CostCenter        string `koanf:"cost_center"`
	PerformanceType   string `koanf:"performance_type"`
	AccountingCycle   string `koanf:"accounting_cycle"`
	DefaultAttendance string `koanf:"default_attendance"`
	// AttendanceTypes maps a short alias accepted on the command line to the
	// label written to the log.
	AttendanceTypes map[string]string `koanf:"attendance_types"`
	Timezone        string            `koanf:"timezone"`
	Output          Output            `koanf:"output"`
	Table           Table             `koanf:"table"`
}

type Output struct {
	FileNameFormat string   `koanf:"file_name_format"`
	Keys           []string `koanf:"keys"`
	Values         []string `koanf:"values"`
	Delimiter      string   `koanf:"delimiter"`
}

type Table struct {
	Style string `koanf:"style"`
	Color bool   `koanf:"color"`
}

func Defaults() Application {
	return Application{
		DefaultAttendance: "Office",
		AttendanceTypes: map[string]string{
			"o": "Office",
			"r": "Remote",
		},
		Timezone: "Local",
		Output: Output{
			FileNameFormat: "timesheet_{{.employee_number}}_{{.year}}-{{.month}}.csv",
			Keys:           []string{"Employee", "Date", "Hours", "Attendance", "WBS", "Description"},
			Values: []string{
				"{{.employee_name}}",
				"{{.year}}-{{.month}}-{{.day}}",
				"{{.hours}}",
				"{{.attendance_type}}",
				"{{.wbs}}",
				"{{.description}}",
			},
			Delimiter: ";",
		},
		Table: Table{
			Style: "rounded",
			Color: true,
		},
	}
}

// Load layers the defaults, the YAML file at path (if present) and
// TIMETRACK_* environment variables, in that order.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Debugf("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Debugf("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			// TIMETRACK_OUTPUT__FILE_NAME_FORMAT -> output.file_name_format
			k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
			k = strings.ReplaceAll(k, "__", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if err := app.Validate(); err != nil {
		return Application{}, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return app, nil
}

func (a Application) Validate() error {
	var errs []error
	if utf8.RuneCountInString(a.Output.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("output.delimiter must be a single character, got %q", a.Output.Delimiter))
	}
	if len(a.Output.Keys) != len(a.Output.Values) {
		errs = append(errs, fmt.Errorf("output.keys has %d entries but output.values has %d",
			len(a.Output.Keys), len(a.Output.Values)))
	}
	if _, err := a.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location resolves Timezone, treating "" and "Local" as the system zone.
func (a Application) Location() (*time.Location, error) {
	if a.Timezone == "" || a.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("could not load location for timezone %s: %w", a.Timezone, err)
	}
	return loc, nil
}

// Attendance resolves an alias from AttendanceTypes. Unknown values are
// passed through and an empty value yields DefaultAttendance.
func (a Application) Attendance(value string) string {
	if value == "" {
		return a.DefaultAttendance
	}
	if label, ok := a.AttendanceTypes[value]; ok {
		return label
	}
	return value
}

// DelimiterRune returns the single delimiter rune; Validate guarantees it exists.
func (o Output) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(o.Delimiter)
	return r
}

// DefaultYAML is printed by the dump-default-config command.
const DefaultYAML = `# timetrack configuration
employee_name: ""
employee_number: ""
cost_center: ""
performance_type: ""
accounting_cycle: ""

# attendance type used when "start" is called without --attendance
default_attendance: Office
attendance_types:
  o: Office
  r: Remote

# IANA zone used to decide which calendar day an interval belongs to
timezone: Local

output:
  # text/template syntax; available: employee_name, employee_number, cost_center,
  # performance_type, accounting_cycle, year, month, day
  file_name_format: "timesheet_{{.employee_number}}_{{.year}}-{{.month}}.csv"
  keys: [Employee, Date, Hours, Attendance, WBS, Description]
  # additionally available: hours, minutes, seconds, attendance_type, description, wbs
  values:
    - "{{.employee_name}}"
    - "{{.year}}-{{.month}}-{{.day}}"
    - "{{.hours}}"
    - "{{.attendance_type}}"
    - "{{.wbs}}"
    - "{{.description}}"
  delimiter: ";"

table:
  # sharp, rounded or markdown
  style: rounded
  color: true
`
