package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/klokku/timetrack/internal/config"
	"github.com/klokku/timetrack/pkg/timesheet"
)

func employeeVariables(cfg config.Application) map[string]string {
	return map[string]string{
		"employee_name":    cfg.EmployeeName,
		"employee_number":  cfg.EmployeeNumber,
		"cost_center":      cfg.CostCenter,
		"performance_type": cfg.PerformanceType,
		"accounting_cycle": cfg.AccountingCycle,
	}
}

func addDate(vars map[string]string, date time.Time) {
	vars["year"] = strconv.Itoa(date.Year())
	vars["month"] = fmt.Sprintf("%02d", int(date.Month()))
	vars["day"] = fmt.Sprintf("%02d", date.Day())
}

// FileVariables are available to the output file name template.
func FileVariables(cfg config.Application, date time.Time) map[string]string {
	vars := employeeVariables(cfg)
	addDate(vars, date)
	return vars
}

// Variables are available to the per row value templates.
func Variables(cfg config.Application, activity timesheet.CollapsedActivity, loc *time.Location) map[string]string {
	vars := employeeVariables(cfg)
	addDate(vars, activity.FirstStart.In(loc))

	seconds := activity.Duration.Seconds()
	vars["hours"] = fmt.Sprintf("%.2f", seconds/3600)
	vars["minutes"] = fmt.Sprintf("%.2f", seconds/60)
	vars["seconds"] = fmt.Sprintf("%.2f", seconds)

	vars["attendance_type"] = activity.AttendanceType
	vars["description"] = activity.Description
	vars["wbs"] = activity.BillingCode
	return vars
}
