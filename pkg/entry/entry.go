package entry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/klokku/timetrack/pkg/activity"
)

const (
	EndSentinel    = activity.EndSentinel
	FieldSeparator = "\t"
	// TimeLayout is used when writing; any RFC 3339 timestamp is accepted on read.
	TimeLayout = time.RFC3339Nano
	// legacyTimeLayout is how older logs wrote timestamps.
	legacyTimeLayout = "2006-01-02 15:04:05.999999999 -07:00"
)

var (
	ErrMissingTimestamp      = errors.New("missing time stamp")
	ErrInvalidTimestamp      = errors.New("failed to parse time stamp")
	ErrMissingActivity       = errors.New("missing activity name")
	ErrMissingAttendanceType = errors.New("missing attendance type")
	ErrMissingBillingCode    = errors.New("missing billing code")
	ErrInvalidField          = errors.New("field must not contain tabs or line breaks")
	ErrOutOfOrder            = errors.New("entry is older than the previous entry")
)

// Entry is a transition in the log: either a Start or an End.
type Entry interface {
	Timestamp() time.Time
	isEntry()
}

// Start begins tracking an activity. Everything but Time is copied from the
// catalog when the entry is written, later catalog edits don't change it.
type Start struct {
	Time           time.Time
	Activity       string
	AttendanceType string
	BillingCode    string
	Description    string
}

func (s Start) Timestamp() time.Time { return s.Time }
func (Start) isEntry()                {}

// End stops tracking without starting anything else.
type End struct {
	Time time.Time
}

func (e End) Timestamp() time.Time { return e.Time }
func (End) isEntry()                {}

func ParseLine(line string) (Entry, error) {
	fields := strings.Split(line, FieldSeparator)
	if fields[0] == "" {
		return nil, ErrMissingTimestamp
	}
	if len(fields) < 2 || fields[1] == "" {
		return nil, ErrMissingActivity
	}
	timestamp, err := parseTime(fields[0])
	if err != nil {
		return nil, err
	}
	if fields[1] == EndSentinel {
		return End{Time: timestamp}, nil
	}
	if len(fields) < 3 {
		return nil, ErrMissingAttendanceType
	}
	if len(fields) < 4 {
		return nil, ErrMissingBillingCode
	}
	description := ""
	if len(fields) > 4 {
		description = fields[4]
	}
	return Start{
		Time:           timestamp,
		Activity:       fields[1],
		AttendanceType: fields[2],
		BillingCode:    fields[3],
		Description:    description,
	}, nil
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	if legacy, legacyErr := time.Parse(legacyTimeLayout, value); legacyErr == nil {
		return legacy, nil
	}
	return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
}

func FormatLine(e Entry) string {
	switch e := e.(type) {
	case End:
		return e.Time.Format(TimeLayout) + FieldSeparator + EndSentinel
	case Start:
		return strings.Join([]string{
			e.Time.Format(TimeLayout),
			e.Activity,
			e.AttendanceType,
			e.BillingCode,
			e.Description,
		}, FieldSeparator)
	}
	panic(fmt.Sprintf("unknown entry type %T", e))
}

func (s Start) validate() error {
	if s.Activity == "" {
		return ErrMissingActivity
	}
	if s.Activity == EndSentinel {
		return fmt.Errorf("%q is reserved: %w", EndSentinel, ErrInvalidField)
	}
	if s.AttendanceType == "" {
		return ErrMissingAttendanceType
	}
	for _, field := range []string{s.Activity, s.AttendanceType, s.BillingCode, s.Description} {
		if strings.ContainsAny(field, "\t\r\n") {
			return fmt.Errorf("%q: %w", field, ErrInvalidField)
		}
	}
	return nil
}
