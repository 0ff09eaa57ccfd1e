package activity

import (
	"errors"
	"fmt"
	"strings"
)

const (
	PathSeparator   = "/"
	FieldSeparator  = "\t"
	IdleName        = "Idle"
	IdleBillingCode = "Idle"
	// EndSentinel marks the end of tracking in the entry log and therefore
	// cannot name a top-level activity.
	EndSentinel = "__END"
)

var (
	ErrMissingBillingCode = errors.New("missing billing code")
	ErrEmptyName          = errors.New("path doesn't end in a name")
	ErrMalformedPath      = errors.New("malformed path")
	ErrInvalidField       = errors.New("field must not contain tabs or line breaks")
	ErrDuplicateName      = errors.New("activity already exists")
	ErrNotFound           = errors.New("activity not found")
	ErrPathConflict       = errors.New("path is used both as a category and as an activity")
	ErrBuiltin            = errors.New("built-in activity cannot be changed")
	ErrReservedName       = errors.New("name is reserved")
)

// Activity is a leaf of the catalog. Path holds the namespace segments above
// the leaf, Name the leaf segment itself.
type Activity struct {
	Path               []string
	Name               string
	BillingCode        string
	DefaultDescription string
}

// Idle is always part of the catalog and never written to disk.
func Idle() Activity {
	return Activity{Name: IdleName, BillingCode: IdleBillingCode}
}

func (a Activity) IsBuiltin() bool {
	return len(a.Path) == 0 && a.Name == IdleName
}

func (a Activity) Segments() []string {
	segments := make([]string, 0, len(a.Path)+1)
	segments = append(segments, a.Path...)
	return append(segments, a.Name)
}

func (a Activity) FullPath() string {
	return strings.Join(a.Segments(), PathSeparator)
}

// String renders the catalog file line: path, billing code and description
// separated by tabs.
func (a Activity) String() string {
	return a.FullPath() + FieldSeparator + a.BillingCode + FieldSeparator + a.DefaultDescription
}

func (a Activity) isReserved() bool {
	return len(a.Path) == 0 && a.Name == EndSentinel
}

func (a Activity) validate() error {
	for _, segment := range a.Segments() {
		if strings.ContainsAny(segment, "\t\r\n") {
			return fmt.Errorf("path %q: %w", a.FullPath(), ErrInvalidField)
		}
	}
	if a.Name == "" {
		return ErrEmptyName
	}
	if a.isReserved() {
		return fmt.Errorf("%q: %w", a.Name, ErrReservedName)
	}
	for _, segment := range a.Path {
		if segment == "" {
			return fmt.Errorf("path %q: %w", a.FullPath(), ErrMalformedPath)
		}
	}
	if strings.ContainsAny(a.BillingCode, "\t\r\n") {
		return fmt.Errorf("billing code %q: %w", a.BillingCode, ErrInvalidField)
	}
	if strings.ContainsAny(a.DefaultDescription, "\t\r\n") {
		return fmt.Errorf("description %q: %w", a.DefaultDescription, ErrInvalidField)
	}
	return nil
}

// SplitPath splits a "/"-joined path into its namespace and leaf name.
func SplitPath(path string) ([]string, string, error) {
	if path == "" {
		return nil, "", ErrMalformedPath
	}
	segments := strings.Split(path, PathSeparator)
	name := segments[len(segments)-1]
	if name == "" {
		return nil, "", ErrEmptyName
	}
	namespace := segments[:len(segments)-1]
	for _, segment := range namespace {
		if segment == "" {
			return nil, "", ErrMalformedPath
		}
	}
	if len(namespace) == 0 {
		return nil, name, nil
	}
	return namespace, name, nil
}

// New builds a validated activity from a "/"-joined path.
func New(path, billingCode, description string) (Activity, error) {
	namespace, name, err := SplitPath(path)
	if err != nil {
		return Activity{}, fmt.Errorf("path %q: %w", path, err)
	}
	a := Activity{
		Path:               namespace,
		Name:               name,
		BillingCode:        billingCode,
		DefaultDescription: description,
	}
	if err := a.validate(); err != nil {
		return Activity{}, err
	}
	return a, nil
}

// ParseActivity parses one catalog file line.
func ParseActivity(line string) (Activity, error) {
	fields := strings.Split(line, FieldSeparator)
	if len(fields) < 2 {
		return Activity{}, ErrMissingBillingCode
	}
	namespace, name, err := SplitPath(fields[0])
	if err != nil {
		return Activity{}, err
	}
	description := ""
	if len(fields) > 2 {
		description = fields[2]
	}
	a := Activity{
		Path:               namespace,
		Name:               name,
		BillingCode:        fields[1],
		DefaultDescription: description,
	}
	if a.isReserved() {
		return Activity{}, fmt.Errorf("%q: %w", a.Name, ErrReservedName)
	}
	return a, nil
}
