package entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klokku/timetrack/internal/config"
	"github.com/klokku/timetrack/internal/event_bus"
	"github.com/klokku/timetrack/internal/utils"
	"github.com/klokku/timetrack/pkg/activity"
	log "github.com/sirupsen/logrus"
)

var ErrNotTracking = errors.New("no activity is being tracked")

// ActivityResolver looks up catalog activities by full path.
type ActivityResolver interface {
	Resolve(ctx context.Context, path string) (activity.Activity, error)
}

type StartRequest struct {
	Activity string
	// AttendanceType may be an alias from the configuration; empty means
	// the configured default.
	AttendanceType string
	// Description overrides the activity's default description when set.
	Description string
	// At defaults to now.
	At time.Time
}

type Service interface {
	Start(ctx context.Context, req StartRequest) (Start, error)
	End(ctx context.Context, at time.Time) (End, error)
	Current(ctx context.Context) (*Start, error)
	Recent(ctx context.Context, r Range) ([]Entry, error)
}

type ServiceImpl struct {
	repo       Repository
	activities ActivityResolver
	cfg        config.Application
	location   *time.Location
	eventBus   *event_bus.EventBus
	clock      utils.Clock
}

func NewService(
	repo Repository,
	activities ActivityResolver,
	cfg config.Application,
	location *time.Location,
	eventBus *event_bus.EventBus,
	clock utils.Clock,
) *ServiceImpl {
	return &ServiceImpl{
		repo:       repo,
		activities: activities,
		cfg:        cfg,
		location:   location,
		eventBus:   eventBus,
		clock:      clock,
	}
}

func (s *ServiceImpl) Start(ctx context.Context, req StartRequest) (Start, error) {
	a, err := s.activities.Resolve(ctx, req.Activity)
	if err != nil {
		return Start{}, err
	}
	at, err := s.checkTime(ctx, req.At)
	if err != nil {
		return Start{}, err
	}

	description := req.Description
	if description == "" {
		description = a.DefaultDescription
	}
	start := Start{
		Time:           at,
		Activity:       a.FullPath(),
		AttendanceType: s.cfg.Attendance(req.AttendanceType),
		BillingCode:    a.BillingCode,
		Description:    description,
	}
	if err := start.validate(); err != nil {
		return Start{}, err
	}

	if err := s.repo.Append(ctx, start); err != nil {
		return Start{}, err
	}
	log.Debugf("Started %s at %s", start.Activity, start.Time.Format(time.RFC3339))

	s.publish(ctx, event_bus.EntryStarted, event_bus.TrackingStarted{
		Time:           start.Time,
		Activity:       start.Activity,
		AttendanceType: start.AttendanceType,
		BillingCode:    start.BillingCode,
		Description:    start.Description,
	})
	return start, nil
}

func (s *ServiceImpl) End(ctx context.Context, at time.Time) (End, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return End{}, err
	}
	if current == nil {
		log.Debug("No current activity to end")
		return End{}, ErrNotTracking
	}
	at, err = s.checkTime(ctx, at)
	if err != nil {
		return End{}, err
	}

	end := End{Time: at}
	if err := s.repo.Append(ctx, end); err != nil {
		return End{}, err
	}
	log.Debugf("Ended %s at %s", current.Activity, end.Time.Format(time.RFC3339))

	s.publish(ctx, event_bus.EntryEnded, event_bus.TrackingEnded{
		Time:     end.Time,
		Activity: current.Activity,
		Duration: end.Time.Sub(current.Time),
	})
	return end, nil
}

// Current returns the running Start, or nil when the log is empty or ends
// with an End.
func (s *ServiceImpl) Current(ctx context.Context) (*Start, error) {
	last, err := s.repo.Last(ctx)
	if err != nil {
		return nil, err
	}
	if start, ok := last.(Start); ok {
		return &start, nil
	}
	return nil, nil
}

func (s *ServiceImpl) Recent(ctx context.Context, r Range) ([]Entry, error) {
	entries, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return r.Select(entries, s.clock.Now(), s.location), nil
}

// checkTime defaults at to now and keeps the log in chronological order.
func (s *ServiceImpl) checkTime(ctx context.Context, at time.Time) (time.Time, error) {
	if at.IsZero() {
		at = s.clock.Now()
	}
	at = at.In(s.location)
	last, err := s.repo.Last(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if last != nil && at.Before(last.Timestamp()) {
		return time.Time{}, fmt.Errorf("%s is before %s: %w",
			at.Format(time.RFC3339), last.Timestamp().Format(time.RFC3339), ErrOutOfOrder)
	}
	return at, nil
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("failed to publish %s event: %v", eventType, err)
	}
}
