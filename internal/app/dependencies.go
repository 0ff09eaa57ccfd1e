package app

import (
	"io"
	"time"

	"github.com/klokku/timetrack/internal/config"
	"github.com/klokku/timetrack/internal/event_bus"
	"github.com/klokku/timetrack/internal/files"
	"github.com/klokku/timetrack/internal/utils"
	"github.com/klokku/timetrack/pkg/activity"
	"github.com/klokku/timetrack/pkg/entry"
	"github.com/klokku/timetrack/pkg/report"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all repositories and services for one invocation.
type Dependencies struct {
	Config   config.Application
	Location *time.Location
	Paths    files.Paths
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	ActivityRepo    activity.Repository
	ActivityService activity.Service

	EntryRepo    entry.Repository
	EntryService entry.Service

	CsvRenderer   *report.CsvRendererImpl
	ReportService report.Service
}

// BuildDependencies initializes and wires all application services.
func BuildDependencies(paths files.Paths, cfg config.Application, clock utils.Clock, stdout io.Writer) (*Dependencies, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Config:   cfg,
		Location: location,
		Paths:    paths,
		EventBus: event_bus.NewEventBus(),
		Clock:    clock,
	}
	subscribeLogging(deps.EventBus)

	deps.ActivityRepo = activity.NewFileRepository(paths.ActivityFile())
	deps.ActivityService = activity.NewService(deps.ActivityRepo, deps.EventBus)

	deps.EntryRepo = entry.NewFileRepository(paths.EntryFile())
	deps.EntryService = entry.NewService(deps.EntryRepo, deps.ActivityService, cfg, location, deps.EventBus, deps.Clock)

	deps.CsvRenderer = report.NewCsvRenderer(cfg.Output.DelimiterRune())
	deps.ReportService = report.NewService(deps.EntryRepo, deps.CsvRenderer, cfg, location, deps.Clock, stdout)

	return deps, nil
}

func subscribeLogging(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.EntryStarted, func(e event_bus.EventT[event_bus.TrackingStarted]) error {
		log.WithFields(log.Fields{
			"activity":   e.Data.Activity,
			"attendance": e.Data.AttendanceType,
			"wbs":        e.Data.BillingCode,
		}).Infof("Started tracking at %s", e.Data.Time.Format(time.RFC3339))
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.EntryEnded, func(e event_bus.EventT[event_bus.TrackingEnded]) error {
		log.WithField("activity", e.Data.Activity).
			Infof("Ended tracking at %s after %s", e.Data.Time.Format(time.RFC3339), e.Data.Duration)
		return nil
	})
	for _, eventType := range []event_bus.EventType{event_bus.ActivityAdded, event_bus.ActivityRemoved} {
		event_bus.SubscribeTyped(bus, eventType, func(e event_bus.EventT[event_bus.CatalogChanged]) error {
			log.WithField("wbs", e.Data.BillingCode).Debugf("%s: %s", e.Type, e.Data.Path)
			return nil
		})
	}
}
