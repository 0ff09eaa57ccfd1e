package activity

import (
	"context"

	"github.com/klokku/timetrack/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context, prefix string, expand bool) ([]Row, error)
	Resolve(ctx context.Context, path string) (Activity, error)
	Add(ctx context.Context, path, billingCode, description string) (Activity, error)
	Remove(ctx context.Context, path string) (Activity, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) List(ctx context.Context, prefix string, expand bool) ([]Row, error) {
	catalog, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.ListSortedAt(prefix, expand)
}

func (s *ServiceImpl) Resolve(ctx context.Context, path string) (Activity, error) {
	catalog, err := s.repo.Load(ctx)
	if err != nil {
		return Activity{}, err
	}
	return catalog.Resolve(path)
}

func (s *ServiceImpl) Add(ctx context.Context, path, billingCode, description string) (Activity, error) {
	a, err := New(path, billingCode, description)
	if err != nil {
		return Activity{}, err
	}
	catalog, err := s.repo.Load(ctx)
	if err != nil {
		return Activity{}, err
	}
	added, err := catalog.Add(a)
	if err != nil {
		return Activity{}, err
	}
	if err := s.repo.Save(ctx, catalog); err != nil {
		return Activity{}, err
	}
	log.Debugf("Added activity %s", added.FullPath())
	s.publish(ctx, event_bus.ActivityAdded, added)
	return added, nil
}

func (s *ServiceImpl) Remove(ctx context.Context, path string) (Activity, error) {
	catalog, err := s.repo.Load(ctx)
	if err != nil {
		return Activity{}, err
	}
	removed, err := catalog.Remove(path)
	if err != nil {
		return Activity{}, err
	}
	if err := s.repo.Save(ctx, catalog); err != nil {
		return Activity{}, err
	}
	log.Debugf("Removed activity %s", removed.FullPath())
	s.publish(ctx, event_bus.ActivityRemoved, removed)
	return removed, nil
}

// publish only logs failures: the catalog file has already been written.
func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, a Activity) {
	if s.eventBus == nil {
		return
	}
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, event_bus.CatalogChanged{
		Path:        a.FullPath(),
		BillingCode: a.BillingCode,
	}))
	if err != nil {
		log.Warnf("failed to publish %s event: %v", eventType, err)
	}
}
