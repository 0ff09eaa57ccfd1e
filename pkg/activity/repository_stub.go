package activity

import (
	"context"
	"slices"
)

type RepositoryStub struct {
	activities []Activity
	saves      int
}

func NewRepositoryStub(activities ...Activity) *RepositoryStub {
	return &RepositoryStub{activities: activities}
}

func (s *RepositoryStub) Load(ctx context.Context) (*Catalog, error) {
	return NewCatalog(slices.Clone(s.activities))
}

func (s *RepositoryStub) Save(ctx context.Context, catalog *Catalog) error {
	s.activities = catalog.Activities()
	s.saves++
	return nil
}

func (s *RepositoryStub) Saves() int {
	return s.saves
}

func (s *RepositoryStub) Cleanup() {
	s.activities = nil
	s.saves = 0
}
