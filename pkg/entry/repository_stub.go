package entry

import (
	"context"
	"slices"
)

type RepositoryStub struct {
	entries []Entry
}

func NewRepositoryStub(entries ...Entry) *RepositoryStub {
	return &RepositoryStub{entries: entries}
}

func (s *RepositoryStub) LoadAll(ctx context.Context) ([]Entry, error) {
	return slices.Clone(s.entries), nil
}

func (s *RepositoryStub) Append(ctx context.Context, e Entry) error {
	s.entries = append(s.entries, e)
	return nil
}

func (s *RepositoryStub) Last(ctx context.Context) (Entry, error) {
	if len(s.entries) == 0 {
		return nil, nil
	}
	return s.entries[len(s.entries)-1], nil
}

func (s *RepositoryStub) Cleanup() {
	s.entries = nil
}
