package services

import (
	"context"
	"log/slog"

	"party-planner/contract"
	"party-planner/domain"
	"party-planner/repositories"
)

// PlannerService owns the contact cache lifecycle and the list store, so
// the interactive layer never touches storage directly.
type PlannerService struct {
	log    *slog.Logger
	cache  repositories.ContactCache
	lists  *repositories.ListStore
	source contract.ContactSource
}

func NewPlannerService(
	log *slog.Logger,
	cache repositories.ContactCache,
	lists *repositories.ListStore,
	source contract.ContactSource,
) *PlannerService {
	return &PlannerService{log: log, cache: cache, lists: lists, source: source}
}

// Contacts returns the cached snapshot, empty if nothing was synced yet.
func (s *PlannerService) Contacts() ([]domain.Contact, error) {
	return s.cache.Snapshot()
}

// RefreshContacts fetches a fresh snapshot from the contact source and
// replaces the cache atomically. When the source is unavailable the
// previous cache is left untouched and the error surfaces to the caller.
func (s *PlannerService) RefreshContacts(ctx context.Context) ([]domain.Contact, error) {
	fetched, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Replace(fetched); err != nil {
		return nil, err
	}
	s.log.Info("contacts synced", "count", len(fetched))
	// Read back through the cache so callers see the stored order with
	// duplicate handles already dropped.
	return s.cache.Snapshot()
}

// ContactsOrSync returns the cached snapshot when one exists, otherwise it
// performs a first sync. The bool reports whether the cache was used.
func (s *PlannerService) ContactsOrSync(ctx context.Context) ([]domain.Contact, bool, error) {
	cached, err := s.cache.Snapshot()
	if err != nil {
		return nil, false, err
	}
	if len(cached) > 0 {
		return cached, true, nil
	}
	fresh, err := s.RefreshContacts(ctx)
	return fresh, false, err
}

func (s *PlannerService) CreateList(name string) (*domain.PartyList, error) {
	return s.lists.Create(name)
}

func (s *PlannerService) LoadList(name string) (*domain.PartyList, error) {
	return s.lists.Load(name)
}

func (s *PlannerService) SaveList(list *domain.PartyList) error {
	return s.lists.Save(list)
}

func (s *PlannerService) ListNames() ([]string, error) {
	return s.lists.Names()
}

func (s *PlannerService) DeleteList(name string) error {
	return s.lists.Delete(name)
}
