package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"okr/internal/modules/okr/domain"
	okrout "okr/internal/modules/okr/port/out"
	"okr/internal/platform/clock"
	apperrors "okr/internal/platform/errors"
	"okr/internal/platform/id"
)

// ObjectiveService owns the session's collection snapshot. Every accepted
// mutation swaps in a new snapshot and saves it straight away; rejected
// mutations leave the snapshot alone and save nothing. The in-memory snapshot
// stays authoritative when a save fails.
type ObjectiveService struct {
	clock        clock.Clock
	idGen        id.Generator
	store        okrout.ObjectiveStore
	logger       *zap.Logger
	historyLimit int

	mu      sync.Mutex
	state   domain.Collection
	loaded  bool
	loadErr error
}

func NewObjectiveService(clock clock.Clock, idGen id.Generator, store okrout.ObjectiveStore, logger *zap.Logger, historyLimit int) *ObjectiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObjectiveService{
		clock:        clock,
		idGen:        idGen,
		store:        store,
		logger:       logger.Named("objectives"),
		historyLimit: historyLimit,
	}
}

// Today is the calendar date history entries and default ranges use.
func (s *ObjectiveService) Today() domain.Date {
	return domain.DateOf(s.clock.Now())
}

// Snapshot returns a copy of the current collection, loading it on first use.
func (s *ObjectiveService) Snapshot(ctx context.Context) domain.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.state.Clone()
}

// LoadError is the recovered error from the initial load, if any.
func (s *ObjectiveService) LoadError(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.loadErr
}

func (s *ObjectiveService) Get(ctx context.Context, ref string) (domain.Objective, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.state.Find(ref)
}

func (s *ObjectiveService) SaveObjective(ctx context.Context, draft domain.Objective) (domain.Objective, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	next, saved, err := s.state.SaveObjective(draft, s.idGen, s.Today())
	if err != nil {
		s.reject("save objective", err)
		return domain.Objective{}, false, err
	}
	return saved, s.commit(ctx, next), nil
}

func (s *ObjectiveService) DeleteObjective(ctx context.Context, ref string) (domain.Objective, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	next, removed, err := s.state.DeleteObjective(ref)
	if err != nil {
		s.reject("delete objective", err)
		return domain.Objective{}, false, err
	}
	return removed, s.commit(ctx, next), nil
}

func (s *ObjectiveService) AddKeyResult(ctx context.Context, objRef string, kr domain.KeyResult) (domain.Objective, domain.KeyResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	next, added, err := s.state.AddKeyResult(objRef, kr, s.idGen)
	if err != nil {
		s.reject("add key result", err)
		return domain.Objective{}, domain.KeyResult{}, false, err
	}
	persisted := s.commit(ctx, next)
	owner, _ := next.Find(objRef)
	return owner, added, persisted, nil
}

func (s *ObjectiveService) RemoveKeyResult(ctx context.Context, objRef, krRef string) (domain.Objective, domain.KeyResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	next, removed, err := s.state.RemoveKeyResult(objRef, krRef)
	if err != nil {
		s.reject("remove key result", err)
		return domain.Objective{}, domain.KeyResult{}, false, err
	}
	persisted := s.commit(ctx, next)
	owner, _ := next.Find(objRef)
	return owner, removed, persisted, nil
}

func (s *ObjectiveService) UpdateKeyResultProgress(ctx context.Context, objRef, krRef, raw string) (domain.Objective, domain.KeyResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	next, updated, err := s.state.UpdateKeyResultProgress(objRef, krRef, raw, s.Today(), s.historyLimit)
	if err != nil {
		s.reject("update key result", err)
		return domain.Objective{}, domain.KeyResult{}, false, err
	}
	persisted := s.commit(ctx, next)
	owner, _ := next.Find(objRef)
	return owner, updated, persisted, nil
}

// ensureLoaded never fails: unreadable or malformed data yields an empty
// collection and a warning. Callers hold s.mu.
func (s *ObjectiveService) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	s.state = domain.Collection{}

	loaded, ok, err := s.store.Load(ctx)
	if err != nil {
		s.loadErr = err
		if errors.Is(err, apperrors.ErrMalformedData) {
			s.logger.Warn("stored objectives are malformed, starting empty", zap.Error(err))
		} else {
			s.logger.Warn("load objectives failed, starting empty", zap.Error(err))
		}
		return
	}
	if !ok {
		s.logger.Debug("no stored objectives")
		return
	}
	withIDs, changed := loaded.EnsureIDs(s.idGen)
	s.state = withIDs
	s.logger.Debug("objectives loaded", zap.Int("count", len(withIDs)))
	if changed {
		s.logger.Info("assigned identifiers to stored objectives")
		s.save(ctx)
	}
}

func (s *ObjectiveService) commit(ctx context.Context, next domain.Collection) bool {
	s.state = next
	return s.save(ctx)
}

func (s *ObjectiveService) save(ctx context.Context) bool {
	if err := s.store.Save(ctx, s.state); err != nil {
		s.logger.Warn("save objectives failed, keeping in-memory state", zap.Error(err), zap.Int("count", len(s.state)))
		return false
	}
	return true
}

func (s *ObjectiveService) reject(op string, err error) {
	s.logger.Debug("mutation rejected", zap.String("op", op), zap.Error(err))
}
