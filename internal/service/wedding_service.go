package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	app_errors "enchanted-day/backend/internal/errors"
	"enchanted-day/backend/internal/model"
	"enchanted-day/backend/internal/repository"
)

// WeddingSession is an immutable snapshot of a user's weddings and the one
// currently selected. A change produces a new snapshot; existing snapshots are
// never modified, so they may be shared freely between goroutines.
type WeddingSession struct {
	Weddings   []model.Wedding `json:"weddings"`
	SelectedID string          `json:"selected_id,omitempty"`
	LoadedAt   time.Time       `json:"loaded_at"`
}

// Selected returns the selected wedding, if any.
func (s *WeddingSession) Selected() (model.Wedding, bool) {
	for _, w := range s.Weddings {
		if w.ID == s.SelectedID {
			return w, true
		}
	}
	return model.Wedding{}, false
}

func (s *WeddingSession) contains(weddingID string) bool {
	for _, w := range s.Weddings {
		if w.ID == weddingID {
			return true
		}
	}
	return false
}

// CreateWeddingRequest describes a new wedding.
type CreateWeddingRequest struct {
	CoupleNames []string  `json:"couple_names" validate:"required,min=1,dive,required"`
	WeddingDate time.Time `json:"wedding_date" validate:"required"`
}

type WeddingService struct {
	repo      repository.WeddingRepository
	selection repository.SelectionStore
	now       func() time.Time
	idle      time.Duration

	mu       sync.Mutex
	sessions map[string]*sessionEntry
	lastGC   time.Time
}

type sessionEntry struct {
	session  *WeddingSession
	lastSeen time.Time
}

// WeddingOption customizes a WeddingService.
type WeddingOption func(*WeddingService)

// WithSessionIdle drops cached sessions not used for d. They are reloaded on
// next use.
func WithSessionIdle(d time.Duration) WeddingOption {
	return func(s *WeddingService) { s.idle = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) WeddingOption {
	return func(s *WeddingService) { s.now = now }
}

func NewWeddingService(repo repository.WeddingRepository, selection repository.SelectionStore, opts ...WeddingOption) *WeddingService {
	s := &WeddingService{
		repo:      repo,
		selection: selection,
		now:       func() time.Time { return time.Now().UTC() },
		idle:      30 * time.Minute,
		sessions:  make(map[string]*sessionEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the user's weddings and resolves the selection. The stored
// selection wins when it still names one of the weddings; otherwise the first
// wedding is selected and remembered.
func (s *WeddingService) Load(ctx context.Context, userID string) (*WeddingSession, error) {
	weddings, err := s.repo.ListWeddings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not list weddings: %w", err)
	}
	session := &WeddingSession{
		Weddings: append([]model.Wedding{}, weddings...),
		LoadedAt: s.now(),
	}

	stored, err := s.selection.GetSelected(ctx, userID)
	if err != nil {
		slog.Warn("Failed to read selected wedding, falling back to the first one", "user_id", userID, "error", err)
	}
	switch {
	case stored != "" && session.contains(stored):
		session.SelectedID = stored
	case len(session.Weddings) > 0:
		session.SelectedID = session.Weddings[0].ID
		if err := s.selection.SetSelected(ctx, userID, session.SelectedID); err != nil {
			slog.Warn("Failed to remember auto-selected wedding", "user_id", userID, "error", err)
		}
	}

	s.store(userID, session)
	return session, nil
}

// Refresh reloads the user's weddings and replaces the cached snapshot.
func (s *WeddingService) Refresh(ctx context.Context, userID string) (*WeddingSession, error) {
	return s.Load(ctx, userID)
}

// Current returns the cached snapshot, loading it on first use.
func (s *WeddingService) Current(ctx context.Context, userID string) (*WeddingSession, error) {
	now := s.now()
	s.mu.Lock()
	s.evictIdle(now)
	e, ok := s.sessions[userID]
	if ok {
		e.lastSeen = now
	}
	s.mu.Unlock()
	if ok {
		return e.session, nil
	}
	return s.Load(ctx, userID)
}

// Select makes weddingID the user's current wedding.
func (s *WeddingService) Select(ctx context.Context, userID, weddingID string) (*WeddingSession, error) {
	current, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !current.contains(weddingID) {
		return nil, fmt.Errorf("%w: wedding %s", app_errors.ErrNotFound, weddingID)
	}
	if err := s.selection.SetSelected(ctx, userID, weddingID); err != nil {
		return nil, fmt.Errorf("could not save selection: %w", err)
	}

	next := &WeddingSession{
		Weddings:   current.Weddings,
		SelectedID: weddingID,
		LoadedAt:   current.LoadedAt,
	}
	s.store(userID, next)
	return next, nil
}

// Create adds a wedding in planning status and reloads the user's snapshot.
func (s *WeddingService) Create(ctx context.Context, userID string, req *CreateWeddingRequest) (*model.Wedding, error) {
	w := &model.Wedding{
		ID:          uuid.NewString(),
		UserID:      userID,
		CoupleNames: req.CoupleNames,
		WeddingDate: req.WeddingDate.UTC(),
		Status:      model.WeddingStatusPlanning,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateWedding(ctx, w); err != nil {
		return nil, fmt.Errorf("could not create wedding: %w", err)
	}
	if _, err := s.Refresh(ctx, userID); err != nil {
		slog.Warn("Failed to refresh weddings after create", "user_id", userID, "error", err)
	}
	return w, nil
}

func (s *WeddingService) store(userID string, session *WeddingSession) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictIdle(now)
	s.sessions[userID] = &sessionEntry{session: session, lastSeen: now}
}

// evictIdle sweeps at most once per idle period. Callers hold mu.
func (s *WeddingService) evictIdle(now time.Time) {
	if now.Sub(s.lastGC) <= s.idle {
		return
	}
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.idle {
			delete(s.sessions, id)
		}
	}
	s.lastGC = now
}

// cached reports how many sessions are held in memory.
func (s *WeddingService) cached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
