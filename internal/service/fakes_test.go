package service

import (
	"context"
	"errors"
	"sync"

	"github.com/railwatch/railwatch/internal/model"
	"github.com/railwatch/railwatch/internal/repository"
	"github.com/railwatch/railwatch/internal/status"
)

// memStore is an in-memory UserStore and LineStore with the same
// add-if-absent semantics as the Postgres repository.
type memStore struct {
	mu        sync.Mutex
	users     map[string]*model.User
	lines     []*model.Line
	createErr error
	listErr   error
	addErr    error
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*model.User)}
}

func (m *memStore) CreateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.users[user.Username]; ok {
		return repository.ErrUsernameExists
	}
	cp := *user
	m.users[user.Username] = &cp
	return nil
}

func (m *memStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) AddLines(ctx context.Context, lines []*model.Line) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return 0, m.addErr
	}
	added := 0
	for _, l := range lines {
		if m.hasLine(l.OwnerID, l.CompanyName, l.LineName) {
			continue
		}
		cp := *l
		m.lines = append(m.lines, &cp)
		added++
	}
	return added, nil
}

func (m *memStore) hasLine(owner, company, line string) bool {
	for _, l := range m.lines {
		if l.OwnerID == owner && l.CompanyName == company && l.LineName == line {
			return true
		}
	}
	return false
}

func (m *memStore) ListLinesByOwner(ctx context.Context, ownerID string) ([]*model.Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*model.Line, 0)
	for _, l := range m.lines {
		if l.OwnerID == ownerID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) DeleteLines(ctx context.Context, ownerID string, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.lines[:0]
	removed := 0
	for _, l := range m.lines {
		if l.OwnerID == ownerID && drop[l.ID] {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	m.lines = kept
	return removed, nil
}

// stubFetcher returns canned results and records the calls in order.
type stubFetcher struct {
	results map[string]status.Result
	calls   []string
}

func (f *stubFetcher) Fetch(ctx context.Context, lineName, statusURL string) status.Result {
	f.calls = append(f.calls, lineName)
	if r, ok := f.results[lineName]; ok {
		return r
	}
	return status.Result{Outcome: status.OutcomeNormal, Message: lineName + " is operating normally"}
}

var errStoreDown = errors.New("store down")
