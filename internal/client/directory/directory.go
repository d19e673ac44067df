// Package directory backs the user search page.
package directory

import (
	"context"
	"strings"
	"sync"

	usermodels "telewall/internal/features/user/models"
)

const (
	recentLimit  = 5
	defaultLimit = 20
)

// Source finds users by a name or username fragment.
type Source interface {
	Search(ctx context.Context, query string) ([]usermodels.UserProfile, error)
}

// MockSource filters a fixed list in memory. Used when there is no backend.
type MockSource struct {
	users []usermodels.UserProfile
}

func NewMockSource(users ...usermodels.UserProfile) *MockSource {
	if len(users) == 0 {
		users = placeholderUsers()
	}
	return &MockSource{users: users}
}

func (m *MockSource) Search(_ context.Context, query string) ([]usermodels.UserProfile, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	var found []usermodels.UserProfile
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Username), q) {
			found = append(found, u)
		}
	}
	return found, nil
}

func placeholderUsers() []usermodels.UserProfile {
	return []usermodels.UserProfile{
		{ID: "1", Name: "Алексей Петров", Username: "alexeypetrov", PhotoURL: "https://randomuser.me/api/portraits/men/32.jpg"},
		{ID: "2", Name: "Мария Иванова", Username: "mashavanova", PhotoURL: "https://randomuser.me/api/portraits/women/44.jpg"},
		{ID: "3", Name: "Сергей Сидоров", Username: "sergsid", PhotoURL: "https://randomuser.me/api/portraits/men/62.jpg"},
		{ID: "4", Name: "Анна Королева", Username: "annakoroleva", PhotoURL: "https://randomuser.me/api/portraits/women/56.jpg"},
		{ID: "5", Name: "Дмитрий Волков", Username: "dmitryvolkov", PhotoURL: "https://randomuser.me/api/portraits/men/41.jpg"},
	}
}

// Searcher is the API client call RemoteSource wraps.
type Searcher interface {
	SearchUsers(ctx context.Context, query string, limit int) ([]usermodels.UserProfile, error)
}

// RemoteSource searches through GET /users?q=.
type RemoteSource struct {
	api   Searcher
	limit int
}

func NewRemoteSource(api Searcher) *RemoteSource {
	return &RemoteSource{api: api, limit: defaultLimit}
}

func (r *RemoteSource) Search(ctx context.Context, query string) ([]usermodels.UserProfile, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	return r.api.SearchUsers(ctx, q, r.limit)
}

// Recent keeps the last five distinct search terms, newest first.
// Repeating a remembered term leaves the order unchanged.
type Recent struct {
	mu    sync.Mutex
	terms []string
}

func NewRecent(seed ...string) *Recent {
	r := &Recent{}
	for i := len(seed) - 1; i >= 0; i-- {
		r.Add(seed[i])
	}
	return r
}

// DefaultRecent is what a fresh search page suggests.
func DefaultRecent() *Recent {
	return NewRecent("рисунки", "дизайн", "telegram", "мемы", "подарки")
}

func (r *Recent) Add(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.terms {
		if t == term {
			return
		}
	}
	r.terms = append([]string{term}, r.terms...)
	if len(r.terms) > recentLimit {
		r.terms = r.terms[:recentLimit]
	}
}

func (r *Recent) Terms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.terms...)
}
