package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/avasiliev/feedback-service/internal/models"
)

// Memory is an in-process Store with the same semantics as Postgres.
// It backs the test suite.
type Memory struct {
	mu       sync.Mutex
	users    map[string]models.User
	feedback map[int64]models.Feedback
	nextID   int64
}

// NewMemory initializes an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]models.User),
		feedback: make(map[int64]models.Feedback),
		nextID:   1,
	}
}

func (m *Memory) FindUserByUsername(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *Memory) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Username]; exists {
		return ErrDuplicateUsername
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.Username] = *user
	return nil
}

func (m *Memory) DeleteUser(username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; !ok {
		return ErrNotFound
	}
	for id, fb := range m.feedback {
		if fb.Username == username {
			delete(m.feedback, id)
		}
	}
	delete(m.users, username)
	return nil
}

func (m *Memory) FindFeedbackByUsername(username string) ([]models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []models.Feedback
	for _, fb := range m.feedback {
		if fb.Username == username {
			list = append(list, fb)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *Memory) FindFeedbackByID(id int64) (*models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fb, ok := m.feedback[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &fb, nil
}

func (m *Memory) CreateFeedback(fb *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fb.ID = m.nextID
	m.nextID++
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}
	m.feedback[fb.ID] = *fb
	return nil
}

func (m *Memory) UpdateFeedback(fb *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.feedback[fb.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Title = fb.Title
	existing.Content = fb.Content
	m.feedback[fb.ID] = existing
	return nil
}

func (m *Memory) DeleteFeedback(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.feedback[id]; !ok {
		return ErrNotFound
	}
	delete(m.feedback, id)
	return nil
}

func (m *Memory) CountFeedbackSince(since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, fb := range m.feedback {
		if !fb.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
