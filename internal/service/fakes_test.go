package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"wishlist/api/internal/models"
	"wishlist/api/internal/repository"
)

type memUsers struct {
	mu    sync.Mutex
	byID  map[string]models.User
	err   error
	order []string
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]models.User{}}
}

func (m *memUsers) Create(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.User{}, m.err
	}
	for _, u := range m.byID {
		if u.Email == user.Email {
			return models.User{}, repository.ErrEmailTaken
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.byID[user.ID] = user
	m.order = append(m.order, user.ID)
	return user, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.User{}, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.User{}, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) List(_ context.Context, limit, offset int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for i := offset; i < len(m.order) && len(out) < limit; i++ {
		if u, ok := m.byID[m.order[i]]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID), nil
}

func (m *memUsers) UpdateProfile(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[user.ID]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	for id, u := range m.byID {
		if id != user.ID && u.Email == user.Email {
			return models.User{}, repository.ErrEmailTaken
		}
	}
	cur.FirstName, cur.LastName, cur.Email = user.FirstName, user.LastName, user.Email
	m.byID[user.ID] = cur
	return cur, nil
}

func (m *memUsers) UpdateRoles(_ context.Context, id string, roles []models.Role) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	cur.Roles = roles
	m.byID[id] = cur
	return cur, nil
}

func (m *memUsers) UpdateImage(_ context.Context, id string, image *string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	cur.Image = image
	m.byID[id] = cur
	return cur, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}

type memGifts struct {
	mu    sync.Mutex
	users *memUsers
	byID  map[string]models.Gift
}

func newMemGifts(users *memUsers) *memGifts {
	return &memGifts{users: users, byID: map[string]models.Gift{}}
}

func (m *memGifts) Create(ctx context.Context, gift models.Gift) (models.Gift, error) {
	if _, err := m.users.GetByID(ctx, gift.UserID); err != nil {
		return models.Gift{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	gift.CreatedAt = time.Now()
	m.byID[gift.ID] = gift
	return gift, nil
}

func (m *memGifts) GetByID(_ context.Context, id string) (models.Gift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.byID[id]
	if !ok {
		return models.Gift{}, repository.ErrGiftNotFound
	}
	return g, nil
}

func (m *memGifts) ListByUser(_ context.Context, userID string, limit, offset int) ([]models.Gift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.ownedBy(userID)
	out := []models.Gift{}
	for i := offset; i < len(all) && len(out) < limit; i++ {
		out = append(out, all[i])
	}
	return out, nil
}

func (m *memGifts) CountByUser(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ownedBy(userID)), nil
}

func (m *memGifts) ownedBy(userID string) []models.Gift {
	var out []models.Gift
	for _, g := range m.byID {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memGifts) UpdateStatus(_ context.Context, gift models.Gift) (models.Gift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[gift.ID]
	if !ok {
		return models.Gift{}, repository.ErrGiftNotFound
	}
	cur.Reserved, cur.ReservedBy, cur.Received = gift.Reserved, gift.ReservedBy, gift.Received
	m.byID[gift.ID] = cur
	return cur, nil
}

func (m *memGifts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrGiftNotFound
	}
	delete(m.byID, id)
	return nil
}

type fakeThrottle struct {
	mu       sync.Mutex
	allowed  bool
	err      error
	attempts map[string]int
	resets   int
}

func newFakeThrottle() *fakeThrottle {
	return &fakeThrottle{allowed: true, attempts: map[string]int{}}
}

func (f *fakeThrottle) Reserve(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[email]++
	return f.allowed, f.err
}

func (f *fakeThrottle) Reset(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	return nil
}

type fakeImages struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeImages() *fakeImages {
	return &fakeImages{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeImages) Put(_ context.Context, key, contentType string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeImages) Remove(_ context.Context, key string) error {
	if _, ok := f.objects[key]; !ok {
		return errors.New("no such key")
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeImages) PresignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return "https://images.test/" + key + "?ttl=" + ttl.String(), nil
}
