package cached

import (
	"sort"
	"sync"
	"time"

	"github.com/konnyaku-app/konnyaku/internal/domain"
	"github.com/konnyaku-app/konnyaku/internal/repository"
)

// SettingRepository keeps every setting in memory in front of a backing repository.
// Writes go to the backing store first; the cache only changes when they succeed.
type SettingRepository struct {
	repo  repository.SettingRepository
	cache map[string]*domain.Setting
	mu    sync.RWMutex
}

func NewSettingRepository(repo repository.SettingRepository) *SettingRepository {
	return &SettingRepository{
		repo:  repo,
		cache: make(map[string]*domain.Setting),
	}
}

// Load fills the cache from the backing repository. Call once at startup.
func (r *SettingRepository) Load() error {
	list, err := r.repo.GetAll()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*domain.Setting, len(list))
	for _, s := range list {
		r.cache[s.Key] = s
	}
	return nil
}

func (r *SettingRepository) Get(key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.cache[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return s.Value, nil
}

func (r *SettingRepository) Set(key, value string) error {
	if err := r.repo.Set(key, value); err != nil {
		return err
	}
	// The store keeps millisecond timestamps.
	now := time.Now().Truncate(time.Millisecond)
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.cache[key]; ok {
		updated := *s
		updated.Value = value
		updated.UpdatedAt = now
		r.cache[key] = &updated
		return nil
	}
	r.cache[key] = &domain.Setting{Key: key, Value: value, CreatedAt: now, UpdatedAt: now}
	return nil
}

// GetAll returns copies sorted by key.
func (r *SettingRepository) GetAll() ([]*domain.Setting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Setting, 0, len(r.cache))
	for _, s := range r.cache {
		c := *s
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return list, nil
}

func (r *SettingRepository) Delete(key string) error {
	if err := r.repo.Delete(key); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, key)
	return nil
}
