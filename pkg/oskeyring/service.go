// Package oskeyring stores small values such as the default recipient in the
// operating system keyring.
package oskeyring

import (
	"errors"
	"fmt"
	"sync"

	keyringlib "github.com/zalando/go-keyring"
)

const (
	// ServiceName is the keyring service all envy-safe entries live under.
	ServiceName = "envy-safe"
	// RecipientUser is the entry holding the remembered recipient.
	RecipientUser = "recipient"
)

// ErrNotFound is returned by Get when the requested secret is not found.
var ErrNotFound = errors.New("secret not found in keyring")

// Service abstracts the operating system keyring.
type Service interface {
	// Get returns ErrNotFound if the entry does not exist.
	Get(service, user string) (string, error)
	Set(service, user, value string) error
	// Delete does not fail if the entry does not exist.
	Delete(service, user string) error
}

// DefaultService is backed by zalando/go-keyring.
type DefaultService struct{}

// NewDefaultService creates a new DefaultService.
func NewDefaultService() *DefaultService {
	return &DefaultService{}
}

// Get implements the Service interface.
func (s *DefaultService) Get(service, user string) (string, error) {
	secret, err := keyringlib.Get(service, user)
	if err != nil {
		if errors.Is(err, keyringlib.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s/%s from OS keyring: %w", service, user, err)
	}
	return secret, nil
}

// Set implements the Service interface.
func (s *DefaultService) Set(service, user, value string) error {
	if err := keyringlib.Set(service, user, value); err != nil {
		return fmt.Errorf("failed to store %s/%s in OS keyring: %w", service, user, err)
	}
	return nil
}

// Delete implements the Service interface.
func (s *DefaultService) Delete(service, user string) error {
	err := keyringlib.Delete(service, user)
	if err != nil && !errors.Is(err, keyringlib.ErrNotFound) {
		return fmt.Errorf("failed to delete %s/%s from OS keyring: %w", service, user, err)
	}
	return nil
}

var _ Service = (*DefaultService)(nil)

// MemoryService keeps entries in memory. Used by tests.
type MemoryService struct {
	mu    sync.RWMutex
	store map[string]string // service + "/" + user -> value
}

// NewMemoryService creates a new MemoryService.
func NewMemoryService() *MemoryService {
	return &MemoryService{store: make(map[string]string)}
}

// Get implements the Service interface.
func (s *MemoryService) Get(service, user string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.store[service+"/"+user]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

// Set implements the Service interface.
func (s *MemoryService) Set(service, user, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[service+"/"+user] = value
	return nil
}

// Delete implements the Service interface.
func (s *MemoryService) Delete(service, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store, service+"/"+user)
	return nil
}

var _ Service = (*MemoryService)(nil)
