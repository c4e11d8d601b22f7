package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/otp-login/internal/domain"
)

// CodeStore keeps pending codes in process memory. Codes do not survive a restart.
type CodeStore struct {
	mu    sync.RWMutex
	codes map[string]string // email -> code
}

func NewCodeStore() *CodeStore {
	return &CodeStore{codes: make(map[string]string)}
}

func (s *CodeStore) Get(_ context.Context, email string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.codes[email]
	if !ok {
		return "", fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	return code, nil
}

func (s *CodeStore) Set(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
	return nil
}

func (s *CodeStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}

func (s *CodeStore) Consume(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.codes[email]
	if !ok || stored != code {
		return false, nil
	}
	delete(s.codes, email)
	return true, nil
}
