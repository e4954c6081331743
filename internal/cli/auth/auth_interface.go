package auth

import "sync"

// TokenStore defines the interface for token storage operations
// This allows us to swap the keyring out in tests
type TokenStore interface {
	SaveToken(serverURL, token string) error
	LoadToken(serverURL string) (string, error)
	DeleteToken(serverURL string) error
}

// defaultTokenStore implements TokenStore using the OS keyring
type defaultTokenStore struct{}

var Default TokenStore = &defaultTokenStore{}

func (d *defaultTokenStore) SaveToken(serverURL, token string) error {
	return SaveToken(serverURL, token)
}

func (d *defaultTokenStore) LoadToken(serverURL string) (string, error) {
	return LoadToken(serverURL)
}

func (d *defaultTokenStore) DeleteToken(serverURL string) error {
	return DeleteToken(serverURL)
}

// MemoryStore keeps tokens in process memory
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

// NewMemoryStore creates an empty in-memory token store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (m *MemoryStore) SaveToken(serverURL, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[serverURL] = token
	return nil
}

func (m *MemoryStore) LoadToken(serverURL string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[serverURL]
	if !ok || token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

func (m *MemoryStore) DeleteToken(serverURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, serverURL)
	return nil
}
