package client

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Tokens is the persisted credential pair. Empty Access means signed out.
type Tokens struct {
	Access  string `json:"access" yaml:"access_token"`
	Refresh string `json:"refresh" yaml:"refresh_token"`
}

// TokenStore persists the credential pair between runs.
type TokenStore interface {
	Load() (Tokens, error)
	Save(Tokens) error
	Clear() error
}

type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens Tokens
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (Tokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens, nil
}

func (s *MemoryTokenStore) Save(t Tokens) error {
	s.mu.Lock()
	s.tokens = t
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.Save(Tokens{})
}

// FileTokenStore keeps tokens in a YAML file readable only by the owner.
type FileTokenStore struct {
	Path string
	mu   sync.Mutex
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{Path: path}
}

// Load returns empty tokens when the file does not exist.
func (s *FileTokenStore) Load() (Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t Tokens
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return t, err
	}
	err = yaml.Unmarshal(data, &t)
	return t, err
}

func (s *FileTokenStore) Save(t Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(&t)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
