package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/campusai/teachassist/internal/auth"
)

// State is everything the CLI keeps between runs.
type State struct {
	SessionID string      `yaml:"session_id"`
	Token     string      `yaml:"token,omitempty"`
	ExpiresAt string      `yaml:"expires_at,omitempty"`
	CreatedAt time.Time   `yaml:"created_at"`
	Chat      []ChatEntry `yaml:"chat,omitempty"`
}

// FileStore persists State as YAML. Writes go through a temp file and a
// rename so a crash never leaves a half-written identity behind.
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// DefaultStatePath is <user config dir>/teachassist/state.yaml.
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "teachassist", "state.yaml"), nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) loadLocked() (State, error) {
	var st State
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read state: %w", err)
	}
	if err := yaml.Unmarshal(raw, &st); err != nil {
		return st, fmt.Errorf("parse state %s: %w", s.path, err)
	}
	return st, nil
}

func (s *FileStore) Save(st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(st)
}

func (s *FileStore) saveLocked(st State) error {
	raw, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func (s *FileStore) update(fn func(*State)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.loadLocked()
	if err != nil {
		return st, err
	}
	fn(&st)
	return st, s.saveLocked(st)
}

// Identity returns the persisted session id, creating it on first use.
// Once written it stays the same until the state file is removed.
func (s *FileStore) Identity() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.loadLocked()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(st.SessionID) != "" {
		return st.SessionID, nil
	}
	st.SessionID = auth.NewSessionID()
	st.CreatedAt = s.now().UTC()
	st.Token, st.ExpiresAt = "", ""
	if err := s.saveLocked(st); err != nil {
		return "", err
	}
	return st.SessionID, nil
}

// Adopt replaces the identity with one issued by the backend, keeping the
// chat history.
func (s *FileStore) Adopt(sessionID, token, expiresAt string) (State, error) {
	return s.update(func(st *State) {
		if st.SessionID != sessionID {
			st.CreatedAt = s.now().UTC()
		}
		st.SessionID = sessionID
		st.Token = token
		st.ExpiresAt = expiresAt
	})
}

// ForgetIdentity drops the id and token; the next Identity call makes a new one.
func (s *FileStore) ForgetIdentity() error {
	_, err := s.update(func(st *State) {
		st.SessionID, st.Token, st.ExpiresAt = "", "", ""
	})
	return err
}

func (s *FileStore) Chat() (*ChatHistory, error) {
	st, err := s.Load()
	if err != nil {
		return nil, err
	}
	return NewChatHistory(st.Chat), nil
}

func (s *FileStore) SaveChat(h *ChatHistory) error {
	_, err := s.update(func(st *State) { st.Chat = h.Entries() })
	return err
}
