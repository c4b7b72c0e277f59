package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/marcuslira2/task-manager-front/internal/models"
)

// sessionFile is the on-disk shape, keyed the same way the browser client
// keyed its local storage.
type sessionFile struct {
	Token    string           `json:"auth_token"`
	Identity *models.Identity `json:"user,omitempty"`
}

// FileStore persists the session as a JSON file. Writes go through a
// temp file and rename so readers see either the old or the new session,
// never a partial one.
type FileStore struct {
	mu   sync.RWMutex
	path string
	cur  sessionFile
}

// NewFileStore loads the session at path if one exists. A corrupt or
// missing file yields an empty session, not an error.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(data, &s.cur); err != nil {
		// Unreadable session data is treated as logged out.
		s.cur = sessionFile{}
	}
	return s, nil
}

func (s *FileStore) Save(token string, identity *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := sessionFile{Token: token, Identity: identity}
	if err := s.write(next); err != nil {
		return err
	}
	s.cur = next
	return nil
}

func (s *FileStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token, s.cur.Token != ""
}

func (s *FileStore) Identity() (*models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur.Identity == nil {
		return nil, false
	}
	id := *s.cur.Identity
	return &id, true
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	s.cur = sessionFile{}
	return nil
}

func (s *FileStore) write(next sessionFile) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
