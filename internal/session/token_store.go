// Package session holds the client-side credential lifecycle: persistent
// token storage, startup validation, and the auth controller driving
// login/registration/logout.
package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore persists the single bearer credential across runs. At most one
// credential is persisted at a time; saving a new one supersedes and erases
// any prior one, including credentials left in legacy locations.
type TokenStore interface {
	// Save writes the credential to the canonical slot and removes any
	// legacy leftovers (migration-on-write).
	Save(credential string) error
	// Load returns the canonical credential, falling back to legacy slots
	// for backward compatibility. It never writes.
	Load() (string, bool)
	// Clear removes the credential from the canonical and all legacy slots.
	Clear() error
}

const (
	canonicalTokenFile = "auth_token"
	legacyTokenFile    = "token"
	legacyDotfile      = ".spark-quiz-token"
)

// FileTokenStore keeps the credential in a file under the user config dir.
// Storage failures are absorbed: an unreadable or corrupt slot reads as "no
// credential", never as an error to the caller's flow.
type FileTokenStore struct {
	dir    string
	legacy []string
}

// NewFileTokenStore stores the credential under dir. Pass the result of
// DefaultTokenDir for the standard location.
func NewFileTokenStore(dir string) *FileTokenStore {
	legacy := []string{filepath.Join(dir, legacyTokenFile)}
	if home, err := os.UserHomeDir(); err == nil {
		legacy = append(legacy, filepath.Join(home, legacyDotfile))
	}
	return &FileTokenStore{dir: dir, legacy: legacy}
}

// DefaultTokenDir is the standard per-user credential directory.
func DefaultTokenDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "spark-quiz")
	}
	return ".spark-quiz"
}

func (s *FileTokenStore) canonicalPath() string {
	return filepath.Join(s.dir, canonicalTokenFile)
}

func (s *FileTokenStore) Save(credential string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(s.canonicalPath(), []byte(credential+"\n"), 0o600); err != nil {
		return err
	}
	// Migrate away from old slots; a stale copy there would resurrect a
	// superseded credential on a later Load.
	for _, path := range s.legacy {
		_ = os.Remove(path)
	}
	return nil
}

func (s *FileTokenStore) Load() (string, bool) {
	if cred, ok := readToken(s.canonicalPath()); ok {
		return cred, true
	}
	for _, path := range s.legacy {
		if cred, ok := readToken(path); ok {
			return cred, true
		}
	}
	return "", false
}

func (s *FileTokenStore) Clear() error {
	var firstErr error
	for _, path := range append([]string{s.canonicalPath()}, s.legacy...) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func readToken(path string) (string, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	cred := strings.TrimSpace(string(raw))
	if cred == "" || strings.ContainsAny(cred, "\x00") {
		// Empty or corrupt slot: treat as absent.
		return "", false
	}
	return cred, true
}

// MemTokenStore is an in-memory TokenStore for tests and ephemeral sessions.
type MemTokenStore struct {
	mu   sync.Mutex
	cred string
	set  bool
}

func NewMemTokenStore() *MemTokenStore { return &MemTokenStore{} }

func (s *MemTokenStore) Save(credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred, s.set = credential, true
	return nil
}

func (s *MemTokenStore) Load() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred, s.set
}

func (s *MemTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred, s.set = "", false
	return nil
}
