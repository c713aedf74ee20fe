// Package preference persists small client-side settings in a YAML file in
// the user's config directory.
package preference

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
)

// KeyLastCategory stores the category of the last created transaction.
const KeyLastCategory = "fluxo:lastCategory"

type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// DefaultPath returns <user config dir>/fluxo/preferences.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}

	return filepath.Join(dir, "fluxo", "preferences.yaml"), nil
}

// Open loads the file at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("decoding preferences: %w", err)
	}

	if s.values == nil {
		s.values = map[string]string{}
	}

	return s, nil
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]

	return v, ok
}

// Set stores the value and rewrites the file.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preferences dir: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}

	return nil
}

// LastCategory falls back to the default category when nothing is stored.
func (s *Store) LastCategory() string {
	if v, ok := s.Get(KeyLastCategory); ok && strings.TrimSpace(v) != "" {
		return v
	}

	return transaction.DefaultCategory
}

func (s *Store) SetLastCategory(category string) error {
	return s.Set(KeyLastCategory, category)
}
