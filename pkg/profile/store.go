package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// StoreVersion is the current version of the profile file format.
const StoreVersion = 1

// Profile is a named set of axis parameter writes.
type Profile struct {
	// Name identifies the profile.
	Name string `json:"name"`

	// Parameters maps axis parameter names to values.
	Parameters map[string]int64 `json:"parameters"`

	// SavedAt is when the profile was last saved.
	SavedAt time.Time `json:"saved_at,omitempty"`
}

// fileState is the on-disk layout.
type fileState struct {
	Version  int                `json:"version"`
	Profiles map[string]Profile `json:"profiles,omitempty"`
}

// Store manages persistence of parameter profiles to a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a new profile store backed by the given path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes or replaces a profile.
func (s *Store) Save(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	if state.Profiles == nil {
		state.Profiles = make(map[string]Profile)
	}

	p.SavedAt = time.Now()
	state.Profiles[p.Name] = p

	return s.write(state)
}

// Load reads a profile by name.
// Returns nil, nil if the profile (or the file) doesn't exist.
func (s *Store) Load(name string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	p, ok := state.Profiles[name]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Delete removes a profile by name. Deleting a missing profile is not
// an error.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := state.Profiles[name]; !ok {
		return nil
	}
	delete(state.Profiles, name)
	return s.write(state)
}

// Names returns all stored profile names, sorted.
func (s *Store) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(state.Profiles))
	for name := range state.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// load reads the state file. A missing file yields empty state.
func (s *Store) load() (*fileState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &fileState{Version: StoreVersion}, nil
	}
	if err != nil {
		return nil, err
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse profile store %s: %w", s.path, err)
	}
	return &state, nil
}

// write persists the state file, creating the parent directory if needed.
func (s *Store) write(state *fileState) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StoreVersion
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}
