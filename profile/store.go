package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when no profile exists for a requested reciter.
var ErrNotFound = errors.New("profile not found")

// Store keeps profiles in memory, keyed by reciter name, with flat JSON
// files underneath. Lookups are safe to run concurrently; rebuilds of the
// same reciter must be serialized by the caller.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*SpeakerProfile
	dir      string
	log      *logrus.Entry
}

func NewStore(dir string, log *logrus.Logger) *Store {
	return &Store{
		profiles: map[string]*SpeakerProfile{},
		dir:      dir,
		log:      log.WithField("component", "profile_store"),
	}
}

// Get returns the profile for the named reciter, or ErrNotFound.
func (s *Store) Get(name string) (*SpeakerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p, nil
}

func (s *Store) Put(p *SpeakerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.Name] = p
}

// Names lists the stored reciters in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.profiles))
	for n := range s.profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Save writes one profile to <dir>/<name>.json, human-readable.
func (s *Store) Save(p *SpeakerProfile) error {
	if s.dir == "" {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, slug(p.Name)+".json")

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("profile encode %s: %w", path, err)
	}
	s.log.WithFields(logrus.Fields{"qari": p.Name, "path": path}).Info("profile saved")
	return nil
}

// LoadAll reads every *.json profile under the store directory into
// memory. Unreadable files are logged and skipped.
func (s *Store) LoadAll() error {
	if s.dir == "" {
		return nil
	}
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return err
	}
	for _, path := range paths {
		p, err := readProfile(path)
		if err != nil {
			s.log.WithError(err).WithField("path", path).Warn("skipping unreadable profile")
			continue
		}
		s.Put(p)
	}
	return nil
}

func readProfile(path string) (*SpeakerProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var p SpeakerProfile
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("profile decode: %w", err)
	}
	return &p, nil
}

func slug(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
}
