package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidUsername is returned for names that cannot safely become a file name.
var ErrInvalidUsername = errors.New("invalid username")

// ErrCorrupt indicates a progress file exists but cannot be decoded.
type ErrCorrupt struct {
	Path string
	Err  error
}

func (e *ErrCorrupt) Error() string {
	return fmt.Sprintf("corrupt progress file %s: %v", e.Path, e.Err)
}

func (e *ErrCorrupt) Unwrap() error { return e.Err }

// Repo loads and saves per-user progress.
type Repo interface {
	// Load returns the user's progress, or an empty record if none exists.
	Load(username string) (*UserProgress, error)

	// Save overwrites the user's progress.
	Save(username string, p *UserProgress) error
}

// Store keeps one JSON file per user in a directory. There is no locking;
// concurrent writers for the same user race and the last write wins.
type Store struct {
	dir string
}

var _ Repo = (*Store)(nil)

// NewStore returns a Store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create progress dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory holding progress files.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the progress file path for username.
func (s *Store) Path(username string) (string, error) {
	name, err := CleanUsername(username)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// Load implements Repo. A missing file is not an error.
func (s *Store) Load(username string) (*UserProgress, error) {
	path, err := s.Path(username)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}

	p := &UserProgress{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, &ErrCorrupt{Path: path, Err: err}
	}
	p.ensure()
	return p, nil
}

// Save implements Repo.
func (s *Store) Save(username string, p *UserProgress) error {
	path, err := s.Path(username)
	if err != nil {
		return err
	}
	p.ensure()
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

// Delete removes the user's progress file. Deleting a missing file is a no-op.
func (s *Store) Delete(username string) error {
	path, err := s.Path(username)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// CleanUsername trims a free-text username and rejects values that would
// escape the progress directory.
func CleanUsername(username string) (string, error) {
	name := strings.TrimSpace(username)
	switch {
	case name == "":
		return "", fmt.Errorf("%w: empty", ErrInvalidUsername)
	case name == "." || strings.Contains(name, ".."):
		return "", fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return "", fmt.Errorf("%w: %q contains a path separator", ErrInvalidUsername, username)
	}
	return name, nil
}
