// Package session stores the "logged in" flag for one terminal session.
//
// The flag lives in a zstore collection under a per-session directory, so
// restarting zmail in the same shell restores the session while a new
// shell starts logged out.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/core/pkg/zstore"
)

const (
	collectionName = "session"
	flagKey        = "loggedIn"
	flagValue      = "true"
)

// ErrNoScope is returned when no terminal session can be identified.
var ErrNoScope = errors.New("session: no terminal scope")

// flag is the stored record. Value is "true" while logged in.
type flag struct {
	Value string `json:"value"`
}

// Store reads and writes the session flag.
type Store struct {
	store *zstore.Store
	flags *zstore.Collection[flag]
}

// Open opens the flag store on fsys. scope doubles as the store key so a
// directory written by one session cannot be read by another.
func Open(fsys zfilesystem.ReadWriteFileFS, scope string) (*Store, error) {
	if scope == "" {
		return nil, ErrNoScope
	}

	s, err := zstore.Open(fsys, []byte(scope))
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	col, err := zstore.NewCollection[flag](s, collectionName)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open session: %w", err)
	}

	return &Store{store: s, flags: col}, nil
}

// OpenDir opens the flag store for scope under base, creating the
// directory if needed.
func OpenDir(base, scope string) (*Store, error) {
	if scope == "" {
		return nil, ErrNoScope
	}

	dir := filepath.Join(base, scope)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	return Open(zfilesystem.NewOSFileSystem(dir), scope)
}

// Load reports whether the flag is set. A missing or unreadable record
// counts as logged out.
func (s *Store) Load() bool {
	f, err := s.flags.Get(flagKey)
	if err != nil {
		return false
	}
	return f.Value == flagValue
}

// Set marks the session as logged in.
func (s *Store) Set() error {
	if err := s.flags.Put(flagKey, flag{Value: flagValue}); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Clear removes the flag. Clearing an unset flag is a no-op.
func (s *Store) Clear() error {
	if _, err := s.flags.Get(flagKey); err != nil {
		return nil
	}
	if err := s.flags.Delete(flagKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Close releases the underlying store.
func (s *Store) Close() {
	s.store.Close()
}

// Scope identifies the current terminal session by the parent shell's
// process id.
func Scope() string {
	ppid := os.Getppid()
	if ppid <= 1 {
		return ""
	}
	return "sh-" + strconv.Itoa(ppid)
}

// BaseDir returns the default directory holding session stores. It prefers
// XDG_RUNTIME_DIR, which is cleared when the user logs out.
func BaseDir() string {
	if d := os.Getenv("XDG_RUNTIME_DIR"); d != "" {
		return filepath.Join(d, "zmail")
	}
	return filepath.Join(os.TempDir(), "zmail-"+strconv.Itoa(os.Getuid()))
}
