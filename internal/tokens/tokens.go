// Package tokens persists the OAuth [models.TokenPair] as key=value lines in a flat file.
//
// The file always holds exactly two lines, access_token then refresh_token. Writes go through a
// temporary file and a rename, are created with mode 0600, and are serialised across processes
// with an advisory lock on a sibling ".lock" file.
package tokens

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/spotconnect/internal/models"
	"github.com/desertthunder/spotconnect/internal/shared"
	"github.com/gofrs/flock"
)

const (
	fileMode = 0o600
	dirMode  = 0o700

	defaultLockTimeout = 5 * time.Second
	lockRetryDelay     = 25 * time.Millisecond
)

// Store reads and writes the token file at a fixed path.
type Store struct {
	path        string
	lock        *flock.Flock
	lockTimeout time.Duration
}

// NewStore creates a [Store] for the token file at path.
func NewStore(path string) *Store {
	return &Store{
		path:        path,
		lock:        flock.New(path + ".lock"),
		lockTimeout: defaultLockTimeout,
	}
}

// Path returns the token file location.
func (s *Store) Path() string {
	return s.path
}

// Read returns the value of the first line starting with name followed by "=".
//
// A missing file is reported as [shared.ErrTokenFileMissing]; a missing key as [shared.ErrTokenNotFound].
func (s *Store) Read(name string) (string, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return "", shared.ErrTokenFileMissing
	}

	unlock, err := s.acquire(false)
	if err != nil {
		return "", err
	}
	defer unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", shared.ErrTokenFileMissing
		}
		return "", fmt.Errorf("failed to open token file: %w", err)
	}
	defer f.Close()

	prefix := name + "="
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, prefix) {
			return strings.TrimRight(line[len(prefix):], "\r"), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	return "", fmt.Errorf("%w: %s", shared.ErrTokenNotFound, name)
}

// Load reads both tokens.
func (s *Store) Load() (models.TokenPair, error) {
	access, err := s.Read(models.KeyAccessToken)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := s.Read(models.KeyRefreshToken)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Write replaces the file with the access and refresh lines, in that order.
func (s *Store) Write(access, refresh string) error {
	return s.Save(models.TokenPair{AccessToken: access, RefreshToken: refresh})
}

// Save is [Store.Write] for a [models.TokenPair].
func (s *Store) Save(pair models.TokenPair) error {
	if err := pair.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	unlock, err := s.acquire(true)
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	content := fmt.Sprintf("%s=%s\n%s=%s\n",
		models.KeyAccessToken, pair.AccessToken,
		models.KeyRefreshToken, pair.RefreshToken)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set token file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close token file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	return nil
}

func (s *Store) acquire(exclusive bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return nil, fmt.Errorf("failed to create token directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
	defer cancel()

	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = s.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = s.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: waiting for token file lock", shared.ErrTimeout)
		}
		return nil, fmt.Errorf("failed to lock token file: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: waiting for token file lock", shared.ErrTimeout)
	}

	return func() { s.lock.Unlock() }, nil
}
