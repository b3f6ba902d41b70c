package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"time"
)

const (
	lockTimeout  = 5 * time.Second
	lockInterval = 10 * time.Millisecond
	fileVersion  = 1
	fileMode     = 0o644
	dirMode      = 0o755
)

// catalogFile represents the on-disk catalog format.
type catalogFile struct {
	Version  int       `json:"version"`
	Runtimes []Runtime `json:"runtimes"`
	Sessions []Session `json:"sessions"`
}

type jsonStore struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a JSON-backed catalog store.
// The file is created on first write; concurrent processes coordinate through flock.
func NewStore(path string) Store {
	return &jsonStore{path: path}
}

func (s *jsonStore) GetRuntime(ctx context.Context, name string) (*Runtime, error) {
	var out *Runtime
	err := s.read(ctx, func(cf *catalogFile) error {
		i := slices.IndexFunc(cf.Runtimes, func(r Runtime) bool { return r.Name == name })
		if i < 0 {
			return ErrNotFound
		}
		rt := cf.Runtimes[i]
		out = &rt
		return nil
	})
	return out, err
}

func (s *jsonStore) PutRuntime(ctx context.Context, rt Runtime) error {
	return s.write(ctx, func(cf *catalogFile) error {
		i := slices.IndexFunc(cf.Runtimes, func(r Runtime) bool { return r.Name == rt.Name })
		if i < 0 {
			cf.Runtimes = append(cf.Runtimes, rt)
		} else {
			cf.Runtimes[i] = rt
		}
		return nil
	})
}

func (s *jsonStore) RemoveRuntime(ctx context.Context, name string) error {
	return s.write(ctx, func(cf *catalogFile) error {
		i := slices.IndexFunc(cf.Runtimes, func(r Runtime) bool { return r.Name == name })
		if i < 0 {
			return ErrNotFound
		}
		cf.Runtimes = slices.Delete(cf.Runtimes, i, i+1)
		return nil
	})
}

func (s *jsonStore) AddSession(ctx context.Context, sess Session) error {
	return s.write(ctx, func(cf *catalogFile) error {
		for _, e := range cf.Sessions {
			if e.ID == sess.ID || (sess.Name != "" && e.Name == sess.Name) {
				return ErrAlreadyExists
			}
		}
		cf.Sessions = append(cf.Sessions, sess)
		return nil
	})
}

func (s *jsonStore) GetSession(ctx context.Context, idOrName string) (*Session, error) {
	var out *Session
	err := s.read(ctx, func(cf *catalogFile) error {
		i := slices.IndexFunc(cf.Sessions, func(e Session) bool { return e.ID == idOrName || e.Name == idOrName })
		if i < 0 {
			return ErrNotFound
		}
		sess := cf.Sessions[i]
		out = &sess
		return nil
	})
	return out, err
}

func (s *jsonStore) UpdateSession(ctx context.Context, id string, fn func(*Session)) error {
	return s.write(ctx, func(cf *catalogFile) error {
		i := slices.IndexFunc(cf.Sessions, func(e Session) bool { return e.ID == id })
		if i < 0 {
			return ErrNotFound
		}
		fn(&cf.Sessions[i])
		cf.Sessions[i].ID = id
		return nil
	})
}

func (s *jsonStore) RemoveSession(ctx context.Context, id string) error {
	return s.write(ctx, func(cf *catalogFile) error {
		i := slices.IndexFunc(cf.Sessions, func(e Session) bool { return e.ID == id })
		if i < 0 {
			return ErrNotFound
		}
		cf.Sessions = slices.Delete(cf.Sessions, i, i+1)
		return nil
	})
}

func (s *jsonStore) ListSessions(ctx context.Context, filter SessionFilter) ([]Session, error) {
	out := []Session{}
	err := s.read(ctx, func(cf *catalogFile) error {
		for _, e := range cf.Sessions {
			if filter.Phase != "" && e.Phase != filter.Phase {
				continue
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// read executes fn under a shared lock.
func (s *jsonStore) read(ctx context.Context, fn func(*catalogFile) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cf, file, err := s.openAndLock(ctx, syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer unlockAndClose(file)

	return fn(cf)
}

// write executes fn under an exclusive lock and persists its changes.
func (s *jsonStore) write(ctx context.Context, fn func(*catalogFile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cf, file, err := s.openAndLock(ctx, syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer unlockAndClose(file)

	if err := fn(cf); err != nil {
		return err
	}

	return s.save(cf)
}

// openAndLock locks the sidecar lock file and loads the catalog.
// The lock lives beside the data file because save replaces the data file's inode.
func (s *jsonStore) openAndLock(ctx context.Context, how int) (*catalogFile, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return nil, nil, fmt.Errorf("create catalog directory: %w", err)
	}

	lock, err := os.OpenFile(s.path+".lock", os.O_RDWR|os.O_CREATE, fileMode)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog lock: %w", err)
	}

	if err := acquireLock(ctx, lock, how); err != nil {
		_ = lock.Close()
		return nil, nil, err
	}

	cf, err := s.load()
	if err != nil {
		unlockAndClose(lock)
		return nil, nil, err
	}

	return cf, lock, nil
}

// acquireLock polls a non-blocking flock until it succeeds, ctx ends or lockTimeout passes.
func acquireLock(ctx context.Context, file *os.File, how int) error {
	deadline := time.Now().Add(lockTimeout)

	for {
		err := syscall.Flock(int(file.Fd()), how|syscall.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, syscall.EWOULDBLOCK) {
			return fmt.Errorf("acquire file lock: %w", err)
		}
		if time.Now().After(deadline) {
			return ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockInterval):
		}
	}
}

func unlockAndClose(file *os.File) {
	_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
	_ = file.Close()
}

func (s *jsonStore) load() (*catalogFile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		return &catalogFile{Version: fileVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var cf catalogFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}

	return &cf, nil
}

// save writes the catalog through a temp file and an atomic rename.
func (s *jsonStore) save(cf *catalogFile) error {
	cf.Version = fileVersion

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "catalog-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cf); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename catalog file: %w", err)
	}
	tmpPath = ""

	return nil
}
