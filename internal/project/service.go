package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/classlogo/designer/internal/document"
)

const fileExt = ".json"

var (
	ErrNotFound    = errors.New("project not found")
	ErrInvalidName = errors.New("invalid project name")
)

// Service keeps project files as <name>.json in a single directory. Saves go
// through a temp file and rename so a reader never sees a partial file.
type Service struct {
	dir string
}

func NewService(dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}
	return &Service{dir: dir}, nil
}

type Project struct {
	Name      string `json:"name"`
	Objects   int    `json:"objects"`
	Size      int64  `json:"size"`
	UpdatedAt string `json:"updatedAt"`
}

// Save validates data as a project file and stores it under name,
// replacing any previous version.
func (s *Service) Save(ctx context.Context, name string, data []byte) (*Project, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	objects, err := document.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(s.dir, ".save-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close project: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("store project: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat project: %w", err)
	}
	return toProject(name, len(objects), info), nil
}

// Get returns the raw project file.
func (s *Service) Get(ctx context.Context, name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	return data, nil
}

// List returns every stored project, most recently updated first. Files
// that no longer decode are skipped.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read project dir: %w", err)
	}

	type listed struct {
		project Project
		modTime time.Time
	}
	found := make([]listed, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), fileExt)
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		objects, err := document.Decode(data)
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, listed{*toProject(name, len(objects), info), info.ModTime()})
	}

	// Newest first. UpdatedAt trims trailing zeros, so it does not sort as text.
	sort.SliceStable(found, func(i, j int) bool {
		if !found[i].modTime.Equal(found[j].modTime) {
			return found[i].modTime.After(found[j].modTime)
		}
		return found[i].project.Name < found[j].project.Name
	})
	projects := make([]Project, len(found))
	for i, f := range found {
		projects[i] = f.project
	}
	return projects, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// ValidName reports whether name can be used as a project file name:
// 1-64 characters from [A-Za-z0-9_-].
func ValidName(name string) bool {
	if name == "" || len(name) > 64 {
		return false
	}
	for _, r := range name {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
		if !ok {
			return false
		}
	}
	return true
}

func (s *Service) path(name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name+fileExt), nil
}

func toProject(name string, objects int, info fs.FileInfo) *Project {
	return &Project{
		Name:      name,
		Objects:   objects,
		Size:      info.Size(),
		UpdatedAt: info.ModTime().UTC().Format(time.RFC3339Nano),
	}
}
