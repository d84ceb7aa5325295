package tasklib

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	tasksFileName   = "tasks.json"
	profileFileName = "profile.json"
	dataFileMode    = 0600
)

// OsFs returns the afero filesystem backed by the host OS.
func OsFs() afero.Fs {
	return afero.NewOsFs()
}

// FileStore writes each blob to its own JSON file under dir.
// Writes go to a temporary file first and are renamed into place.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates dir on fs if needed.
func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name)
}

func (f *FileStore) readFile(name string) ([]byte, error) {
	b, err := afero.ReadFile(f.fs, f.path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

func (f *FileStore) writeFile(name string, b []byte) error {
	tmp, err := afero.TempFile(f.fs, f.dir, "."+name+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		f.fs.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		f.fs.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := f.fs.Chmod(tmpPath, dataFileMode); err != nil {
		f.fs.Remove(tmpPath)
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := f.fs.Rename(tmpPath, f.path(name)); err != nil {
		f.fs.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (f *FileStore) LoadTasks() ([]Task, error) {
	b, err := f.readFile(tasksFileName)
	if err != nil {
		return nil, err
	}
	return decodeTasks(b)
}

func (f *FileStore) SaveTasks(tasks []Task) error {
	b, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	return f.writeFile(tasksFileName, b)
}

func (f *FileStore) LoadProfile() (*Profile, error) {
	b, err := f.readFile(profileFileName)
	if err != nil {
		return nil, err
	}
	return decodeProfile(b)
}

func (f *FileStore) SaveProfile(p *Profile) error {
	if p == nil {
		err := f.fs.Remove(f.path(profileFileName))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove profile: %w", err)
		}
		return nil
	}
	b, err := jsonMarshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return f.writeFile(profileFileName, b)
}

// Close is a no-op; files are not held open between calls.
func (f *FileStore) Close() error {
	return nil
}

var _ Store = (*FileStore)(nil)
