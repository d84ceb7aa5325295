package tasklib

import (
	"encoding/json"
	"fmt"
)

// Store persists the task collection and the signed-in profile as opaque
// blobs. Implementations load everything at startup and overwrite on save.
type Store interface {
	LoadTasks() ([]Task, error)
	SaveTasks(tasks []Task) error
	// LoadProfile returns nil, nil when no profile has been saved.
	LoadProfile() (*Profile, error)
	// SaveProfile removes the stored profile when p is nil.
	SaveProfile(p *Profile) error
	Close() error
}

var jsonMarshal = json.Marshal

const (
	tasksKey   = "tasks"
	profileKey = "profile"
)

func encodeTasks(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	b, err := jsonMarshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return b, nil
}

func decodeTasks(b []byte) ([]Task, error) {
	if len(b) == 0 {
		return []Task{}, nil
	}
	var tasks []Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

func decodeProfile(b []byte) (*Profile, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var p Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

// Backend names accepted by OpenStore.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// OpenStore opens the store selected by backend inside dir.
func OpenStore(backend, dir string) (Store, error) {
	switch backend {
	case "", BackendSQLite:
		return NewSQLiteStore(DBPath(dir))
	case BackendFile:
		return NewFileStore(OsFs(), dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
