package keyring

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	secretFileName = "rpc.secret"
	secretFileMode = 0600
)

// FileSecretStore keeps the secret in a 0600 file. It is used when the
// system keyring is unavailable, e.g. on headless Linux.
type FileSecretStore struct {
	fs  afero.Fs
	dir string
}

func NewFileSecretStore(fs afero.Fs, dir string) *FileSecretStore {
	return &FileSecretStore{fs: fs, dir: dir}
}

func (f *FileSecretStore) path() string {
	return filepath.Join(f.dir, secretFileName)
}

// Set writes a new secret through a temp file and rename so that a crash
// never leaves a truncated secret behind.
func (f *FileSecretStore) Set() (string, error) {
	if err := f.fs.MkdirAll(f.dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	secret, err := generate()
	if err != nil {
		return "", err
	}
	tmp, err := afero.TempFile(f.fs, f.dir, ".rpc.secret.tmp.*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(secret); err != nil {
		tmp.Close()
		_ = f.fs.Remove(tmpPath)
		return "", fmt.Errorf("write secret: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = f.fs.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := f.fs.Chmod(tmpPath, secretFileMode); err != nil {
		_ = f.fs.Remove(tmpPath)
		return "", fmt.Errorf("set permissions: %w", err)
	}
	if err := f.fs.Rename(tmpPath, f.path()); err != nil {
		_ = f.fs.Remove(tmpPath)
		return "", fmt.Errorf("rename secret file: %w", err)
	}
	return secret, nil
}

func (f *FileSecretStore) Get() (string, error) {
	b, err := afero.ReadFile(f.fs, f.path())
	if err != nil {
		return "", err
	}
	return validate(strings.TrimSpace(string(b)))
}

func (f *FileSecretStore) Delete() error {
	return f.fs.Remove(f.path())
}

var _ SecretStore = (*FileSecretStore)(nil)

// Warner receives fallback notices.
type Warner interface {
	Warning(format string, args ...interface{})
}

// FallbackStore reads from and writes to primary, switching to fallback when
// primary fails.
type FallbackStore struct {
	primary  SecretStore
	fallback SecretStore
	warn     Warner
}

// New returns the system keyring backed by a secret file in dir.
func New(fs afero.Fs, dir string, w Warner) *FallbackStore {
	return &FallbackStore{
		primary:  NewKeyring(),
		fallback: NewFileSecretStore(fs, dir),
		warn:     w,
	}
}

func (s *FallbackStore) warning(format string, args ...interface{}) {
	if s.warn != nil {
		s.warn.Warning(format, args...)
	}
}

func (s *FallbackStore) Set() (string, error) {
	secret, err := s.primary.Set()
	if err == nil {
		return secret, nil
	}
	s.warning("system keyring unavailable (%v); storing the RPC secret in a file", err)
	return s.fallback.Set()
}

func (s *FallbackStore) Get() (string, error) {
	secret, err := s.primary.Get()
	if err == nil {
		return secret, nil
	}
	return s.fallback.Get()
}

func (s *FallbackStore) Delete() error {
	perr := s.primary.Delete()
	ferr := s.fallback.Delete()
	if perr != nil && ferr != nil {
		return ferr
	}
	return nil
}

var _ SecretStore = (*FallbackStore)(nil)

// Ensure returns the stored secret, generating one on first use.
func Ensure(s SecretStore) (string, error) {
	if secret, err := s.Get(); err == nil {
		return secret, nil
	}
	return s.Set()
}
