package keyring

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

func TestFileSecretStore_SetGetDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileSecretStore(fs, "/config")

	secret, err := store.Set()
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	info, err := fs.Stat(filepath.Join("/config", secretFileName))
	if err != nil {
		t.Fatalf("secret file not created: %v", err)
	}
	if info.Mode().Perm() != secretFileMode {
		t.Fatalf("expected permissions %o, got %o", secretFileMode, info.Mode().Perm())
	}

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != secret {
		t.Fatalf("roundtrip failed: set %s, got %s", secret, got)
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(); !os.IsNotExist(err) {
		t.Fatalf("expected not exist error, got %v", err)
	}
}

func TestFileSecretStore_Invalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, filepath.Join("/config", secretFileName), []byte("zz"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileSecretStore(fs, "/config").Get(); !errors.Is(err, ErrInvalidSecret) {
		t.Fatalf("expected ErrInvalidSecret, got %v", err)
	}
}

func TestFallbackStore(t *testing.T) {
	mockKeyring(t)
	keyringSet = func(string, string, string) error { return errors.New("no dbus session") }
	keyringGet = func(string, string) (string, error) { return "", errors.New("no dbus session") }

	fs := afero.NewMemMapFs()
	log := logger.NewMockLogger()
	s := New(fs, "/config", log)

	secret, err := Ensure(s)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	warnings := log.Warnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "no dbus session") {
		t.Fatalf("expected a fallback warning, got %v", warnings)
	}

	again, err := Ensure(s)
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if again != secret {
		t.Fatalf("Ensure generated a new secret: %s != %s", again, secret)
	}
	if exists, _ := afero.Exists(fs, filepath.Join("/config", secretFileName)); !exists {
		t.Fatal("expected secret file")
	}
}

func TestFallbackStore_PrefersKeyring(t *testing.T) {
	mockKeyring(t)
	fs := afero.NewMemMapFs()
	s := New(fs, "/config", nil)

	secret, err := Ensure(s)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	got, err := s.Get()
	if err != nil || got != secret {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if exists, _ := afero.Exists(fs, filepath.Join("/config", secretFileName)); exists {
		t.Fatal("secret should not be written to a file when the keyring works")
	}
	if err := s.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
