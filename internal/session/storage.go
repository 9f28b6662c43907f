package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Credential storage slot names. The token and the serialized principal are
// stored independently so a corrupted principal cache never takes the token
// with it.
const (
	tokenSlot = "auth_token"
	userSlot  = "auth_user"
)

// CredentialStore persists the session across process restarts.
type CredentialStore interface {
	ReadToken() (string, error)
	WriteToken(token string) error
	ReadUser() ([]byte, error)
	WriteUser(data []byte) error
	// Clear removes both slots. Missing slots are not an error.
	Clear() error
}

// FileStore keeps credentials as two files in a directory, created on first
// write with owner-only permissions.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) ReadToken() (string, error) {
	data, err := s.read(tokenSlot)
	return string(data), err
}

func (s *FileStore) WriteToken(token string) error {
	return s.write(tokenSlot, []byte(token))
}

func (s *FileStore) ReadUser() ([]byte, error) {
	return s.read(userSlot)
}

func (s *FileStore) WriteUser(data []byte) error {
	return s.write(userSlot, data)
}

func (s *FileStore) Clear() error {
	var firstErr error
	for _, slot := range []string{tokenSlot, userSlot} {
		if err := os.Remove(filepath.Join(s.dir, slot)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *FileStore) read(slot string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (s *FileStore) write(slot string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, slot), data, 0o600)
}
