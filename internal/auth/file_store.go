package auth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// FileStore reads credentials from a secret file mounted into the container,
// e.g. by a secrets CSI driver or the credential retrieval script.
type FileStore struct {
	cachedStore
	path string
}

func NewFileStore(path string) *FileStore {
	s := &FileStore{path: filepath.Clean(path)}
	s.load = s.readFile
	return s
}

func (s *FileStore) readFile(ctx context.Context) (Credentials, error) {
	data, err := os.ReadFile(s.path) // #nosec G304 - path comes from operator configuration
	if err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("failed to read credentials file")
		return Credentials{}, fmt.Errorf("%w: %v", ErrCredentialsUnavailable, err)
	}

	creds, err := parseSecretDocument(data)
	if err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("failed to parse credentials file")
		return Credentials{}, fmt.Errorf("%w: %v", ErrCredentialsUnavailable, err)
	}

	log.Info().Str("path", s.path).Msg("loaded API credentials from file")
	return creds, nil
}
