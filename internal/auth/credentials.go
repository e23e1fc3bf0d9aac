package auth

import (
	"context"
	"errors"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	ErrCredentialsUnavailable = errors.New("credential store unavailable")
	ErrMissingCredentials     = errors.New("secret is missing basic auth credentials")
)

// Credentials are the values requests are authenticated against. Exactly one
// of Password and PasswordHash (bcrypt) is expected to be set.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
	TokenSecret  string
}

// CredentialStore returns the currently valid credentials. Implementations
// that can rotate return the latest loaded value.
type CredentialStore interface {
	Current(ctx context.Context) (Credentials, error)
}

// Reloader is implemented by stores whose backing secret can change while
// the process runs.
type Reloader interface {
	Reload(ctx context.Context) error
}

// StaticStore serves credentials fixed at startup, typically from the environment.
type StaticStore struct {
	creds Credentials
}

func NewStaticStore(creds Credentials) *StaticStore {
	return &StaticStore{creds: creds}
}

func (s *StaticStore) Current(ctx context.Context) (Credentials, error) {
	if s.creds.Username == "" || (s.creds.Password == "" && s.creds.PasswordHash == "") {
		return Credentials{}, ErrMissingCredentials
	}
	return s.creds, nil
}

// cachedStore holds the last successfully loaded credentials. A failed reload
// keeps serving the previous value.
type cachedStore struct {
	load func(ctx context.Context) (Credentials, error)

	mu     sync.RWMutex
	creds  Credentials
	loaded bool
}

func (c *cachedStore) Current(ctx context.Context) (Credentials, error) {
	c.mu.RLock()
	creds, loaded := c.creds, c.loaded
	c.mu.RUnlock()
	if loaded {
		return creds, nil
	}

	if err := c.Reload(ctx); err != nil {
		return Credentials{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds, nil
}

func (c *cachedStore) Reload(ctx context.Context) error {
	creds, err := c.load(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.creds = creds
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// secretDocument is the layout of the application secret written by the
// provisioning scripts. JSON documents parse as YAML, so both are accepted.
type secretDocument struct {
	Username     string `yaml:"basic_auth_username"`
	Password     string `yaml:"basic_auth_password"`
	PasswordHash string `yaml:"basic_auth_password_hash"`
	JWTSecretKey string `yaml:"jwt_secret_key"`
}

func parseSecretDocument(data []byte) (Credentials, error) {
	var doc secretDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Credentials{}, err
	}
	if doc.Username == "" || (doc.Password == "" && doc.PasswordHash == "") {
		return Credentials{}, ErrMissingCredentials
	}
	return Credentials{
		Username:     doc.Username,
		Password:     doc.Password,
		PasswordHash: doc.PasswordHash,
		TokenSecret:  doc.JWTSecretKey,
	}, nil
}
