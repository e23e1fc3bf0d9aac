package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sangkips/customer-data-service/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

const realm = "customers"

// Principal identifies an authenticated caller.
type Principal struct {
	Subject string
	Scheme  string
}

// Strategy authenticates the credentials part of an Authorization header for
// a single scheme.
type Strategy interface {
	Scheme() string
	Authenticate(ctx context.Context, credentials string) (Principal, error)
}

type Authenticator struct {
	strategies []Strategy
}

func NewAuthenticator(strategies ...Strategy) *Authenticator {
	return &Authenticator{strategies: strategies}
}

// Authenticate dispatches the Authorization header value to the strategy
// registered for its scheme.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (Principal, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Principal{}, apperrors.ErrUnauthorized
	}

	scheme, credentials, ok := strings.Cut(header, " ")
	if !ok || strings.TrimSpace(credentials) == "" {
		return Principal{}, apperrors.ErrMalformedCredentials
	}

	for _, s := range a.strategies {
		if strings.EqualFold(s.Scheme(), scheme) {
			return s.Authenticate(ctx, strings.TrimSpace(credentials))
		}
	}
	return Principal{}, apperrors.ErrUnauthorized
}

// Challenges returns one WWW-Authenticate value per registered scheme.
func (a *Authenticator) Challenges() []string {
	out := make([]string, 0, len(a.strategies))
	for _, s := range a.strategies {
		out = append(out, fmt.Sprintf("%s realm=%q", s.Scheme(), realm))
	}
	return out
}

type BasicStrategy struct {
	store CredentialStore
}

func NewBasicStrategy(store CredentialStore) *BasicStrategy {
	return &BasicStrategy{store: store}
}

func (b *BasicStrategy) Scheme() string { return "Basic" }

func (b *BasicStrategy) Authenticate(ctx context.Context, credentials string) (Principal, error) {
	raw, err := base64.StdEncoding.DecodeString(credentials)
	if err != nil {
		return Principal{}, apperrors.ErrMalformedCredentials
	}
	username, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return Principal{}, apperrors.ErrMalformedCredentials
	}

	expected, err := b.store.Current(ctx)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrCredentialsUnavailable, err)
	}

	// Both comparisons always run so the response time does not reveal
	// which half was wrong.
	userOK := secureEqual(username, expected.Username)
	var passOK int
	if expected.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(expected.PasswordHash), []byte(password)) == nil {
			passOK = 1
		}
	} else {
		passOK = boolToInt(secureEqual(password, expected.Password))
	}

	if boolToInt(userOK)&passOK != 1 {
		return Principal{}, apperrors.ErrUnauthorized
	}
	return Principal{Subject: username, Scheme: b.Scheme()}, nil
}

// secureEqual compares SHA-256 digests so the comparison time is independent
// of both the mismatch position and the input lengths.
func secureEqual(given, expected string) bool {
	g := sha256.Sum256([]byte(given))
	e := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(g[:], e[:]) == 1
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// BearerStrategy accepts HS256 tokens signed with the token secret held in
// the credential store.
type BearerStrategy struct {
	store CredentialStore
}

func NewBearerStrategy(store CredentialStore) *BearerStrategy {
	return &BearerStrategy{store: store}
}

func (b *BearerStrategy) Scheme() string { return "Bearer" }

func (b *BearerStrategy) Authenticate(ctx context.Context, credentials string) (Principal, error) {
	expected, err := b.store.Current(ctx)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrCredentialsUnavailable, err)
	}
	if expected.TokenSecret == "" {
		return Principal{}, apperrors.ErrUnauthorized
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	var claims jwt.RegisteredClaims
	token, err := parser.ParseWithClaims(credentials, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(expected.TokenSecret), nil
	})
	if err != nil || !token.Valid {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return Principal{}, apperrors.ErrMalformedCredentials
		}
		return Principal{}, apperrors.ErrUnauthorized
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Principal{}, apperrors.ErrUnauthorized
	}

	return Principal{Subject: claims.Subject, Scheme: b.Scheme()}, nil
}
