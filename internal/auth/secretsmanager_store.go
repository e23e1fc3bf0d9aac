package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/rs/zerolog/log"
)

// SecretsManagerAPI is the subset of the AWS Secrets Manager client in use.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerStore loads the generated Basic-Auth credentials from AWS
// Secrets Manager. Reload picks up rotated values.
type SecretsManagerStore struct {
	cachedStore
	client   SecretsManagerAPI
	secretID string
}

func NewSecretsManagerClient(ctx context.Context, region string) (*secretsmanager.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

func NewSecretsManagerStore(client SecretsManagerAPI, secretID string) *SecretsManagerStore {
	s := &SecretsManagerStore{client: client, secretID: secretID}
	s.load = s.fetch
	return s
}

func (s *SecretsManagerStore) fetch(ctx context.Context) (Credentials, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretID),
	})
	if err != nil {
		log.Error().Err(err).Str("secret", s.secretID).Msg("failed to retrieve secret")
		return Credentials{}, fmt.Errorf("%w: %v", ErrCredentialsUnavailable, err)
	}
	if out.SecretString == nil {
		return Credentials{}, fmt.Errorf("%w: secret %s has no string value", ErrCredentialsUnavailable, s.secretID)
	}

	creds, err := parseSecretDocument([]byte(aws.ToString(out.SecretString)))
	if err != nil {
		log.Error().Err(err).Str("secret", s.secretID).Msg("invalid secret format")
		if errors.Is(err, ErrMissingCredentials) {
			return Credentials{}, fmt.Errorf("%w: %w", ErrCredentialsUnavailable, err)
		}
		return Credentials{}, fmt.Errorf("%w: invalid secret format", ErrCredentialsUnavailable)
	}

	log.Info().Str("secret", s.secretID).Msg("API credentials retrieved from Secrets Manager")
	return creds, nil
}
