package config

import (
	"encoding/json"
	"os"

	apperrors "github.com/schemadrift/schemadrift/internal/errors"
)

// SecretSource provides configuration secrets (API keys). Two variants are
// interchangeable behind this interface, selected once at startup rather
// than probed at each call site.
type SecretSource interface {
	// Get returns the secret for key and whether it was found.
	Get(key string) (string, bool)

	// Name identifies the source for logging.
	Name() string
}

// EnvSecrets reads secrets from process environment variables.
type EnvSecrets struct {
	// Prefix is prepended to every key lookup.
	Prefix string
}

func (s *EnvSecrets) Get(key string) (string, bool) {
	return os.LookupEnv(s.Prefix + key)
}

func (s *EnvSecrets) Name() string { return "env" }

// FileSecrets reads secrets from a flat JSON object on disk, falling back to
// the environment for keys the file does not carry.
type FileSecrets struct {
	values map[string]string
}

// NewFileSecrets loads a secrets file.
func NewFileSecrets(path string) (*FileSecrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrTypeConfig,
			"failed to read secrets file %s", path)
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeConfig,
			"secrets file is not a flat JSON object of strings")
	}

	return &FileSecrets{values: values}, nil
}

func (s *FileSecrets) Get(key string) (string, bool) {
	if val, ok := s.values[key]; ok && val != "" {
		return val, true
	}

	return os.LookupEnv(key)
}

func (s *FileSecrets) Name() string { return "file" }

// NewSecretSource selects the secret source at startup: the secrets file
// when it exists, the environment otherwise.
func NewSecretSource(path string) (SecretSource, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return NewFileSecrets(path)
		}
	}

	return &EnvSecrets{Prefix: "SCHEMADRIFT_"}, nil
}
