package api

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoToken is returned by a TokenSource that has no credentials to offer.
var ErrNoToken = errors.New("no api token configured")

// TokenSource provides the bearer token attached to each request.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed token, typically from a flag.
type StaticToken string

func (s StaticToken) Token() (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// EnvToken reads the token from an environment variable on every request.
type EnvToken string

func (e EnvToken) Token() (string, error) {
	v := strings.TrimSpace(os.Getenv(string(e)))
	if v == "" {
		return "", ErrNoToken
	}
	return v, nil
}

// FileToken reads the token from a file written during onboarding.
type FileToken struct {
	Path string
}

func (f FileToken) Token() (string, error) {
	if f.Path == "" {
		return "", ErrNoToken
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", ErrNoToken
	}
	return v, nil
}

// SaveTokenFile writes token with owner-only permissions.
func SaveTokenFile(path, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return os.WriteFile(path, []byte(token+"\n"), 0600)
}

// ChainTokens returns the first token offered by sources, in order.
func ChainTokens(sources ...TokenSource) TokenSource {
	return chain(sources)
}

type chain []TokenSource

func (c chain) Token() (string, error) {
	for _, src := range c {
		if src == nil {
			continue
		}
		token, err := src.Token()
		if errors.Is(err, ErrNoToken) {
			continue
		}
		if err != nil {
			return "", err
		}
		return token, nil
	}
	return "", ErrNoToken
}
