// Package credentials resolves the speech and reasoning API keys.
//
// Keys come from the environment first. When the keyring is enabled, a missing
// environment variable falls back to the OS keyring (macOS Keychain, Windows
// Credential Manager, Secret Service).
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
)

const keyringService = "course-scribe"

// Service names one of the two external collaborators that need a key.
type Service string

const (
	Speech    Service = "speech"
	Reasoning Service = "reasoning"
)

// EnvVar returns the environment variable holding the key for s.
func (s Service) EnvVar() string {
	switch s {
	case Speech:
		return "DEEPGRAM_API_KEY"
	case Reasoning:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// ParseService accepts "speech"/"deepgram" and "reasoning"/"gemini".
func ParseService(name string) (Service, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "speech", "deepgram":
		return Speech, nil
	case "reasoning", "gemini":
		return Reasoning, nil
	default:
		return "", fmt.Errorf("unknown service %q (want speech or reasoning)", name)
	}
}

// Set holds resolved keys. Reasoning may hold several keys for rotation.
type Set struct {
	SpeechKey     string
	ReasoningKeys []string
}

// Resolver looks keys up.
type Resolver struct {
	UseKeyring bool
	Getenv     func(string) string
}

// NewResolver returns a Resolver reading the process environment.
func NewResolver(useKeyring bool) *Resolver {
	return &Resolver{UseKeyring: useKeyring, Getenv: os.Getenv}
}

// Require resolves every listed service, failing with a ConfigError naming the
// first key that is absent.
func (r *Resolver) Require(services ...Service) (Set, error) {
	var set Set
	for _, s := range services {
		raw, err := r.lookup(s)
		if err != nil {
			return Set{}, err
		}
		switch s {
		case Speech:
			set.SpeechKey = strings.TrimSpace(raw)
		case Reasoning:
			set.ReasoningKeys = splitKeys(raw)
		}
	}
	return set, nil
}

func (r *Resolver) lookup(s Service) (string, error) {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(s.EnvVar())); v != "" {
		return v, nil
	}

	if r.UseKeyring {
		v, err := keyring.Get(keyringService, string(s))
		if err == nil && strings.TrimSpace(v) != "" {
			return v, nil
		}
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return "", apperrors.Config("credentials", "%s not set and keyring unavailable: %v", s.EnvVar(), err)
		}
	}

	return "", apperrors.Config("credentials", "%s not set. Export it or store it with `scribe auth set %s`", s.EnvVar(), s)
}

// Store saves key for s in the OS keyring.
func Store(s Service, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("empty key for %s", s)
	}
	if err := keyring.Set(keyringService, string(s), key); err != nil {
		return fmt.Errorf("store %s key in keyring: %w", s, err)
	}
	return nil
}

// Delete removes the stored key for s. A missing entry is not an error.
func Delete(s Service) error {
	if err := keyring.Delete(keyringService, string(s)); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete %s key from keyring: %w", s, err)
	}
	return nil
}

func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
