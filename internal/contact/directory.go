package contact

import (
	"os"

	"jarvis/internal/domain"
)

// EnvDirectory resolves keys from process environment variables. Empty
// values count as missing.
type EnvDirectory struct{}

func (EnvDirectory) Lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// StaticDirectory is a fixed in-memory lookup, used for config-declared
// contacts and in tests.
type StaticDirectory map[string]string

func (d StaticDirectory) Lookup(key string) (string, bool) {
	v, ok := d[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// ChainDirectory consults directories in order and returns the first hit.
type ChainDirectory []domain.Directory

func (c ChainDirectory) Lookup(key string) (string, bool) {
	for _, d := range c {
		if v, ok := d.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}
