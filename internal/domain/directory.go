package domain

// Directory is a read-only key→value lookup consulted when resolving
// contact numbers. Implementations: process environment, YAML contacts
// file, static config entries.
type Directory interface {
	Lookup(key string) (string, bool)
}
