// Package contact resolves spoken contact names to phone numbers through a
// pluggable directory lookup (environment variables, YAML file, config).
package contact

import (
	"regexp"
	"sort"
	"strings"

	"jarvis/internal/domain"
)

// aliasKeys maps spoken relationship names to canonical directory keys.
// Many-to-one: dad, daddy and father all share DADDY_PHONE.
var aliasKeys = map[string]string{
	"daddy":   "DADDY_PHONE",
	"dad":     "DADDY_PHONE",
	"father":  "DADDY_PHONE",
	"mom":     "MOM_PHONE",
	"mother":  "MOM_PHONE",
	"wife":    "WIFE_PHONE",
	"husband": "HUSBAND_PHONE",
}

var nonAlnumRe = regexp.MustCompile(`[^A-Za-z0-9]`)

// DeriveKey returns the directory key for a spoken name: the alias table
// when the name is a known relationship, otherwise the name uppercased with
// every non-alphanumeric replaced by an underscore, suffixed with _PHONE
// ("alice smith" → ALICE_SMITH_PHONE).
func DeriveKey(name string) string {
	if key, ok := aliasKeys[strings.ToLower(name)]; ok {
		return key
	}
	return strings.ToUpper(nonAlnumRe.ReplaceAllString(name, "_")) + "_PHONE"
}

// Aliases returns the known relationship names, sorted.
func Aliases() []string {
	names := make([]string, 0, len(aliasKeys))
	for name := range aliasKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolver maps spoken contact names to phone numbers. It is a pure
// function of (name, directory snapshot) and performs no mutation.
type Resolver struct {
	dir domain.Directory
}

// NewResolver creates a resolver over the given directory. A nil directory
// defaults to the process environment.
func NewResolver(dir domain.Directory) *Resolver {
	if dir == nil {
		dir = EnvDirectory{}
	}
	return &Resolver{dir: dir}
}

// Resolve returns the phone number for a spoken name, or false when the
// directory has no non-empty entry for the derived key.
func (r *Resolver) Resolve(name string) (string, bool) {
	return r.dir.Lookup(DeriveKey(name))
}
