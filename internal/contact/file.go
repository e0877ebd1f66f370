package contact

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// contactsFile is the YAML schema for a contacts file:
//
//	contacts:
//	  mom: "15551230000"
//	  alice smith: "15551231111"
type contactsFile struct {
	Contacts map[string]string `yaml:"contacts"`
}

// LoadContactsFile reads a YAML contacts file and returns a directory keyed
// the same way the resolver derives keys ("mom" → MOM_PHONE). A missing
// file is not an error; it just yields no directory.
func LoadContactsFile(path string, logger *slog.Logger) (StaticDirectory, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Debug("contacts file does not exist, skipping", "path", path)
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contacts file: %w", err)
	}

	var cf contactsFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse contacts file %s: %w", path, err)
	}

	dir := make(StaticDirectory, len(cf.Contacts))
	for name, number := range cf.Contacts {
		if number == "" {
			logger.Warn("contacts file entry has no number, skipping", "name", name)
			continue
		}
		dir[DeriveKey(name)] = number
	}

	logger.Info("loaded contacts file", "path", path, "entries", len(dir))
	return dir, nil
}
