// Package store loads and saves the account display-name table
// (mask -> name) kept in a YAML file next to the configuration.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"fjacquet/ledger-sync/internal/fileutils"
	"fjacquet/ledger-sync/internal/logging"

	"gopkg.in/yaml.v3"
)

// DefaultAccountsFile is used when no file name is configured.
const DefaultAccountsFile = "accounts.yaml"

// AccountStore reads and writes the mask -> display name table.
type AccountStore struct {
	NamesFile string
	logger    logging.Logger
}

// NewAccountStore creates a store for namesFile.
func NewAccountStore(namesFile string, logger logging.Logger) *AccountStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &AccountStore{NamesFile: namesFile, logger: logger}
}

// FindConfigFile looks for filename as given, then under ./config and
// ~/.config/ledger-sync.
func (s *AccountStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "ledger-sync", filename))
	}

	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

func (s *AccountStore) filename() string {
	if s.NamesFile == "" {
		return DefaultAccountsFile
	}
	return s.NamesFile
}

// LoadAccountNames returns the mask -> name table. A missing file yields an
// empty table. Both a top-level "accounts:" mapping and a bare mapping are
// accepted. Masks are read as raw text so that values like 0123 keep their
// leading zero.
func (s *AccountStore) LoadAccountNames() (map[string]string, error) {
	name := s.filename()
	path, err := s.FindConfigFile(name)
	if err != nil {
		s.logger.Debug("Account names file not found", logging.F(logging.FieldFile, name))
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading account names file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing account names file %s: %w", path, err)
	}

	names := map[string]string{}
	if len(doc.Content) == 0 {
		return names, nil
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("account names file %s: expected a mapping", path)
	}
	if len(mapping.Content) == 2 && mapping.Content[0].Value == "accounts" && mapping.Content[1].Kind == yaml.MappingNode {
		mapping = mapping.Content[1]
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("account names file %s: value for mask %q is not a scalar", path, key.Value)
		}
		names[key.Value] = value.Value
	}

	s.logger.Debug("Loaded account names",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(names)))
	return names, nil
}

// SaveAccountNames writes names under a top-level "accounts:" key, masks
// sorted and quoted.
func (s *AccountStore) SaveAccountNames(names map[string]string) error {
	path, err := s.FindConfigFile(s.filename())
	if err != nil {
		path = s.filename()
	}

	masks := make([]string, 0, len(names))
	for mask := range names {
		masks = append(masks, mask)
	}
	sort.Strings(masks)

	accounts := &yaml.Node{Kind: yaml.MappingNode}
	for _, mask := range masks {
		accounts.Content = append(accounts.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: mask, Style: yaml.DoubleQuotedStyle},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: names[mask]},
		)
	}
	root := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "accounts"},
		accounts,
	}}

	data, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("error marshaling account names: %w", err)
	}
	err = fileutils.WriteAtomic(path, 0600, func(w io.Writer) error {
		_, werr := w.Write(data)
		return werr
	})
	if err != nil {
		return fmt.Errorf("error writing account names: %w", err)
	}

	s.logger.Debug("Saved account names",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(names)))
	return nil
}
