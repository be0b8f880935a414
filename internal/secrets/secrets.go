// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file is one secret: the filename is the key and the trimmed
// contents are the value. The CLI reads .secrets/ so that the Neo4j
// password never has to live in lawgraph.yaml.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/lawgraph/pkg/types"
)

// Known secret file names.
const (
	Neo4jUser     = "neo4j-user"
	Neo4jPassword = "neo4j-password"
)

// Secrets maps secret names to values.
type Secrets map[string]string

// Load reads all files in dir. A missing directory is not an error and
// yields no secrets. Unreadable files are logged and skipped.
func Load(dir string, logger *zap.Logger) (Secrets, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Get returns the secret named key.
func (s Secrets) Get(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Names returns the loaded secret names in sorted order. Values are never
// listed.
func (s Secrets) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ApplyNeo4j fills the credentials cfg leaves empty.
func (s Secrets) ApplyNeo4j(cfg *types.Neo4jConfig) {
	if v, ok := s.Get(Neo4jUser); ok && cfg.User == "" {
		cfg.User = v
	}
	if v, ok := s.Get(Neo4jPassword); ok && cfg.Password == "" {
		cfg.Password = v
	}
}
