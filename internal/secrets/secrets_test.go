// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lawgraph/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, Neo4jPassword, "  hunter2  \n")
				writeFile(t, dir, Neo4jUser, "lawgraph\n")
				return dir
			},
			want: Secrets{Neo4jPassword: "hunter2", Neo4jUser: "lawgraph"},
		},
		{
			name: "returns empty set for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, Neo4jPassword, "pw")
				writeFile(t, dir, "empty", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: Secrets{Neo4jPassword: "pw"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden", "secret")
				writeFile(t, dir, Neo4jPassword, "pw")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Secrets{Neo4jPassword: "pw"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := Load(path, nil)
	assert.ErrorContains(t, err, "reading secrets directory")
}

func TestNames(t *testing.T) {
	s := Secrets{"b": "2", "a": "1"}
	assert.Equal(t, []string{"a", "b"}, s.Names())
}

func TestApplyNeo4j(t *testing.T) {
	s := Secrets{Neo4jPassword: "pw", Neo4jUser: "svc"}

	cfg := types.Neo4jConfig{User: "neo4j"}
	s.ApplyNeo4j(&cfg)
	assert.Equal(t, "neo4j", cfg.User)
	assert.Equal(t, "pw", cfg.Password)

	cfg = types.Neo4jConfig{Password: "from-config"}
	s.ApplyNeo4j(&cfg)
	assert.Equal(t, "svc", cfg.User)
	assert.Equal(t, "from-config", cfg.Password)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
