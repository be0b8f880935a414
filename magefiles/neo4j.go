package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Neo4j groups targets for the local Neo4j mirror.
type Neo4j mg.Namespace

const neo4jContainer = "lawgraph-neo4j"

// Up starts a disposable Neo4j container on the default bolt port. The
// password is read from .secrets/neo4j-password.
func (Neo4j) Up() error {
	pw, err := os.ReadFile(".secrets/neo4j-password")
	if err != nil {
		return fmt.Errorf("reading .secrets/neo4j-password: %w", err)
	}
	return sh.RunV("docker", "run", "-d", "--rm",
		"--name", neo4jContainer,
		"-p", "7474:7474", "-p", "7687:7687",
		"-e", "NEO4J_AUTH=neo4j/"+string(trimNewline(pw)),
		"neo4j:5",
	)
}

// Down stops the container started by Up.
func (Neo4j) Down() error {
	return sh.RunV("docker", "stop", neo4jContainer)
}

// Sync builds the CLI and mirrors the local store into Neo4j.
func (Neo4j) Sync() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "sync-neo4j")
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
