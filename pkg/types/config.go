package types

import "time"

// StoreConfig holds settings for the SQLite graph store.
type StoreConfig struct {
	// Path is the SQLite database file (default "lawgraph.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// BusyTimeout is how long a writer waits on a locked database (default 5s).
	BusyTimeout time.Duration `json:"busy_timeout" yaml:"busy_timeout" mapstructure:"busy_timeout"`
}

// InferConfig tunes the confidence scores of the relationship heuristic.
type InferConfig struct {
	// EnactsBase is the starting confidence of an ENACTS edge (default 0.9).
	EnactsBase float64 `json:"enacts_base" yaml:"enacts_base" mapstructure:"enacts_base"`

	// AmendsBase is the starting confidence of an AMENDS edge (default 0.85).
	AmendsBase float64 `json:"amends_base" yaml:"amends_base" mapstructure:"amends_base"`

	// CitesBase is the starting confidence of a CITES edge (default 0.95).
	CitesBase float64 `json:"cites_base" yaml:"cites_base" mapstructure:"cites_base"`
}

// IngestConfig holds settings for batch ingestion of history files.
type IngestConfig struct {
	// Workers bounds the number of sections processed in parallel (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Source is the default provenance source recorded when a record has none.
	Source string `json:"source" yaml:"source" mapstructure:"source"`

	// Force re-ingests records whose content hash is unchanged.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`
}

// Neo4jConfig holds connection settings for the optional Neo4j mirror.
type Neo4jConfig struct {
	// URI is the bolt:// or neo4j:// address of the server.
	URI string `json:"uri" yaml:"uri" mapstructure:"uri"`

	// User is the basic-auth user name. An empty value is filled from
	// .secrets/neo4j-user.
	User string `json:"user" yaml:"user" mapstructure:"user"`

	// Password is the basic-auth password. It is normally read from
	// .secrets/neo4j-password rather than the config file.
	Password string `json:"password,omitempty" yaml:"password,omitempty" mapstructure:"password"`

	// Database selects a named database; empty uses the server default.
	Database string `json:"database,omitempty" yaml:"database,omitempty" mapstructure:"database"`
}

// Config groups every stage configuration. It is the shape of lawgraph.yaml.
type Config struct {
	Store  StoreConfig  `json:"store" yaml:"store" mapstructure:"store"`
	Infer  InferConfig  `json:"infer" yaml:"infer" mapstructure:"infer"`
	Ingest IngestConfig `json:"ingest" yaml:"ingest" mapstructure:"ingest"`
	Neo4j  Neo4jConfig  `json:"neo4j" yaml:"neo4j" mapstructure:"neo4j"`
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Path:        "lawgraph.db",
			BusyTimeout: 5 * time.Second,
		},
		Infer: InferConfig{
			EnactsBase: 0.9,
			AmendsBase: 0.85,
			CitesBase:  0.95,
		},
		Ingest: IngestConfig{
			Workers: 4,
			Source:  "history",
		},
		Neo4j: Neo4jConfig{
			URI:  "bolt://localhost:7687",
			User: "neo4j",
		},
	}
}
