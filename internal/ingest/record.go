package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// SectionRecord is one USC section as delivered by the retrieval layer.
type SectionRecord struct {
	// Key is the canonical USC key of the section (e.g. "42 USC 1395").
	Key string `yaml:"key" json:"key"`

	// Name is the section heading; empty means unknown.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// History is the source credit / legislative history text.
	History string `yaml:"history" json:"history"`

	// Body is the statutory text, scanned for CITES edges.
	Body string `yaml:"body,omitempty" json:"body,omitempty"`

	// Source identifies where the record was fetched from.
	Source string `yaml:"source,omitempty" json:"source,omitempty"`

	RetrievedAt time.Time  `yaml:"retrieved_at,omitempty" json:"retrieved_at,omitempty"`
	EnactedDate *time.Time `yaml:"enacted_date,omitempty" json:"enacted_date,omitempty"`
}

// ContentHash identifies the inputs that drive inference; an unchanged hash
// means re-ingesting the record would only add evidence.
func (r SectionRecord) ContentHash() string {
	h := sha256.New()
	for _, part := range []string{r.Key, r.History, r.Body} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// LawRecord carries display attributes for a Public Law node.
type LawRecord struct {
	Key         string     `yaml:"key" json:"key"`
	Name        string     `yaml:"name,omitempty" json:"name,omitempty"`
	EnactedDate *time.Time `yaml:"enacted_date,omitempty" json:"enacted_date,omitempty"`
}

// File is the on-disk history file format.
type File struct {
	// Source is the default provenance source for records without one.
	Source   string          `yaml:"source,omitempty" json:"source,omitempty"`
	Laws     []LawRecord     `yaml:"laws,omitempty" json:"laws,omitempty"`
	Sections []SectionRecord `yaml:"sections" json:"sections"`
}

// Decode reads a history file from r.
func Decode(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("parsing history file: %w", err)
	}
	if f.Source != "" {
		for i := range f.Sections {
			if f.Sections[i].Source == "" {
				f.Sections[i].Source = f.Source
			}
		}
	}
	return f, nil
}

// LoadFile reads the history file at path.
func LoadFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer fh.Close()
	return Decode(fh)
}
