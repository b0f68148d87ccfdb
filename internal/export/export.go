// Package export writes an owner's archive to a file-friendly format.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nhle/taskdesk/internal/model"
)

// Format is an export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts yaml, yml or json, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q: %w", s, model.ErrInvalidArgs)
}

// Document is the exported archive.
type Document struct {
	OwnerID    string               `json:"owner_id" yaml:"owner_id"`
	ExportedAt time.Time            `json:"exported_at" yaml:"exported_at"`
	Stats      model.ArchiveStats   `json:"stats" yaml:"stats"`
	Tasks      []model.ArchivedTask `json:"archived_tasks" yaml:"archived_tasks"`
}

// Write encodes doc to w.
func Write(w io.Writer, format Format, doc Document) error {
	if doc.Tasks == nil {
		doc.Tasks = []model.ArchivedTask{}
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown export format %q: %w", format, model.ErrInvalidArgs)
}
