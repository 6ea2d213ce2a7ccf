package pipeline

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/bubblepack/pkg/engine"
)

// Encode serialises a snapshot in each requested format.
func Encode(snap engine.Snapshot, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		data, err := encodeOne(snap, format)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func encodeOne(snap engine.Snapshot, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(snap, "", "  ")
	case FormatYAML:
		// Round-trip through JSON so YAML keys match the JSON field names.
		raw, err := json.Marshal(snap)
		if err != nil {
			return nil, err
		}
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return yaml.Marshal(doc)
	default:
		return nil, ValidateFormat(format)
	}
}

// DecodeSnapshot parses a snapshot previously encoded as JSON.
func DecodeSnapshot(data []byte) (engine.Snapshot, error) {
	var snap engine.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return engine.Snapshot{}, err
	}
	return snap, nil
}
