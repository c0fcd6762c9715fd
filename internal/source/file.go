package source

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/eleven-am/fwaudit/internal/domain"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported rule file %s: use .json, .csv or .yaml", path)
	}
}

// LoadFile reads, normalizes and sorts the rules in path.
func LoadFile(path string) ([]domain.Rule, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule file: %w", err)
	}
	defer f.Close()

	records, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	rules, err := Normalize(records)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", path, err)
	}
	log.Debugf("Loaded %d rules from %s", len(rules), path)
	return rules, nil
}

func Decode(r io.Reader, format Format) ([]Record, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatCSV:
		return decodeCSV(r)
	case FormatYAML:
		return decodeYAML(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

type ruleDocument struct {
	Rules []Record `json:"rules" yaml:"rules"`
}

func decodeJSON(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if data[0] == '[' {
		var records []Record
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode json rule list: %w", err)
		}
		return records, nil
	}

	var doc struct {
		Rules *[]Record `json:"rules"`
	}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json rule document: %w", err)
	}
	if doc.Rules == nil {
		return nil, fmt.Errorf("expected a list of rules or an object with a rules key")
	}
	return *doc.Rules, nil
}

func decodeYAML(r io.Reader) ([]Record, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty document")
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		var records []Record
		if err := root.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode yaml rule list: %w", err)
		}
		return records, nil
	case yaml.MappingNode:
		var doc ruleDocument
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml rule document: %w", err)
		}
		if doc.Rules == nil {
			return nil, fmt.Errorf("expected a list of rules or a mapping with a rules key")
		}
		return doc.Rules, nil
	default:
		return nil, fmt.Errorf("expected a list of rules or a mapping with a rules key")
	}
}

func decodeCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(row) && col != "" {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
