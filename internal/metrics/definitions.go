// Package metrics loads metric definitions (YAML or JSON) and renders them
// into a SELECT over the cost fact table. It is a stateless text transform;
// the optional query runner just executes what the renderer produced.
package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultTable is the serving table metrics are computed over.
const defaultTable = "fact_cost"

// Metric is one named SQL expression.
type Metric struct {
	Name       string `yaml:"name" json:"name"`
	Expression string `yaml:"expression" json:"expression"`
}

// Definitions is the on-disk metrics configuration.
type Definitions struct {
	Table   string   `yaml:"table" json:"table"`
	Metrics []Metric `yaml:"metrics" json:"metrics"`
}

// Load reads a definitions file, choosing the parser by extension:
// .yml/.yaml are YAML, anything else is treated as JSON.
func Load(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}

	var defs Definitions
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &defs); err != nil {
			return nil, fmt.Errorf("parse yaml definitions: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &defs); err != nil {
			return nil, fmt.Errorf("parse json definitions: %w", err)
		}
	}

	for i, m := range defs.Metrics {
		if m.Name == "" {
			return nil, fmt.Errorf("metric %d: missing name", i)
		}
		if m.Expression == "" {
			return nil, fmt.Errorf("metric %q: missing expression", m.Name)
		}
	}
	return &defs, nil
}

// RenderSelect renders the definitions as a single SELECT statement. With no
// metrics configured it still produces a runnable query with a sentinel
// column.
func (d *Definitions) RenderSelect() string {
	table := d.Table
	if table == "" {
		table = defaultTable
	}

	selectList := "    1 AS no_metrics_configured"
	if len(d.Metrics) > 0 {
		parts := make([]string, len(d.Metrics))
		for i, m := range d.Metrics {
			parts[i] = fmt.Sprintf("    %s AS %s", m.Expression, m.Name)
		}
		selectList = strings.Join(parts, ",\n")
	}
	return fmt.Sprintf("SELECT\n%s\nFROM %s;", selectList, table)
}
