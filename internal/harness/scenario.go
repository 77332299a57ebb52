package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/querylab/qbridge/internal/queryfile"
)

// Scenario is one conformance case: a table binding, a pipeline, and
// either a golden translation or an expected error code.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// Table declares the logical table the pipeline starts from.
	Table queryfile.TableSpec `yaml:"table"`

	// Pipeline lists the operations applied in order.
	Pipeline []queryfile.OpSpec `yaml:"pipeline"`

	// ExpectError, when set, is the translation error code this
	// scenario must fail with instead of producing a golden match.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario yaml: %w", err)
	}

	if scenario.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if scenario.Table.Name == "" {
		return nil, fmt.Errorf("scenario %q: table.name is required", scenario.Name)
	}
	return &scenario, nil
}
