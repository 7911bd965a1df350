package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/misrafix/misrafix/internal/domain"
)

//go:embed misra_rules.yaml
var defaultCatalog []byte

type catalogFile struct {
	Rules map[string]domain.RuleDefinition `yaml:"rules"`
}

// Load reads the rule knowledge base from path and returns the canonical
// id → definition mapping. Fails fast with *domain.LoadError when the file
// is unreadable or not valid YAML; callers treat that as a fatal startup
// condition.
func Load(path string) (map[string]domain.RuleDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.LoadError{Path: path, Err: err}
	}
	rules, err := parse(data)
	if err != nil {
		return nil, &domain.LoadError{Path: path, Err: err}
	}
	return rules, nil
}

// LoadDefault returns the catalog shipped with the binary.
func LoadDefault() (map[string]domain.RuleDefinition, error) {
	rules, err := parse(defaultCatalog)
	if err != nil {
		return nil, &domain.LoadError{Path: "embedded catalog", Err: err}
	}
	return rules, nil
}

func parse(data []byte) (map[string]domain.RuleDefinition, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rule catalog: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("rule catalog has no rules")
	}

	// The canonical id lives on the map key; copy it onto each entry.
	for id, rule := range file.Rules {
		rule.RuleID = id
		file.Rules[id] = rule
	}
	return file.Rules, nil
}
