package staticcatalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"actionforge/internal/domain/queue"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.schema.json
var schemaJSON string

const schemaURL = "actionforge://catalog.schema.json"

var (
	ErrInvalidCatalogPath = errors.New("invalid catalog filepath")
	ErrInvalidCatalog     = errors.New("invalid catalog")
)

type document struct {
	Actions       []queue.ActionDefinition `yaml:"actions"`
	Choices       []queue.ChoiceDefinition `yaml:"choices"`
	AttireBonuses []queue.AttireBonus      `yaml:"attire_bonuses"`
}

// Catalog is an immutable action catalog loaded from a YAML document.
type Catalog struct {
	actions map[queue.ActionID]queue.ActionDefinition
	choices map[queue.ChoiceID]queue.ChoiceDefinition
	attire  map[queue.Skill]queue.AttireBonus
}

// Load reads name relative to root. name may not escape root.
func Load(root, name string) (*Catalog, error) {
	path, err := secureJoin(root, name)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}

func Parse(raw []byte) (*Catalog, error) {
	if err := validateSchema(raw); err != nil {
		return nil, err
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		actions: make(map[queue.ActionID]queue.ActionDefinition, len(doc.Actions)),
		choices: make(map[queue.ChoiceID]queue.ChoiceDefinition, len(doc.Choices)),
		attire:  make(map[queue.Skill]queue.AttireBonus, len(doc.AttireBonuses)),
	}
	for _, ch := range doc.Choices {
		if _, dup := c.choices[ch.ChoiceID]; dup {
			return nil, fmt.Errorf("%w: duplicate choice %d", ErrInvalidCatalog, ch.ChoiceID)
		}
		c.choices[ch.ChoiceID] = ch
	}
	for _, a := range doc.Actions {
		if _, dup := c.actions[a.ActionID]; dup {
			return nil, fmt.Errorf("%w: duplicate action %d", ErrInvalidCatalog, a.ActionID)
		}
		for _, id := range a.Choices {
			if _, ok := c.choices[id]; !ok {
				return nil, fmt.Errorf("%w: action %d references unknown choice %d", ErrInvalidCatalog, a.ActionID, id)
			}
		}
		c.actions[a.ActionID] = a
	}
	for _, b := range doc.AttireBonuses {
		if _, dup := c.attire[b.Skill]; dup {
			return nil, fmt.Errorf("%w: duplicate attire bonus for %s", ErrInvalidCatalog, b.Skill)
		}
		c.attire[b.Skill] = b
	}
	return c, nil
}

func (c *Catalog) Action(id queue.ActionID) (queue.ActionDefinition, bool) {
	a, ok := c.actions[id]
	return a, ok
}

func (c *Catalog) Choice(id queue.ChoiceID) (queue.ChoiceDefinition, bool) {
	ch, ok := c.choices[id]
	return ch, ok
}

func (c *Catalog) AttireBonus(skill queue.Skill) (queue.AttireBonus, bool) {
	b, ok := c.attire[skill]
	return b, ok
}

// Actions lists every action ordered by id.
func (c *Catalog) Actions() []queue.ActionDefinition {
	out := make([]queue.ActionDefinition, 0, len(c.actions))
	for _, a := range c.actions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActionID < out[j].ActionID })
	return out
}

func validateSchema(raw []byte) error {
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	// Round-trip through JSON so numbers reach the validator as json.Number.
	b, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load catalog schema: %w", err)
	}
	return compiler.Compile(schemaURL)
}

func secureJoin(root, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return "", ErrInvalidCatalogPath
	}
	if filepath.IsAbs(rel) {
		return "", ErrInvalidCatalogPath
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := filepath.Clean(filepath.Join(rootAbs, rel))
	prefix := rootAbs + string(filepath.Separator)
	if target != rootAbs && !strings.HasPrefix(target, prefix) {
		return "", ErrInvalidCatalogPath
	}
	return target, nil
}
