package lessons

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ModuleDef is a hand-written course module. Lessons are free-form
// documents copied into the catalog with their keys in order.
type ModuleDef struct {
	ModuleID    string      `yaml:"module_id"`
	ModuleTitle string      `yaml:"module_title"`
	Lessons     []yaml.Node `yaml:"lessons"`
}

// LoadModuleDef reads a module definition from a YAML file.
func LoadModuleDef(path string) (*ModuleDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module definition: %w", err)
	}
	return ParseModuleDef(data)
}

// ParseModuleDef parses and validates a YAML module definition.
func ParseModuleDef(data []byte) (*ModuleDef, error) {
	var d ModuleDef
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing module definition YAML: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks that every lesson is a mapping with a label and an href.
func (d *ModuleDef) Validate() error {
	if d.ModuleID == "" {
		return fmt.Errorf("module definition: module_id is required")
	}
	if d.ModuleTitle == "" {
		return fmt.Errorf("module definition: module_title is required")
	}
	if len(d.Lessons) == 0 {
		return fmt.Errorf("module definition: no lessons defined")
	}
	for i := range d.Lessons {
		var lesson struct {
			Label string `yaml:"label"`
			Href  string `yaml:"href"`
		}
		n := &d.Lessons[i]
		if n.Kind == yaml.AliasNode && n.Alias != nil {
			n = n.Alias
		}
		if n.Kind != yaml.MappingNode {
			return fmt.Errorf("module definition: lesson %d is not a mapping", i+1)
		}
		if err := n.Decode(&lesson); err != nil {
			return fmt.Errorf("module definition: lesson %d: %w", i+1, err)
		}
		if lesson.Label == "" || lesson.Href == "" {
			return fmt.Errorf("module definition: lesson %d needs a label and an href", i+1)
		}
	}
	return nil
}

// Build converts the definition into a catalog module.
func (d *ModuleDef) Build() (CatalogModule, error) {
	mod := CatalogModule{
		ModuleID:    d.ModuleID,
		ModuleTitle: d.ModuleTitle,
		Lessons:     make([]json.RawMessage, 0, len(d.Lessons)),
	}
	for i := range d.Lessons {
		raw, err := nodeJSON(&d.Lessons[i])
		if err != nil {
			return CatalogModule{}, fmt.Errorf("lesson %d: %w", i+1, err)
		}
		mod.Lessons = append(mod.Lessons, raw)
	}
	return mod, nil
}

// nodeJSON renders a YAML node as JSON, keeping mapping key order.
func nodeJSON(n *yaml.Node) (json.RawMessage, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return json.RawMessage("null"), nil
		}
		return nodeJSON(n.Content[0])

	case yaml.AliasNode:
		return nodeJSON(n.Alias)

	case yaml.MappingNode:
		var o object
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode || k.ShortTag() == "!!merge" {
				return nil, fmt.Errorf("line %d: unsupported mapping key", k.Line)
			}
			raw, err := nodeJSON(v)
			if err != nil {
				return nil, err
			}
			o.set(k.Value, raw)
		}
		return o.encode()

	case yaml.SequenceNode:
		items := make([]json.RawMessage, 0, len(n.Content))
		for _, c := range n.Content {
			raw, err := nodeJSON(c)
			if err != nil {
				return nil, err
			}
			items = append(items, raw)
		}
		return marshal(items)

	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float", "!!bool", "!!null":
			var v any
			if err := n.Decode(&v); err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			raw, err := marshal(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return raw, nil
		default:
			return marshal(n.Value)
		}
	}

	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

// CatalogModule is a module of a course catalog file read for patching.
// Lessons stay raw and unknown module keys are kept in order.
type CatalogModule struct {
	ModuleID    string
	ModuleTitle string
	Lessons     []json.RawMessage
	fields      object
}

func (m *CatalogModule) UnmarshalJSON(data []byte) error {
	raw, err := decodeModule(data, "lessons")
	if err != nil {
		return err
	}
	*m = CatalogModule{ModuleID: raw.ModuleID, ModuleTitle: raw.ModuleTitle, Lessons: raw.Items, fields: raw.fields}
	return nil
}

func (m CatalogModule) MarshalJSON() ([]byte, error) {
	return rawModule{ModuleID: m.ModuleID, ModuleTitle: m.ModuleTitle, Items: m.Lessons, fields: m.fields}.encode("lessons")
}

// CourseCatalog is an existing course file, usually written by hand.
// Only totalLessons and modules are interpreted; every other key is kept
// in order.
type CourseCatalog struct {
	TotalLessons int
	Modules      []CatalogModule
	fields       object
}

// ReadCourseCatalog decodes a course catalog file.
func ReadCourseCatalog(r io.Reader) (*CourseCatalog, error) {
	var c CourseCatalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding course catalog: %w", err)
	}
	return &c, nil
}

func (c *CourseCatalog) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	*c = CourseCatalog{fields: fields}
	if err := fields.decodeField("totalLessons", &c.TotalLessons); err != nil {
		return err
	}
	return fields.decodeField("modules", &c.Modules)
}

func (c CourseCatalog) MarshalJSON() ([]byte, error) {
	fields := c.fields.clone()

	modules := c.Modules
	if modules == nil {
		modules = []CatalogModule{}
	}
	if err := fields.setValue("totalLessons", c.TotalLessons); err != nil {
		return nil, err
	}
	if err := fields.setValue("modules", modules); err != nil {
		return nil, err
	}
	return fields.encode()
}

// Recount sets TotalLessons from the modules.
func (c *CourseCatalog) Recount() {
	total := 0
	for _, m := range c.Modules {
		total += len(m.Lessons)
	}
	c.TotalLessons = total
}

// PatchModule appends mod, or replaces the module with the same ID in
// place keeping its other keys, then recomputes TotalLessons.
func (c *CourseCatalog) PatchModule(mod CatalogModule) (replaced bool) {
	defer c.Recount()

	for i := range c.Modules {
		if c.Modules[i].ModuleID == mod.ModuleID {
			mod.fields = c.Modules[i].fields
			c.Modules[i] = mod
			return true
		}
	}
	c.Modules = append(c.Modules, mod)
	return false
}
