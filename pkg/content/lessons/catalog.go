package lessons

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// TopicModule is a module of the topic catalog. Topics are kept as raw
// JSON so lessons written by hand survive a patch untouched, and module
// keys other than moduleId, moduleTitle and topics are kept in order.
type TopicModule struct {
	ModuleID    string
	ModuleTitle string
	Topics      []json.RawMessage
	fields      object
}

func (m *TopicModule) UnmarshalJSON(data []byte) error {
	raw, err := decodeModule(data, "topics")
	if err != nil {
		return err
	}
	*m = TopicModule{ModuleID: raw.ModuleID, ModuleTitle: raw.ModuleTitle, Topics: raw.Items, fields: raw.fields}
	return nil
}

func (m TopicModule) MarshalJSON() ([]byte, error) {
	return rawModule{ModuleID: m.ModuleID, ModuleTitle: m.ModuleTitle, Items: m.Topics, fields: m.fields}.encode("topics")
}

// TopicCatalog is the topic-lessons file. Top-level keys other than
// totalTopics and modules are preserved, and all keys keep their order.
type TopicCatalog struct {
	TotalTopics int
	Modules     []TopicModule
	fields      object
}

// Recount sets TotalTopics from the modules.
func (c *TopicCatalog) Recount() {
	total := 0
	for _, m := range c.Modules {
		total += len(m.Topics)
	}
	c.TotalTopics = total
}

// Lookup returns the raw topic lesson with the given href.
func (c *TopicCatalog) Lookup(href string) (json.RawMessage, bool) {
	for _, m := range c.Modules {
		if raw, ok := lookupRaw(m.Topics, href); ok {
			return raw, true
		}
	}
	return nil, false
}

func lookupRaw(items []json.RawMessage, href string) (json.RawMessage, bool) {
	for _, raw := range items {
		var lesson struct {
			Href string `json:"href"`
		}
		if err := json.Unmarshal(raw, &lesson); err != nil {
			continue
		}
		if lesson.Href == href {
			return raw, true
		}
	}
	return nil, false
}

func (c *TopicCatalog) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	*c = TopicCatalog{fields: fields}
	if err := fields.decodeField("totalTopics", &c.TotalTopics); err != nil {
		return err
	}
	return fields.decodeField("modules", &c.Modules)
}

func (c TopicCatalog) MarshalJSON() ([]byte, error) {
	fields := c.fields.clone()

	modules := c.Modules
	if modules == nil {
		modules = []TopicModule{}
	}
	if err := fields.setValue("totalTopics", c.TotalTopics); err != nil {
		return nil, err
	}
	if err := fields.setValue("modules", modules); err != nil {
		return nil, err
	}
	return fields.encode()
}

// ReadTopicCatalog decodes a topic catalog.
func ReadTopicCatalog(r io.Reader) (*TopicCatalog, error) {
	var c TopicCatalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding topic catalog: %w", err)
	}
	return &c, nil
}

// WriteJSON writes v as two-space indented JSON without escaping
// non-ASCII or HTML characters.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// LessonPath turns URL segments into a lesson href under base. Segments
// are trimmed and empty ones dropped; ok is false if nothing is left.
func LessonPath(base string, segments []string) (string, bool) {
	var clean []string
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	if len(clean) == 0 {
		return "", false
	}
	return base + "/" + strings.Join(clean, "/"), true
}
