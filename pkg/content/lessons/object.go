package lessons

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// object is a decoded JSON object that keeps its keys in input order.
// Values stay raw so anything the generators do not model survives a
// read-modify-write cycle.
type object struct {
	keys   []string
	values map[string]json.RawMessage
}

func decodeObject(data []byte) (object, error) {
	o := object{values: make(map[string]json.RawMessage)}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return o, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return o, fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return o, err
		}
		key, ok := tok.(string)
		if !ok {
			return o, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return o, fmt.Errorf("%s: %w", key, err)
		}
		o.set(key, raw)
	}

	if _, err := dec.Token(); err != nil {
		return o, err
	}
	return o, nil
}

func (o *object) get(key string) (json.RawMessage, bool) {
	v, ok := o.values[key]
	return v, ok
}

// set replaces the value of key in place, or appends key if it is new.
func (o *object) set(key string, v json.RawMessage) {
	if o.values == nil {
		o.values = make(map[string]json.RawMessage)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o object) clone() object {
	c := object{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]json.RawMessage, len(o.values)),
	}
	for k, v := range o.values {
		c.values[k] = v
	}
	return c
}

// setValue marshals v and stores it under key.
func (o *object) setValue(key string, v any) error {
	raw, err := marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	o.set(key, raw)
	return nil
}

func (o object) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(o.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeField unmarshals the value of key into dst if key is present.
func (o *object) decodeField(key string, dst any) error {
	raw, ok := o.get(key)
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// rawModule is the part shared by topic and course catalog modules: an ID,
// a title and a list of raw lessons under itemsKey.
type rawModule struct {
	ModuleID    string
	ModuleTitle string
	Items       []json.RawMessage
	fields      object
}

func decodeModule(data []byte, itemsKey string) (rawModule, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return rawModule{}, err
	}

	m := rawModule{fields: fields}
	if err := fields.decodeField("moduleId", &m.ModuleID); err != nil {
		return m, err
	}
	if err := fields.decodeField("moduleTitle", &m.ModuleTitle); err != nil {
		return m, err
	}
	if err := fields.decodeField(itemsKey, &m.Items); err != nil {
		return m, err
	}
	return m, nil
}

func (m rawModule) encode(itemsKey string) ([]byte, error) {
	fields := m.fields.clone()

	items := m.Items
	if items == nil {
		items = []json.RawMessage{}
	}
	if err := fields.setValue("moduleId", m.ModuleID); err != nil {
		return nil, err
	}
	if err := fields.setValue("moduleTitle", m.ModuleTitle); err != nil {
		return nil, err
	}
	if err := fields.setValue(itemsKey, items); err != nil {
		return nil, err
	}
	return fields.encode()
}
