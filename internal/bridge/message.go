package bridge

import (
	"encoding/json"
	"maps"
	"slices"
)

// Message is the payload of a single post. A Message is built per call,
// encoded once and then dropped.
type Message struct {
	Href   string         `json:"href"`
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs"`
}

// NewMessage copies args and kwargs so the caller can reuse them after the
// message is built. nil inputs become empty values so they encode as []
// and {}.
func NewMessage(href string, args []any, kwargs map[string]any) Message {
	m := Message{
		Href:   href,
		Args:   slices.Clone(args),
		Kwargs: maps.Clone(kwargs),
	}
	if m.Args == nil {
		m.Args = []any{}
	}
	if m.Kwargs == nil {
		m.Kwargs = map[string]any{}
	}
	return m
}

func (m Message) Encode() (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode reads a body leniently. An object with args or kwargs keys is a
// Message and any other object is taken as kwargs. A JSON array supplies
// the positional args, and anything else (a bare string, text that is not
// JSON) becomes the single positional arg.
func Decode(body string) Message {
	m := Message{Args: []any{}, Kwargs: map[string]any{}}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		var v any
		if err := json.Unmarshal([]byte(body), &v); err == nil {
			switch v := v.(type) {
			case string:
				m.Args = append(m.Args, v)
				return m
			case []any:
				m.Args = append(m.Args, v...)
				return m
			}
		}
		m.Args = append(m.Args, body)
		return m
	}

	_, hasArgs := raw["args"]
	_, hasKwargs := raw["kwargs"]
	if !hasArgs && !hasKwargs {
		for k, v := range raw {
			var val any
			if err := json.Unmarshal(v, &val); err == nil {
				m.Kwargs[k] = val
			}
		}
		return m
	}

	if h, ok := raw["href"]; ok {
		_ = json.Unmarshal(h, &m.Href)
	}
	if hasArgs {
		var args []any
		if err := json.Unmarshal(raw["args"], &args); err == nil && args != nil {
			m.Args = args
		}
	}
	if hasKwargs {
		var kwargs map[string]any
		if err := json.Unmarshal(raw["kwargs"], &kwargs); err == nil && kwargs != nil {
			m.Kwargs = kwargs
		}
	}
	return m
}
