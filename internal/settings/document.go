package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	// ErrUnparseable reports a settings file that is not a JSON object
	ErrUnparseable = errors.New("unparseable settings document")

	// ErrMalformed reports valid JSON whose hook structure cannot be merged into
	ErrMalformed = errors.New("malformed settings document")
)

type object = orderedmap.OrderedMap[string, json.RawMessage]

func newObject() *object {
	return orderedmap.New[string, json.RawMessage]()
}

// Document is a host settings file held as ordered raw JSON. Only the hook
// categories that are explicitly rewritten are ever re-encoded; every other
// key keeps its original content and position.
type Document struct {
	root     *object
	hooks    *object
	hooksErr error
}

// New returns an empty settings document
func New() *Document {
	return &Document{root: newObject()}
}

// Parse decodes a settings file. Empty input and a literal null are treated
// as an empty document. A "hooks" value that is not an object does not fail
// the parse; every category access on such a document reports ErrMalformed
// so that callers refuse to rewrite it.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || isNull(trimmed) {
		return New(), nil
	}

	if trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: top level is not an object", ErrUnparseable)
	}

	root := newObject()
	if err := json.Unmarshal(trimmed, root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	doc := &Document{root: root}

	raw, ok := root.Get("hooks")
	if ok && !isNull(raw) {
		if !isObject(raw) {
			doc.hooksErr = fmt.Errorf("%w: \"hooks\" is not an object", ErrMalformed)
			return doc, nil
		}
		hooks := newObject()
		if err := json.Unmarshal(raw, hooks); err != nil {
			return nil, fmt.Errorf("%w: hooks: %v", ErrUnparseable, err)
		}
		doc.hooks = hooks
	}

	return doc, nil
}

// Category returns the registration entries stored under a hook category key
// and whether the key was present
func (d *Document) Category(key string) ([]json.RawMessage, bool, error) {
	if d.hooksErr != nil {
		return nil, false, d.hooksErr
	}
	if d.hooks == nil {
		return nil, false, nil
	}

	raw, ok := d.hooks.Get(key)
	if !ok || isNull(raw) {
		return nil, false, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, true, fmt.Errorf("%w: hooks.%s is not an array", ErrMalformed, key)
	}

	return entries, true, nil
}

// SetCategory replaces the entries under a hook category key, creating the
// hooks object if the document had none
func (d *Document) SetCategory(key string, entries []json.RawMessage) error {
	if d.hooksErr != nil {
		return d.hooksErr
	}
	if d.hooks == nil {
		d.hooks = newObject()
	}
	if entries == nil {
		entries = []json.RawMessage{}
	}

	raw, err := marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode hooks.%s; %w", key, err)
	}

	d.hooks.Set(key, raw)
	return nil
}

// Bytes encodes the document with two-space indentation. Strings are never
// HTML-escaped, so content copied from the original file is written back as is.
func (d *Document) Bytes() ([]byte, error) {
	if d.hooks != nil {
		raw, err := encodeObject(d.hooks)
		if err != nil {
			return nil, fmt.Errorf("failed to encode hooks; %w", err)
		}
		d.root.Set("hooks", raw)
	}

	compact, err := encodeObject(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings; %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent settings; %w", err)
	}
	out.WriteByte('\n')

	return out.Bytes(), nil
}

// marshal encodes v without HTML escaping
func marshal(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// encodeObject writes an ordered object in insertion order. Values are
// compacted, never re-escaped; the ordered map's own MarshalJSON escapes HTML.
func encodeObject(obj *object) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}

		key, err := marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if err := json.Compact(&buf, pair.Value); err != nil {
			return nil, fmt.Errorf("invalid value for %q; %w", pair.Key, err)
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
