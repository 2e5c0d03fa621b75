package settings

import (
	"encoding/json"
	"fmt"

	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
)

// Registration declares one command the installer owns and where it is registered
type Registration struct {
	Category manifest.Category
	Command  string
	Matchers []string
}

// Result counts the hook objects a reconcile removed and added
type Result struct {
	Removed int
	Added   int
}

// Engine reconciles a settings document against the declared registrations
type Engine struct {
	plan []Registration
}

// NewEngine creates an engine for an ordered registration plan
func NewEngine(plan []Registration) *Engine {
	return &Engine{plan: plan}
}

// Reconcile strips every hook whose command is in oldCommands from the three
// managed categories, then, unless newCommands is empty, registers each
// planned command that appears in newCommands. Hooks not listed in
// oldCommands are left untouched. The document is mutated in place.
func (e *Engine) Reconcile(doc *Document, oldCommands, newCommands []string) (Result, error) {
	var result Result

	old := toSet(oldCommands)
	for _, cat := range manifest.Categories() {
		key := cat.SettingsKey()

		entries, present, err := doc.Category(key)
		if err != nil {
			return result, err
		}
		if !present {
			continue
		}

		kept, removed, err := removeCommands(entries, old)
		if err != nil {
			return result, fmt.Errorf("failed to clean hooks.%s; %w", key, err)
		}
		result.Removed += removed

		if err := doc.SetCategory(key, kept); err != nil {
			return result, err
		}
	}

	if len(newCommands) == 0 {
		return result, nil
	}

	fresh := toSet(newCommands)
	for _, cat := range manifest.Categories() {
		key := cat.SettingsKey()

		entries, _, err := doc.Category(key)
		if err != nil {
			return result, err
		}

		for _, reg := range e.plan {
			if reg.Category != cat || !fresh[reg.Command] {
				continue
			}

			var added int
			if cat.HasMatchers() {
				for _, matcher := range reg.Matchers {
					entries, added, err = upsertMatcher(entries, matcher, reg.Command)
					if err != nil {
						return result, fmt.Errorf("failed to register %s; %w", reg.Command, err)
					}
					result.Added += added
				}
				continue
			}

			entries, added, err = addUnlessPresent(entries, reg.Command)
			if err != nil {
				return result, fmt.Errorf("failed to register %s; %w", reg.Command, err)
			}
			result.Added += added
		}

		if err := doc.SetCategory(key, entries); err != nil {
			return result, err
		}
	}

	return result, nil
}

type hookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

type registration struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []hookCommand `json:"hooks"`
}

// entry is a decoded registration entry; unknown keys survive re-encoding
type entry struct {
	obj   *object
	hooks []json.RawMessage
}

// parseEntry decodes a registration entry. ok is false when the entry is not
// an object or has no usable hook list.
func parseEntry(raw json.RawMessage) (*entry, bool) {
	if !isObject(raw) {
		return nil, false
	}

	obj := newObject()
	if err := json.Unmarshal(raw, obj); err != nil {
		return nil, false
	}

	hooksRaw, ok := obj.Get("hooks")
	if !ok {
		return nil, false
	}

	var hooks []json.RawMessage
	if err := json.Unmarshal(hooksRaw, &hooks); err != nil || hooks == nil {
		return nil, false
	}

	return &entry{obj: obj, hooks: hooks}, true
}

func (e *entry) matcher() (string, bool) {
	raw, ok := e.obj.Get("matcher")
	if !ok {
		return "", false
	}
	var m string
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", false
	}
	return m, true
}

func (e *entry) hasCommand(command string) bool {
	for _, h := range e.hooks {
		if commandOf(h) == command {
			return true
		}
	}
	return false
}

func (e *entry) encode() (json.RawMessage, error) {
	hooks, err := marshal(e.hooks)
	if err != nil {
		return nil, err
	}
	e.obj.Set("hooks", hooks)
	return encodeObject(e.obj)
}

func commandOf(raw json.RawMessage) string {
	var h struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(raw, &h); err != nil {
		return ""
	}
	return h.Command
}

func newHook(command string) (json.RawMessage, error) {
	return marshal(hookCommand{Type: "command", Command: command})
}

func newEntry(matcher, command string) (json.RawMessage, error) {
	return marshal(registration{
		Matcher: matcher,
		Hooks:   []hookCommand{{Type: "command", Command: command}},
	})
}

// removeCommands drops owned hooks and then any entry left without hooks.
// Entries that lose nothing are kept byte-for-byte.
func removeCommands(entries []json.RawMessage, owned map[string]bool) ([]json.RawMessage, int, error) {
	kept := make([]json.RawMessage, 0, len(entries))
	removed := 0

	for _, raw := range entries {
		e, ok := parseEntry(raw)
		if !ok {
			continue
		}

		remaining := make([]json.RawMessage, 0, len(e.hooks))
		for _, h := range e.hooks {
			if owned[commandOf(h)] {
				removed++
				continue
			}
			remaining = append(remaining, h)
		}

		if len(remaining) == 0 {
			continue
		}

		if len(remaining) == len(e.hooks) {
			kept = append(kept, raw)
			continue
		}

		e.hooks = remaining
		encoded, err := e.encode()
		if err != nil {
			return nil, removed, err
		}
		kept = append(kept, encoded)
	}

	return kept, removed, nil
}

// addUnlessPresent appends a matcher-less entry for command unless any entry
// in the category already runs it
func addUnlessPresent(entries []json.RawMessage, command string) ([]json.RawMessage, int, error) {
	for _, raw := range entries {
		if e, ok := parseEntry(raw); ok && e.hasCommand(command) {
			return entries, 0, nil
		}
	}

	fresh, err := newEntry("", command)
	if err != nil {
		return entries, 0, err
	}
	return append(entries, fresh), 1, nil
}

// upsertMatcher adds command to the first entry with the given matcher, or
// appends a new entry for the matcher. A linear scan keeps first-seen order.
func upsertMatcher(entries []json.RawMessage, matcher, command string) ([]json.RawMessage, int, error) {
	for i, raw := range entries {
		e, ok := parseEntry(raw)
		if !ok {
			continue
		}
		if m, ok := e.matcher(); !ok || m != matcher {
			continue
		}

		if e.hasCommand(command) {
			return entries, 0, nil
		}

		hook, err := newHook(command)
		if err != nil {
			return entries, 0, err
		}
		e.hooks = append(e.hooks, hook)

		encoded, err := e.encode()
		if err != nil {
			return entries, 0, err
		}
		entries[i] = encoded
		return entries, 1, nil
	}

	fresh, err := newEntry(matcher, command)
	if err != nil {
		return entries, 0, err
	}
	return append(entries, fresh), 1, nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
