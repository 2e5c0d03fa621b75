package settings

import (
	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
	"github.com/tidwall/gjson"
)

// CountRegistrations counts hook objects in the managed categories whose
// command is one of commands. It never fails; invalid JSON counts as zero.
func CountRegistrations(data []byte, commands []string) int {
	if len(data) == 0 || !gjson.ValidBytes(data) {
		return 0
	}

	owned := toSet(commands)
	count := 0

	for _, cat := range manifest.Categories() {
		gjson.GetBytes(data, "hooks."+cat.SettingsKey()).ForEach(func(_, entry gjson.Result) bool {
			for _, command := range entry.Get("hooks.#.command").Array() {
				if owned[command.String()] {
					count++
				}
			}
			return true
		})
	}

	return count
}

// MatchersFor returns the PreToolUse matchers under which command is registered
func MatchersFor(data []byte, command string) []string {
	if len(data) == 0 || !gjson.ValidBytes(data) {
		return nil
	}

	var matchers []string
	gjson.GetBytes(data, "hooks."+manifest.PreToolUse.SettingsKey()).ForEach(func(_, entry gjson.Result) bool {
		for _, c := range entry.Get("hooks.#.command").Array() {
			if c.String() == command {
				matchers = append(matchers, entry.Get("matcher").String())
				break
			}
		}
		return true
	})

	return matchers
}
