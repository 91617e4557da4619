package discord

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// hashCommand creates a deterministic hash for an ApplicationCommand (including options).
func hashCommand(cmd *discordgo.ApplicationCommand) string {
	data, _ := json.Marshal(normalizeForHash(cmd))
	return fmt.Sprintf("%x", sha1.Sum(data))
}

// hashSet combines per-command hashes into one value independent of command order.
func hashSet(hashes map[string]string) string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(hashes[name])
		sb.WriteByte('\n')
	}
	return fmt.Sprintf("%x", sha1.Sum([]byte(sb.String())))
}

// normalizeForHash keeps only the fields we send, so ids and versions echoed by Discord do not matter.
func normalizeForHash(cmd *discordgo.ApplicationCommand) map[string]any {
	obj := map[string]any{
		"name":        cmd.Name,
		"description": cmd.Description,
		"type":        cmd.Type,
	}
	if len(cmd.Options) > 0 {
		obj["options"] = normalizeOptions(cmd.Options)
	}
	return obj
}

// normalizeOptions keeps declaration order; Discord treats option order as significant.
func normalizeOptions(opts []*discordgo.ApplicationCommandOption) []map[string]any {
	normalized := make([]map[string]any, len(opts))
	for i, o := range opts {
		entry := map[string]any{
			"name":        o.Name,
			"description": o.Description,
			"type":        o.Type,
			"required":    o.Required,
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]any, len(o.Choices))
			for j, c := range o.Choices {
				choices[j] = map[string]any{"name": c.Name, "value": c.Value}
			}
			entry["choices"] = choices
		}
		if len(o.Options) > 0 {
			entry["options"] = normalizeOptions(o.Options)
		}
		normalized[i] = entry
	}
	return normalized
}
