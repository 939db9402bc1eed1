// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package docker

import (
	"regexp"
	"strings"

	"github.com/dockhand/dockhand/internal/models"
)

// The patch engine edits the raw text of an existing deployment script in
// place. It must never touch lines unrelated to the keys being changed:
// remote scripts carry operator customizations (comments, extra flags,
// alternate layout) that have to survive round-trip edits.

// flagLineRe recognizes a docker invocation flag continuation line, used as
// an insertion anchor when no -e line exists yet.
var flagLineRe = regexp.MustCompile(`^\s*-{1,2}\S`)

// imageLineRe recognizes the final image argument line of a continued
// docker create/run invocation ($REPO or a bare image reference).
var imageLineRe = regexp.MustCompile(`^\s*"?\$REPO"?\s*\\?\s*$|^\s*[A-Za-z0-9][A-Za-z0-9_./:@-]*\s*$`)

func envLineRe(key string) *regexp.Regexp {
	return regexp.MustCompile(`-e\s*` + regexp.QuoteMeta(key) + `=`)
}

// quoteEnvValue renders an env value for script text. Values that are
// empty or contain shell-significant characters are wrapped in double
// quotes, with backslashes, quotes and dollar signs escaped first.
func quoteEnvValue(value string) string {
	if value != "" && !strings.ContainsAny(value, " \t$\\\"'!`") {
		return value
	}
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, `$`, `\$`)
	return `"` + escaped + `"`
}

// UpdateEnvVar rewrites the value portion of the -e line for key, leaving
// the rest of the line and every other line untouched. The second return
// reports whether anything changed.
func UpdateEnvVar(text, key, value string) (string, bool) {
	re := envLineRe(key)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		prefix := line[:loc[1]]
		rest := line[loc[1]:]
		_, suffix := splitEnvValue(rest)
		lines[i] = prefix + quoteEnvValue(value) + suffix
		patched := strings.Join(lines, "\n")
		return patched, patched != text
	}
	return text, false
}

// splitEnvValue splits the text following "-e KEY=" into the value token
// and whatever trails it (continuation backslash, further flags).
func splitEnvValue(rest string) (value, suffix string) {
	if rest == "" {
		return "", ""
	}
	switch rest[0] {
	case '"', '\'':
		quote := rest[0]
		for i := 1; i < len(rest); i++ {
			if rest[i] == quote && rest[i-1] != '\\' {
				return rest[:i+1], rest[i+1:]
			}
		}
		return rest, ""
	default:
		if idx := strings.IndexAny(rest, " \t"); idx >= 0 {
			return rest[:idx], rest[idx:]
		}
		return rest, ""
	}
}

// RemoveEnvVar deletes the -e line for key. When the removed line was the
// last continued line of the invocation, the previous line's trailing
// backslash no longer continues anything and is stripped.
func RemoveEnvVar(text, key string) (string, bool) {
	re := envLineRe(key)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if re.FindStringIndex(line) == nil {
			continue
		}
		removedContinues := strings.HasSuffix(strings.TrimRight(line, " \t"), `\`)
		lines = append(lines[:i], lines[i+1:]...)
		if !removedContinues && i > 0 {
			prev := strings.TrimRight(lines[i-1], " \t")
			if strings.HasSuffix(prev, `\`) {
				lines[i-1] = strings.TrimRight(strings.TrimSuffix(prev, `\`), " \t")
			}
		}
		return strings.Join(lines, "\n"), true
	}
	return text, false
}

// AddEnvVar inserts a new -e line for key. Anchor preference: after the
// last existing -e line, else after the last flag line, else before the
// final image/$REPO argument line, else before a docker start line. The new
// line inherits the anchor's indentation and takes part in the backslash
// continuation chain. Returns the text unchanged when no anchor exists.
func AddEnvVar(text, key, value string) (string, bool) {
	lines := strings.Split(text, "\n")
	entry := "-e " + key + "=" + quoteEnvValue(value)

	anyEnvRe := regexp.MustCompile(`-e\s*[A-Za-z_][A-Za-z0-9_]*=`)
	if idx := lastMatching(lines, func(l string) bool { return anyEnvRe.MatchString(l) }); idx >= 0 {
		return strings.Join(insertAfter(lines, idx, entry), "\n"), true
	}
	if idx := lastMatching(lines, func(l string) bool { return flagLineRe.MatchString(l) }); idx >= 0 {
		return strings.Join(insertAfter(lines, idx, entry), "\n"), true
	}
	if idx := imageArgumentLine(lines); idx >= 0 {
		return strings.Join(insertBefore(lines, idx, entry, true), "\n"), true
	}
	if idx := lastMatching(lines, func(l string) bool {
		return strings.HasPrefix(strings.TrimSpace(l), "docker start")
	}); idx >= 0 {
		return strings.Join(insertBefore(lines, idx, entry, false), "\n"), true
	}
	return text, false
}

func lastMatching(lines []string, match func(string) bool) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if match(lines[i]) {
			return i
		}
	}
	return -1
}

// imageArgumentLine finds the trailing image line of a continued
// invocation: a line matching the image shape whose previous line ends
// with a continuation backslash.
func imageArgumentLine(lines []string) int {
	for i := 1; i < len(lines); i++ {
		prev := strings.TrimRight(lines[i-1], " \t")
		if !strings.HasSuffix(prev, `\`) {
			continue
		}
		if imageLineRe.MatchString(lines[i]) {
			return i
		}
	}
	return -1
}

// insertAfter places entry on a new line after anchor, inheriting the
// anchor's indentation and continuation state. An anchor that ended the
// invocation gains a backslash so the chain reaches the new last line.
func insertAfter(lines []string, anchor int, entry string) []string {
	indent := leadingWhitespace(lines[anchor])
	anchorTrimmed := strings.TrimRight(lines[anchor], " \t")
	anchorContinues := strings.HasSuffix(anchorTrimmed, `\`)

	newLine := indent + entry
	if anchorContinues {
		newLine += ` \`
	} else {
		lines[anchor] = anchorTrimmed + ` \`
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:anchor+1]...)
	out = append(out, newLine)
	out = append(out, lines[anchor+1:]...)
	return out
}

// insertBefore places entry on a new line before anchor. When the anchor is
// part of a continuation chain the new line keeps the chain intact.
func insertBefore(lines []string, anchor int, entry string, continued bool) []string {
	indent := leadingWhitespace(lines[anchor])
	newLine := indent + entry
	if continued {
		newLine += ` \`
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:anchor]...)
	out = append(out, newLine)
	out = append(out, lines[anchor:]...)
	return out
}

func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// PatchScript applies the difference between originalEnvVars and the
// script's current env var set to the script's raw content. Only lines
// belonging to changed keys are touched. The boolean reports whether the
// text changed at all, so callers can surface silently dropped edits.
func PatchScript(script *models.DeploymentScript, originalEnvVars []models.EnvVar) (string, bool) {
	text := script.RawContent
	changed := false

	current := map[string]string{}
	for _, e := range script.EnvVars {
		current[e.Key] = e.Value
	}

	// Removed keys first so their lines do not shift insertion anchors.
	for _, orig := range originalEnvVars {
		if _, ok := current[orig.Key]; ok {
			continue
		}
		var did bool
		text, did = RemoveEnvVar(text, orig.Key)
		changed = changed || did
	}

	original := map[string]string{}
	for _, e := range originalEnvVars {
		original[e.Key] = e.Value
	}

	for _, env := range script.EnvVars {
		origValue, existed := original[env.Key]
		switch {
		case !existed:
			var did bool
			text, did = AddEnvVar(text, env.Key, env.Value)
			changed = changed || did
		case origValue != env.Value:
			var did bool
			text, did = UpdateEnvVar(text, env.Key, env.Value)
			changed = changed || did
		}
	}

	return text, changed
}
