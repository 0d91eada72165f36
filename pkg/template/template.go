// Package template provides placeholder substitution for reminder message templates.
package template

import "regexp"

var placeholderRegexp = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render replaces every {{key}} occurrence in templateStr with the matching
// context value. Unknown keys are left verbatim so a half-written template
// still previews cleanly while the user is typing. Substitution is a single
// pass: a substituted value containing {{...}} is never re-processed.
func Render(templateStr string, context map[string]string) string {
	return placeholderRegexp.ReplaceAllStringFunc(templateStr, func(match string) string {
		key := match[2 : len(match)-2]

		value, ok := context[key]
		if !ok {
			return match
		}

		return value
	})
}

// Placeholders returns the distinct placeholder keys in templateStr, in order
// of first appearance.
func Placeholders(templateStr string) []string {
	matches := placeholderRegexp.FindAllStringSubmatch(templateStr, -1)

	seen := make(map[string]struct{}, len(matches))
	keys := make([]string, 0, len(matches))

	for _, match := range matches {
		key := match[1]
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	return keys
}
