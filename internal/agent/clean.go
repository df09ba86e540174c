package agent

import (
	"regexp"
	"strings"
)

// Backends sometimes wrap otherwise-valid markup output in a markdown code
// fence. fencedBlock matches a whole response that is one fenced block with an
// optional language tag after the opening fence.
var fencedBlock = regexp.MustCompile("(?is)^```[ \t]*[a-z0-9]*[ \t]*\n(.*?)\n```$")

// CleanFences strips wrapping code fences from generated output and returns
// the interior. Input that is not fence-wrapped comes back trimmed but
// otherwise unchanged. Stripping runs to a fixed point, so repeated
// application always returns the same text.
func CleanFences(raw string) string {
	out := strings.TrimSpace(raw)
	for {
		next := stripFence(out)
		if next == out {
			return out
		}
		out = next
	}
}

// stripFence removes at most one layer of fence wrapping. Each pass returns
// either its input or a strictly shorter trimmed string, so the fixed-point
// loop above terminates.
func stripFence(trimmed string) string {
	if m := fencedBlock.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	if strings.HasPrefix(trimmed, "```") && strings.HasSuffix(trimmed, "```") {
		inner := strings.TrimSpace(strings.Trim(trimmed, "`"))
		if inner == "" {
			// Nothing but fence markers; stripping further would erase
			// the content entirely.
			return trimmed
		}
		return inner
	}
	return trimmed
}
