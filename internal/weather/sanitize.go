package weather

// The NMC feed marks missing readings with the placeholder 9999 (sometimes as a
// string) and ships a few fields we never want to keep or archive, such as
// image URLs. Sanitize walks the decoded JSON tree and removes all of it.

var invalidKeys = map[string]struct{}{
	"url":   {},
	"radar": {},
}

// Sanitize returns a copy of the decoded JSON tree with placeholder scalars and
// blacklisted keys removed at every depth. Containers that end up empty are
// pruned from their parent. Sanitizing an already-sanitized tree returns an
// equal tree.
func Sanitize(node any) any {
	switch v := node.(type) {
	case map[string]any:
		result := make(map[string]any)
		for k, child := range v {
			if _, bad := invalidKeys[k]; bad {
				continue
			}
			if isInvalidScalar(child) {
				continue
			}
			cleaned := Sanitize(child)
			if isEmpty(cleaned) {
				continue
			}
			result[k] = cleaned
		}
		return result
	case []any:
		result := make([]any, 0, len(v))
		for _, item := range v {
			if isInvalidScalar(item) {
				continue
			}
			cleaned := Sanitize(item)
			if isEmpty(cleaned) {
				continue
			}
			result = append(result, cleaned)
		}
		return result
	default:
		return node
	}
}

// isInvalidScalar reports whether v is the upstream "no reading" placeholder.
// The check is type-first so that other kinds (notably booleans) can never
// compare equal to the numeric placeholder.
func isInvalidScalar(v any) bool {
	switch n := v.(type) {
	case float64:
		return n == 9999
	case int:
		return n == 9999
	case int64:
		return n == 9999
	case string:
		return n == "9999"
	default:
		return false
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

// ReduceSections keeps only the named top-level sections of a sanitized
// payload, e.g. "real" (current conditions) and "air" (air quality).
func ReduceSections(data map[string]any, sections ...string) map[string]any {
	result := make(map[string]any)
	for _, key := range sections {
		if v, ok := data[key]; ok {
			result[key] = v
		}
	}
	return result
}
