package policy

// Merge deep-merges an override document onto a base document and returns
// a new document. Neither input is mutated.
//
// Merge rules, applied recursively per key:
//   - a key present in both whose values are both maps is merged recursively
//   - any other key present in the override replaces the base value
//     entirely (lists are replaced wholesale, never concatenated)
//   - keys present only in the base are retained
//   - keys present only in the override are added
//
// Merge is total: it performs no validation and succeeds on any input
// shape, including structurally invalid override documents. Validation is
// a separate, later step.
func Merge(base, override Document) Document {
	return Document(mergeMaps(map[string]any(base), map[string]any(override)))
}

// mergeMaps merges override onto base, copying both so the result shares
// no mutable state with either input.
func mergeMaps(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = copyValue(v)
	}
	for k, v := range override {
		bv, inBase := out[k]
		bm, baseIsMap := bv.(map[string]any)
		om, overrideIsMap := v.(map[string]any)
		if inBase && baseIsMap && overrideIsMap {
			out[k] = mergeMaps(bm, om)
			continue
		}
		out[k] = copyValue(v)
	}
	return out
}

// copyValue deep-copies maps and slices; scalars are returned as-is.
func copyValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = copyValue(e)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
