package lingo

import (
	"context"
	"strings"
)

// leaf is one translatable string found during the walk, addressed by its
// structural path (map keys and slice indices, root first).
type leaf struct {
	path []any
	text string
}

// TranslateObject translates every non-blank string leaf of a nested
// structure of maps, slices, and scalars, preserving its exact shape. All
// leaves go through a single bulk call; results are written back by path, so
// completion order never affects placement. The input is never mutated.
func (e *Engine) TranslateObject(ctx context.Context, tree any) any {
	src, dst := e.SourceLang(), e.TargetLang()
	out := deepCopy(tree)
	if sameLanguage(src, dst) {
		return out
	}

	var leaves []leaf
	collectLeaves(tree, nil, &leaves)
	if len(leaves) == 0 {
		return out
	}

	texts := make([]string, 0, len(leaves))
	seen := make(map[string]struct{}, len(leaves))
	for _, lf := range leaves {
		if _, dup := seen[lf.text]; dup {
			continue
		}
		seen[lf.text] = struct{}{}
		texts = append(texts, lf.text)
	}

	res := e.translateBulk(ctx, texts, src, dst, false)
	for _, lf := range leaves {
		translated, ok := res.Translations[lf.text]
		if !ok {
			continue
		}
		if len(lf.path) == 0 {
			// The tree itself is a string leaf; replace the root.
			out = translated
			continue
		}
		setAtPath(out, lf.path, translated)
	}
	return out
}

// collectLeaves walks the tree depth-first, recording every non-blank string
// leaf with its path. Non-string leaves are ignored.
func collectLeaves(node any, path []any, out *[]leaf) {
	switch v := node.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			*out = append(*out, leaf{path: append([]any(nil), path...), text: v})
		}
	case map[string]any:
		for k, child := range v {
			collectLeaves(child, append(path, k), out)
		}
	case []any:
		for i, child := range v {
			collectLeaves(child, append(path, i), out)
		}
	}
}

// deepCopy clones maps and slices recursively; scalars are shared as-is.
func deepCopy(node any) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = deepCopy(child)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = deepCopy(child)
		}
		return out
	default:
		return node
	}
}

// setAtPath writes a value at a recorded path. The path was derived from the
// same shape, so the assertions cannot fail.
func setAtPath(node any, path []any, value string) {
	for i, step := range path {
		last := i == len(path)-1
		switch s := step.(type) {
		case string:
			m := node.(map[string]any)
			if last {
				m[s] = value
			} else {
				node = m[s]
			}
		case int:
			sl := node.([]any)
			if last {
				sl[s] = value
			} else {
				node = sl[s]
			}
		}
	}
}
