package refs

import "strings"

// templateOpen and templateClose delimit template expressions. An
// entity ID embedded in an ordinary string is rewritten only when the
// string carries these markers; plain prose that happens to contain
// the ID is left alone.
const (
	templateOpen  = "{{"
	templateClose = "}}"
)

// Replace walks a document tree with the same traversal rules as
// Extract and rewrites references to oldID in place: exact matches
// under entity_id keys (string values and list elements) and
// occurrences inside template-expression strings. It reports whether
// anything changed.
func Replace(doc *Node, oldID, newID string) bool {
	changed := false

	switch doc.kind {
	case KindMap:
		for key, value := range doc.fields {
			if key == "entity_id" {
				if replaceEntityID(value, oldID, newID) {
					changed = true
				}
				continue
			}
			if skipKeys[key] {
				continue
			}
			switch value.kind {
			case KindMap, KindList:
				if Replace(value, oldID, newID) {
					changed = true
				}
			case KindString:
				if replaceInTemplate(value, oldID, newID) {
					changed = true
				}
			}
		}

	case KindList:
		for _, item := range doc.items {
			if Replace(item, oldID, newID) {
				changed = true
			}
		}
	}

	return changed
}

// replaceEntityID rewrites exact matches under an entity_id key.
func replaceEntityID(value *Node, oldID, newID string) bool {
	changed := false
	switch value.kind {
	case KindString:
		if value.str == oldID {
			value.str = newID
			changed = true
		}
	case KindList:
		for _, item := range value.items {
			if item.kind == KindString && item.str == oldID {
				item.str = newID
				changed = true
			}
		}
	}
	return changed
}

// replaceInTemplate rewrites oldID inside a string only when the
// string contains template delimiters.
func replaceInTemplate(value *Node, oldID, newID string) bool {
	if !strings.Contains(value.str, oldID) {
		return false
	}
	if !strings.Contains(value.str, templateOpen) || !strings.Contains(value.str, templateClose) {
		return false
	}
	value.str = strings.ReplaceAll(value.str, oldID, newID)
	return true
}
