package refs

import "fmt"

// pathSeparator joins breadcrumb segments in extracted paths.
const pathSeparator = " -> "

// Extract walks a document tree and returns every entity-ID reference
// found, mapped to the breadcrumb path at which it occurs
// (e.g. "trigger[0] -> entity_id"). References found at the document
// root map to "(root)".
func Extract(doc *Node) map[string]string {
	paths := make(map[string]string)
	extractInto(doc, "", paths)
	return paths
}

// ExtractFromAny is a convenience wrapper for callers holding a
// decoded generic tree.
func ExtractFromAny(doc any) map[string]string {
	return Extract(FromAny(doc))
}

func extractInto(n *Node, path string, out map[string]string) {
	switch n.kind {
	case KindString:
		if isPathLike(n.str) {
			return
		}
		for _, match := range entityIDPattern.FindAllString(n.str, -1) {
			if IsEntityReference(match) {
				out[match] = orRoot(path)
			}
		}

	case KindMap:
		// entity_id values are references by definition; capture them
		// directly (the domain and service-call filters still apply).
		if v, ok := n.fields["entity_id"]; ok {
			idPath := joinPath(path, "entity_id")
			switch v.kind {
			case KindString:
				if IsEntityReference(v.str) {
					out[v.str] = idPath
				}
			case KindList:
				for _, item := range v.items {
					if item.kind == KindString && IsEntityReference(item.str) {
						out[item.str] = idPath
					}
				}
			}
		}

		for key, value := range n.fields {
			if key == "entity_id" || skipKeys[key] {
				continue
			}
			extractInto(value, joinPath(path, key), out)
		}

	case KindList:
		for i, item := range n.items {
			// Index markers keep paths meaningful for multi-element
			// lists without being misleadingly precise for singletons.
			elemPath := path
			if len(n.items) > 1 || item.kind == KindMap {
				elemPath = fmt.Sprintf("%s[%d]", path, i)
			}
			extractInto(item, elemPath, out)
		}
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + pathSeparator + key
}

func orRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
