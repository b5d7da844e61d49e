package refs

// Kind identifies the shape of a document tree node.
type Kind int

// Node shapes. Anything that is not a map, list or string is carried
// as KindOther and passed through untouched.
const (
	KindOther Kind = iota
	KindString
	KindMap
	KindList
)

// Node is one node of a decoded configuration document. It is a tagged
// union over the shapes the traversal rules distinguish. Build one
// with FromAny and convert back with ToAny after mutation.
type Node struct {
	kind   Kind
	str    string
	other  any
	fields map[string]*Node
	items  []*Node
}

// FromAny converts a decoded generic tree (map[string]any, []any,
// string, scalar) into a Node tree. Nil input yields a KindOther node
// holding nil.
func FromAny(v any) *Node {
	switch val := v.(type) {
	case string:
		return &Node{kind: KindString, str: val}
	case map[string]any:
		fields := make(map[string]*Node, len(val))
		for k, fv := range val {
			fields[k] = FromAny(fv)
		}
		return &Node{kind: KindMap, fields: fields}
	case []any:
		items := make([]*Node, len(val))
		for i, iv := range val {
			items[i] = FromAny(iv)
		}
		return &Node{kind: KindList, items: items}
	default:
		return &Node{kind: KindOther, other: val}
	}
}

// ToAny converts a Node tree back into the generic form accepted by
// the document store peers.
func (n *Node) ToAny() any {
	switch n.kind {
	case KindString:
		return n.str
	case KindMap:
		m := make(map[string]any, len(n.fields))
		for k, fv := range n.fields {
			m[k] = fv.ToAny()
		}
		return m
	case KindList:
		l := make([]any, len(n.items))
		for i, iv := range n.items {
			l[i] = iv.ToAny()
		}
		return l
	default:
		return n.other
	}
}

// Kind returns the node's shape tag.
func (n *Node) Kind() Kind {
	return n.kind
}
