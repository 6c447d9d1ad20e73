package personnel

import "strings"

const SchemaInstanceNamespace = "http://www.w3.org/2001/XMLSchema-instance"

type Attr struct {
	Space string
	Local string
	Value string
}

// Node is an element of a parsed feed document. Tag is the local name with
// the namespace stripped.
type Node struct {
	Space    string
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node
}

func (n *Node) Attr(space, local string) (string, bool) {
	for _, attr := range n.Attrs {
		if attr.Space == space && attr.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}

// RecordType returns the discriminant of a top-level record node with its
// namespace prefix removed, so "d2p1:Сотрудник" yields "Сотрудник".
func (n *Node) RecordType() string {
	value, ok := n.Attr(SchemaInstanceNamespace, "type")
	if !ok {
		return ""
	}
	if idx := strings.LastIndex(value, ":"); idx >= 0 {
		return value[idx+1:]
	}
	return value
}

// Document is an immutable parsed feed. It is shared read-only by the
// parallel parsers.
type Document struct {
	Root *Node
}

func (d *Document) Records() []*Node {
	if d == nil || d.Root == nil {
		return nil
	}
	return d.Root.Children
}
