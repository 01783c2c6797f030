// Package dom provides the Document Object Model tree structure.
// It represents the parsed HTML document as a tree of nodes.
package dom

// NodeType represents the variant of a Node: Text or Element.
// There is no separate document wrapper node — the parser's root node
// is itself a Text or Element node.
type NodeType int

const (
	// ElementNode represents an HTML element (e.g., <div>, <p>).
	ElementNode NodeType = iota
	// TextNode represents a literal run of text content.
	TextNode
)

// Node is a sum of two variants: Text, carrying a literal string value,
// and Element, carrying a tag name, an attribute map, and ordered
// children. A Node exclusively owns its Children; text nodes never
// have any.
type Node struct {
	Type       NodeType
	Data       string // tag name for elements, text content for text nodes
	Attributes map[string]string
	Children   []*Node
}

// NewElement creates a new element node with the given tag name.
func NewElement(tagName string) *Node {
	return &Node{
		Type:       ElementNode,
		Data:       tagName,
		Attributes: make(map[string]string),
	}
}

// NewText creates a new text node with the given literal content.
func NewText(text string) *Node {
	return &Node{
		Type: TextNode,
		Data: text,
	}
}

// AppendChild adds a child node to this node.
func (n *Node) AppendChild(child *Node) {
	n.Children = append(n.Children, child)
}

// GetAttribute returns the value of an attribute, or "" if not present.
func (n *Node) GetAttribute(name string) string {
	if n.Attributes == nil {
		return ""
	}
	return n.Attributes[name]
}

// SetAttribute sets an attribute on this node. Attribute keys are
// unique per element, enforced by map semantics.
func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
}

// ID returns the element's id attribute, or "" if absent.
func (n *Node) ID() string {
	return n.GetAttribute("id")
}

// Classes returns the element's class attribute split on single
// spaces, with empty tokens ignored.
func (n *Node) Classes() []string {
	class := n.GetAttribute("class")
	if class == "" {
		return nil
	}
	var classes []string
	start := 0
	for i := 0; i <= len(class); i++ {
		if i == len(class) || class[i] == ' ' {
			if i > start {
				classes = append(classes, class[start:i])
			}
			start = i + 1
		}
	}
	return classes
}

// HasClass reports whether name is present in the element's class set.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes() {
		if c == name {
			return true
		}
	}
	return false
}
