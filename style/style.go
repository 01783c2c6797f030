// Package style computes the styled tree: a DOM tree annotated with
// each element's specified properties, resolved from a stylesheet via
// the cascade. There is no inheritance and no inline "style" attribute
// support — every property an element carries comes from a matching
// rule, or is absent.
package style

import (
	"sort"

	"github.com/lukehoban/minibrowser/css"
	"github.com/lukehoban/minibrowser/dom"
)

// StyledNode is a dom.Node annotated with its specified properties.
// Its shape mirrors the DOM tree exactly, including text nodes, which
// always carry an empty property map.
type StyledNode struct {
	Node       *dom.Node
	Properties map[string]css.Value
	Children   []*StyledNode
}

// Value looks up a property, falling back to def when absent.
func (s *StyledNode) Value(name string, def css.Value) css.Value {
	if v, ok := s.Properties[name]; ok {
		return v
	}
	return def
}

type matchedRule struct {
	specificity css.Specificity
	rule        *css.Rule
}

// StyleTree computes the styled tree for root under stylesheet.
func StyleTree(root *dom.Node, stylesheet *css.Stylesheet) *StyledNode {
	styled := &StyledNode{Node: root, Properties: map[string]css.Value{}}

	if root.Type == dom.ElementNode {
		for _, matched := range matchRules(root, stylesheet) {
			for _, decl := range matched.rule.Declarations {
				styled.Properties[decl.Name] = decl.Value
			}
		}
	}

	for _, child := range root.Children {
		styled.Children = append(styled.Children, StyleTree(child, stylesheet))
	}

	return styled
}

// matchRules returns the rules that match node, ordered ascending by
// specificity (stable on stylesheet order for ties), per the cascade
// algorithm in spec §4.3: within a rule, only the *first* matching
// selector (in the rule's own ascending-specificity order) counts.
func matchRules(node *dom.Node, stylesheet *css.Stylesheet) []matchedRule {
	var matched []matchedRule

	for i := range stylesheet.Rules {
		rule := &stylesheet.Rules[i]
		for _, sel := range rule.Selectors {
			if matchesSimpleSelector(node, sel) {
				matched = append(matched, matchedRule{specificity: sel.Specificity(), rule: rule})
				break
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].specificity.Less(matched[j].specificity)
	})

	return matched
}

// matchesSimpleSelector implements the selector-matching contract of
// spec §4.3: tag, id, and every class must each be satisfied when
// present in the selector.
func matchesSimpleSelector(node *dom.Node, sel css.SimpleSelector) bool {
	if sel.Tag != "" && sel.Tag != node.Data {
		return false
	}
	if sel.ID != "" && sel.ID != node.ID() {
		return false
	}
	for _, class := range sel.Classes {
		if !node.HasClass(class) {
			return false
		}
	}
	return true
}
