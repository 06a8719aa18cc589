package soaprouter

import "github.com/beevik/etree"

// MergeInto folds the children of source into accumulator in place
// and returns accumulator. For each direct child of source:
//
//   - a non-element token (text, comment, processing instruction,
//     directive) is copied and appended to accumulator verbatim;
//   - an element child is matched against the first of accumulator's
//     existing direct element children with the same qualified name
//     (local name plus resolved namespace URI). If no match exists,
//     the element (and its whole subtree) is copied in as a new
//     sibling. If the match's attribute set is identical to the
//     incoming element's, the incoming element's direct children are
//     appended into the match — the fold is one level deep, not
//     recursive. If the attribute sets differ, the incoming element is
//     appended as a new sibling instead; later same-named siblings are
//     not consulted.
//
// accumulator is mutated and also returned so calls can be chained:
// merged := MergeInto(results[0], results[1]).
func MergeInto(accumulator, source *etree.Element) *etree.Element {
	for _, token := range source.Child {
		el, ok := token.(*etree.Element)
		if !ok {
			accumulator.AddChild(copyToken(token))
			continue
		}

		match := findQualifiedMatch(accumulator, el)
		switch {
		case match == nil:
			accumulator.AddChild(el.Copy())
		case attrsEqual(match.Attr, el.Attr):
			for _, grandchild := range el.Child {
				match.AddChild(copyToken(grandchild))
			}
		default:
			accumulator.AddChild(el.Copy())
		}
	}
	return accumulator
}

func findQualifiedMatch(accumulator, el *etree.Element) *etree.Element {
	ns := namespaceURI(el)
	for _, child := range accumulator.ChildElements() {
		if child.Tag == el.Tag && namespaceURI(child) == ns {
			return child
		}
	}
	return nil
}

// attrsEqual reports whether two attribute sets are equal, ignoring
// order (SOAP attribute order carries no meaning).
func attrsEqual(a, b []etree.Attr) bool {
	if len(a) != len(b) {
		return false
	}
	index := make(map[string]string, len(a))
	for _, attr := range a {
		index[attr.Space+":"+attr.Key] = attr.Value
	}
	for _, attr := range b {
		v, ok := index[attr.Space+":"+attr.Key]
		if !ok || v != attr.Value {
			return false
		}
	}
	return true
}

// copyToken deep-copies a single XML token, detached from any
// previous parent, for insertion under a new parent.
func copyToken(token etree.Token) etree.Token {
	switch t := token.(type) {
	case *etree.Element:
		return t.Copy()
	case *etree.CharData:
		return etree.NewCharData(t.Data)
	case *etree.Comment:
		return etree.NewComment(t.Data)
	case *etree.ProcInst:
		return etree.NewProcInst(t.Target, t.Inst)
	case *etree.Directive:
		return etree.NewDirective(t.Data)
	default:
		return token
	}
}
