package soaprouter

import "github.com/beevik/etree"

// EnvNS is the SOAP 1.2 envelope namespace.
const EnvNS = "http://www.w3.org/2003/05/soap-envelope"

// XMLNS is the reserved XML namespace bound to the "xml" prefix.
const XMLNS = "http://www.w3.org/XML/1998/namespace"

// SoapMessage is a thin semantic wrapper around an etree element tree
// representing a SOAP 1.2 envelope. It guarantees access paths to
// Body and Header without callers needing to know inbound prefixes,
// which are cosmetic and vary across senders.
type SoapMessage struct {
	root *etree.Element
}

// NewSoapMessage builds an envelope with an env:Envelope root in
// EnvNS, the env/xml namespace declarations, and a single empty
// env:Body child. Per the reference implementation's documented bugs
// (see original_source/soap-router/src/router.rs), the root and
// synthesized header use the SOAP-1.2-conformant local names
// "Envelope"/"Header", not the "Enveloppe"/"Headers" typos.
func NewSoapMessage() SoapMessage {
	root := etree.NewElement("env:Envelope")
	root.CreateAttr("xmlns:env", EnvNS)
	root.CreateAttr("xmlns:xml", XMLNS)
	root.CreateElement("env:Body")
	return SoapMessage{root: root}
}

// SoapMessageFromElement wraps an already-parsed envelope element.
// Callers are responsible for having validated its shape (see
// Router's dispatch validation in router_impl.go); this constructor
// does no checking of its own.
func SoapMessageFromElement(root *etree.Element) SoapMessage {
	return SoapMessage{root: root}
}

// Root returns the underlying env:Envelope element.
func (m SoapMessage) Root() *etree.Element { return m.root }

// Body returns the envelope's env:Body child. A SoapMessage without a
// Body violates the type's invariant; such a message can only arise
// from a bug in this package, so this panics rather than returning an
// error.
func (m SoapMessage) Body() *etree.Element {
	body := qualifiedChild(m.root, "Body", EnvNS)
	if body == nil {
		panic(&ProgrammerError{Message: "SoapMessage has no env:Body child"})
	}
	return body
}

// BodyMut is an alias for Body kept for symmetry with HeadersMut; the
// element it returns is always mutable since etree has no const view.
func (m SoapMessage) BodyMut() *etree.Element { return m.Body() }

// Headers returns the envelope's env:Header child, if present.
func (m SoapMessage) Headers() (*etree.Element, bool) {
	h := qualifiedChild(m.root, "Header", EnvNS)
	return h, h != nil
}

// HeadersMut returns the envelope's env:Header child, inserting a
// fresh empty one as the envelope's first child if none exists.
// Calling it twice in a row returns the same element both times.
func (m SoapMessage) HeadersMut() *etree.Element {
	if h, ok := m.Headers(); ok {
		return h
	}
	header := etree.NewElement("env:Header")
	insertFirstChild(m.root, header)
	return header
}

// qualifiedChild returns the first direct child element of parent
// whose local (tag) name and resolved namespace URI match local/ns.
// etree itself has no concept of namespace URIs — only prefixes — so
// this resolves each candidate's effective namespace by walking its
// ancestor xmlns declarations.
func qualifiedChild(parent *etree.Element, local, ns string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == local && namespaceURI(child) == ns {
			return child
		}
	}
	return nil
}

// namespaceURI resolves the namespace URI bound to el's prefix by
// walking up through el and its ancestors looking for the matching
// xmlns (or xmlns:prefix) declaration. Returns "" if unbound.
func namespaceURI(el *etree.Element) string {
	prefix := el.Space
	for e := el; e != nil; e = e.Parent() {
		for _, attr := range e.Attr {
			if prefix == "" && attr.Space == "" && attr.Key == "xmlns" {
				return attr.Value
			}
			if prefix != "" && attr.Space == "xmlns" && attr.Key == prefix {
				return attr.Value
			}
		}
	}
	return ""
}

// createQualified creates a new child element under parent using the
// given prefix and local name (prefix may be empty).
func createQualified(parent *etree.Element, prefix, local string) *etree.Element {
	if prefix == "" {
		return parent.CreateElement(local)
	}
	return parent.CreateElement(prefix + ":" + local)
}

// insertFirstChild inserts child as the first child token of parent,
// preserving etree's parent-pointer bookkeeping by appending through
// AddChild and then rotating the slice.
func insertFirstChild(parent *etree.Element, child *etree.Element) {
	parent.AddChild(child)
	n := len(parent.Child)
	if n <= 1 {
		return
	}
	last := parent.Child[n-1]
	copy(parent.Child[1:], parent.Child[:n-1])
	parent.Child[0] = last
}
