package soaprouter

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func TestNewSoapMessageHasEmptyBody(t *testing.T) {
	msg := NewSoapMessage()
	body := msg.Body()
	if body.Tag != "Body" {
		t.Fatalf("expected Body tag, got %s", body.Tag)
	}
	if namespaceURI(body) != EnvNS {
		t.Fatalf("expected Body in %s, got %s", EnvNS, namespaceURI(body))
	}
	if len(body.ChildElements()) != 0 {
		t.Fatalf("expected empty body, got %d children", len(body.ChildElements()))
	}
}

func TestBodyPanicsWithoutInvariant(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for envelope without env:Body")
		}
		if _, ok := r.(*ProgrammerError); !ok {
			t.Fatalf("expected *ProgrammerError, got %T", r)
		}
	}()
	root := etree.NewElement("env:Envelope")
	root.CreateAttr("xmlns:env", EnvNS)
	msg := SoapMessageFromElement(root)
	msg.Body()
}

func TestHeadersMutSynthesizesAsFirstChild(t *testing.T) {
	msg := NewSoapMessage()
	if _, ok := msg.Headers(); ok {
		t.Fatal("fresh envelope should have no Header")
	}

	h1 := msg.HeadersMut()
	h1.CreateElement("marker")

	if first, ok := msg.root.Child[0].(*etree.Element); !ok || first != h1 {
		t.Fatal("expected synthesized Header to be the envelope's first child")
	}

	h2 := msg.HeadersMut()
	if h2 != h1 {
		t.Fatal("expected second HeadersMut call to return the same element")
	}
	if len(h2.ChildElements()) != 1 {
		t.Fatal("expected the marker element inserted via h1 to survive")
	}
}

func TestNamespaceURIResolvesThroughAncestors(t *testing.T) {
	doc := etree.NewDocument()
	err := doc.ReadFromString(`<root xmlns:a="urn:a"><a:child/></root>`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	child := doc.Root().ChildElements()[0]
	if namespaceURI(child) != "urn:a" {
		t.Fatalf("expected urn:a, got %q", namespaceURI(child))
	}
}

func TestNewSoapMessageSerializesWithDeclaredNamespaces(t *testing.T) {
	msg := NewSoapMessage()
	doc := etree.NewDocument()
	doc.SetRoot(msg.root.Copy())
	out, err := doc.WriteToBytes()
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "env:Envelope") || !strings.Contains(s, EnvNS) {
		t.Fatalf("expected serialized envelope to carry env namespace, got: %s", s)
	}
}
