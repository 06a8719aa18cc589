package soaprouter

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func parseElement(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return doc.Root()
}

func serialize(t *testing.T, el *etree.Element) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	out, err := doc.WriteToBytes()
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	return string(out)
}

func TestMergeAppendsNonMatchingSiblings(t *testing.T) {
	acc := parseElement(t, `<Body><Quote/></Body>`)
	src := parseElement(t, `<Body><Order/></Body>`)

	merged := MergeInto(acc, src)

	children := merged.ChildElements()
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	if children[0].Tag != "Quote" || children[1].Tag != "Order" {
		t.Fatalf("unexpected children order: %v", children)
	}
}

func TestMergeFoldsMatchingElementsWithIdenticalAttrs(t *testing.T) {
	acc := parseElement(t, `<Body><Quote id="1"><Price>10</Price></Quote></Body>`)
	src := parseElement(t, `<Body><Quote id="1"><Symbol>ACME</Symbol></Quote></Body>`)

	merged := MergeInto(acc, src)

	children := merged.ChildElements()
	if len(children) != 1 {
		t.Fatalf("expected the two Quote elements to fold into one, got %d", len(children))
	}
	quote := children[0]
	if len(quote.ChildElements()) != 2 {
		t.Fatalf("expected folded Quote to carry both grandchildren, got %d", len(quote.ChildElements()))
	}
}

func TestMergeDoesNotFoldWhenAttrsDiffer(t *testing.T) {
	acc := parseElement(t, `<Body><Quote id="1"/></Body>`)
	src := parseElement(t, `<Body><Quote id="2"/></Body>`)

	merged := MergeInto(acc, src)

	if len(merged.ChildElements()) != 2 {
		t.Fatalf("expected Quote elements with differing attrs to stay separate")
	}
}

func TestMergeMatchesByNamespaceNotPrefix(t *testing.T) {
	acc := parseElement(t, `<Body xmlns:a="urn:x"><a:Quote/></Body>`)
	src := parseElement(t, `<Body xmlns:b="urn:x"><b:Quote/></Body>`)

	merged := MergeInto(acc, src)

	if len(merged.ChildElements()) != 1 {
		t.Fatalf("expected elements sharing a namespace URI under different prefixes to fold, got %d", len(merged.ChildElements()))
	}
}

func TestMergeCopiesNonElementTokensVerbatim(t *testing.T) {
	acc := parseElement(t, `<Body><!--keep--></Body>`)
	src := parseElement(t, `<Body>some text<Order/></Body>`)

	merged := MergeInto(acc, src)

	out := serialize(t, merged)
	for _, needle := range []string{"<!--keep-->", "some text", "<Order"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("expected %q preserved in output, got: %s", needle, out)
		}
	}
}
