package soaprouter

import (
	"context"

	"github.com/beevik/etree"
)

// RouteKey identifies one SOAP operation by the qualified name of the
// body element that invokes it.
type RouteKey struct {
	NamespaceURI string
	LocalName    string
}

// SoapRequest is what a Handler receives for one matched body
// element. Headers is shared, read-only, across every operation
// dispatched from the same HTTP request; Body is this operation's own
// clone, owned exclusively by the goroutine running the handler.
type SoapRequest struct {
	Headers *etree.Element
	Body    *etree.Element
}

// Handler processes one SOAP operation against application state S
// and returns either a response fragment to fold into the merged
// envelope, or a fault to render in its place. Exactly one of the two
// return values is meaningful: a non-nil fault takes precedence.
//
// Because every Handler[S] for a given Router[S] shares this single
// concrete type, a Router can hold heterogeneous operation
// implementations — including ones closing over distinct per-route
// state — in one map without needing a boxed "any handler" type.
type Handler[S any] func(ctx context.Context, req SoapRequest, state S) (SoapMessage, *SoapFault)
