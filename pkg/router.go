package soaprouter

import "net/http"

// DispatchOutcome describes the result of routing a single HTTP
// request, for logging and metrics purposes.
type DispatchOutcome string

const (
	OutcomeDispatched       DispatchOutcome = "dispatched"
	OutcomeFault            DispatchOutcome = "fault"
	OutcomeMalformedInput   DispatchOutcome = "malformed_input"
	OutcomeNoOperationMatch DispatchOutcome = "no_operation_match"
)

// Router dispatches SOAP 1.2 requests to registered operation
// handlers sharing state of type S, folding every matched operation's
// response into a single merged envelope per spec.
//
// Router implements http.Handler directly, in the same fluent-builder
// spirit as the ambient framework's RouterEngine: Router[S] is meant
// to be mounted onto any generic HTTP server, including the one in
// server_impl.go, rather than requiring its own transport.
type Router[S any] struct {
	stateFactory func() S
	logger       Logger
	metrics      MetricsCollector
	audit        AuditStore
	events       EventBroadcaster

	routes map[RouteKey]Handler[S]
}

var _ http.Handler = (*Router[struct{}])(nil)

// NewRouter builds an empty Router. stateFactory is invoked once per
// dispatched operation to produce the state value handed to that
// operation's handler.
func NewRouter[S any](stateFactory func() S) *Router[S] {
	return &Router[S]{
		stateFactory: stateFactory,
		logger:       NewLogger(nil),
		metrics:      NewInMemoryMetricsCollector(),
		audit:        NoopAuditStore{},
		events:       NoopEventBroadcaster{},
		routes:       make(map[RouteKey]Handler[S]),
	}
}

// WithLogger overrides the router's logger and returns the receiver.
func (r *Router[S]) WithLogger(logger Logger) *Router[S] {
	r.logger = logger
	return r
}

// WithMetrics overrides the router's metrics collector and returns
// the receiver.
func (r *Router[S]) WithMetrics(metrics MetricsCollector) *Router[S] {
	r.metrics = metrics
	return r
}

// WithAuditStore overrides the router's audit store and returns the
// receiver.
func (r *Router[S]) WithAuditStore(audit AuditStore) *Router[S] {
	r.audit = audit
	return r
}

// WithEventBroadcaster overrides the router's event broadcaster and
// returns the receiver.
func (r *Router[S]) WithEventBroadcaster(events EventBroadcaster) *Router[S] {
	r.events = events
	return r
}

// AddOperation registers a Handler for the SOAP operation identified
// by a body element in namespaceURI named localName, and returns the
// receiver so registrations can be chained.
func (r *Router[S]) AddOperation(namespaceURI, localName string, handler Handler[S]) *Router[S] {
	r.routes[RouteKey{NamespaceURI: namespaceURI, LocalName: localName}] = handler
	return r
}
