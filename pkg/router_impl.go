package soaprouter

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/beevik/etree"
)

// ServeHTTP parses the request body as a SOAP 1.2 envelope, dispatches
// each recognized operation in its body to its registered Handler
// concurrently, and writes back a single envelope merging every
// operation's response in body order.
func (r *Router[S]) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			if pe, ok := rec.(*ProgrammerError); ok {
				r.logger.Error("programmer error aborted request", "error", pe.Error())
				http.Error(w, "internal error", http.StatusInternalServerError)
				panic(rec)
			}
			err := NewInternalError(fmt.Errorf("%v", rec))
			r.logger.Error("panic in SOAP dispatch", "code", err.Code, "recovered", rec)
			http.Error(w, err.Message, err.StatusCode)
		}
	}()

	data, err := io.ReadAll(req.Body)
	if err != nil {
		r.respondMalformed(w, NewMalformedXMLError(err))
		return
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		r.respondMalformed(w, NewMalformedXMLError(err))
		return
	}

	root := doc.Root()
	if root == nil || root.Tag != "Envelope" || namespaceURI(root) != EnvNS {
		r.respondMalformed(w, NewNotSoapEnvelopeError())
		return
	}

	body := qualifiedChild(root, "Body", EnvNS)
	if body == nil {
		r.respondMalformed(w, NewMissingBodyError())
		return
	}

	header := qualifiedChild(root, "Header", EnvNS)
	if header == nil {
		header = etree.NewElement("env:Header")
		header.CreateAttr("xmlns:env", EnvNS)
	}
	headerSnapshot := header.Copy()

	matched := r.matchOperations(body)
	if len(matched) == 0 {
		r.logger.Warn("no operation matched request body")
		fault := NewSoapFault(FaultCodeSender, map[Language]string{
			LanguageEnglish: "no registered operation matched any element of the request body",
		})
		r.writeEnvelope(w, fault.ToEnvelope(), OutcomeNoOperationMatch)
		return
	}

	results := make([]*etree.Element, len(matched))
	faulted := make([]bool, len(matched))
	programmerErrs := make([]*ProgrammerError, len(matched))
	var wg sync.WaitGroup
	for i, m := range matched {
		wg.Add(1)
		go func(i int, m matchedOperation) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					if pe, ok := rec.(*ProgrammerError); ok {
						programmerErrs[i] = pe
						return
					}
					r.logger.Error("panic in operation handler", "operation", m.key, "recovered", rec)
					fault := NewSoapFault(FaultCodeReceiver, map[Language]string{
						LanguageEnglish: "operation handler failed unexpectedly",
					})
					results[i] = fault.ToEnvelope().Root()
					faulted[i] = true
				}
			}()

			start := time.Now()
			soapReq := SoapRequest{Headers: headerSnapshot, Body: m.body}
			state := r.stateFactory()
			respMsg, fault := m.handler(req.Context(), soapReq, state)

			sample := DispatchSample{
				NamespaceURI: m.key.NamespaceURI,
				LocalName:    m.key.LocalName,
				Duration:     time.Since(start),
				Timestamp:    start,
			}
			if fault != nil {
				sample.Faulted = true
				sample.FaultCode = string(fault.Code)
				results[i] = fault.ToEnvelope().Root()
				faulted[i] = true
			} else {
				results[i] = respMsg.Root()
			}
			r.metrics.RecordDispatch(sample)
			if err := r.audit.Record(sample); err != nil {
				r.logger.Error("audit record failed", "error", err)
			}
			r.events.Broadcast(sample)
		}(i, m)
	}
	wg.Wait()

	// A ProgrammerError raised inside an operation handler aborts the
	// whole request through the recover at the top of this method.
	for _, pe := range programmerErrs {
		if pe != nil {
			panic(pe)
		}
	}

	if req.Context().Err() != nil {
		return
	}

	// Per spec §4.5 step 8, the first response envelope seeds the
	// accumulator; every subsequent envelope is merged into it one
	// level at a time (Header/Body matched as Envelope children, so
	// each Body's own children are folded in as siblings, not
	// recursively matched against each other).
	var accumulator *etree.Element
	anyFaulted := false
	for i, envelopeRoot := range results {
		if envelopeRoot == nil {
			continue
		}
		if faulted[i] {
			anyFaulted = true
		}
		if accumulator == nil {
			accumulator = envelopeRoot
			continue
		}
		MergeInto(accumulator, envelopeRoot)
	}
	if accumulator == nil {
		return
	}

	outcome := OutcomeDispatched
	if anyFaulted {
		outcome = OutcomeFault
	}
	r.writeEnvelope(w, SoapMessageFromElement(accumulator), outcome)
}

type matchedOperation struct {
	key     RouteKey
	handler Handler[S]
	body    *etree.Element
}

// matchOperations walks body's direct element children in document
// order and returns those matching a registered route, each paired
// with its own clone for exclusive use by the dispatching goroutine.
// Unrecognized children are silently skipped.
func (r *Router[S]) matchOperations(body *etree.Element) []matchedOperation {
	var matched []matchedOperation
	for _, child := range body.ChildElements() {
		key := RouteKey{NamespaceURI: namespaceURI(child), LocalName: child.Tag}
		handler, ok := r.routes[key]
		if !ok {
			continue
		}
		matched = append(matched, matchedOperation{key: key, handler: handler, body: child.Copy()})
	}
	return matched
}

func (r *Router[S]) respondMalformed(w http.ResponseWriter, err *RouterError) {
	r.logger.Warn("rejecting malformed request", "code", err.Code, "message", err.Message, "outcome", string(OutcomeMalformedInput))
	w.WriteHeader(err.StatusCode)
}

func (r *Router[S]) writeEnvelope(w http.ResponseWriter, msg SoapMessage, outcome DispatchOutcome) {
	out, err := serializeMessage(msg)
	if err != nil {
		internalErr := NewInternalError(err)
		r.logger.Error("failed to serialize response envelope", "code", internalErr.Code, "error", err)
		http.Error(w, internalErr.Message, internalErr.StatusCode)
		return
	}
	w.Header().Set("Content-Type", "application/soap+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
	r.logger.Info("dispatch complete", "outcome", string(outcome))
}

func serializeMessage(msg SoapMessage) ([]byte, error) {
	doc := etree.NewDocument()
	doc.SetRoot(msg.Root())
	return doc.WriteToBytes()
}
