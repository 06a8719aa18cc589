package soaprouter

import (
	"sort"

	"github.com/beevik/etree"
)

// SoapFaultCode is one of the five SOAP 1.2 top-level fault codes.
type SoapFaultCode string

const (
	FaultCodeVersionMismatch     SoapFaultCode = "VersionMismatch"
	FaultCodeMustUnderstand      SoapFaultCode = "MustUnderstand"
	FaultCodeDataEncodingUnknown SoapFaultCode = "DataEncodingUnknown"
	FaultCodeSender              SoapFaultCode = "Sender"
	FaultCodeReceiver            SoapFaultCode = "Receiver"
)

// SubCode is one link of a SoapFault's Subcode chain. NamespaceURI
// must resolve to a prefix at rendering time; LocalName is the
// application-defined detail code within that namespace.
type SubCode struct {
	NamespaceURI string
	LocalName    string
}

// SoapFault is the router's in-memory representation of a SOAP 1.2
// Fault, independent of how it will be serialized. Reason carries at
// least one language; constructing a SoapFault with none is a
// programmer error (see original_source/soap-router/src/fault.rs,
// which enforces the same constraint at construction time).
type SoapFault struct {
	Code     SoapFaultCode
	SubCodes []SubCode
	Reason   map[Language]string
	Detail   *etree.Element
}

// NewSoapFault builds a SoapFault with the given code and reasons. It
// panics with a *ProgrammerError if reason is empty: a fault without
// any human-readable text is always a caller bug, never a condition
// that should be routed around silently.
func NewSoapFault(code SoapFaultCode, reason map[Language]string) *SoapFault {
	if len(reason) == 0 {
		panic(&ProgrammerError{Message: "SoapFault constructed with no Reason text"})
	}
	return &SoapFault{Code: code, Reason: reason}
}

// WithSubCodes appends a chain of Subcodes, outermost (closest to
// Code) first, and returns the receiver for chaining.
func (f *SoapFault) WithSubCodes(subcodes ...SubCode) *SoapFault {
	f.SubCodes = append(f.SubCodes, subcodes...)
	return f
}

// WithDetail attaches an env:Detail payload and returns the receiver.
func (f *SoapFault) WithDetail(detail *etree.Element) *SoapFault {
	f.Detail = detail
	return f
}

// PrefixGenerator hands out sequential short XML namespace prefixes:
// a, b, ..., z, aa, ab, ..., az, ba, ..., zz, aaa, ... It is the Go
// analogue of the reference implementation's prefix allocator in
// original_source/soap-router/src/fault.rs.
type PrefixGenerator struct {
	prev []byte
}

// Next returns the next prefix in the sequence.
func (p *PrefixGenerator) Next() string {
	var carried []byte
	for len(p.prev) > 0 {
		last := p.prev[len(p.prev)-1]
		p.prev = p.prev[:len(p.prev)-1]
		if last == 'z' {
			carried = append(carried, 'a')
			continue
		}
		p.prev = append(p.prev, last+1)
		break
	}
	if len(p.prev) == 0 {
		p.prev = append(p.prev, 'a')
	}
	p.prev = append(p.prev, carried...)
	return string(p.prev)
}

// ToEnvelope renders the fault as a complete SoapMessage: an
// env:Envelope whose env:Body holds a single env:Fault. Subcode
// namespace URIs are allocated fresh prefixes in first-seen order via
// a PrefixGenerator and declared on the envelope root, so the
// resulting document is self-contained.
func (f *SoapFault) ToEnvelope() SoapMessage {
	msg := NewSoapMessage()

	prefixFor := map[string]string{}
	var order []string
	for _, sc := range f.SubCodes {
		if _, seen := prefixFor[sc.NamespaceURI]; !seen {
			prefixFor[sc.NamespaceURI] = ""
			order = append(order, sc.NamespaceURI)
		}
	}
	gen := &PrefixGenerator{}
	for _, uri := range order {
		prefixFor[uri] = gen.Next()
		msg.root.CreateAttr("xmlns:"+prefixFor[uri], uri)
	}

	body := msg.BodyMut()
	faultEl := createQualified(body, "env", "Fault")
	codeEl := createQualified(faultEl, "env", "Code")
	valueEl := createQualified(codeEl, "env", "Value")
	valueEl.SetText("env:" + string(f.Code))

	var inner *etree.Element
	for i := len(f.SubCodes) - 1; i >= 0; i-- {
		sc := f.SubCodes[i]
		subEl := etree.NewElement("env:Subcode")
		subValue := subEl.CreateElement("env:Value")
		subValue.SetText(prefixFor[sc.NamespaceURI] + ":" + sc.LocalName)
		if inner != nil {
			subEl.AddChild(inner)
		}
		inner = subEl
	}
	if inner != nil {
		codeEl.AddChild(inner)
	}

	reasonEl := createQualified(faultEl, "env", "Reason")
	languages := make([]Language, 0, len(f.Reason))
	for l := range f.Reason {
		languages = append(languages, l)
	}
	sort.Slice(languages, func(i, j int) bool { return languages[i] < languages[j] })
	for _, l := range languages {
		textEl := createQualified(reasonEl, "env", "Text")
		textEl.CreateAttr("xml:lang", l.ISO6393())
		textEl.SetText(f.Reason[l])
	}

	if f.Detail != nil {
		detail := createQualified(faultEl, "env", "Detail")
		for _, child := range f.Detail.Child {
			detail.AddChild(copyToken(child))
		}
	}

	return msg
}
