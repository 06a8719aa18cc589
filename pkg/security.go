package soaprouter

import (
	"crypto/subtle"
	"net/http"
)

// BasicAuthGuard wraps an http.Handler with HTTP Basic Auth, checked
// against a bcrypt/Argon2id hash rather than a plaintext credential.
// It is meant for the router's observability surface (metrics export,
// the event stream) rather than the SOAP dispatch endpoint itself,
// which authenticates at the message level if at all.
type BasicAuthGuard struct {
	username     string
	passwordHash string
	hasher       PasswordHasher
	next         http.Handler
	realm        string
}

// NewBasicAuthGuard wraps next so that requests must present HTTP
// Basic credentials matching username and the given password hash.
func NewBasicAuthGuard(username, passwordHash string, hasher PasswordHasher, realm string, next http.Handler) *BasicAuthGuard {
	if realm == "" {
		realm = "soaprouter"
	}
	return &BasicAuthGuard{username: username, passwordHash: passwordHash, hasher: hasher, next: next, realm: realm}
}

func (g *BasicAuthGuard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, pass, ok := r.BasicAuth()
	if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(g.username)) != 1 {
		g.deny(w)
		return
	}

	valid, err := g.hasher.Verify(pass, g.passwordHash)
	if err != nil || !valid {
		g.deny(w)
		return
	}

	g.next.ServeHTTP(w, r)
}

func (g *BasicAuthGuard) deny(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+g.realm+`"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
