// Package restapi exposes a read-only and call-through admin surface over a
// dispatch.Table: list registered opcodes, inspect one descriptor's shape,
// and invoke an operation's pipeline through HTTP. It is deliberately kept
// separate from dispatch itself — the core stays free of gin, Okta, and
// swaggo so a caller embedding only the dispatch pipeline never pulls in an
// HTTP stack.
package restapi

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// HTTPVerb enumerates the verbs a RestMethod can be registered under.
type HTTPVerb int

const (
	Unknown HTTPVerb = iota
	GET
	GetOne
	Delete
	Post
	Put
	Patch
)

// RestMethod binds one HTTP verb+path to a gin handler.
type RestMethod struct {
	Verb    HTTPVerb
	Path    string
	Handler func(c *gin.Context)
}

var restMethods = make(map[string]RestMethod)

// RegisterMethod is a helper for Register that builds the RestMethod inline.
func RegisterMethod(verb HTTPVerb, path string, h func(c *gin.Context)) error {
	return Register(RestMethod{Verb: verb, Path: path, Handler: h})
}

// Register adds m to the set of methods Run will mount. Registering the
// same verb+path twice is an error — each server process is expected to
// register its method set once, at startup.
func Register(m RestMethod) error {
	key := fmt.Sprintf("%d_%s", m.Verb, m.Path)
	if _, exists := restMethods[key]; exists {
		return fmt.Errorf("dispatch/restapi: %s is already registered", key)
	}
	restMethods[key] = m
	return nil
}

// RestMethods returns every method registered so far.
func RestMethods() map[string]RestMethod {
	return restMethods
}
