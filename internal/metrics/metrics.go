// Package metrics records HTTP, contact form and database measurements.
// Callers depend on Recorder; Prometheus backs it in the server and Nop in
// tests and when metrics are disabled.
package metrics

import (
	"net/http"
	"time"
)

type Recorder interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	ConnectionOpened()
	ConnectionClosed()
	ContactSubmitted(subject string, success bool)
	ObserveQuery(operation, table string, duration time.Duration, err error)
	Handler() http.Handler
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) ObserveHTTPRequest(string, string, int, time.Duration) {}
func (Nop) ConnectionOpened()                                       {}
func (Nop) ConnectionClosed()                                       {}
func (Nop) ContactSubmitted(string, bool)                           {}
func (Nop) ObserveQuery(string, string, time.Duration, error)       {}

func (Nop) Handler() http.Handler {
	return http.NotFoundHandler()
}
