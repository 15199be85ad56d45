package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. Request bodies are small JSON documents
// (ciphertext handles and oracle callbacks), so the read and write budgets
// are tight; the idle timeout keeps registrar keep-alive connections open
// between the request and callback legs of a verification round trip.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
