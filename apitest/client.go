package apitest

import (
	"time"

	"roomrental/transport"
)

// Client returns a transport client for s that reads bearer tokens from tokens.
// Rate limiting and the circuit breaker are off.
func (s *Server) Client(tokens transport.TokenSource) *transport.Client {
	c, err := transport.New(tokens, transport.Options{
		BaseURL:        s.URL,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	})
	if err != nil {
		panic("apitest: " + err.Error())
	}
	return c
}
