// Package http provides buffered wire types and an instrumented
// transport for registry traffic.
package http

import (
	"crypto/tls"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/singularityhub/layerfetch/pkg/stats"
)

// Response represents a buffered response received from a server.
type Response struct {
	Code    int
	Reason  string
	Headers http.Header
	Body    []byte
}

// Header returns the first value of the named response header.
func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}

// ReadResponse drains and closes the body of resp, returning a
// buffered Response.
func ReadResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Code:    resp.StatusCode,
		Reason:  strings.TrimPrefix(resp.Status, fmt.Sprintf("%v ", resp.StatusCode)),
		Headers: resp.Header,
		Body:    body,
	}, nil
}

// Transport wraps an http.RoundTripper with timing, logging and an
// optional insecure TLS mode. Insecure mode disables certificate
// verification and warns on every round trip.
type Transport struct {
	rt       http.RoundTripper
	insecure bool
	obs      *stats.Observations
	logger   zerolog.Logger
}

// NewTransport creates a transport for registry traffic. The
// observations recorder may be nil.
func NewTransport(insecure bool, obs *stats.Observations, logger zerolog.Logger) *Transport {
	var rt http.RoundTripper = http.DefaultTransport

	if insecure {
		base := http.DefaultTransport.(*http.Transport).Clone()
		if base.TLSClientConfig == nil {
			base.TLSClientConfig = &tls.Config{}
		}
		base.TLSClientConfig.InsecureSkipVerify = true
		rt = base
	}

	return &Transport{
		rt:       rt,
		insecure: insecure,
		obs:      obs,
		logger:   logger,
	}
}

// RoundTrip makes the given request and records the outcome.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.insecure {
		t.logger.Warn().Msg("certificate verification disabled! ::testing use only::")
	}

	started := time.Now()
	resp, err := t.rt.RoundTrip(req)

	trip := stats.RoundTrip{
		Method:  req.Method,
		URL:     req.URL.String(),
		Elapsed: time.Since(started),
	}
	if err != nil {
		trip.Error = err.Error()
	} else {
		trip.Code = resp.StatusCode
		trip.Bytes = resp.ContentLength
	}

	if t.obs != nil {
		t.obs.Record(trip)
	}

	t.logger.Debug().
		Str("method", trip.Method).
		Str("url", trip.URL).
		Int("code", trip.Code).
		Dur("elapsed", trip.Elapsed).
		Msg("round trip")

	return resp, err
}
