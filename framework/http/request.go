package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/km-arc/go-beans/framework/routing"
)

const maxBody = 1 << 20 // 1 MB

// Request wraps *http.Request with small input helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// ── Binding ──────────────────────────────────────────────────────────────────

// ErrEmptyBody is returned by Bind when the request has no body.
var ErrEmptyBody = errors.New("empty request body")

// Bind decodes a JSON request body into v. Numbers are kept as json.Number
// so callers can decide between integer and float arguments.
func (req *Request) Bind(v any) error {
	if ct := req.ContentType(); ct != "" && !strings.Contains(ct, "application/json") {
		return errors.New("unsupported content type " + ct)
	}
	defer req.raw.Body.Close()
	body, err := io.ReadAll(io.LimitReader(req.raw.Body, maxBody))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(v)
}

// ── Input helpers ────────────────────────────────────────────────────────────

// QueryAll returns every value of a repeated query parameter, in order.
func (req *Request) QueryAll(key string) []string {
	return req.raw.URL.Query()[key]
}

// RouteParam returns a URL route parameter.
func (req *Request) RouteParam(key string) string {
	return routing.Param(req.raw, key)
}

// ContentType returns the Content-Type header value.
func (req *Request) ContentType() string {
	return req.raw.Header.Get("Content-Type")
}
