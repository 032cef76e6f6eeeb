// Package lambdaproxy serves an http.Handler behind API Gateway proxy
// integration.
package lambdaproxy

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
)

type responseWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (w *responseWriter) Header() http.Header { return w.header }

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(b)
}

func (w *responseWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
}

// NewRequest converts an API Gateway proxy event into an *http.Request.
func NewRequest(ctx context.Context, req events.APIGatewayProxyRequest) (*http.Request, error) {
	query := url.Values{}
	for k, vs := range req.MultiValueQueryStringParameters {
		query[k] = append(query[k], vs...)
	}
	for k, v := range req.QueryStringParameters {
		if _, ok := query[k]; !ok {
			query.Set(k, v)
		}
	}

	u := url.URL{Path: req.Path, RawQuery: query.Encode()}
	if u.Path == "" {
		u.Path = "/"
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		body = decoded
	}

	r, err := http.NewRequestWithContext(ctx, req.HTTPMethod, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, vs := range req.MultiValueHeaders {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	for k, v := range req.Headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	r.Host = r.Header.Get("Host")
	r.RemoteAddr = req.RequestContext.Identity.SourceIP
	return r, nil
}

// Handler adapts h to the lambda handler signature.
func Handler(h http.Handler) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		r, err := NewRequest(ctx, req)
		if err != nil {
			return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest, Body: err.Error()}, nil
		}

		w := &responseWriter{header: http.Header{}}
		h.ServeHTTP(w, r)
		if w.status == 0 {
			w.status = http.StatusOK
		}

		resp := events.APIGatewayProxyResponse{
			StatusCode:        w.status,
			MultiValueHeaders: map[string][]string{},
		}
		for k, vs := range w.header {
			resp.MultiValueHeaders[k] = vs
		}

		ctype := w.header.Get("Content-Type")
		if utf8.Valid(w.body.Bytes()) && (ctype == "" || strings.HasPrefix(ctype, "text/") || strings.Contains(ctype, "json")) {
			resp.Body = w.body.String()
		} else {
			resp.Body = base64.StdEncoding.EncodeToString(w.body.Bytes())
			resp.IsBase64Encoded = true
		}
		return resp, nil
	}
}
