package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"lottery-tool-middleware/internal/utils"
)

// Drainer waits for background work started by a request.
type Drainer interface {
	Wait(ctx context.Context) error
}

// LambdaAdapter serves API Gateway proxy events through an http.Handler.
//
// Lambda freezes the execution environment once the invocation returns, so
// scheduled relays are drained before the response is handed back.
type LambdaAdapter struct {
	handler      http.Handler
	drainer      Drainer
	drainTimeout time.Duration
}

// NewLambdaAdapter creates an adapter. drainer may be nil.
func NewLambdaAdapter(handler http.Handler, drainer Drainer, drainTimeout time.Duration) *LambdaAdapter {
	return &LambdaAdapter{handler: handler, drainer: drainer, drainTimeout: drainTimeout}
}

// Handle processes one API Gateway request.
func (a *LambdaAdapter) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := toHTTPRequest(ctx, request)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"detail":"invalid request"}`,
		}, nil
	}

	rw := newResponseBuffer()
	a.handler.ServeHTTP(rw, req)

	if a.drainer != nil {
		drainCtx := ctx
		if a.drainTimeout > 0 {
			var cancel context.CancelFunc
			drainCtx, cancel = context.WithTimeout(ctx, a.drainTimeout)
			defer cancel()
		}
		if err := a.drainer.Wait(drainCtx); err != nil {
			utils.GetLogger().Warn("Relay still running at end of invocation", utils.Error(err))
		}
	}

	return rw.toProxyResponse(), nil
}

func toHTTPRequest(ctx context.Context, request events.APIGatewayProxyRequest) (*http.Request, error) {
	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode body: %w", err)
		}
		body = decoded
	}

	u := url.URL{Path: request.Path}
	query := url.Values{}
	for k, vs := range request.MultiValueQueryStringParameters {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	if len(query) == 0 {
		for k, v := range request.QueryStringParameters {
			query.Set(k, v)
		}
	}
	u.RawQuery = query.Encode()

	method := strings.ToUpper(request.HTTPMethod)
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range request.MultiValueHeaders {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, v := range request.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	if id := request.RequestContext.RequestID; id != "" && req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, id)
	}
	return req, nil
}

// responseBuffer is a minimal in-memory http.ResponseWriter.
type responseBuffer struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: http.Header{}}
}

func (b *responseBuffer) Header() http.Header { return b.header }

func (b *responseBuffer) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *responseBuffer) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *responseBuffer) toProxyResponse() events.APIGatewayProxyResponse {
	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	headers := make(map[string]string, len(b.header))
	for k, vs := range b.header {
		if len(vs) > 0 {
			headers[k] = strings.Join(vs, ",")
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode:        status,
		Headers:           headers,
		MultiValueHeaders: map[string][]string(b.header.Clone()),
		Body:              b.body.String(),
	}
}
