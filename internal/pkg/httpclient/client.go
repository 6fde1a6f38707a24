// internal/pkg/httpclient/client.go

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/pkg/apperr"
)

// Resolver 把服务名解析为 "http://host:port" 形式的基础地址
type Resolver interface {
	ResolveBaseURL(serviceName string) (string, error)
}

// StaticResolver 使用配置中写死的地址
type StaticResolver map[string]string

func (s StaticResolver) ResolveBaseURL(serviceName string) (string, error) {
	base, ok := s[serviceName]
	if !ok || base == "" {
		return "", errors.Errorf("no address configured for service %s", serviceName)
	}
	return strings.TrimRight(base, "/"), nil
}

// StatusError 表示下游返回了非 2xx 状态码，或者根本无法访问（StatusCode 为 502）。
// 404/400 会归类到 apperr 的对应类别。
type StatusError struct {
	Service    string
	StatusCode int
	Detail     string
	Err        error
}

func (e *StatusError) Error() string {
	return e.Detail
}

func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return apperr.ErrNotFound
	case http.StatusBadRequest:
		return apperr.ErrInvalidRequest
	default:
		return e.Err
	}
}

// Client 是一个可追踪的、可注入的HTTP客户端
type Client struct {
	Tracer     trace.Tracer
	HTTPClient *http.Client
	resolver   Resolver
	// Timeout 大于 0 时作为每次调用的超时
	Timeout time.Duration
}

// NewClient 创建一个新的客户端实例
func NewClient(tracer trace.Tracer, resolver Resolver, timeout time.Duration) *Client {
	// 不设置 http.Client.Timeout，超时完全受控于每次请求的 context
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
	}
	return &Client{
		Tracer:     tracer,
		HTTPClient: httpClient,
		resolver:   resolver,
		Timeout:    timeout,
	}
}

// GetJSON 发起 GET 请求并把 2xx 响应解析到 out
func (c *Client) GetJSON(ctx context.Context, service, path string, query url.Values, out any) error {
	return c.do(ctx, service, http.MethodGet, path, query, nil, out)
}

// PostJSON 以 JSON 请求体发起 POST 请求并把 2xx 响应解析到 out
func (c *Client) PostJSON(ctx context.Context, service, path string, body, out any) error {
	return c.do(ctx, service, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, service, method, path string, query url.Values, body, out any) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	ctx, span := c.Tracer.Start(ctx, fmt.Sprintf("call-%s", service), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	fail := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// 1. 解析下游地址
	base, err := c.resolver.ResolveBaseURL(service)
	if err != nil {
		return fail(&StatusError{Service: service, StatusCode: http.StatusBadGateway, Detail: service + " unavailable", Err: err})
	}
	downstreamURL := base + path
	if len(query) > 0 {
		downstreamURL += "?" + query.Encode()
	}

	// 2. 构造请求
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fail(errors.Wrap(err, "marshal request body"))
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, downstreamURL, reader)
	if err != nil {
		return fail(errors.Wrap(err, "build request"))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	span.SetAttributes(
		attribute.String("http.url", downstreamURL),
		attribute.String("http.method", method),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	// 3. 发送并处理响应
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fail(&StatusError{Service: service, StatusCode: http.StatusBadGateway, Detail: service + " unavailable", Err: err})
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(errors.Wrapf(err, "read response from %s", service))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(&StatusError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Detail:     detailOf(respBody, resp.StatusCode),
			Err:        errors.Errorf("service %s returned status %s", service, resp.Status),
		})
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fail(errors.Wrapf(err, "decode response from %s", service))
	}
	return nil
}

// detailOf 读取下游的 {"detail": "..."}，读不到时使用状态码文本
func detailOf(body []byte, status int) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &e) == nil && e.Detail != "" {
		return e.Detail
	}
	return http.StatusText(status)
}
