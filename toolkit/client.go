package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// This module talks to the admin API. It knows nothing about pass/fail;
// the reporter package classifies what comes back.

const RunHeader = "X-Check-Run"

type AdminClient struct {
	baseURL string
	runID   string
	token   string
	http    *http.Client
}

// Response is a fully read HTTP response.
type Response struct {
	Status  int
	Body    []byte
	Latency time.Duration
}

// JSON returns the parsed body. Callers check ValidJSON first.
func (r Response) JSON() gjson.Result {
	return gjson.ParseBytes(r.Body)
}

func (r Response) ValidJSON() bool {
	return gjson.ValidBytes(r.Body)
}

func NewAdminClient(cfg CheckerConfig, runID string) (*AdminClient, error) {
	if !isAbsoluteURL(cfg.BaseURL) {
		return nil, fmt.Errorf("base url must be an absolute URL, got=%q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AdminClient{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		runID:   runID,
		http:    newHTTPClient(timeout),
	}, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

func (c *AdminClient) BaseURL() string { return c.baseURL }

// SetToken stores the bearer token used for every following request.
func (c *AdminClient) SetToken(token string) { c.token = token }

func (c *AdminClient) HasToken() bool { return c.token != "" }

// DoJSON sends payload (if non-nil) as a JSON body.
func (c *AdminClient) DoJSON(ctx context.Context, method, path string, payload any) (Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Response{}, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return Response{}, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

// Upload sends data as a single multipart file part.
func (c *AdminClient) Upload(ctx context.Context, path, field, filename, contentType string, data []byte) (Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return Response{}, fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return Response{}, fmt.Errorf("write multipart part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Response{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, &buf)
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (c *AdminClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.runID != "" {
		req.Header.Set(RunHeader, c.runID)
	}
	return req, nil
}

func (c *AdminClient) do(req *http.Request) (Response, error) {
	start := time.Now()
	slog.Debug("client.do: sending", "method", req.Method, "url", req.URL.String(), "auth", req.Header.Get("Authorization") != "")
	resp, err := c.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		return Response{Latency: latency}, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{Status: resp.StatusCode, Latency: latency}, fmt.Errorf("read response body: %w", err)
	}
	slog.Debug("client.do: received", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode,
		"latency_ms", latency.Milliseconds(), "body", TruncateForLog(body, 300))
	return Response{Status: resp.StatusCode, Body: body, Latency: latency}, nil
}

// ---------- helpers

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func TruncateForLog(body []byte, max int) string {
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "..."
}
