// Package proxy forwards the browser's /api calls to the remote movie
// service, signing them with the session's token.
package proxy

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-frontend/internal/apiclient"
)

// hop-by-hop headers are never copied back to the browser.
var hopHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Upgrade":           true,
	"Content-Length":    true,
}

// APIProxy forwards requests to the remote API.
type APIProxy struct {
	baseURL string
	creds   apiclient.Credentials
	client  *http.Client
}

// New creates a proxy to baseURL. Requests carry the token from creds when
// one is held; otherwise the caller's own Authorization header is passed on.
func New(baseURL string, creds apiclient.Credentials, timeout time.Duration) *APIProxy {
	return &APIProxy{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Handler returns the Fiber handler doing the forwarding. The request path
// is kept as is.
func (p *APIProxy) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		targetURL := p.baseURL + c.Path()
		if q := string(c.Request().URI().QueryString()); q != "" {
			targetURL += "?" + q
		}

		slog.Debug("proxying request", "method", c.Method(), "to", targetURL)

		var body io.Reader
		if len(c.Body()) > 0 {
			body = bytes.NewReader(c.Body())
		}
		req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, body)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "failed to create proxy request",
			})
		}

		req.Header.Set("Content-Type", c.Get("Content-Type", "application/json"))
		req.Header.Set("Accept", "application/json")
		if p.creds != nil && p.creds.Token() != "" {
			req.Header.Set("Authorization", apiclient.AuthHeader(p.creds.Token()))
		} else if auth := c.Get("Authorization"); auth != "" {
			req.Header.Set("Authorization", auth)
		}
		req.Header.Set("X-Forwarded-For", c.IP())
		req.Header.Set("X-Forwarded-Host", c.Hostname())

		resp, err := p.client.Do(req)
		if err != nil {
			slog.Error("proxy request failed", "url", targetURL, "error", err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "movie service unavailable",
			})
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "failed to read movie service response",
			})
		}

		for key, vals := range resp.Header {
			if hopHeaders[http.CanonicalHeaderKey(key)] {
				continue
			}
			for _, val := range vals {
				c.Response().Header.Add(key, val)
			}
		}
		return c.Status(resp.StatusCode).Send(payload)
	}
}
