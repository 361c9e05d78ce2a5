// Package bark provides a notify.Sink that pushes to a Bark server
// (https://github.com/Finb/Bark) for iOS push notifications.
package bark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"renewer/pkg/logger"
	"renewer/pkg/notify"
	"renewer/pkg/serrors"

	"go.uber.org/zap"
)

const (
	// DefaultServer is the public Bark server.
	DefaultServer = "https://api.day.app"
	// DefaultGroup groups renewer pushes on the device.
	DefaultGroup = "DigitalPlat Renew"
	// DefaultTimeout bounds a single push.
	DefaultTimeout = 10 * time.Second
)

// Client pushes notifications to a Bark device key. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	server     string // server is the Bark base URL without a trailing slash
	key        string // key is the device key; empty disables pushes
	group      string
}

var _ notify.Sink = (*Client)(nil)

// New builds a Client. An empty server falls back to DefaultServer and an
// empty key makes every Send a no-op.
func New(httpClient *http.Client, server, key string) *Client {
	if server == "" {
		server = DefaultServer
	}

	return &Client{
		httpClient: httpClient,
		server:     strings.TrimRight(server, "/"),
		key:        key,
		group:      DefaultGroup,
	}
}

// Enabled reports whether a device key is configured.
func (c *Client) Enabled() bool { return c.key != "" }

// level maps a severity to a Bark interruption level.
func level(s notify.Severity) string {
	switch s {
	case notify.SeverityCritical:
		return "critical"
	case notify.SeverityWarning:
		return "timeSensitive"
	default:
		return "active"
	}
}

// Send pushes the notification and logs any failure.
func (c *Client) Send(ctx context.Context, title, body string, severity notify.Severity) {
	if !c.Enabled() {
		logger.Info(ctx, "bark key not configured, skipping notification", zap.String("title", title))

		return
	}

	if err := c.Push(ctx, title, body, severity); err != nil {
		logger.Warn(ctx, "could not send notification", zap.String("title", title), zap.Error(err))

		return
	}

	logger.Info(ctx, "notification sent", zap.String("title", title))
}

// Push sends one notification and reports transport or server failures as
// serrors.ErrNotificationTransport.
func (c *Client) Push(ctx context.Context, title, body string, severity notify.Severity) error {
	type pushReq struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Group string `json:"group"`
		Level string `json:"level"`
	}
	bodyBytes, err := json.Marshal(pushReq{Title: title, Body: body, Group: c.group, Level: level(severity)})
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.server+"/"+c.key, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return serrors.Wrap(serrors.ErrNotificationTransport, err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return serrors.Wrap(serrors.ErrNotificationTransport, err, "could not read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serrors.With(serrors.ErrNotificationTransport,
			"push failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	return nil
}
