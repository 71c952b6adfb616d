package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/types"
)

// APIClient wraps Hertz Client for HTTP communication with the backend
type APIClient struct {
	client *client.Client
	server string
}

// NewAPIClient creates a new API client
func NewAPIClient(server string) (*APIClient, error) {
	// Normalize server URL
	normalizedServer, err := normalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	// Use standard library dialer for streaming support
	// netpoll doesn't support streaming well, causing panics
	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithResponseBodyStream(true),     // Enable streaming response support
		client.WithDialer(standard.NewDialer()), // Use standard library for streaming
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &APIClient{
		client: c,
		server: normalizedServer,
	}, nil
}

// normalizeServerURL normalizes server URL to ensure it has a scheme and no trailing slash
func normalizeServerURL(server string) (string, error) {
	// Add scheme if missing
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	// Parse and validate
	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}

	// Return scheme://host (no path, no trailing slash)
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}

// Ping checks whether the backend is reachable
func (c *APIClient) Ping(ctx context.Context) error {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(c.server + endpointPing)

	if err := c.client.Do(ctx, req, resp); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("server responded with HTTP %d", resp.StatusCode())
	}
	return nil
}

// ListHistory lists all stored conversations, newest first
func (c *APIClient) ListHistory(ctx context.Context) ([]types.HistoryItem, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(c.server + endpointHistoryList)

	if err := c.client.Do(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("failed to list history (HTTP %d)", resp.StatusCode())
	}

	var items []types.HistoryItem
	if err := sonic.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return items, nil
}

// HistoryDetail fetches the full transcript of one conversation
func (c *APIClient) HistoryDetail(ctx context.Context, chatID string) ([]types.ChatMessage, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(c.server + endpointHistoryDetail + "?chatId=" + url.QueryEscape(chatID))

	if err := c.client.Do(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("failed to fetch conversation (HTTP %d, body: %s)", resp.StatusCode(), string(resp.Body()))
	}

	var messages []types.ChatMessage
	if err := sonic.Unmarshal(resp.Body(), &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return messages, nil
}

// DeleteHistory deletes one conversation
func (c *APIClient) DeleteHistory(ctx context.Context, chatID string) error {
	req := &protocol.Request{}
	req.SetMethod("DELETE")
	req.SetRequestURI(c.server + endpointHistoryDelete + "?chatId=" + url.QueryEscape(chatID))

	resp := &protocol.Response{}
	if err := c.client.Do(ctx, req, resp); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode < 200 || statusCode >= 300 {
		body := resp.Body()
		return fmt.Errorf("delete failed with HTTP status: %d, body: %s", statusCode, string(body))
	}
	return nil
}

// ChatStreaming sends one chat message and returns typed streaming events.
// Events are message/thinking/error/complete as emitted by the server.
func (c *APIClient) ChatStreaming(ctx context.Context, chatID, message string) (<-chan types.StreamEvent, <-chan error, error) {
	if strings.TrimSpace(message) == "" {
		return nil, nil, fmt.Errorf("chat request requires a non-empty message")
	}

	form := url.Values{}
	form.Set("chatId", chatID)
	form.Set("message", message)

	return c.openSSE(ctx, c.server+endpointChatSSEEmitter, form)
}

// SummaryStreaming streams a handover summary for one day's dispatch log.
// The prefetch route emits plain data frames, errors arrive in-band with 错误： prefix.
func (c *APIClient) SummaryStreaming(ctx context.Context, chatID, date string) (<-chan types.StreamEvent, <-chan error, error) {
	if strings.TrimSpace(date) == "" {
		return nil, nil, fmt.Errorf("summary request requires a date (YYYY-MM-DD)")
	}

	form := url.Values{}
	form.Set("date", date)
	if chatID != "" {
		form.Set("chatId", chatID)
	}

	return c.openSSE(ctx, c.server+endpointPrefetchSSE, form)
}

// openSSE issues a POST request and spawns a goroutine parsing the SSE body
func (c *APIClient) openSSE(ctx context.Context, uri string, form url.Values) (<-chan types.StreamEvent, <-chan error, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(uri)
	req.Header.SetContentTypeBytes([]byte("application/x-www-form-urlencoded"))
	req.Header.Set("Accept", "text/event-stream")
	req.SetBody([]byte(form.Encode()))

	// Use Do() - Hertz will handle streaming response through BodyStream()
	if err := c.client.Do(ctx, req, resp); err != nil {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		statusCode := resp.StatusCode()
		body := resp.Body()
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
		return nil, nil, fmt.Errorf("stream failed with HTTP status: %d, body: %s", statusCode, string(body))
	}

	eventCh := make(chan types.StreamEvent, 10)
	errCh := make(chan error, 1)

	go func() {
		defer func() {
			close(eventCh)
			close(errCh)
			protocol.ReleaseRequest(req)
			protocol.ReleaseResponse(resp)
		}()

		bodyStream := resp.BodyStream()
		if bodyStream == nil {
			errCh <- fmt.Errorf("body stream is nil")
			return
		}

		parseSSEStream(bodyStream, eventCh, errCh)
	}()

	return eventCh, errCh, nil
}

// parseSSEStream reads SSE frames line by line in real-time.
// A frame is dispatched on the blank line that terminates it.
func parseSSEStream(reader io.Reader, eventCh chan<- types.StreamEvent, errCh chan<- error) {
	scanner := bufio.NewScanner(reader)

	// Increase buffer size for large SSE messages
	const maxScanTokenSize = 1024 * 1024 // 1MB
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	var event strings.Builder
	var data strings.Builder
	hasData := false

	flush := func() bool {
		// complete 帧只带事件名，不带 data
		if !hasData && event.Len() == 0 {
			return true
		}
		ev := types.StreamEvent{Event: event.String(), Data: data.String()}
		event.Reset()
		data.Reset()
		hasData = false

		select {
		case eventCh <- ev:
			return true
		case <-time.After(5 * time.Second):
			errCh <- fmt.Errorf("timeout sending event to channel")
			return false
		}
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		// Blank line terminates the current frame
		if line == "" {
			if !flush() {
				return
			}
			continue
		}

		// Comments
		if strings.HasPrefix(line, ":") {
			continue
		}

		if value, ok := strings.CutPrefix(line, "event:"); ok {
			event.WriteString(strings.TrimPrefix(value, " "))
			continue
		}

		if value, ok := strings.CutPrefix(line, "data:"); ok {
			if hasData {
				data.WriteString("\n")
			}
			data.WriteString(strings.TrimPrefix(value, " "))
			hasData = true
			continue
		}
	}

	// Dispatch a trailing frame without final blank line
	flush()

	if err := scanner.Err(); err != nil {
		if err != io.EOF {
			errCh <- fmt.Errorf("scanner error: %w", err)
		}
	}
}
