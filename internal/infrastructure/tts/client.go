// Package tts 封装对语音合成上游（python 服务）of访问。
package tts

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"

	"github.com/luna1998-nun/QA-assistant-backend/internal/config"
	"github.com/luna1998-nun/QA-assistant-backend/internal/domain"
)

// SpeechRequest 透传给上游 /speech of请求体
type SpeechRequest struct {
	Input    string  `json:"input"`
	Speed    float64 `json:"speed,omitempty"`
	Language string  `json:"language,omitempty"`
	Voice    string  `json:"voice,omitempty"`
	Format   string  `json:"format,omitempty"`
}

// Client 语音合成上游client
type Client struct {
	baseURL      string
	audioTempDir string
	httpClient   *client.Client
	logger       *slog.Logger
}

// NewClient create上游client并准备音频落盘目录
func NewClient(cfg config.TTSConfig, audioTempDir string, logger *slog.Logger) (*Client, error) {
	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithClientReadTimeout(cfg.Timeout),
		client.WithMaxIdleConnDuration(60*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create tts http client: %w", err)
	}

	if err := os.MkdirAll(audioTempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio temp dir: %w", err)
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		audioTempDir: audioTempDir,
		httpClient:   c,
		logger:       logger,
	}, nil
}

// Synthesize 调上游合成语音，返回音频字节and上游状态码。
// 非 2xx 时 audio 为上游原始响应体，由调用方决定如何透传。
func (c *Client) Synthesize(ctx context.Context, reqBody SpeechRequest) (audio []byte, status int, err error) {
	body, err := sonic.Marshal(reqBody)
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.baseURL + "/speech")
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)

	if err := c.httpClient.Do(ctx, req, resp); err != nil {
		return nil, 0, domain.NewUpstreamError("tts upstream unreachable", err)
	}

	c.logger.Info("tts synthesis done",
		"status", resp.StatusCode(),
		"audio_bytes", len(resp.Body()),
	)

	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, resp.StatusCode(), nil
}

// GetModel 查询上游模型信息，原样返回 JSON 响应体
func (c *Client) GetModel(ctx context.Context, modelUID string) ([]byte, int, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(c.baseURL + "/get_model?model_uid=" + url.QueryEscape(modelUID))

	if err := c.httpClient.Do(ctx, req, resp); err != nil {
		return nil, 0, domain.NewUpstreamError("tts upstream unreachable", err)
	}

	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, resp.StatusCode(), nil
}

// SynthesizeToFile 合成语音并写入临时目录，返回文件路径
func (c *Client) SynthesizeToFile(ctx context.Context, reqBody SpeechRequest) (string, error) {
	format := reqBody.Format
	if format == "" {
		format = "mp3"
	}

	audio, status, err := c.Synthesize(ctx, reqBody)
	if err != nil {
		return "", err
	}
	if status != consts.StatusOK || len(audio) == 0 {
		return "", domain.NewUpstreamError(fmt.Sprintf("tts upstream returned %d", status), nil)
	}

	name := fmt.Sprintf("tts_%s_%s.%s",
		time.Now().Format("20060102_150405"),
		uuid.New().String()[:8],
		format,
	)
	path := filepath.Join(c.audioTempDir, name)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", domain.NewStoreIOError(err)
	}

	c.logger.Info("tts audio saved", "path", path, "bytes", len(audio))
	return path, nil
}

// AudioTempDir 返回音频落盘目录
func (c *Client) AudioTempDir() string {
	return c.audioTempDir
}

// CleanupOldAudio 删除临时目录里超过 maxAge of音频文件，返回删除数量
func (c *Client) CleanupOldAudio(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(c.audioTempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, domain.NewStoreIOError(err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(c.audioTempDir, e.Name())); err == nil {
				removed++
			}
		}
	}

	if removed > 0 {
		c.logger.Info("cleaned up old tts audio", "removed", removed, "max_age", maxAge)
	}
	return removed, nil
}
