package handler_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/luna1998-nun/QA-assistant-backend/internal/config"
	"github.com/luna1998-nun/QA-assistant-backend/internal/domain"
	"github.com/luna1998-nun/QA-assistant-backend/internal/domain/entity"
	"github.com/luna1998-nun/QA-assistant-backend/internal/handler"
	"github.com/luna1998-nun/QA-assistant-backend/internal/infrastructure/tts"
	"github.com/luna1998-nun/QA-assistant-backend/internal/router"
)

// fakeUsecase 手写桩，按需覆盖各路由依赖of行为
type fakeUsecase struct {
	reply      string
	chunks     []string
	chunkErr   error
	err        error
	histories  []entity.TranscriptSummary
	transcript []entity.Message
	deleted    []string
}

func (f *fakeUsecase) Chat(ctx context.Context, req *domain.ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", domain.NewInvalidInputError("message 参数不能为空")
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeUsecase) ChatStream(ctx context.Context, req *domain.ChatRequest) (<-chan entity.StreamChunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stream(), nil
}

func (f *fakeUsecase) Prefetch(ctx context.Context, req *domain.PrefetchRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeUsecase) PrefetchStream(ctx context.Context, req *domain.PrefetchRequest) (<-chan entity.StreamChunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stream(), nil
}

func (f *fakeUsecase) ListHistory() ([]entity.TranscriptSummary, error) {
	return f.histories, nil
}

func (f *fakeUsecase) HistoryDetail(chatID string) ([]entity.Message, error) {
	if chatID == "" {
		return nil, domain.NewInvalidInputError("chatId 参数不能为空")
	}
	return f.transcript, nil
}

func (f *fakeUsecase) DeleteHistory(chatID string) error {
	if chatID == "" {
		return domain.NewInvalidInputError("chatId 参数不能为空")
	}
	f.deleted = append(f.deleted, chatID)
	return nil
}

func (f *fakeUsecase) stream() <-chan entity.StreamChunk {
	ch := make(chan entity.StreamChunk, len(f.chunks)+1)
	for _, text := range f.chunks {
		ch <- entity.StreamChunk{Text: text}
	}
	if f.chunkErr != nil {
		ch <- entity.StreamChunk{Error: f.chunkErr}
	}
	close(ch)
	return ch
}

type fakeLLM struct {
	pingErr error
}

func (f *fakeLLM) CallSync(ctx context.Context, history []entity.Message, userMessage string) (string, error) {
	return "", nil
}

func (f *fakeLLM) Stream(ctx context.Context, history []entity.Message, userMessage string) (<-chan entity.StreamChunk, error) {
	ch := make(chan entity.StreamChunk)
	close(ch)
	return ch, nil
}

func (f *fakeLLM) Ping(ctx context.Context) error { return f.pingErr }

// 每个测试服务器占用独立端口，避免 TIME_WAIT 干扰
var nextTestPort int32 = 18123

// startTestServer 启动一个完整路由of进程内服务器，返回 baseURL
func startTestServer(t *testing.T, uc domain.DispatchUsecase) string {
	t.Helper()
	testAddr := fmt.Sprintf("127.0.0.1:%d", atomic.AddInt32(&nextTestPort, 1))

	logger := slog.New(slog.DiscardHandler)
	ttsClient, err := tts.NewClient(config.TTSConfig{
		BaseURL: "http://127.0.0.1:1", // 测试不触达upstream
		Timeout: time.Second,
	}, t.TempDir(), logger)
	if err != nil {
		t.Fatalf("failed to create tts client: %v", err)
	}

	h := server.New(server.WithHostPorts(testAddr))
	router.Setup(h,
		handler.NewDispatchHandler(uc, 5*time.Second, logger),
		handler.NewTTSHandler(ttsClient, logger),
		handler.NewHealthHandler(&fakeLLM{}),
	)

	go h.Spin()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		h.Shutdown(ctx)
	})

	baseURL := "http://" + testAddr
	waitForReady(t, baseURL)
	return baseURL
}

func waitForReady(t *testing.T, baseURL string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/ping")
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("server did not become ready")
}

func getBody(t *testing.T, rawURL string) (int, string) {
	t.Helper()
	resp, err := http.Get(rawURL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestDispatchRoutes(t *testing.T) {
	uc := &fakeUsecase{
		reply:  "交接班总结如下",
		chunks: []string{"昨日", "无异常"},
		histories: []entity.TranscriptSummary{
			{ID: "prefetch-2025-10-19", Title: "请基于[2025-10-19]的调度日志生成交接班总结", LastModified: time.Date(2025, 10, 19, 8, 0, 0, 0, time.Local), MessageCount: 3},
		},
		transcript: []entity.Message{
			entity.NewMessage(entity.RoleUser, "你好"),
			entity.NewMessage(entity.RoleAssistant, "你好！"),
		},
	}
	baseURL := startTestServer(t, uc)

	t.Run("chat sync", func(t *testing.T) {
		status, body := getBody(t, baseURL+"/ai/dispatch_app/chat/sync?message="+url.QueryEscape("你好"))
		if status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		if body != "交接班总结如下" {
			t.Errorf("unexpected body: %q", body)
		}
	})

	t.Run("chat sync rejects empty message", func(t *testing.T) {
		status, body := getBody(t, baseURL+"/ai/dispatch_app/chat/sync")
		if status != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", status)
		}
		if !strings.Contains(body, "INVALID_INPUT") {
			t.Errorf("expected INVALID_INPUT code in body, got %q", body)
		}
	})

	t.Run("chat sse relays raw data frames", func(t *testing.T) {
		status, body := getBody(t, baseURL+"/ai/dispatch_app/chat/sse?message="+url.QueryEscape("你好"))
		if status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		if !strings.Contains(body, "data: 昨日") || !strings.Contains(body, "data: 无异常") {
			t.Errorf("expected raw chunk frames, got %q", body)
		}
		if strings.Contains(body, "event:") {
			t.Errorf("raw sse route should not emit named events, got %q", body)
		}
	})

	t.Run("chat sse_emitter emits typed events", func(t *testing.T) {
		status, body := getBody(t, baseURL+"/ai/dispatch_app/chat/sse_emitter?message="+url.QueryEscape("你好"))
		if status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		if !strings.Contains(body, "event: message") {
			t.Errorf("expected message event, got %q", body)
		}
		if !strings.Contains(body, "event: complete") {
			t.Errorf("expected complete event, got %q", body)
		}
	})

	t.Run("history list", func(t *testing.T) {
		status, body := getBody(t, baseURL+"/ai/dispatch_app/chat/history/list")
		if status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		if !strings.Contains(body, `"id":"prefetch-2025-10-19"`) {
			t.Errorf("expected history item id, got %q", body)
		}
		if !strings.Contains(body, `"time":"2025-10-19 08:00:00"`) {
			t.Errorf("expected formatted time, got %q", body)
		}
	})

	t.Run("history detail", func(t *testing.T) {
		status, body := getBody(t, baseURL+"/ai/dispatch_app/chat/history/detail?chatId=prefetch-2025-10-19")
		if status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		if !strings.Contains(body, `"content":"你好！"`) {
			t.Errorf("expected assistant message in detail, got %q", body)
		}
	})

	t.Run("history delete via GET", func(t *testing.T) {
		status, _ := getBody(t, baseURL+"/ai/dispatch_app/chat/history/delete?chatId=old-chat")
		if status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		found := false
		for _, id := range uc.deleted {
			if id == "old-chat" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected delete to reach usecase, deleted=%v", uc.deleted)
		}
	})

	t.Run("tts speech rejects empty input", func(t *testing.T) {
		resp, err := http.Post(baseURL+"/tts/speech", "application/json", strings.NewReader(`{"input":""}`))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", resp.StatusCode)
		}
	})
}

func TestErrorRoutesStayInBand(t *testing.T) {
	missing := fmt.Sprintf("未查询到 [2099-01-01] 的调度日志。文件路径: %s", "/var/logs/2099-01-01.txt")
	uc := &fakeUsecase{err: domain.NewNotFoundError(missing)}
	baseURL := startTestServer(t, uc)

	t.Run("prefetch sync returns error as text with 200", func(t *testing.T) {
		status, body := getBody(t, baseURL+"/ai/dispatch_app/chat/prefetch/sync?date=2099-01-01")
		if status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		if body != "错误："+missing {
			t.Errorf("unexpected body: %q", body)
		}
	})

	t.Run("prefetch sse writes error frame with 200", func(t *testing.T) {
		status, body := getBody(t, baseURL+"/ai/dispatch_app/chat/prefetch/sse?date=2099-01-01")
		if status != http.StatusOK {
			t.Fatalf("expected status 200, got %d", status)
		}
		if !strings.Contains(body, "data: 错误："+missing) {
			t.Errorf("expected in-band error frame, got %q", body)
		}
	})

	t.Run("chat sync surfaces internal failure as 404 for missing log", func(t *testing.T) {
		status, body := getBody(t, baseURL+"/ai/dispatch_app/chat/sync?message="+url.QueryEscape("你好"))
		if status != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", status)
		}
		if !strings.Contains(body, "NOT_FOUND") {
			t.Errorf("expected NOT_FOUND code, got %q", body)
		}
	})
}
