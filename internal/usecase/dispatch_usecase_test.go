package usecase

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luna1998-nun/QA-assistant-backend/internal/domain"
	"github.com/luna1998-nun/QA-assistant-backend/internal/domain/entity"
	"github.com/luna1998-nun/QA-assistant-backend/internal/infrastructure/llm"
	"github.com/luna1998-nun/QA-assistant-backend/internal/infrastructure/memory"
	"github.com/luna1998-nun/QA-assistant-backend/internal/logfile"
)

// fakeLLM 脚本化of大模型client，record收到of历史and消息
type fakeLLM struct {
	reply      string
	chunks     []string
	err        error
	gotHistory []entity.Message
	gotMessage string
}

func (f *fakeLLM) CallSync(ctx context.Context, history []entity.Message, userMessage string) (string, error) {
	f.gotHistory = history
	f.gotMessage = userMessage
	return f.reply, f.err
}

func (f *fakeLLM) Stream(ctx context.Context, history []entity.Message, userMessage string) (<-chan entity.StreamChunk, error) {
	f.gotHistory = history
	f.gotMessage = userMessage
	ch := make(chan entity.StreamChunk, len(f.chunks)+1)
	for _, c := range f.chunks {
		ch <- entity.StreamChunk{Text: c}
	}
	if f.err != nil {
		ch <- entity.StreamChunk{Error: f.err}
	}
	close(ch)
	return ch, nil
}

func (f *fakeLLM) Ping(ctx context.Context) error {
	return f.err
}

func newTestUsecase(t *testing.T, fake *fakeLLM) (domain.DispatchUsecase, *memory.Store, string) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	logDir := t.TempDir()
	store, err := memory.NewStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	uc := NewDispatchUsecase(fake, store, logfile.NewResolver(logDir, logger), logger)
	return uc, store, logDir
}

func TestChatPersistsTranscript(t *testing.T) {
	fake := &fakeLLM{reply: "你好！"}
	uc, store, _ := newTestUsecase(t, fake)

	got, err := uc.Chat(context.Background(), &domain.ChatRequest{ChatID: "t1", Message: "你好"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != "你好！" {
		t.Errorf("reply: got %q", got)
	}

	// system + user + assistant
	messages, err := store.Get("t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("transcript length: got %d, want 3", len(messages))
	}
	if messages[0].Role != entity.RoleSystem || messages[0].Content != llm.SystemPrompt {
		t.Error("first message must be the system prompt")
	}
	if messages[1].Role != entity.RoleUser || messages[1].Content != "你好" {
		t.Errorf("user message: %+v", messages[1])
	}
	if messages[2].Role != entity.RoleAssistant || messages[2].Content != "你好！" {
		t.Errorf("assistant message: %+v", messages[2])
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	uc, _, _ := newTestUsecase(t, &fakeLLM{})

	_, err := uc.Chat(context.Background(), &domain.ChatRequest{ChatID: "t1", Message: "  "})
	if !domain.IsInvalidInput(err) {
		t.Fatalf("want invalid input, got %v", err)
	}
}

func TestChatStreamPersistsFullReply(t *testing.T) {
	fake := &fakeLLM{chunks: []string{"交接", "班总结"}}
	uc, store, _ := newTestUsecase(t, fake)

	ch, err := uc.ChatStream(context.Background(), &domain.ChatRequest{ChatID: "s1", Message: "生成总结"})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}

	var b strings.Builder
	for chunk := range ch {
		b.WriteString(chunk.Text)
	}
	if b.String() != "交接班总结" {
		t.Errorf("streamed text: %q", b.String())
	}

	messages, _ := store.Get("s1")
	if len(messages) != 3 {
		t.Fatalf("transcript length: got %d, want 3", len(messages))
	}
	if messages[2].Content != "交接班总结" {
		t.Errorf("persisted reply: %q", messages[2].Content)
	}
}

func TestChatStreamSkipsPersistOnError(t *testing.T) {
	fake := &fakeLLM{chunks: []string{"部分"}, err: errors.New("connection reset")}
	uc, store, _ := newTestUsecase(t, fake)

	ch, err := uc.ChatStream(context.Background(), &domain.ChatRequest{ChatID: "s2", Message: "生成"})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	for range ch {
	}

	// 中断of流不落盘user/assistant轮次，只留系统提示词
	messages, _ := store.Get("s2")
	if len(messages) != 1 || messages[0].Role != entity.RoleSystem {
		t.Fatalf("errored stream must not persist turns, got %v", messages)
	}
}

func TestPrefetchReadsLogAndClearsHistory(t *testing.T) {
	fake := &fakeLLM{reply: "2025-10-19交接班总结"}
	uc, store, logDir := newTestUsecase(t, fake)

	logPath := filepath.Join(logDir, "2025-10-19.txt")
	if err := os.WriteFile(logPath, []byte("18:24 光缆中断"), 0o644); err != nil {
		t.Fatal(err)
	}

	// 旧历史必须被清掉
	if err := store.Append("t2", entity.NewMessage(entity.RoleUser, "旧消息")); err != nil {
		t.Fatal(err)
	}

	got, err := uc.Prefetch(context.Background(), &domain.PrefetchRequest{ChatID: "t2", Date: "2025-10-19"})
	if err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
	if !strings.HasPrefix(got, "2025-10-19交接班总结") {
		t.Errorf("reply: %q", got)
	}

	if !strings.Contains(fake.gotMessage, "请基于[2025-10-19]的调度日志生成交接班总结") {
		t.Errorf("prefetch message: %q", fake.gotMessage)
	}
	if !strings.Contains(fake.gotMessage, "18:24 光缆中断") {
		t.Errorf("log content missing from message: %q", fake.gotMessage)
	}

	messages, _ := store.Get("t2")
	for _, m := range messages {
		if m.Content == "旧消息" {
			t.Error("prefetch must clear previous history")
		}
	}
}

func TestPrefetchMissingLog(t *testing.T) {
	uc, _, _ := newTestUsecase(t, &fakeLLM{})

	_, err := uc.Prefetch(context.Background(), &domain.PrefetchRequest{Date: "2099-01-01"})
	if !domain.IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}

	var derr *domain.DomainError
	if !errors.As(err, &derr) {
		t.Fatal("want DomainError")
	}
	if !strings.Contains(derr.UserMessage(), "未查询到 [2099-01-01] 的调度日志。文件路径: ") {
		t.Errorf("user message: %q", derr.UserMessage())
	}
}

func TestPrefetchEmptyDate(t *testing.T) {
	uc, _, _ := newTestUsecase(t, &fakeLLM{})

	_, err := uc.Prefetch(context.Background(), &domain.PrefetchRequest{Date: " "})
	if !domain.IsInvalidInput(err) {
		t.Fatalf("want invalid input, got %v", err)
	}
}

func TestListHistoryFreshInstall(t *testing.T) {
	uc, _, _ := newTestUsecase(t, &fakeLLM{})

	summaries, err := uc.ListHistory()
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("fresh install: want empty list, got %v", summaries)
	}
}

func TestListHistoryTitles(t *testing.T) {
	fake := &fakeLLM{reply: "回复"}
	uc, store, _ := newTestUsecase(t, fake)

	if _, err := uc.Chat(context.Background(), &domain.ChatRequest{ChatID: "a", Message: "帮我总结昨天的调度日志"}); err != nil {
		t.Fatal(err)
	}

	// 只有系统消息of会话也要有标题
	if err := store.Append("b", entity.NewMessage(entity.RoleSystem, llm.SystemPrompt)); err != nil {
		t.Fatal(err)
	}

	long := strings.Repeat("长", 60)
	if _, err := uc.Chat(context.Background(), &domain.ChatRequest{ChatID: "c", Message: long}); err != nil {
		t.Fatal(err)
	}

	summaries, err := uc.ListHistory()
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}

	byID := map[string]entity.TranscriptSummary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}

	if byID["a"].Title != "帮我总结昨天的调度日志" {
		t.Errorf("title a: %q", byID["a"].Title)
	}
	if byID["b"].Title != "新对话" {
		t.Errorf("title b: %q", byID["b"].Title)
	}
	if want := strings.Repeat("长", 50) + "..."; byID["c"].Title != want {
		t.Errorf("title c: %q", byID["c"].Title)
	}
	if byID["a"].MessageCount != 3 {
		t.Errorf("message count a: %d", byID["a"].MessageCount)
	}
}

func TestDeleteHistory(t *testing.T) {
	fake := &fakeLLM{reply: "回复"}
	uc, store, _ := newTestUsecase(t, fake)

	if _, err := uc.Chat(context.Background(), &domain.ChatRequest{ChatID: "d1", Message: "你好"}); err != nil {
		t.Fatal(err)
	}
	if err := uc.DeleteHistory("d1"); err != nil {
		t.Fatalf("DeleteHistory: %v", err)
	}

	messages, _ := store.Get("d1")
	if len(messages) != 0 {
		t.Errorf("transcript must be gone, got %v", messages)
	}

	// 幂等
	if err := uc.DeleteHistory("d1"); err != nil {
		t.Errorf("repeated delete: %v", err)
	}
}

func TestHistoryDetailAbsentID(t *testing.T) {
	uc, _, _ := newTestUsecase(t, &fakeLLM{})

	messages, err := uc.HistoryDetail("ghost")
	if err != nil {
		t.Fatalf("HistoryDetail: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("absent id: want empty, got %v", messages)
	}
}
