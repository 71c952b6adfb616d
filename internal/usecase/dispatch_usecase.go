package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/luna1998-nun/QA-assistant-backend/internal/domain"
	"github.com/luna1998-nun/QA-assistant-backend/internal/domain/entity"
	"github.com/luna1998-nun/QA-assistant-backend/internal/infrastructure/llm"
	"github.com/luna1998-nun/QA-assistant-backend/internal/logfile"
	"github.com/luna1998-nun/QA-assistant-backend/internal/stream"
)

// titleRuneLimit 会话列表标题截断长度
const titleRuneLimit = 50

// dispatchUsecase is DispatchUsecase interfaceofimplementation。
// 它协调大模型client、会话记忆and调度日志解析，承载所有业务规则。
type dispatchUsecase struct {
	llmClient domain.LLMClient
	memory    domain.ChatMemory
	resolver  *logfile.Resolver
	logger    *slog.Logger
}

// NewDispatchUsecase create一个newof调度总结用例实例
func NewDispatchUsecase(
	llmClient domain.LLMClient,
	memory domain.ChatMemory,
	resolver *logfile.Resolver,
	logger *slog.Logger,
) domain.DispatchUsecase {
	return &dispatchUsecase{
		llmClient: llmClient,
		memory:    memory,
		resolver:  resolver,
		logger:    logger,
	}
}

// Chat 同步对话。调用前补齐系统提示词，回复原文落盘，返回格式化后of文本。
func (u *dispatchUsecase) Chat(ctx context.Context, req *domain.ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", domain.NewInvalidInputError("message 参数不能为空")
	}

	history, err := u.historyWithSystemPrompt(req.ChatID)
	if err != nil {
		return "", err
	}

	reply, err := u.llmClient.CallSync(ctx, history, req.Message)
	if err != nil {
		return "", err
	}

	if err := u.memory.Append(req.ChatID,
		entity.NewMessage(entity.RoleUser, req.Message),
		entity.NewMessage(entity.RoleAssistant, reply),
	); err != nil {
		return "", err
	}

	return formatReply(reply), nil
}

// ChatStream 流式对话。返回of通道在上游结束后关闭；
// 自然结束时把完整回复原文追加进会话记忆。
func (u *dispatchUsecase) ChatStream(ctx context.Context, req *domain.ChatRequest) (<-chan entity.StreamChunk, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, domain.NewInvalidInputError("message 参数不能为空")
	}

	history, err := u.historyWithSystemPrompt(req.ChatID)
	if err != nil {
		return nil, err
	}

	upstream, err := u.llmClient.Stream(ctx, history, req.Message)
	if err != nil {
		return nil, err
	}

	out := make(chan entity.StreamChunk, 16)
	go func() {
		defer close(out)

		var full strings.Builder
		failed := false
		for chunk := range upstream {
			if chunk.Error != nil {
				failed = true
			} else {
				full.WriteString(chunk.Text)
			}
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}

		if failed || ctx.Err() != nil {
			return
		}
		if err := u.memory.Append(req.ChatID,
			entity.NewMessage(entity.RoleUser, req.Message),
			entity.NewMessage(entity.RoleAssistant, full.String()),
		); err != nil {
			u.logger.Error("failed to persist streamed reply", "chat_id", req.ChatID, "error", err)
		}
	}()

	return out, nil
}

// Prefetch 预取某天of调度日志并同步生成总结。
// 每次调用都清空该会话of历史，保证总结只基于本次提供of日志。
func (u *dispatchUsecase) Prefetch(ctx context.Context, req *domain.PrefetchRequest) (string, error) {
	chatReq, err := u.buildPrefetchRequest(req)
	if err != nil {
		return "", err
	}
	return u.Chat(ctx, chatReq)
}

// PrefetchStream 预取日志并流式生成总结
func (u *dispatchUsecase) PrefetchStream(ctx context.Context, req *domain.PrefetchRequest) (<-chan entity.StreamChunk, error) {
	chatReq, err := u.buildPrefetchRequest(req)
	if err != nil {
		return nil, err
	}
	return u.ChatStream(ctx, chatReq)
}

// ListHistory 枚举会话摘要，按落盘时间倒序
func (u *dispatchUsecase) ListHistory() ([]entity.TranscriptSummary, error) {
	ids, err := u.memory.ListIDs()
	if err != nil {
		return nil, err
	}

	summaries := make([]entity.TranscriptSummary, 0, len(ids))
	for _, id := range ids {
		messages, err := u.memory.Get(id)
		if err != nil || len(messages) == 0 {
			continue
		}
		modified, ok := u.memory.LastModified(id)
		if !ok {
			continue
		}
		summaries = append(summaries, entity.TranscriptSummary{
			ID:           id,
			Title:        deriveTitle(messages),
			LastModified: modified,
			MessageCount: len(messages),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastModified.After(summaries[j].LastModified)
	})

	return summaries, nil
}

// HistoryDetail 返回指定会话of全部消息，不exists时返回空序列
func (u *dispatchUsecase) HistoryDetail(chatID string) ([]entity.Message, error) {
	if strings.TrimSpace(chatID) == "" {
		return nil, domain.NewInvalidInputError("chatId 参数不能为空")
	}
	return u.memory.Get(chatID)
}

// DeleteHistory 删除指定会话，幂等
func (u *dispatchUsecase) DeleteHistory(chatID string) error {
	if strings.TrimSpace(chatID) == "" {
		return domain.NewInvalidInputError("chatId 参数不能为空")
	}
	if err := u.memory.Clear(chatID); err != nil {
		return err
	}
	u.logger.Info("deleted chat history", "chat_id", chatID)
	return nil
}

// historyWithSystemPrompt 返回会话历史；新会话先落盘系统提示词
func (u *dispatchUsecase) historyWithSystemPrompt(chatID string) ([]entity.Message, error) {
	history, err := u.memory.Get(chatID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		system := entity.NewMessage(entity.RoleSystem, llm.SystemPrompt)
		if err := u.memory.Append(chatID, system); err != nil {
			return nil, err
		}
		u.logger.Info("new conversation started", "chat_id", chatID)
		return []entity.Message{system}, nil
	}
	return history, nil
}

// buildPrefetchRequest 读日志文件并合成预取对话请求
func (u *dispatchUsecase) buildPrefetchRequest(req *domain.PrefetchRequest) (*domain.ChatRequest, error) {
	date := strings.TrimSpace(req.Date)
	if date == "" {
		return nil, domain.NewInvalidInputError("date 不能为空 (期望 YYYY-MM-DD)")
	}

	chatID := strings.TrimSpace(req.ChatID)
	if chatID != "" {
		if err := u.memory.Clear(chatID); err != nil {
			return nil, err
		}
		u.logger.Info("cleared chat history for prefetch", "chat_id", chatID)
	} else {
		chatID = "prefetch-" + date
	}

	path, exists := u.resolver.Resolve(date)
	u.logger.Info("resolved dispatch log", "date", date, "path", path, "exists", exists)
	if !exists {
		return nil, domain.NewNotFoundError(
			fmt.Sprintf("未查询到 [%s] 的调度日志。文件路径: %s", date, path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewStoreIOError(err)
	}

	return &domain.ChatRequest{
		ChatID:  chatID,
		Message: llm.BuildPrefetchMessage(date, string(content)),
	}, nil
}

// formatReply 对同步回复做一次整体of语义换行格式化。
// 提示词回显从首个标记处截断，而不是整段丢弃。
func formatReply(reply string) string {
	for _, marker := range []string{"输出说明", "格式要求", "注意事项"} {
		if idx := strings.Index(reply, marker); idx >= 0 {
			reply = reply[:idx]
		}
	}

	f := stream.NewFormatter()
	out := f.ProcessChunk(reply) + f.Finish()
	return strings.TrimSpace(out)
}

// deriveTitle 取第一条user消息of前50个字符作标题
func deriveTitle(messages []entity.Message) string {
	for _, m := range messages {
		if m.Role != entity.RoleUser || m.Content == "" {
			continue
		}
		title := m.Content
		if runes := []rune(title); len(runes) > titleRuneLimit {
			title = string(runes[:titleRuneLimit]) + "..."
		}
		return strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	}
	return "新对话"
}
