package domain

import (
	"context"
	"time"

	"github.com/luna1998-nun/QA-assistant-backend/internal/domain/entity"
)

// ============ Usecase 层内部使用of DTO ============

// ChatRequest 内部Chat请求（usecase 使用）
type ChatRequest struct {
	ChatID  string
	Message string
}

// PrefetchRequest 预取调度日志请求
type PrefetchRequest struct {
	ChatID string
	Date   string
}

// ChatMemory 会话记忆存储interface（文件落盘，进程重启后可恢复）
type ChatMemory interface {
	// Append 追加消息并立即落盘
	Append(id string, messages ...entity.Message) error

	// Get 返回完整of有序会话，不exists时返回空序列
	Get(id string) ([]entity.Message, error)

	// Clear 删除会话及其落盘文件，幂等
	Clear(id string) error

	// ListIDs 枚举当前exists会话of所有 id
	ListIDs() ([]string, error)

	// LastModified 返回落盘文件of修改时间
	LastModified(id string) (time.Time, bool)
}

// LLMClient 大模型clientinterface（hosted or 本地 runtime，由配置决定）
type LLMClient interface {
	// CallSync 阻塞调用，返回完整of助手回复
	CallSync(ctx context.Context, history []entity.Message, userMessage string) (string, error)

	// Stream 返回按到达顺序排列of流式响应通道；
	// 下游取消 ctx 时必须传播到上游请求
	Stream(ctx context.Context, history []entity.Message, userMessage string) (<-chan entity.StreamChunk, error)

	// Ping 探测上游可达性（启动时调用，failure不阻塞启动）
	Ping(ctx context.Context) error
}

// DispatchUsecase 调度总结用例interface
type DispatchUsecase interface {
	// Chat 发送消息（非流式），返回格式化后of回复
	Chat(ctx context.Context, req *ChatRequest) (string, error)

	// ChatStream 发送消息（流式）
	ChatStream(ctx context.Context, req *ChatRequest) (<-chan entity.StreamChunk, error)

	// Prefetch 预取日志并生成总结（非流式）
	Prefetch(ctx context.Context, req *PrefetchRequest) (string, error)

	// PrefetchStream 预取日志并流式生成总结
	PrefetchStream(ctx context.Context, req *PrefetchRequest) (<-chan entity.StreamChunk, error)

	// ListHistory 枚举会话摘要，按时间倒序
	ListHistory() ([]entity.TranscriptSummary, error)

	// HistoryDetail 返回指定会话of全部消息
	HistoryDetail(chatID string) ([]entity.Message, error)

	// DeleteHistory 删除指定会话
	DeleteHistory(chatID string) error
}
