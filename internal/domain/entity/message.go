package entity

import "time"

// 会话角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message 会话中of一轮消息，追加后不可变
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMessage create带当前时间戳of消息
func NewMessage(role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// StreamChunk 上游模型流式响应of一块
type StreamChunk struct {
	Text  string
	IsEnd bool
	Error error
}

// TranscriptSummary 会话列表接口使用of只读投影
type TranscriptSummary struct {
	ID           string
	Title        string
	LastModified time.Time
	MessageCount int
}
