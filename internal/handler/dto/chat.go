package dto

// ============ 对话历史 API 格式（HTTP 层使用）============

// ChatHistoryItem 会话列表项
type ChatHistoryItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Time         string `json:"time"` // yyyy-MM-dd HH:mm:ss
	MessageCount int    `json:"messageCount"`
}

// ChatMessage 会话详情里of一条消息
type ChatMessage struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}
