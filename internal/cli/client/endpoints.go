package client

const (
	chatPrefix = "/ai/dispatch_app/chat"

	// Conversation endpoints
	endpointChatSSEEmitter = chatPrefix + "/sse_emitter"
	endpointPrefetchSSE    = chatPrefix + "/prefetch/sse"

	// History endpoints
	endpointHistoryList   = chatPrefix + "/history/list"
	endpointHistoryDetail = chatPrefix + "/history/detail" // ?chatId=
	endpointHistoryDelete = chatPrefix + "/history/delete" // ?chatId=

	// Health endpoint
	endpointPing = "/ping"
)
