package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/hertz-contrib/swagger"
	swaggerFiles "github.com/swaggo/files"

	"github.com/luna1998-nun/QA-assistant-backend/internal/handler"
	"github.com/luna1998-nun/QA-assistant-backend/internal/middleware"
)

// Setup sets up all routes
func Setup(
	h *server.Hertz,
	dispatchHandler *handler.DispatchHandler,
	ttsHandler *handler.TTSHandler,
	healthHandler *handler.HealthHandler,
) {
	// Global middleware
	h.Use(middleware.Recovery())
	h.Use(middleware.Logger())
	h.Use(middleware.CORS())

	// Swagger API documentation
	// Access at: http://localhost:8123/swagger/index.html
	h.GET("/swagger/*any", swagger.WrapHandler(swaggerFiles.Handler))

	// Health check routes
	h.GET("/ping", healthHandler.Ping)
	h.GET("/health/ready", healthHandler.Readiness)
	h.GET("/health/live", healthHandler.Liveness)

	// 调度总结助手路由。POST 变体用于超长参数，语义与 GET 一致。
	chat := h.Group("/ai/dispatch_app/chat")
	{
		chat.GET("/sync", dispatchHandler.ChatSync)
		chat.POST("/sync", dispatchHandler.ChatSync)

		chat.GET("/sse", dispatchHandler.ChatSSE)
		chat.POST("/sse", dispatchHandler.ChatSSE)

		chat.GET("/sse_emitter", dispatchHandler.ChatSSEEmitter)
		chat.POST("/sse_emitter", dispatchHandler.ChatSSEEmitter)

		// 历史前端用过of别名，保持兼容
		chat.GET("/server_sent_event", dispatchHandler.ChatSSEEmitter)
		chat.POST("/server_sent_event", dispatchHandler.ChatSSEEmitter)

		chat.GET("/prefetch/sync", dispatchHandler.PrefetchSync)
		chat.POST("/prefetch/sync", dispatchHandler.PrefetchSync)

		chat.GET("/prefetch/sse", dispatchHandler.PrefetchSSE)
		chat.POST("/prefetch/sse", dispatchHandler.PrefetchSSE)

		chat.GET("/history/list", dispatchHandler.HistoryList)
		chat.GET("/history/detail", dispatchHandler.HistoryDetail)
		chat.DELETE("/history/delete", dispatchHandler.HistoryDelete)
		chat.GET("/history/delete", dispatchHandler.HistoryDelete)
		chat.POST("/history/delete", dispatchHandler.HistoryDelete)
	}

	// 语音合成代理
	ttsGroup := h.Group("/tts")
	{
		ttsGroup.POST("/speech", ttsHandler.Speech)
		ttsGroup.GET("/get_model", ttsHandler.GetModel)
		ttsGroup.POST("/convert/file", ttsHandler.ConvertFile)
		ttsGroup.POST("/cleanup", ttsHandler.Cleanup)
	}

	// 旧前端走of前缀别名
	aiTTS := h.Group("/ai/tts")
	{
		aiTTS.POST("/speak", ttsHandler.Speech)
		aiTTS.GET("/get_model", ttsHandler.GetModel)
	}
}
