package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/protocol/sse"

	"github.com/luna1998-nun/QA-assistant-backend/internal/domain"
	"github.com/luna1998-nun/QA-assistant-backend/internal/domain/entity"
	"github.com/luna1998-nun/QA-assistant-backend/internal/handler/dto"
	"github.com/luna1998-nun/QA-assistant-backend/internal/stream"
)

// DispatchHandler 调度总结请求处理器
type DispatchHandler struct {
	usecase       domain.DispatchUsecase
	streamTimeout time.Duration
	logger        *slog.Logger
}

// NewDispatchHandler create调度总结处理器
func NewDispatchHandler(usecase domain.DispatchUsecase, streamTimeout time.Duration, logger *slog.Logger) *DispatchHandler {
	return &DispatchHandler{
		usecase:       usecase,
		streamTimeout: streamTimeout,
		logger:        logger,
	}
}

// sseWriterSink 把会话事件写到 Hertz SSE Writer
type sseWriterSink struct {
	writer *sse.Writer
}

func (s *sseWriterSink) Send(event, data string) error {
	return s.writer.WriteEvent("", event, []byte(data))
}

// ChatSync 同步对话
//
//	@Summary		同步对话interface
//	@Description	发送一条消息并等待完整回复，响应为格式化后of纯文本
//	@Tags			Dispatch
//	@Produce		plain
//	@Param			message	query		string	true	"user消息"
//	@Param			chatId	query		string	false	"会话 id，empty时自动生成"
//	@Success		200		{string}	string	"助手回复"
//	@Router			/ai/dispatch_app/chat/sync [get]
func (h *DispatchHandler) ChatSync(ctx context.Context, c *app.RequestContext) {
	message := string(c.FormValue("message"))
	chatID := h.chatIDOrDefault(c)

	h.logger.Info("chat sync request", "chat_id", chatID, "message_len", len(message))

	reply, err := h.usecase.Chat(ctx, &domain.ChatRequest{ChatID: chatID, Message: message})
	if err != nil {
		h.logger.Error("chat sync failed", "chat_id", chatID, "error", err)
		ErrorResponse(c, err)
		return
	}

	c.String(consts.StatusOK, "%s", reply)
}

// ChatSSE 流式对话，原始chunk逐帧透传（data-only 帧）
//
//	@Summary		流式对话interface（原始帧）
//	@Tags			Dispatch
//	@Produce		text/event-stream
//	@Param			message	query	string	true	"user消息"
//	@Param			chatId	query	string	false	"会话 id"
//	@Router			/ai/dispatch_app/chat/sse [get]
func (h *DispatchHandler) ChatSSE(ctx context.Context, c *app.RequestContext) {
	message := string(c.FormValue("message"))
	chatID := h.chatIDOrDefault(c)

	c.SetStatusCode(consts.StatusOK)
	writer := sse.NewWriter(c)
	defer writer.Close()

	ch, err := h.usecase.ChatStream(ctx, &domain.ChatRequest{ChatID: chatID, Message: message})
	if err != nil {
		h.writeInBandError(writer, err)
		return
	}

	h.relayRawFrames(ctx, writer, ch)
}

// ChatSSEEmitter 流式对话，带 thinking/message/error/complete 事件分发
//
//	@Summary		流式对话interface（类型化事件）
//	@Tags			Dispatch
//	@Produce		text/event-stream
//	@Param			message	query	string	true	"user消息"
//	@Param			chatId	query	string	false	"会话 id"
//	@Router			/ai/dispatch_app/chat/sse_emitter [get]
func (h *DispatchHandler) ChatSSEEmitter(ctx context.Context, c *app.RequestContext) {
	message := string(c.FormValue("message"))
	chatID := h.chatIDOrDefault(c)

	h.logger.Info("chat sse_emitter request", "chat_id", chatID, "message_len", len(message))

	c.SetStatusCode(consts.StatusOK)
	writer := sse.NewWriter(c)
	defer writer.Close()
	sink := &sseWriterSink{writer: writer}

	ch, err := h.usecase.ChatStream(ctx, &domain.ChatRequest{ChatID: chatID, Message: message})
	if err != nil {
		if sendErr := sink.Send(stream.EventError, "错误："+inBandMessage(err)); sendErr != nil {
			h.logger.Error("failed to send error event", "error", sendErr)
		}
		return
	}

	session := stream.NewSession(h.streamTimeout, h.logger)
	if _, err := session.Run(ctx, ch, sink); err != nil {
		h.logger.Warn("sse session ended with error", "chat_id", chatID, "error", err)
	}
}

// PrefetchSync 预取某天调度日志并同步生成总结。
// 错误以带"错误："前缀of文本随 200 返回，保持与前端of既有约定。
//
//	@Summary		预取日志同步总结
//	@Tags			Dispatch
//	@Produce		plain
//	@Param			date	query		string	true	"日期 YYYY-MM-DD"
//	@Param			chatId	query		string	false	"会话 id"
//	@Success		200		{string}	string	"总结文本or错误说明"
//	@Router			/ai/dispatch_app/chat/prefetch/sync [get]
func (h *DispatchHandler) PrefetchSync(ctx context.Context, c *app.RequestContext) {
	date := string(c.FormValue("date"))
	chatID := strings.TrimSpace(string(c.FormValue("chatId")))

	reply, err := h.usecase.Prefetch(ctx, &domain.PrefetchRequest{ChatID: chatID, Date: date})
	if err != nil {
		h.logger.Warn("prefetch sync failed", "date", date, "error", err)
		c.String(consts.StatusOK, "%s", "错误："+inBandMessage(err))
		return
	}

	c.String(consts.StatusOK, "%s", reply)
}

// PrefetchSSE 预取日志并流式生成总结，原始帧透传
//
//	@Summary		预取日志流式总结
//	@Tags			Dispatch
//	@Produce		text/event-stream
//	@Param			date	query	string	true	"日期 YYYY-MM-DD"
//	@Param			chatId	query	string	false	"会话 id"
//	@Router			/ai/dispatch_app/chat/prefetch/sse [get]
func (h *DispatchHandler) PrefetchSSE(ctx context.Context, c *app.RequestContext) {
	date := string(c.FormValue("date"))
	chatID := strings.TrimSpace(string(c.FormValue("chatId")))

	c.SetStatusCode(consts.StatusOK)
	writer := sse.NewWriter(c)
	defer writer.Close()

	ch, err := h.usecase.PrefetchStream(ctx, &domain.PrefetchRequest{ChatID: chatID, Date: date})
	if err != nil {
		h.logger.Warn("prefetch sse failed", "date", date, "error", err)
		h.writeInBandError(writer, err)
		return
	}

	h.relayRawFrames(ctx, writer, ch)
}

// HistoryList 枚举所有会话，按时间倒序
//
//	@Summary		会话历史列表
//	@Tags			Dispatch
//	@Produce		json
//	@Success		200	{array}	dto.ChatHistoryItem
//	@Router			/ai/dispatch_app/chat/history/list [get]
func (h *DispatchHandler) HistoryList(ctx context.Context, c *app.RequestContext) {
	summaries, err := h.usecase.ListHistory()
	if err != nil {
		h.logger.Error("history list failed", "error", err)
		ErrorResponse(c, err)
		return
	}

	items := make([]dto.ChatHistoryItem, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, dto.ChatHistoryItem{
			ID:           s.ID,
			Title:        s.Title,
			Time:         s.LastModified.Format("2006-01-02 15:04:05"),
			MessageCount: s.MessageCount,
		})
	}

	c.JSON(consts.StatusOK, items)
}

// HistoryDetail 返回指定会话of全部消息
//
//	@Summary		会话详情
//	@Tags			Dispatch
//	@Produce		json
//	@Param			chatId	query	string	true	"会话 id"
//	@Success		200		{array}	dto.ChatMessage
//	@Router			/ai/dispatch_app/chat/history/detail [get]
func (h *DispatchHandler) HistoryDetail(ctx context.Context, c *app.RequestContext) {
	chatID := string(c.FormValue("chatId"))

	messages, err := h.usecase.HistoryDetail(chatID)
	if err != nil {
		h.logger.Error("history detail failed", "chat_id", chatID, "error", err)
		ErrorResponse(c, err)
		return
	}

	items := make([]dto.ChatMessage, 0, len(messages))
	for _, m := range messages {
		items = append(items, dto.ChatMessage{Role: m.Role, Content: m.Content})
	}

	c.JSON(consts.StatusOK, items)
}

// HistoryDelete 删除指定会话
//
//	@Summary		删除会话
//	@Tags			Dispatch
//	@Param			chatId	query	string	true	"会话 id"
//	@Success		200
//	@Router			/ai/dispatch_app/chat/history/delete [delete]
func (h *DispatchHandler) HistoryDelete(ctx context.Context, c *app.RequestContext) {
	chatID := string(c.FormValue("chatId"))

	if err := h.usecase.DeleteHistory(chatID); err != nil {
		h.logger.Error("history delete failed", "chat_id", chatID, "error", err)
		ErrorResponse(c, err)
		return
	}

	c.Status(consts.StatusOK)
}

// relayRawFrames 把上游chunk逐帧写成 data-only SSE 帧
func (h *DispatchHandler) relayRawFrames(ctx context.Context, writer *sse.Writer, ch <-chan entity.StreamChunk) {
	for {
		select {
		case <-ctx.Done():
			return
		case chunk, open := <-ch:
			if !open || chunk.IsEnd {
				return
			}
			if chunk.Error != nil {
				h.writeInBandError(writer, chunk.Error)
				return
			}
			if chunk.Text == "" {
				continue
			}
			if err := writer.WriteEvent("", "", []byte(chunk.Text)); err != nil {
				h.logger.Warn("client disconnected during raw stream", "error", err)
				return
			}
		}
	}
}

// writeInBandError 把错误作为 data 帧发给client（HTTP 状态已提交为 200）
func (h *DispatchHandler) writeInBandError(writer *sse.Writer, err error) {
	if werr := writer.WriteEvent("", "", []byte("错误："+inBandMessage(err))); werr != nil {
		h.logger.Error("failed to write in-band error", "error", werr)
	}
}

// chatIDOrDefault empty chatId 时合成默认会话 id
func (h *DispatchHandler) chatIDOrDefault(c *app.RequestContext) string {
	chatID := strings.TrimSpace(string(c.FormValue("chatId")))
	if chatID == "" {
		chatID = fmt.Sprintf("default-%d", time.Now().UnixMilli())
		h.logger.Info("using default chat id", "chat_id", chatID)
	}
	return chatID
}

// inBandMessage 提取适合透出给前端of错误文案
func inBandMessage(err error) string {
	var derr *domain.DomainError
	if errors.As(err, &derr) {
		return derr.UserMessage()
	}
	return "读取日志失败 - " + err.Error()
}
