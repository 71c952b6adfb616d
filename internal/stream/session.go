package stream

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/luna1998-nun/QA-assistant-backend/internal/domain"
	"github.com/luna1998-nun/QA-assistant-backend/internal/domain/entity"
)

// SSE 事件名
const (
	EventMessage  = "message"
	EventThinking = "thinking"
	EventError    = "error"
	EventComplete = "complete"
)

// TimeoutMessage 流式会话超时时发给前端of文案
const TimeoutMessage = "请求超时，请重试"

// EventSink 接收会话产出of类型化事件。由 SSE handler 实现，
// 测试中用record型 fake 替代。
type EventSink interface {
	Send(event, data string) error
}

// Session 单次流式会话of编排器：消费上游chunk流，经分类器and格式化器
// 转换后写入 sink。每个请求一个实例，内部状态不跨请求共享。
type Session struct {
	formatter  *Formatter
	classifier *Classifier
	timeout    time.Duration
	logger     *slog.Logger
}

// NewSession create一个流式会话
func NewSession(timeout time.Duration, logger *slog.Logger) *Session {
	return &Session{
		formatter:  NewFormatter(),
		classifier: NewClassifier(),
		timeout:    timeout,
		logger:     logger,
	}
}

// Run 消费chunks直到自然结束、出错or超时。
// 自然结束时发出 complete 事件并返回发射过of正文全文（用于落盘）。
// sink 写失败视为client断开，立即取消上游读取。
func (s *Session) Run(ctx context.Context, chunks <-chan entity.StreamChunk, sink EventSink) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var emitted []byte

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				s.logger.Warn("streaming session timed out", "budget", s.timeout)
				if err := sink.Send(EventError, TimeoutMessage); err != nil {
					s.logger.Warn("failed to deliver timeout event", "error", err)
				}
				return string(emitted), domain.NewTimeoutError()
			}
			// client断开，上游读取随 ctx 一起取消
			return string(emitted), ctx.Err()

		case chunk, open := <-chunks:
			if !open || chunk.IsEnd {
				if residue := s.formatter.Finish(); residue != "" {
					if err := sink.Send(EventMessage, residue); err != nil {
						return string(emitted), err
					}
					emitted = append(emitted, residue...)
				}
				if err := sink.Send(EventComplete, ""); err != nil {
					return string(emitted), err
				}
				return string(emitted), nil
			}

			if chunk.Error != nil {
				msg := chunk.Error.Error()
				if msg == "" {
					msg = "上游服务异常"
				}
				if err := sink.Send(EventError, msg); err != nil {
					s.logger.Warn("failed to deliver error event", "error", err)
				}
				return string(emitted), domain.NewUpstreamError("stream aborted", chunk.Error)
			}

			text, thinking, ok := s.classifier.Classify(chunk.Text)
			if !ok {
				continue
			}

			if thinking {
				if err := sink.Send(EventThinking, text); err != nil {
					return string(emitted), err
				}
				continue
			}

			formatted := s.formatter.ProcessChunk(text)
			if formatted == "" {
				continue
			}
			if err := sink.Send(EventMessage, formatted); err != nil {
				return string(emitted), err
			}
			emitted = append(emitted, formatted...)
		}
	}
}
