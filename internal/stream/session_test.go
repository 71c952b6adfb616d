package stream

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/luna1998-nun/QA-assistant-backend/internal/domain"
	"github.com/luna1998-nun/QA-assistant-backend/internal/domain/entity"
)

// recordingSink record收到of事件，供断言
type recordingSink struct {
	events []sinkEvent
	failAt int // 第N次Send返回错误，0表示永不failure
}

type sinkEvent struct {
	name string
	data string
}

func (s *recordingSink) Send(event, data string) error {
	if s.failAt > 0 && len(s.events)+1 >= s.failAt {
		return errors.New("client gone")
	}
	s.events = append(s.events, sinkEvent{name: event, data: data})
	return nil
}

func (s *recordingSink) concat(name string) string {
	var b strings.Builder
	for _, e := range s.events {
		if e.name == name {
			b.WriteString(e.data)
		}
	}
	return b.String()
}

func chunkChan(texts ...string) <-chan entity.StreamChunk {
	ch := make(chan entity.StreamChunk, len(texts))
	for _, t := range texts {
		ch <- entity.StreamChunk{Text: t}
	}
	close(ch)
	return ch
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSessionThinkingMessagePartition(t *testing.T) {
	sink := &recordingSink{}
	session := NewSession(time.Minute, testLogger())

	out, err := session.Run(context.Background(),
		chunkChan("<think>pl", "an", "</think>he", "llo wo", "rld"), sink)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := sink.concat(EventThinking); got != "plan" {
		t.Errorf("thinking events: got %q, want %q", got, "plan")
	}
	if got := sink.concat(EventMessage); got != "hello world" {
		t.Errorf("message events: got %q, want %q", got, "hello world")
	}
	if out != "hello world" {
		t.Errorf("returned transcript: got %q", out)
	}

	last := sink.events[len(sink.events)-1]
	if last.name != EventComplete {
		t.Errorf("stream must terminate with complete, got %q", last.name)
	}
}

func TestSessionCompleteOnEmptyStream(t *testing.T) {
	sink := &recordingSink{}
	session := NewSession(time.Minute, testLogger())

	if _, err := session.Run(context.Background(), chunkChan(), sink); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sink.events) != 1 || sink.events[0].name != EventComplete {
		t.Errorf("empty stream: want single complete event, got %v", sink.events)
	}
}

func TestSessionUpstreamError(t *testing.T) {
	ch := make(chan entity.StreamChunk, 2)
	ch <- entity.StreamChunk{Text: "部分输出"}
	ch <- entity.StreamChunk{Error: errors.New("connection reset")}
	close(ch)

	sink := &recordingSink{}
	session := NewSession(time.Minute, testLogger())

	_, err := session.Run(context.Background(), ch, sink)
	if !domain.IsUpstream(err) {
		t.Fatalf("want upstream error, got %v", err)
	}

	last := sink.events[len(sink.events)-1]
	if last.name != EventError || last.data != "connection reset" {
		t.Errorf("error event: got %+v", last)
	}
	for _, e := range sink.events {
		if e.name == EventComplete {
			t.Error("errored stream must not emit complete")
		}
	}
}

func TestSessionTimeout(t *testing.T) {
	ch := make(chan entity.StreamChunk) // 永不产出
	sink := &recordingSink{}
	session := NewSession(20*time.Millisecond, testLogger())

	_, err := session.Run(context.Background(), ch, sink)
	if !domain.IsTimeout(err) {
		t.Fatalf("want timeout error, got %v", err)
	}
	if len(sink.events) != 1 || sink.events[0].name != EventError || sink.events[0].data != TimeoutMessage {
		t.Errorf("timeout event: got %v", sink.events)
	}
}

func TestSessionClientCancel(t *testing.T) {
	ch := make(chan entity.StreamChunk)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordingSink{}
	session := NewSession(time.Minute, testLogger())

	_, err := session.Run(ctx, ch, sink)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if len(sink.events) != 0 {
		t.Errorf("no events expected after client cancel, got %v", sink.events)
	}
}

func TestSessionStopsOnSinkFailure(t *testing.T) {
	sink := &recordingSink{failAt: 2}
	session := NewSession(time.Minute, testLogger())

	_, err := session.Run(context.Background(), chunkChan("甲", "乙", "丙"), sink)
	if err == nil {
		t.Fatal("want error when sink rejects writes")
	}
	if len(sink.events) != 1 {
		t.Errorf("must stop after first sink failure, got %v", sink.events)
	}
}

func TestSessionSkipsWhitespaceChunks(t *testing.T) {
	sink := &recordingSink{}
	session := NewSession(time.Minute, testLogger())

	if _, err := session.Run(context.Background(), chunkChan("  ", "\n", "正文"), sink); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := sink.concat(EventMessage); got != "正文" {
		t.Errorf("whitespace chunks leaked: %q", got)
	}
}
