package stream

import (
	"strings"
	"testing"
)

func feed(f *Formatter, chunks ...string) string {
	var out strings.Builder
	for _, c := range chunks {
		out.WriteString(f.ProcessChunk(c))
	}
	out.WriteString(f.Finish())
	return out.String()
}

func TestFormatterNumberedList(t *testing.T) {
	// 检测发生在分隔符上，换行落在数字与分隔符之间
	got := feed(NewFormatter(), "header\n1. a\n2. b")
	want := "header\n1\n. a\n2\n. b"
	if got != want {
		t.Errorf("numbered list: got %q, want %q", got, want)
	}
}

func TestFormatterNoBreakInsideWord(t *testing.T) {
	got := feed(NewFormatter(), "abc1.def")
	if got != "abc1.def" {
		t.Errorf("mid-word digit-dot must pass through, got %q", got)
	}
}

func TestFormatterDecimalPreserved(t *testing.T) {
	in := "说明\nvalue is 10.5 units"
	got := feed(NewFormatter(), in)
	if got != in {
		t.Errorf("decimal number altered: got %q", got)
	}
}

func TestFormatterSectionHeadings(t *testing.T) {
	got := feed(NewFormatter(), "2024-01-15", "昨日处理主要工作：检修。\n", "今日关注工作：巡检。")
	if !strings.Contains(got, "\n昨日处理主要工作") {
		t.Errorf("missing break before 昨日 heading: %q", got)
	}
	if !strings.Contains(got, "\n今日关注工作") {
		t.Errorf("missing break before 今日 heading: %q", got)
	}
}

func TestFormatterHeadingIdempotent(t *testing.T) {
	got := feed(NewFormatter(), "昨日处理主要工作：昨日无异常")
	// 第二个"昨"上文已含完整标题，不得再次断行
	if strings.Count(got, "\n") != 1 {
		t.Errorf("heading break not idempotent: %q", got)
	}
}

func TestFormatterHeadingNotRebrokenBackToBack(t *testing.T) {
	f := NewFormatter()
	got := f.ProcessChunk("\n昨日处理主要工作") + f.ProcessChunk("\n昨日处理主要工作")
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("triple newline after repeated heading: %q", got)
	}
	if strings.Count(got, "\n\n") != 1 {
		t.Errorf("expected exactly one inserted heading break, got %q", got)
	}
}

func TestFormatterPromptEchoSuppressed(t *testing.T) {
	f := NewFormatter()
	var out strings.Builder
	out.WriteString(f.ProcessChunk("总结正文"))
	out.WriteString(f.ProcessChunk("输出说明：请按以下格式"))
	out.WriteString(f.ProcessChunk("后续内容也要丢弃"))
	out.WriteString(f.Finish())
	if got := out.String(); got != "总结正文" {
		t.Errorf("prompt echo leaked: %q", got)
	}
	// Reset 后恢复正常发射
	f.Reset()
	if got := f.ProcessChunk("新会话"); got != "新会话" {
		t.Errorf("Reset did not clear echo latch: %q", got)
	}
}

func TestFormatterChunkInvariance(t *testing.T) {
	texts := []string{
		"header\n1. a\n2. b",
		"2024-01-15昨日处理主要工作：1号井调产。",
		"今日关注工作：1、巡检 2、录取资料",
		"value is 10.5 units",
	}
	for _, text := range texts {
		runes := []rune(text)
		if len(runes) > windowSize {
			t.Fatalf("test text exceeds window: %q", text)
		}
		want := feed(NewFormatter(), text)
		for cut := 1; cut < len(runes); cut++ {
			got := feed(NewFormatter(), string(runes[:cut]), string(runes[cut:]))
			if got != want {
				t.Errorf("split at %d of %q: got %q, want %q", cut, text, got, want)
			}
		}
	}
}

func TestFormatterEmptyChunk(t *testing.T) {
	f := NewFormatter()
	if got := f.ProcessChunk(""); got != "" {
		t.Errorf("empty chunk produced output: %q", got)
	}
	if got := f.Finish(); got != "" {
		t.Errorf("Finish must be bufferless, got %q", got)
	}
}
