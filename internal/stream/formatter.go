// Package stream contains the chunk-level transforms applied between the
// model's raw token stream and the SSE events sent to the browser.
package stream

import (
	"regexp"
	"strings"
)

const (
	windowSize  = 50 // 滚动窗口：最近观察到of字符数
	contextSize = 25 // 每个检测决策可见of上文长度
)

var dateSuffixRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}\s*$`)

// 模型回显提示词残留of标记；出现后本次流剩余内容全部丢弃
var promptEchoMarkers = []string{"输出说明", "格式要求", "注意事项"}

// Formatter 实时流式格式化器：逐字处理chunk，在序号and小节标题前补换行，
// 不缓冲输出——每个输入字符要么在本次调用中原样发出，要么作为提示词回显被丢弃。
type Formatter struct {
	hasOutputNote bool
	window        []rune // 最近 50 个输入字符（发射前）
}

// NewFormatter create一个全new状态of格式化器
func NewFormatter() *Formatter {
	return &Formatter{}
}

// ProcessChunk 逐字实时格式化，立即返回本chunk应发出of文本
func (f *Formatter) ProcessChunk(chunk string) string {
	if f.shouldSkipChunk(chunk) {
		return ""
	}
	if chunk == "" {
		return ""
	}

	runes := []rune(chunk)

	// 更新上下文窗口
	f.window = append(f.window, runes...)
	if len(f.window) > windowSize {
		f.window = f.window[len(f.window)-windowSize:]
	}

	var out strings.Builder
	out.Grow(len(chunk) + 8)

	for i, c := range runes {
		// 当前字符之前of上文，最多 contextSize 个字符
		contextLen := len(f.window) - len(runes) + i
		var context []rune
		if contextLen > 0 {
			start := contextLen - contextSize
			if start < 0 {
				start = 0
			}
			context = f.window[start:contextLen]
		}

		if isNumberedPrefix(context, c) {
			out.WriteByte('\n')
		}
		if isTitlePrefix(context, c) {
			out.WriteByte('\n')
		}
		out.WriteRune(c)
	}

	return out.String()
}

// Finish 流结束收尾。无缓冲，永远返回空串；清空窗口以便复用。
func (f *Formatter) Finish() string {
	f.window = f.window[:0]
	return ""
}

// Reset 重置状态（用于新会话）
func (f *Formatter) Reset() {
	f.window = f.window[:0]
	f.hasOutputNote = false
}

func (f *Formatter) shouldSkipChunk(chunk string) bool {
	if chunk == "" || f.hasOutputNote {
		return true
	}
	for _, marker := range promptEchoMarkers {
		if strings.Contains(chunk, marker) {
			f.hasOutputNote = true
			return true
		}
	}
	return false
}

// isNumberedPrefix 检测序号前缀（如 "1." 或 "2、"）：
// 当前字符是 '.' 或 '、'，上一个字符是单个数字（排除 "10.5" 这类小数），
// 且最近 25 个字符内出现过换行or小节关键字。
// 上文只有一个孤立数字时（流开头）证据不足，不触发。
func isNumberedPrefix(context []rune, c rune) bool {
	if c != '.' && c != '、' {
		return false
	}
	n := len(context)
	if n < 1 {
		return false
	}
	prev := context[n-1]
	if !isASCIIDigit(prev) {
		return false
	}
	if n == 1 {
		// 流开头的孤立数字，保守处理
		return false
	}
	if isASCIIDigit(context[n-2]) {
		// 两位数以上，"10." 是小数或年份的一部分
		return false
	}

	hasNewline := strings.ContainsRune(string(context[:n-1]), '\n')

	hasTitleKeyword := false
	tail := context
	if n > 20 {
		tail = context[n-20:]
	}
	tailStr := string(tail)
	if strings.Contains(tailStr, "主要工作") || strings.Contains(tailStr, "关注工作") ||
		strings.Contains(tailStr, "交接班总结") {
		hasTitleKeyword = true
	}

	return hasNewline || hasTitleKeyword
}

// isTitlePrefix 检测小节标题首字（"昨日处理主要工作" / "今日关注工作"）。
// 只在行首触发，且同一标题刚被断过行时不重复插入。
func isTitlePrefix(context []rune, c rune) bool {
	ctx := string(context)

	switch c {
	case '昨':
		if ctx == "" || strings.HasSuffix(ctx, "\n") || dateSuffixRe.MatchString(ctx) {
			if !strings.Contains(ctx, "昨日处理主要工作") {
				return true
			}
		}
	case '今':
		if ctx == "" || strings.HasSuffix(ctx, "\n") {
			if !strings.Contains(ctx, "今日关注工作") {
				return true
			}
		}
	}

	return false
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
