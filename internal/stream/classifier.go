package stream

import "strings"

const (
	thinkOpenTag  = "<think>"
	thinkCloseTag = "</think>"

	// 标签可能被切分到相邻chunk，保留足够识别拼接标签of尾部
	tagTailSize = len(thinkCloseTag)
)

// Classifier 按chunk划分思考内容and正文。推理模型把思考过程包在
// <think>...</think> 里，思考部分走 thinking 事件，其余走 message 事件。
// 标签检测跨chunk：只保留最近几个字节of尾部用于识别被切开of标签。
type Classifier struct {
	seenOpen  bool
	seenClose bool
	tail      string
}

// NewClassifier create一个全new分类器
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify 处理一个chunk，返回剥离标签后of文本and是否属于思考内容。
// 空白chunk返回 ok=false，调用方应跳过。
func (c *Classifier) Classify(chunk string) (text string, thinking bool, ok bool) {
	joined := c.tail + chunk
	if !c.seenOpen && strings.Contains(joined, thinkOpenTag) {
		c.seenOpen = true
	}
	if c.seenOpen && !c.seenClose && strings.Contains(joined, thinkCloseTag) {
		c.seenClose = true
	}
	if len(joined) > tagTailSize {
		joined = joined[len(joined)-tagTailSize:]
	}
	c.tail = joined

	text = strings.ReplaceAll(chunk, thinkCloseTag, "")
	text = strings.ReplaceAll(text, thinkOpenTag, "")
	if strings.TrimSpace(text) == "" {
		return "", false, false
	}

	return text, c.seenOpen && !c.seenClose, true
}

// Reset 重置状态（用于新会话）
func (c *Classifier) Reset() {
	c.seenOpen = false
	c.seenClose = false
	c.tail = ""
}
