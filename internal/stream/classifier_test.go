package stream

import "testing"

func TestClassifierPartition(t *testing.T) {
	c := NewClassifier()
	chunks := []string{"<think>pl", "an", "</think>he", "llo world"}

	var thinkingOut, messageOut string
	for _, chunk := range chunks {
		text, thinking, ok := c.Classify(chunk)
		if !ok {
			continue
		}
		if thinking {
			thinkingOut += text
		} else {
			messageOut += text
		}
	}

	if thinkingOut != "plan" {
		t.Errorf("thinking concatenation: got %q, want %q", thinkingOut, "plan")
	}
	if messageOut != "hello world" {
		t.Errorf("message concatenation: got %q, want %q", messageOut, "hello world")
	}
}

func TestClassifierSplitTags(t *testing.T) {
	// 标签被切分到相邻chunk时，拼接尾部仍要驱动开/闭切换。
	// 标签残片本身按原样透传，这里只验证状态切换。
	c := NewClassifier()

	c.Classify("<th")
	if _, thinking, _ := c.Classify("ink>深度思考"); !thinking {
		t.Error("split open tag not recognised")
	}
	c.Classify("</thi")
	if _, thinking, _ := c.Classify("nk>答案"); thinking {
		t.Error("split close tag not recognised")
	}
}

func TestClassifierNoTags(t *testing.T) {
	c := NewClassifier()
	text, thinking, ok := c.Classify("普通正文")
	if !ok || thinking || text != "普通正文" {
		t.Errorf("plain text misclassified: text=%q thinking=%v ok=%v", text, thinking, ok)
	}
}

func TestClassifierWhitespaceSkipped(t *testing.T) {
	c := NewClassifier()
	if _, _, ok := c.Classify("  \n\t"); ok {
		t.Error("whitespace-only chunk must be skipped")
	}
	if _, _, ok := c.Classify(""); ok {
		t.Error("empty chunk must be skipped")
	}
}

func TestClassifierUnclosedThink(t *testing.T) {
	// 缺少闭合标签时思考块保持打开
	c := NewClassifier()
	c.Classify("<think>开始")
	_, thinking, ok := c.Classify("还在想")
	if !ok || !thinking {
		t.Error("unclosed think block must keep classifying as thinking")
	}
}

func TestClassifierReset(t *testing.T) {
	c := NewClassifier()
	c.Classify("<think>a</think>b")
	c.Reset()
	_, thinking, _ := c.Classify("新会话正文")
	if thinking {
		t.Error("Reset did not clear think state")
	}
}
