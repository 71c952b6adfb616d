package dto

// SpeechRequest 语音合成代理请求，原样透传给上游
type SpeechRequest struct {
	Input    string  `json:"input"`
	Speed    float64 `json:"speed,omitempty"`
	Language string  `json:"language,omitempty"`
	Voice    string  `json:"voice,omitempty"`
	Format   string  `json:"format,omitempty"`
}

// ConvertFileRequest 文字转语音文件请求
type ConvertFileRequest struct {
	Text     string  `json:"text"`
	Voice    string  `json:"voice,omitempty"`
	Language string  `json:"language,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
	Format   string  `json:"format,omitempty"` // 默认 mp3
}

// ConvertFileResponse 文字转语音文件响应
type ConvertFileResponse struct {
	Success  bool   `json:"success"`
	FilePath string `json:"filePath,omitempty"`
	Message  string `json:"message"`
}
