package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Stream       StreamConfig       `mapstructure:"stream"`
	TTS          TTSConfig          `mapstructure:"tts"`
	DispatchLogs DispatchLogsConfig `mapstructure:"dispatch_logs"`
	ChatMemory   ChatMemoryConfig   `mapstructure:"chat_memory"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Mode               string        `mapstructure:"mode"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	MaxRequestBodySize int           `mapstructure:"max_request_body_size"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

// LLMConfig 大模型上游配置
type LLMConfig struct {
	Provider       string        `mapstructure:"provider"` // ollama, openai
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"` // 连接超时
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`    // 响应读取超时
}

// StreamConfig SSE 流配置
type StreamConfig struct {
	Timeout time.Duration `mapstructure:"timeout"` // 单次流式会话预算
}

// TTSConfig 语音合成上游配置
type TTSConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	AudioTempDir string        `mapstructure:"audio_temp_dir"` // 合成音频落盘目录
}

// DispatchLogsConfig 调度日志目录配置
type DispatchLogsConfig struct {
	Dir string `mapstructure:"dir"` // 可选覆盖，空时走 {cwd}/tmp/dispatch-logs
}

// ChatMemoryConfig 会话记忆存储配置
type ChatMemoryConfig struct {
	Dir string `mapstructure:"dir"` // 空时走 {cwd}/tmp/chat-memory
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置配置文件路径
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// 默认配置文件路径
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// 设置环境变量前缀
	v.SetEnvPrefix("QA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 验证配置
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Note: Don't log here, logger will be initialized after config is loaded

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8123)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "3m")
	v.SetDefault("server.write_timeout", "11m") // 必须覆盖流预算，否则 SSE 被服务器掐断
	v.SetDefault("server.max_request_body_size", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.base_url", "http://localhost:11434")
	v.SetDefault("llm.model", "qwen3:14b")
	v.SetDefault("llm.connect_timeout", "60s")
	v.SetDefault("llm.read_timeout", "10m")
	v.SetDefault("stream.timeout", "10m")
	v.SetDefault("tts.base_url", "http://localhost:8001")
	v.SetDefault("tts.timeout", "15m")
}

// Validate 验证配置
func (c *Config) Validate() error {
	// 验证服务器端口
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// 验证服务模式
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server mode: %s, must be 'debug' or 'release'", c.Server.Mode)
	}

	// 验证日志级别
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	// 验证日志格式
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}

	// 验证大模型上游配置
	switch c.LLM.Provider {
	case "ollama":
	case "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for provider 'openai'")
		}
	default:
		return fmt.Errorf("invalid llm provider: %s, must be 'ollama' or 'openai'", c.LLM.Provider)
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}

	// 验证流预算
	if c.Stream.Timeout <= 0 {
		return fmt.Errorf("stream.timeout must be positive")
	}

	if c.TTS.BaseURL == "" {
		return fmt.Errorf("tts.base_url is required")
	}

	return nil
}

// GetServerAddr get服务器地址
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetReadTimeout get读超时时间
func (c *Config) GetReadTimeout() time.Duration {
	return c.Server.ReadTimeout
}

// GetWriteTimeout get写超时时间
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Server.WriteTimeout
}

// ChatMemoryDir 会话记忆落盘目录，默认 {cwd}/tmp/chat-memory
func (c *Config) ChatMemoryDir() string {
	if strings.TrimSpace(c.ChatMemory.Dir) != "" {
		return strings.TrimSpace(c.ChatMemory.Dir)
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return filepath.Join(wd, "tmp", "chat-memory")
}

// AudioTempDir 合成音频落盘目录，默认 {os.TempDir}/tts-audio
func (c *Config) AudioTempDir() string {
	if strings.TrimSpace(c.TTS.AudioTempDir) != "" {
		return strings.TrimSpace(c.TTS.AudioTempDir)
	}
	return filepath.Join(os.TempDir(), "tts-audio")
}
