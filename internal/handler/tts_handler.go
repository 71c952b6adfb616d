package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/luna1998-nun/QA-assistant-backend/internal/handler/dto"
	"github.com/luna1998-nun/QA-assistant-backend/internal/infrastructure/tts"
)

// TTSHandler 语音合成代理处理器
type TTSHandler struct {
	client *tts.Client
	logger *slog.Logger
}

// NewTTSHandler create语音合成处理器
func NewTTSHandler(client *tts.Client, logger *slog.Logger) *TTSHandler {
	return &TTSHandler{
		client: client,
		logger: logger,
	}
}

// Speech 语音合成，透传请求体给上游并返回音频流
//
//	@Summary		语音合成
//	@Description	把 {input,speed,language,voice,format} 转发给上游，200 时返回音频字节
//	@Tags			TTS
//	@Accept			json
//	@Produce		octet-stream
//	@Param			request	body	dto.SpeechRequest	true	"合成请求"
//	@Success		200		"音频字节，Content-Type 由 format 决定"
//	@Failure		400		{object}	Response	"input 为空"
//	@Router			/tts/speech [post]
func (h *TTSHandler) Speech(ctx context.Context, c *app.RequestContext) {
	var req dto.SpeechRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("failed to bind tts request", "error", err)
		BadRequestResponse(c, "请求体不是合法of JSON")
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		h.logger.Error("tts request missing input")
		BadRequestResponse(c, "input 参数不能为空")
		return
	}

	audio, status, err := h.client.Synthesize(ctx, tts.SpeechRequest{
		Input:    req.Input,
		Speed:    req.Speed,
		Language: req.Language,
		Voice:    req.Voice,
		Format:   req.Format,
	})
	if err != nil {
		h.logger.Error("tts synthesis failed", "error", err)
		ErrorResponse(c, err)
		return
	}
	if status < 200 || status >= 300 {
		// 上游状态原样透传
		h.logger.Error("tts upstream returned error status", "status", status)
		c.Status(status)
		return
	}

	c.Data(consts.StatusOK, contentTypeForFormat(req.Format), audio)
}

// GetModel 查询上游模型信息
//
//	@Summary		查询 TTS 模型
//	@Tags			TTS
//	@Produce		json
//	@Param			model_uid	query	string	true	"模型标识"
//	@Router			/tts/get_model [get]
func (h *TTSHandler) GetModel(ctx context.Context, c *app.RequestContext) {
	modelUID := string(c.FormValue("model_uid"))
	if strings.TrimSpace(modelUID) == "" {
		BadRequestResponse(c, "model_uid 参数不能为空")
		return
	}

	body, status, err := h.client.GetModel(ctx, modelUID)
	if err != nil {
		h.logger.Error("tts get_model failed", "error", err)
		ErrorResponse(c, err)
		return
	}

	c.Data(status, "application/json; charset=utf-8", body)
}

// ConvertFile 合成语音并落盘，返回文件路径
//
//	@Summary		文字转语音文件
//	@Tags			TTS
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ConvertFileRequest	true	"转换请求"
//	@Success		200		{object}	dto.ConvertFileResponse
//	@Router			/tts/convert/file [post]
func (h *TTSHandler) ConvertFile(ctx context.Context, c *app.RequestContext) {
	var req dto.ConvertFileRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("failed to bind convert request", "error", err)
		BadRequestResponse(c, "请求体不是合法of JSON")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(consts.StatusBadRequest, dto.ConvertFileResponse{
			Success: false,
			Message: "文本内容不能为空",
		})
		return
	}

	path, err := h.client.SynthesizeToFile(ctx, tts.SpeechRequest{
		Input:    req.Text,
		Speed:    req.Speed,
		Language: req.Language,
		Voice:    req.Voice,
		Format:   req.Format,
	})
	if err != nil {
		h.logger.Error("tts convert to file failed", "error", err)
		c.JSON(consts.StatusInternalServerError, dto.ConvertFileResponse{
			Success: false,
			Message: "语音合成失败",
		})
		return
	}

	c.JSON(consts.StatusOK, dto.ConvertFileResponse{
		Success:  true,
		FilePath: path,
		Message:  "语音合成成功",
	})
}

// Cleanup 清理过期音频文件
//
//	@Summary		清理过期音频
//	@Tags			TTS
//	@Param			hoursOld	query	int	false	"清理多少小时前of文件，默认24"
//	@Router			/tts/cleanup [post]
func (h *TTSHandler) Cleanup(ctx context.Context, c *app.RequestContext) {
	hours := c.DefaultQuery("hoursOld", "24")
	maxAge, err := parseHours(hours)
	if err != nil {
		BadRequestResponse(c, "hoursOld 必须是正整数")
		return
	}

	removed, err := h.client.CleanupOldAudio(maxAge)
	if err != nil {
		h.logger.Error("tts cleanup failed", "error", err)
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, map[string]interface{}{
		"removed":  removed,
		"hoursOld": hours,
	})
}

func parseHours(s string) (time.Duration, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid hours: %q", s)
	}
	return time.Duration(n) * time.Hour, nil
}

func contentTypeForFormat(format string) string {
	switch strings.ToLower(format) {
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "pcm":
		return "audio/pcm"
	default:
		return "application/octet-stream"
	}
}
