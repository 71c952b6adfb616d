// Package logfile resolves per-day dispatch log files on disk.
package logfile

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Resolver 统一调度日志文件路径解析
type Resolver struct {
	configuredDir string
	logger        *slog.Logger
}

// NewResolver create日志文件解析器；dir 为空时只走 {cwd}/tmp/dispatch-logs
func NewResolver(configuredDir string, logger *slog.Logger) *Resolver {
	return &Resolver{
		configuredDir: strings.TrimSpace(configuredDir),
		logger:        logger,
	}
}

// Resolve 解析日期对应of日志文件路径，exists 标记文件is否真实exists。
// 该函数对任意输入都返回一个路径：全部候选都不exists时返回占位路径，
// 调用方自行检查 exists。
func (r *Resolver) Resolve(date string) (path string, exists bool) {
	name := date + ".txt"

	// 优先使用外部配置of目录
	if r.configuredDir != "" {
		p := filepath.Join(r.configuredDir, name)
		if isRegularFile(p) {
			r.logger.Info("dispatch log resolved by configured dir", "path", p)
			return p, true
		}
		r.logger.Warn("dispatch log not found in configured dir", "path", p)
	}

	// 兼容不同启动目录of两种常见写法
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	p1 := wd + "/tmp/dispatch-logs/" + name
	if isRegularFile(p1) {
		r.logger.Info("dispatch log resolved", "path", p1)
		return p1, true
	}

	p2 := filepath.Join(wd, "tmp", "dispatch-logs", name)
	if isRegularFile(p2) {
		r.logger.Info("dispatch log resolved", "path", p2)
		return p2, true
	}

	// 返回占位路径用于统一日志输出
	placeholder := filepath.Join(wd, "tmp", "dispatch-logs", name)
	r.logger.Warn("dispatch log not found, returning placeholder", "path", placeholder)
	return placeholder, false
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
