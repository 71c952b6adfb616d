// Package memory persists conversation transcripts as one file per chat id.
package memory

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/luna1998-nun/QA-assistant-backend/internal/domain"
	"github.com/luna1998-nun/QA-assistant-backend/internal/domain/entity"
)

const artifactExt = ".json"

// Store is ChatMemory interfaceof文件implementation。
// 每个会话一个 {id}.json，写入走临时文件 + rename，
// 同一 id of并发写由 per-id 锁串行化。
type Store struct {
	baseDir string
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ domain.ChatMemory = (*Store)(nil)

// NewStore create文件存储并确保目录exists
func NewStore(baseDir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, domain.NewStoreIOError(fmt.Errorf("create base dir %s: %w", baseDir, err))
	}
	return &Store{
		baseDir: baseDir,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}, nil
}

// BaseDir 返回落盘目录
func (s *Store) BaseDir() string {
	return s.baseDir
}

func (s *Store) idLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Store) artifactPath(id string) string {
	return filepath.Join(s.baseDir, id+artifactExt)
}

// Append 追加消息并立即落盘
func (s *Store) Append(id string, messages ...entity.Message) error {
	if len(messages) == 0 {
		return nil
	}
	l := s.idLock(id)
	l.Lock()
	defer l.Unlock()

	existing := s.readLocked(id)
	existing = append(existing, messages...)

	data, err := sonic.Marshal(existing)
	if err != nil {
		return domain.NewStoreIOError(fmt.Errorf("encode transcript %s: %w", id, err))
	}

	// 原子替换，写一半of文件不会被并发读者观察到
	tmp, err := os.CreateTemp(s.baseDir, id+".*.tmp")
	if err != nil {
		return domain.NewStoreIOError(fmt.Errorf("create temp for %s: %w", id, err))
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return domain.NewStoreIOError(fmt.Errorf("write transcript %s: %w", id, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return domain.NewStoreIOError(fmt.Errorf("flush transcript %s: %w", id, err))
	}
	if err := os.Rename(tmpName, s.artifactPath(id)); err != nil {
		os.Remove(tmpName)
		return domain.NewStoreIOError(fmt.Errorf("persist transcript %s: %w", id, err))
	}
	return nil
}

// Get 返回完整of有序会话。文件不existsor损坏时降级为空序列（只告警不报错）
func (s *Store) Get(id string) ([]entity.Message, error) {
	l := s.idLock(id)
	l.Lock()
	defer l.Unlock()
	return s.readLocked(id), nil
}

func (s *Store) readLocked(id string) []entity.Message {
	data, err := os.ReadFile(s.artifactPath(id))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read transcript, treating as empty", "chat_id", id, "error", err)
		}
		return nil
	}
	var messages []entity.Message
	if err := sonic.Unmarshal(data, &messages); err != nil {
		s.logger.Warn("corrupt transcript, treating as empty", "chat_id", id, "error", err)
		return nil
	}
	return messages
}

// Clear 删除会话落盘文件，幂等
func (s *Store) Clear(id string) error {
	l := s.idLock(id)
	l.Lock()
	defer l.Unlock()

	if err := os.Remove(s.artifactPath(id)); err != nil && !os.IsNotExist(err) {
		return domain.NewStoreIOError(fmt.Errorf("remove transcript %s: %w", id, err))
	}
	return nil
}

// ListIDs 枚举当前落盘of所有会话 id
func (s *Store) ListIDs() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, domain.NewStoreIOError(fmt.Errorf("scan %s: %w", s.baseDir, err))
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), artifactExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), artifactExt))
	}
	return ids, nil
}

// LastModified 返回落盘文件修改时间；文件不exists时 ok=false
func (s *Store) LastModified(id string) (time.Time, bool) {
	info, err := os.Stat(s.artifactPath(id))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
