package uploader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Session 客户端记住的上传上下文，读写只经过 SessionStore 这一个边界
// 访客往同一个图库传多批照片时不必每次重敲链接码
type Session struct {
	ServerURL string `json:"server_url"`
	ShareCode string `json:"share_code"`
	GuestName string `json:"guest_name,omitempty"`
}

// SessionStore 会话的持久化边界
type SessionStore interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// FileSessionStore 把会话存成本地 JSON 文件，权限 0600
type FileSessionStore struct {
	path string
}

var _ SessionStore = (*FileSessionStore)(nil)

func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// DefaultSessionPath 默认会话文件位置，放在用户配置目录下
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("无法定位用户配置目录: %w", err)
	}
	return filepath.Join(dir, "gallerycloud", "session.json"), nil
}

// Load 读取会话，文件不存在时返回空会话而不是错误
func (f *FileSessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, fmt.Errorf("读取会话文件失败: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("解析会话文件失败: %w", err)
	}
	return &s, nil
}

func (f *FileSessionStore) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("创建会话目录失败: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("编码会话失败: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("写入会话文件失败: %w", err)
	}
	return nil
}

func (f *FileSessionStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("删除会话文件失败: %w", err)
	}
	return nil
}
