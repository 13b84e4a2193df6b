package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/EnchantedPupu/atlas-backend-sub001/config"
)

var (
	ErrEmptyFile      = errors.New("附件为空")
	ErrFileTooLarge   = errors.New("附件超过大小限制")
	ErrTypeNotAllowed = errors.New("附件类型不允许")
)

// LocalStore 本地磁盘附件存储
// 文件按 uuid 重命名，扩展名取自内容嗅探结果而非上传文件名
type LocalStore struct {
	dir     string
	maxSize int64
	allowed map[string]bool
	logger  *zap.Logger
}

// NewLocalStore 创建本地存储，目录不存在时自动创建
func NewLocalStore(cfg *config.StorageConfig, logger *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建附件目录失败: %w", err)
	}
	allowed := make(map[string]bool, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[t] = true
	}
	return &LocalStore{
		dir:     cfg.Dir,
		maxSize: cfg.MaxSize,
		allowed: allowed,
		logger:  logger,
	}, nil
}

// Store 保存附件并返回相对存储路径
func (s *LocalStore) Store(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	limit := s.maxSize
	if limit <= 0 {
		limit = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("读取附件失败: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if int64(len(data)) > limit {
		return "", ErrFileTooLarge
	}

	mime := mimetype.Detect(data)
	if len(s.allowed) > 0 && !s.isAllowed(mime) {
		return "", fmt.Errorf("%w: %s", ErrTypeNotAllowed, mime.String())
	}

	name := uuid.New().String() + mime.Extension()
	dst := filepath.Join(s.dir, name)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("创建附件文件失败: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("写入附件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("写入附件失败: %w", err)
	}

	s.logger.Info("附件已保存",
		zap.String("original_name", filename),
		zap.String("stored_as", name),
		zap.String("mime", mime.String()),
		zap.Int("size", len(data)),
	)
	return name, nil
}

// Delete 删除 Store 返回的文件；文件不存在视为已删除
// 只接受存储目录内的文件名，不允许路径穿越
func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("无效的附件名: %q", name)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("删除附件失败: %w", err)
	}
	s.logger.Info("附件已删除", zap.String("stored_as", name))
	return nil
}

// isAllowed 沿 MIME 继承链匹配，例如 docx 也可命中 application/zip
func (s *LocalStore) isAllowed(mime *mimetype.MIME) bool {
	for m := mime; m != nil; m = m.Parent() {
		if s.allowed[stripParams(m.String())] {
			return true
		}
	}
	return false
}

// stripParams 去掉 "text/plain; charset=utf-8" 中的参数部分
func stripParams(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		return m[:i]
	}
	return m
}
