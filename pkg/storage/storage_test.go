package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/EnchantedPupu/atlas-backend-sub001/config"
)

var pdfHeader = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")

func newTestStore(t *testing.T, maxSize int64, allowed ...string) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(&config.StorageConfig{
		Dir:          filepath.Join(t.TempDir(), "uploads"),
		MaxSize:      maxSize,
		AllowedTypes: allowed,
	}, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestStore_SavesWithDetectedExtension(t *testing.T) {
	s := newTestStore(t, 1<<20, "application/pdf")

	name, err := s.Store(context.Background(), "plan.bin", bytes.NewReader(pdfHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".pdf"), "stored name %q", name)

	got, err := os.ReadFile(filepath.Join(s.dir, name))
	require.NoError(t, err)
	assert.Equal(t, pdfHeader, got)
}

func TestStore_RejectsDisallowedType(t *testing.T) {
	s := newTestStore(t, 1<<20, "application/pdf")

	_, err := s.Store(context.Background(), "notes.txt", strings.NewReader("plain text"))
	assert.ErrorIs(t, err, ErrTypeNotAllowed)
}

func TestStore_AllowsTextWithCharset(t *testing.T) {
	s := newTestStore(t, 1<<20, "text/plain")

	name, err := s.Store(context.Background(), "notes.txt", strings.NewReader("plain text"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".txt"))
}

func TestStore_RejectsOversize(t *testing.T) {
	s := newTestStore(t, 8)

	_, err := s.Store(context.Background(), "big.pdf", bytes.NewReader(pdfHeader))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestStore_RejectsEmpty(t *testing.T) {
	s := newTestStore(t, 1<<20)

	_, err := s.Store(context.Background(), "empty.pdf", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestStore_CancelledContext(t *testing.T) {
	s := newTestStore(t, 1<<20)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Store(ctx, "plan.pdf", bytes.NewReader(pdfHeader))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelete_RemovesStoredFile(t *testing.T) {
	s := newTestStore(t, 1<<20, "application/pdf")
	ctx := context.Background()

	name, err := s.Store(ctx, "plan.pdf", bytes.NewReader(pdfHeader))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, name))
	_, err = os.Stat(filepath.Join(s.dir, name))
	assert.True(t, os.IsNotExist(err))

	// 重复删除不报错
	assert.NoError(t, s.Delete(ctx, name))
}

func TestDelete_RejectsPathTraversal(t *testing.T) {
	s := newTestStore(t, 1<<20)

	for _, name := range []string{"", "..", "../secret.pdf", "sub/file.pdf"} {
		assert.Error(t, s.Delete(context.Background(), name), "name %q", name)
	}
}
