package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	fileconfig "github.com/weisyn/zkcompress/internal/config/storage/file"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/crypto/hash"
	"github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/log"
	interfaces "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/zkcompress/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockLogger struct{}

func (m *mockLogger) Debug(msg string)                          {}
func (m *mockLogger) Debugf(format string, args ...interface{}) {}
func (m *mockLogger) Info(msg string)                           {}
func (m *mockLogger) Infof(format string, args ...interface{})  {}
func (m *mockLogger) Warn(msg string)                           {}
func (m *mockLogger) Warnf(format string, args ...interface{})  {}
func (m *mockLogger) Error(msg string)                          {}
func (m *mockLogger) Errorf(format string, args ...interface{}) {}
func (m *mockLogger) Fatal(msg string)                          {}
func (m *mockLogger) Fatalf(format string, args ...interface{}) {}
func (m *mockLogger) With(args ...interface{}) log.Logger       { return m }
func (m *mockLogger) Sync() error                               { return nil }
func (m *mockLogger) GetZapLogger() *zap.Logger                 { return nil }

func setupTestStore(t *testing.T) (*Store, string) {
	root := t.TempDir()

	cfg := fileconfig.NewFromOptions(&fileconfig.FileOptions{
		Path:     root,
		FileMode: 0600,
	})

	store, err := New(cfg, &mockLogger{})
	require.NoError(t, err)

	return store, root
}

func testHash(t *testing.T, payload []byte) types.ContentHash {
	t.Helper()

	hasher, err := hash.NewHasher(types.SchemeV1)
	require.NoError(t, err)
	return hasher.Sum(payload)
}

func TestPutGetRoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	payload := []byte("文件存储测试载荷")
	h := testHash(t, payload)

	require.NoError(t, store.Put(ctx, h, payload))

	got, err := store.Get(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestContentAddressedLayout(t *testing.T) {
	store, root := setupTestStore(t)
	ctx := context.Background()

	payload := []byte("路径布局检查")
	h := testHash(t, payload)

	require.NoError(t, store.Put(ctx, h, payload))

	// 载荷应位于 {root}/{哈希前2位}/{完整哈希}
	hexStr := h.Hex()
	expected := filepath.Join(root, hexStr[:2], hexStr)

	info, err := os.Stat(expected)
	require.NoError(t, err, "载荷文件应存在于内容寻址路径")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestGetNotFound(t *testing.T) {
	store, _ := setupTestStore(t)

	h := testHash(t, []byte("未写入内容"))

	_, err := store.Get(context.Background(), h)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))
}

func TestHasAndDelete(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	payload := []byte("存在与删除")
	h := testHash(t, payload)

	exists, err := store.Has(ctx, h)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Put(ctx, h, payload))

	exists, err = store.Has(ctx, h)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, h))

	exists, err = store.Has(ctx, h)
	require.NoError(t, err)
	assert.False(t, exists)

	// 删除不存在的内容不报错
	assert.NoError(t, store.Delete(ctx, h))
}

func TestPutIdempotent(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	payload := []byte("重复写入")
	h := testHash(t, payload)

	require.NoError(t, store.Put(ctx, h, payload))
	require.NoError(t, store.Put(ctx, h, payload))

	got, err := store.Get(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	store, root := setupTestStore(t)
	ctx := context.Background()

	payload := []byte("临时文件清理")
	h := testHash(t, payload)

	require.NoError(t, store.Put(ctx, h, payload))

	// 成功写入后目录中不应残留临时文件
	var tempFiles []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Base(path)[0] == '.' {
			tempFiles = append(tempFiles, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, tempFiles)
}
