package memory

import (
	"context"
	"errors"
	"testing"

	memoryconfig "github.com/weisyn/zkcompress/internal/config/storage/memory"
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

func setupTestStore(t *testing.T) *Store {
	cfg := memoryconfig.NewFromOptions(&memoryconfig.MemoryOptions{
		LifeWindow:  "10m",
		CleanWindow: "5m",
		MaxSizeMB:   32,
	})

	store, err := New(cfg, &mockLogger{})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func testHash(t *testing.T, payload []byte) types.ContentHash {
	t.Helper()

	hasher, err := hash.NewHasher(types.SchemeV1)
	require.NoError(t, err)
	return hasher.Sum(payload)
}

func TestPutGetRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	payload := []byte("内存存储测试载荷")
	h := testHash(t, payload)

	require.NoError(t, store.Put(ctx, h, payload))

	got, err := store.Get(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestGetNotFound(t *testing.T) {
	store := setupTestStore(t)

	h := testHash(t, []byte("未写入内容"))

	_, err := store.Get(context.Background(), h)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))
}

func TestHasAndDelete(t *testing.T) {
	store := setupTestStore(t)
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

func TestInvalidLifeWindowFallsBack(t *testing.T) {
	// 非法时间字符串回退到默认窗口而非失败
	cfg := memoryconfig.NewFromOptions(&memoryconfig.MemoryOptions{
		LifeWindow:  "不是时间",
		CleanWindow: "也不是",
		MaxSizeMB:   32,
	})

	store, err := New(cfg, &mockLogger{})
	require.NoError(t, err)
	defer store.Close()

	payload := []byte("回退配置下仍然可用")
	h := testHash(t, payload)

	require.NoError(t, store.Put(context.Background(), h, payload))
}

func TestDoubleClose(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
