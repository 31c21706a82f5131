package badger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	badgerconfig "github.com/weisyn/zkcompress/internal/config/storage/badger"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/crypto/hash"
	"github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/log"
	interfaces "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/zkcompress/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 模拟Logger接口
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

// 初始化测试环境
func setupTestStore(t *testing.T) *Store {
	cfg := badgerconfig.NewFromOptions(&badgerconfig.BadgerOptions{
		Path:         t.TempDir(),
		SyncWrites:   false,
		MemTableSize: 1 << 20, // 1MB
	})

	store, err := New(cfg, &mockLogger{})
	require.NoError(t, err)
	require.NotNil(t, store)

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

	payload := []byte("测试载荷数据")
	h := testHash(t, payload)

	require.NoError(t, store.Put(ctx, h, payload))

	got, err := store.Get(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestGetNotFound(t *testing.T) {
	store := setupTestStore(t)

	h := testHash(t, []byte("从未写入的内容"))

	_, err := store.Get(context.Background(), h)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))
}

func TestHas(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	payload := []byte("存在性检查")
	h := testHash(t, payload)

	exists, err := store.Has(ctx, h)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Put(ctx, h, payload))

	exists, err = store.Has(ctx, h)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	payload := []byte("待删除内容")
	h := testHash(t, payload)

	require.NoError(t, store.Put(ctx, h, payload))
	require.NoError(t, store.Delete(ctx, h))

	exists, err := store.Has(ctx, h)
	require.NoError(t, err)
	assert.False(t, exists)

	// 删除不存在的键不报错
	assert.NoError(t, store.Delete(ctx, h))
}

func TestPutIdempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	payload := []byte("幂等写入")
	h := testHash(t, payload)

	// 同一哈希重复写入结果一致
	require.NoError(t, store.Put(ctx, h, payload))
	require.NoError(t, store.Put(ctx, h, payload))

	got, err := store.Get(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestPutAfterClose(t *testing.T) {
	store := setupTestStore(t)

	payload := []byte("关闭后写入")
	h := testHash(t, payload)

	require.NoError(t, store.Close())

	// 关闭后写入被拒绝而非崩溃
	err := store.Put(context.Background(), h, payload)
	assert.Error(t, err)

	// 重复关闭不报错
	assert.NoError(t, store.Close())
}

func TestContextCancelled(t *testing.T) {
	store := setupTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	payload := []byte("取消上下文")
	h := testHash(t, payload)

	assert.Error(t, store.Put(ctx, h, payload))
	_, err := store.Get(ctx, h)
	assert.Error(t, err)
}

func TestManyPayloads(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// 写入多个载荷后逐一读回
	hashes := make([]types.ContentHash, 50)
	for i := range hashes {
		payload := []byte(fmt.Sprintf("payload-%d", i))
		hashes[i] = testHash(t, payload)
		require.NoError(t, store.Put(ctx, hashes[i], payload))
	}

	for i, h := range hashes {
		got, err := store.Get(ctx, h)
		require.NoError(t, err)
		assert.Equal(t, []byte(fmt.Sprintf("payload-%d", i)), got)
	}
}
