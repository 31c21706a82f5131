package compressor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	compressorconfig "github.com/weisyn/zkcompress/internal/config/compressor"
	memoryconfig "github.com/weisyn/zkcompress/internal/config/storage/memory"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/crypto/hash"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/crypto/merkle"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/storage/memory"
	storageintf "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/zkcompress/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *memory.Store {
	cfg := memoryconfig.NewFromOptions(&memoryconfig.MemoryOptions{
		LifeWindow:  "10m",
		CleanWindow: "5m",
		MaxSizeMB:   32,
	})

	store, err := memory.New(cfg, nopLogger{})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func newTestCompressor(t *testing.T, store storageintf.ContentStore, options *compressorconfig.CompressorOptions) *Compressor {
	c, err := New(hash.NewFactory(), merkle.NewService(), store, nil, options)
	require.NoError(t, err)
	return c
}

func TestCompressRoundTrip(t *testing.T) {
	store := newTestStore(t)
	c := newTestCompressor(t, store, nil)
	ctx := context.Background()

	payloads := [][]byte{
		[]byte("第一个载荷"),
		[]byte("第二个载荷"),
		[]byte("第三个载荷"),
		[]byte("第四个载荷"),
		[]byte("第五个载荷"),
	}

	result, err := c.Compress(ctx, payloads)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, types.SchemeV1, result.Version)
	assert.Len(t, result.LeafHashes, len(payloads))
	assert.Len(t, result.Proofs, len(payloads))

	// 每个叶子的证明都能对根验证通过
	for i, leaf := range result.LeafHashes {
		assert.True(t, c.Verify(leaf, result.Proofs[i], result.Root), "叶子%d验证失败", i)
	}

	// 每个载荷都已持久化且能通过内容校验读回
	for i, leaf := range result.LeafHashes {
		got, err := c.Retrieve(ctx, leaf)
		require.NoError(t, err)
		assert.Equal(t, payloads[i], got)
	}
}

func TestCompressEmptyBatch(t *testing.T) {
	c := newTestCompressor(t, newTestStore(t), nil)

	_, err := c.Compress(context.Background(), nil)
	assert.True(t, errors.Is(err, types.ErrEmptyBatch))

	_, err = c.Compress(context.Background(), [][]byte{})
	assert.True(t, errors.Is(err, types.ErrEmptyBatch))
}

func TestCompressLeafOrder(t *testing.T) {
	c := newTestCompressor(t, newTestStore(t), nil)
	ctx := context.Background()

	payloads := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}

	result, err := c.Compress(ctx, payloads)
	require.NoError(t, err)

	// 叶子顺序严格等于输入顺序
	hasher, err := hash.NewFactory().ForVersion(types.SchemeV1)
	require.NoError(t, err)
	for i, payload := range payloads {
		assert.True(t, result.LeafHashes[i].Equal(hasher.Sum(payload)), "叶子%d顺序错误", i)
	}

	// 根与固定约定下的已知值一致
	assert.Equal(t,
		"01a1def25903c4ad58011be16cb07b58a69aca13bf45c6feedcf2470422bf960e2",
		result.Root.Hex())
}

func TestCompressSinglePayload(t *testing.T) {
	c := newTestCompressor(t, newTestStore(t), nil)

	result, err := c.Compress(context.Background(), [][]byte{[]byte("唯一载荷")})
	require.NoError(t, err)

	// 单载荷批次的根等于叶子
	assert.True(t, result.Root.Equal(result.LeafHashes[0]))
	assert.True(t, c.Verify(result.LeafHashes[0], result.Proofs[0], result.Root))
}

func TestCompressBatchTooLarge(t *testing.T) {
	maxSize := 2
	options := compressorconfig.New(nil).GetOptions()
	options.MaxBatchSize = maxSize

	c := newTestCompressor(t, newTestStore(t), options)

	_, err := c.Compress(context.Background(), [][]byte{[]byte("a"), []byte("b"), []byte("c")})
	assert.True(t, errors.Is(err, ErrBatchTooLarge))
}

func TestCompressLegacyScheme(t *testing.T) {
	options := compressorconfig.New(nil).GetOptions()
	options.SchemeVersion = types.SchemeV2

	c := newTestCompressor(t, newTestStore(t), options)

	result, err := c.Compress(context.Background(), [][]byte{[]byte("hello world"), []byte("x")})
	require.NoError(t, err)

	assert.Equal(t, types.SchemeV2, result.Version)
	assert.Equal(t, types.SchemeV2, result.Root.Version())
	// 遗留方案下的已知向量
	assert.Equal(t,
		"0247173285a8d7341e5e972fc677286384f802f8ef42a5ec5f03bbfa254cb01fab",
		result.LeafHashes[0].Hex())
}

// failingStore 在指定哈希上写入失败，其余操作委托给内层存储
type failingStore struct {
	inner    storageintf.ContentStore
	failHash types.ContentHash

	mu   sync.Mutex
	puts int
}

func (f *failingStore) Put(ctx context.Context, hash types.ContentHash, payload []byte) error {
	f.mu.Lock()
	f.puts++
	f.mu.Unlock()

	if hash.Equal(f.failHash) {
		return fmt.Errorf("模拟写入失败")
	}
	return f.inner.Put(ctx, hash, payload)
}

func (f *failingStore) Get(ctx context.Context, hash types.ContentHash) ([]byte, error) {
	return f.inner.Get(ctx, hash)
}

func (f *failingStore) Has(ctx context.Context, hash types.ContentHash) (bool, error) {
	return f.inner.Has(ctx, hash)
}

func (f *failingStore) Delete(ctx context.Context, hash types.ContentHash) error {
	return f.inner.Delete(ctx, hash)
}

func (f *failingStore) Close() error {
	return f.inner.Close()
}

func TestCompressPersistFailureNamesHash(t *testing.T) {
	inner := newTestStore(t)

	hasher, err := hash.NewFactory().ForVersion(types.SchemeV1)
	require.NoError(t, err)

	payloads := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}
	failHash := hasher.Sum(payloads[2])

	store := &failingStore{inner: inner, failHash: failHash}
	c := newTestCompressor(t, store, nil)

	_, err = c.Compress(context.Background(), payloads)
	require.Error(t, err)

	// 错误信息携带失败载荷的内容哈希
	assert.Contains(t, err.Error(), failHash.Hex())
}

func TestCompressContextCancelled(t *testing.T) {
	c := newTestCompressor(t, newTestStore(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Compress(ctx, [][]byte{[]byte("a"), []byte("b")})
	assert.Error(t, err)
}

func TestRetrieveContentMismatch(t *testing.T) {
	store := newTestStore(t)
	c := newTestCompressor(t, store, nil)
	ctx := context.Background()

	hasher, err := hash.NewFactory().ForVersion(types.SchemeV1)
	require.NoError(t, err)

	// 直接在存储中埋入与哈希不符的内容
	h := hasher.Sum([]byte("正确内容"))
	require.NoError(t, store.Put(ctx, h, []byte("被篡改的内容")))

	_, err = c.Retrieve(ctx, h)
	assert.True(t, errors.Is(err, ErrContentMismatch))
}

func TestRetrieveNotFound(t *testing.T) {
	c := newTestCompressor(t, newTestStore(t), nil)

	hasher, err := hash.NewFactory().ForVersion(types.SchemeV1)
	require.NoError(t, err)

	_, err = c.Retrieve(context.Background(), hasher.Sum([]byte("不存在")))
	assert.True(t, errors.Is(err, storageintf.ErrNotFound))
}

func TestVerifyStrictPassthrough(t *testing.T) {
	c := newTestCompressor(t, newTestStore(t), nil)

	result, err := c.Compress(context.Background(), [][]byte{[]byte("a"), []byte("b")})
	require.NoError(t, err)

	ok, err := c.VerifyStrict(result.LeafHashes[0], result.Proofs[0], result.Root)
	require.NoError(t, err)
	assert.True(t, ok)

	// 方案版本不符通过严格验证暴露为显式错误
	v2Hasher, err := hash.NewFactory().ForVersion(types.SchemeV2)
	require.NoError(t, err)

	_, err = c.VerifyStrict(v2Hasher.Sum([]byte("a")), result.Proofs[0], result.Root)
	assert.True(t, errors.Is(err, types.ErrSchemeMismatch))
}

func TestCompressLargeBatch(t *testing.T) {
	c := newTestCompressor(t, newTestStore(t), nil)
	ctx := context.Background()

	payloads := make([][]byte, 128)
	for i := range payloads {
		payloads[i] = []byte(fmt.Sprintf("载荷-%d", i))
	}

	result, err := c.Compress(ctx, payloads)
	require.NoError(t, err)
	require.Len(t, result.Proofs, len(payloads))

	for i, leaf := range result.LeafHashes {
		require.True(t, c.Verify(leaf, result.Proofs[i], result.Root), "叶子%d验证失败", i)
	}
}
