package keybuf

import (
	"bytes"
	"errors"
	"testing"
)

func TestPoolGetReturnsZeroed(t *testing.T) {
	pool := NewSecureKeyPool()

	buf := pool.Get()
	if len(buf) != KeySize {
		t.Fatalf("缓冲区长度应为%d，得到%d", KeySize, len(buf))
	}

	zero := make([]byte, KeySize)
	if !bytes.Equal(buf, zero) {
		t.Error("获取的缓冲区应已清零")
	}

	// 写入数据后归还，再次获取仍应清零
	copy(buf, []byte("sensitive-key-material-32bytes!!"))
	pool.Put(buf)

	buf2 := pool.Get()
	if !bytes.Equal(buf2, zero) {
		t.Error("归还后再获取的缓冲区应已清零")
	}
	pool.Put(buf2)
}

func TestPutWrongLengthWipes(t *testing.T) {
	pool := NewSecureKeyPool()

	// 长度不符的缓冲区不入池，但数据必须被清除
	odd := []byte("short-secret")
	pool.Put(odd)

	zero := make([]byte, len(odd))
	if !bytes.Equal(odd, zero) {
		t.Error("长度不符的缓冲区归还后应被清零")
	}
}

func TestSecureWipe(t *testing.T) {
	data := []byte("very-secret-data")
	SecureWipe(data)

	zero := make([]byte, len(data))
	if !bytes.Equal(data, zero) {
		t.Error("清除后数据应全零")
	}

	// 空切片不应panic
	SecureWipe(nil)
}

func TestWithKeyScope(t *testing.T) {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i + 1)
	}

	var seen []byte
	err := WithKey(key, func(buf []byte) error {
		if !bytes.Equal(buf, key) {
			t.Error("回调中的缓冲区应等于密钥内容")
		}
		seen = buf
		return nil
	})
	if err != nil {
		t.Fatalf("WithKey失败: %v", err)
	}

	// 回调返回后缓冲区已被清除
	zero := make([]byte, KeySize)
	if !bytes.Equal(seen, zero) {
		t.Error("回调结束后缓冲区应被清零")
	}

	// 原始密钥不受影响
	if key[0] != 1 {
		t.Error("原始密钥不应被修改")
	}
}

func TestWithKeyErrorPropagation(t *testing.T) {
	key := make([]byte, KeySize)

	wantErr := errors.New("回调错误")
	err := WithKey(key, func([]byte) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("应透传回调错误，得到: %v", err)
	}
}

func TestWithKeyInvalidInputs(t *testing.T) {
	if err := WithKey([]byte("too-short"), func([]byte) error { return nil }); !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("短密钥应返回ErrInvalidKeyLength，得到: %v", err)
	}

	key := make([]byte, KeySize)
	if err := WithKey(key, nil); !errors.Is(err, ErrNilCallback) {
		t.Errorf("空回调应返回ErrNilCallback，得到: %v", err)
	}
}

func TestWithKeyPanicStillWipes(t *testing.T) {
	pool := NewSecureKeyPool()

	key := make([]byte, KeySize)
	for i := range key {
		key[i] = 0xAB
	}

	var seen []byte
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("应发生panic")
			}
		}()

		pool.WithKey(key, func(buf []byte) error {
			seen = buf
			panic("回调中panic")
		})
	}()

	// panic路径同样必须清除缓冲区
	zero := make([]byte, KeySize)
	if !bytes.Equal(seen, zero) {
		t.Error("panic后缓冲区应被清零")
	}
}
