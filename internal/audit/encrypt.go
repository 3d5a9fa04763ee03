package audit

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// EncryptType 请求体编码方式
type EncryptType int

const (
	EncryptNone EncryptType = iota
	EncryptBase64
	EncryptAES
)

// ErrAESKeyMissing 路由声明了 AES 但未配置 audit.aes_key。
// 旧实现里该分支是空的占位，静默放行密文；这里改为显式失败。
var ErrAESKeyMissing = errors.New("audit: aes body encryption declared but audit.aes_key not configured")

const (
	aesSalt       = "sysadmin.audit.v1"
	aesIterations = 4096
)

// BodyCodec 按路由声明解码请求体。AES 使用 GCM，
// 密钥由配置口令经 pbkdf2 派生，载荷为 base64(nonce||ciphertext)。
type BodyCodec struct {
	aesKey []byte
}

func NewBodyCodec(aesSecret string) *BodyCodec {
	c := &BodyCodec{}
	if aesSecret != "" {
		c.aesKey = pbkdf2.Key([]byte(aesSecret), []byte(aesSalt), aesIterations, 32, sha256.New)
	}
	return c
}

func (c *BodyCodec) Decode(mode EncryptType, body []byte) ([]byte, error) {
	switch mode {
	case EncryptNone:
		return body, nil
	case EncryptBase64:
		out, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(body)))
		if err != nil {
			return nil, fmt.Errorf("audit: base64 body decode: %w", err)
		}
		return out, nil
	case EncryptAES:
		if c.aesKey == nil {
			return nil, ErrAESKeyMissing
		}
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(body)))
		if err != nil {
			return nil, fmt.Errorf("audit: aes body decode: %w", err)
		}
		block, err := aes.NewCipher(c.aesKey)
		if err != nil {
			return nil, fmt.Errorf("audit: aes cipher: %w", err)
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("audit: aes gcm: %w", err)
		}
		if len(raw) < gcm.NonceSize() {
			return nil, errors.New("audit: aes payload too short")
		}
		nonce, ct := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
		out, err := gcm.Open(nil, nonce, ct, nil)
		if err != nil {
			return nil, fmt.Errorf("audit: aes open: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("audit: unsupported encrypt mode %d", mode)
	}
}
