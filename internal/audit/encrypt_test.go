package audit

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func TestDecodeNonePassthrough(t *testing.T) {
	c := NewBodyCodec("")
	out, err := c.Decode(EncryptNone, []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(out))
}

func TestDecodeBase64(t *testing.T) {
	c := NewBodyCodec("")
	plain := `{"menuName":"菜单管理"}`
	enc := base64.StdEncoding.EncodeToString([]byte(plain))
	out, err := c.Decode(EncryptBase64, []byte(enc))
	require.NoError(t, err)
	assert.Equal(t, plain, string(out))

	_, err = c.Decode(EncryptBase64, []byte("!!not-base64!!"))
	assert.Error(t, err)
}

func TestDecodeAESWithoutKey(t *testing.T) {
	c := NewBodyCodec("")
	_, err := c.Decode(EncryptAES, []byte("whatever"))
	assert.ErrorIs(t, err, ErrAESKeyMissing)
}

// 与 BodyCodec 相同的派生参数加密，验证解密闭环
func sealAES(t *testing.T, secret string, plain []byte) []byte {
	t.Helper()
	key := pbkdf2.Key([]byte(secret), []byte(aesSalt), aesIterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)
	nonce := make([]byte, gcm.NonceSize())
	_, err = rand.Read(nonce)
	require.NoError(t, err)
	ct := gcm.Seal(nonce, nonce, plain, nil)
	return []byte(base64.StdEncoding.EncodeToString(ct))
}

func TestDecodeAESRoundTrip(t *testing.T) {
	secret := "unit-test-audit-secret"
	c := NewBodyCodec(secret)
	plain := []byte(`{"password":"secret"}`)
	out, err := c.Decode(EncryptAES, sealAES(t, secret, plain))
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}

func TestDecodeAESBadPayload(t *testing.T) {
	c := NewBodyCodec("unit-test-audit-secret")
	_, err := c.Decode(EncryptAES, []byte(base64.StdEncoding.EncodeToString([]byte("short"))))
	assert.Error(t, err)

	// 密钥不匹配
	other := sealAES(t, "another-secret", []byte("x"))
	_, err = c.Decode(EncryptAES, other)
	assert.Error(t, err)
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	r.Register("POST", "/admin/Menu/add", RouteOptions{
		Title: "菜单管理", Controller: "SysMenu", Action: "Add",
	})

	opt, ok := r.Lookup("POST", "/admin/Menu/add")
	require.True(t, ok)
	assert.Equal(t, "SysMenu.Add()", opt.MethodName())

	_, ok = r.Lookup("GET", "/admin/Menu/add")
	assert.False(t, ok, "method 参与 key，不可串路由")
	_, ok = r.Lookup("POST", "/admin/Menu/list")
	assert.False(t, ok)
}

func TestMethodNameEmpty(t *testing.T) {
	assert.Equal(t, "", RouteOptions{}.MethodName())
}
