// Package secret 提供敏感配置字段的对称加解密
// 密文格式 "ivHex:tagHex:cipherHex"，便于落库和配置文件存储
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyLen     = 32
	iterations = 10000
)

// 固定盐：密钥由部署方口令派生，盐只参与拉伸不承担保密职责
var kdfSalt = []byte("settlement-service")

var (
	// ErrInvalidCipherText 密文格式不是 iv:tag:cipher 三段十六进制
	ErrInvalidCipherText = errors.New("secret: invalid cipher text format")
	// ErrDecryptFailed 解密失败（密钥不对或密文被篡改）
	ErrDecryptFailed = errors.New("secret: decrypt failed")
)

// Cipher 基于口令派生密钥的 AES-256-GCM 加解密器
type Cipher struct {
	key []byte
}

// NewCipher 由口令派生加解密器
func NewCipher(passphrase string) (*Cipher, error) {
	if passphrase == "" {
		return nil, errors.New("secret: empty passphrase")
	}
	key := pbkdf2.Key([]byte(passphrase), kdfSalt, iterations, keyLen, sha256.New)
	return &Cipher{key: key}, nil
}

// Encrypt 加密明文，返回 "ivHex:tagHex:cipherHex"
func (c *Cipher) Encrypt(plainText string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	iv := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	// Seal 的输出为 密文||tag，按段拆开编码
	sealed := gcm.Seal(nil, iv, []byte(plainText), nil)
	tagStart := len(sealed) - gcm.Overhead()
	cipherText := sealed[:tagStart]
	tag := sealed[tagStart:]

	return fmt.Sprintf("%s:%s:%s",
		hex.EncodeToString(iv),
		hex.EncodeToString(tag),
		hex.EncodeToString(cipherText)), nil
}

// Decrypt 解密 "ivHex:tagHex:cipherHex" 格式的密文
func (c *Cipher) Decrypt(encrypted string) (string, error) {
	parts := strings.Split(encrypted, ":")
	if len(parts) != 3 {
		return "", ErrInvalidCipherText
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidCipherText
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", ErrInvalidCipherText
	}
	cipherText, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", ErrInvalidCipherText
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(iv) != gcm.NonceSize() {
		return "", ErrInvalidCipherText
	}

	sealed := append(cipherText, tag...)
	plain, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plain), nil
}
