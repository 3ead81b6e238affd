package service

import (
	"context"
	"testing"

	"settlement-service/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretServiceRoundTrip(t *testing.T) {
	svc := NewSecretService(&conf.Bootstrap{
		Secret: &conf.Secret{Passphrase: "unit-test-passphrase"},
	}, log.DefaultLogger)

	encrypted, err := svc.Encrypt(context.Background(), &EncryptSecretRequest{PlainText: "sk_live_abc123"})
	require.NoError(t, err)
	assert.NotEmpty(t, encrypted.CipherText)
	assert.NotContains(t, encrypted.CipherText, "sk_live_abc123")

	decrypted, err := svc.Decrypt(context.Background(), &DecryptSecretRequest{CipherText: encrypted.CipherText})
	require.NoError(t, err)
	assert.Equal(t, "sk_live_abc123", decrypted.PlainText)
}

func TestSecretServiceNotConfigured(t *testing.T) {
	// 未配置口令时服务可创建，但两个操作都报错
	svc := NewSecretService(&conf.Bootstrap{}, log.DefaultLogger)

	_, err := svc.Encrypt(context.Background(), &EncryptSecretRequest{PlainText: "x"})
	assert.Error(t, err)

	_, err = svc.Decrypt(context.Background(), &DecryptSecretRequest{CipherText: "x"})
	assert.Error(t, err)
}

func TestSecretServiceDecryptMalformed(t *testing.T) {
	svc := NewSecretService(&conf.Bootstrap{
		Secret: &conf.Secret{Passphrase: "unit-test-passphrase"},
	}, log.DefaultLogger)

	_, err := svc.Decrypt(context.Background(), &DecryptSecretRequest{CipherText: "not-a-cipher-text"})
	assert.Error(t, err)
}
