package service

import (
	"context"

	"settlement-service/internal/conf"
	settlementErrors "settlement-service/internal/errors"
	"settlement-service/internal/secret"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// SecretService 支付渠道密钥加解密入口
// 运营侧用它把渠道密钥加密后再落配置/落库，明文不留存
type SecretService struct {
	cipher *secret.Cipher
	log    *log.Helper
}

// NewSecretService 创建密钥服务
// 未配置口令时服务可用但两个操作都返回未配置错误
func NewSecretService(c *conf.Bootstrap, logger log.Logger) *SecretService {
	helper := log.NewHelper(logger)

	var cipher *secret.Cipher
	if c.Secret != nil && c.Secret.Passphrase != "" {
		ci, err := secret.NewCipher(c.Secret.Passphrase)
		if err != nil {
			helper.Errorf("init secret cipher failed: %v", err)
		} else {
			cipher = ci
		}
	} else {
		helper.Warn("secret passphrase is not configured, secret endpoints are disabled")
	}

	return &SecretService{
		cipher: cipher,
		log:    helper,
	}
}

// Encrypt 加密明文密钥
func (s *SecretService) Encrypt(ctx context.Context, req *EncryptSecretRequest) (*EncryptSecretReply, error) {
	if s.cipher == nil {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeSecretNotConfigured)
	}
	encrypted, err := s.cipher.Encrypt(req.PlainText)
	if err != nil {
		return nil, pkgErrors.WrapErrorWithLang(ctx, err, settlementErrors.ErrCodeSecretEncryptFailed)
	}
	return &EncryptSecretReply{CipherText: encrypted}, nil
}

// Decrypt 解密密钥密文
func (s *SecretService) Decrypt(ctx context.Context, req *DecryptSecretRequest) (*DecryptSecretReply, error) {
	if s.cipher == nil {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeSecretNotConfigured)
	}
	plain, err := s.cipher.Decrypt(req.CipherText)
	if err != nil {
		return nil, pkgErrors.WrapErrorWithLang(ctx, err, settlementErrors.ErrCodeSecretDecryptFailed)
	}
	return &DecryptSecretReply{PlainText: plain}, nil
}
