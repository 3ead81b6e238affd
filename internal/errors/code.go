package errors

import (
	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	i18nPkg "github.com/gaoyong06/go-pkg/middleware/i18n"
)

func init() {
	// 初始化全局错误管理器（使用项目特定的配置）
	pkgErrors.InitGlobalErrorManager("i18n", i18nPkg.Language)
}

// Settlement Service 错误码定义
// 错误码格式：SSMMEE (6位数字)
//   SS: 服务标识，Settlement 固定为 21
//   MM: 模块标识，按业务划分
//   EE: 模块内错误序号
//
// 模块划分：
//   00: 通用模块（复用 go-pkg 通用错误码）
//   01: 账单模块
//   02: 分组模块
//   03: 会员模块
//   04: 提现模块
//   05: 结算模块
//   06: 任务模块
//   07-99: 预留扩展

// 账单模块错误码 (210100-210199)
const (
	// ErrCodeBillNotFound 账单不存在
	ErrCodeBillNotFound = 210101
	// ErrCodeDuplicateBillNo 账单编号冲突
	ErrCodeDuplicateBillNo = 210102
	// ErrCodeBillNoExhausted 账单编号生成重试次数耗尽
	ErrCodeBillNoExhausted = 210103
	// ErrCodeImmutableFieldViolation 禁止修改已落账账单的不可变字段
	ErrCodeImmutableFieldViolation = 210104
	// ErrCodeBillCreateFailed 账单创建失败
	ErrCodeBillCreateFailed = 210105
	// ErrCodeBillUpdateFailed 账单更新失败
	ErrCodeBillUpdateFailed = 210106
	// ErrCodeInvalidSettlementStatus 非法的结算状态
	ErrCodeInvalidSettlementStatus = 210107
)

// 分组模块错误码 (210200-210299)
const (
	// ErrCodeGroupNotFound 分组不存在
	ErrCodeGroupNotFound = 210201
	// ErrCodeGroupCapacityExceeded 分组已满
	ErrCodeGroupCapacityExceeded = 210202
	// ErrCodeGroupAssignFailed 分组写入失败
	ErrCodeGroupAssignFailed = 210203
)

// 会员模块错误码 (210300-210399)
const (
	// ErrCodeMemberNotFound 会员不存在
	ErrCodeMemberNotFound = 210301
	// ErrCodeMemberNotApproved 会员未通过审核
	ErrCodeMemberNotApproved = 210302
	// ErrCodeMemberAuditFailed 会员审核状态更新失败
	ErrCodeMemberAuditFailed = 210303
)

// 提现模块错误码 (210400-210499)
const (
	// ErrCodeWithdrawalNotFound 提现申请不存在
	ErrCodeWithdrawalNotFound = 210401
	// ErrCodeWithdrawalAlreadyResolved 提现申请已处理，禁止重复处理
	ErrCodeWithdrawalAlreadyResolved = 210402
	// ErrCodeInsufficientBalance 可提现余额不足
	ErrCodeInsufficientBalance = 210403
	// ErrCodeWithdrawalCreateFailed 提现申请创建失败
	ErrCodeWithdrawalCreateFailed = 210404
	// ErrCodeInvalidWithdrawalOutcome 非法的提现处理结果
	ErrCodeInvalidWithdrawalOutcome = 210405
	// ErrCodeInvalidWithdrawalAmount 非法的提现金额
	ErrCodeInvalidWithdrawalAmount = 210406
)

// 结算模块错误码 (210500-210599)
const (
	// ErrCodeSettlementFailed 结算事务执行失败
	ErrCodeSettlementFailed = 210501
	// ErrCodeBackfillLockFailed 获取回填任务锁失败
	ErrCodeBackfillLockFailed = 210502
)

// 任务模块错误码 (210600-210699)
const (
	// ErrCodeTaskNotFound 任务不存在
	ErrCodeTaskNotFound = 210601
)

// 密钥模块错误码 (210700-210799)
const (
	// ErrCodeSecretNotConfigured 未配置密钥加密口令
	ErrCodeSecretNotConfigured = 210701
	// ErrCodeSecretEncryptFailed 密钥加密失败
	ErrCodeSecretEncryptFailed = 210702
	// ErrCodeSecretDecryptFailed 密钥解密失败
	ErrCodeSecretDecryptFailed = 210703
)
