package biz

import "github.com/google/wire"

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewSettlementConfig,
	NewBillNoGenerator,
	NewBillUseCase,
	NewAssignUseCase,
	NewMemberUseCase,
	NewWithdrawalUseCase,
	NewSettlementUseCase, // 结算编排 UseCase
)
