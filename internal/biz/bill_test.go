package biz

import (
	"context"
	"testing"

	"settlement-service/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBillFixture() (*BillUseCase, *fakeBillRepo) {
	bills := &fakeBillRepo{}
	return NewBillUseCase(bills, log.DefaultLogger), bills
}

func TestGetByBillNo(t *testing.T) {
	uc, bills := newBillFixture()
	bills.add(&Bill{BillNo: "TR20260101000000ABCDEF01", MemberID: 1, BillType: constants.BillTypeTaskReward})

	bill, err := uc.GetByBillNo(context.Background(), "TR20260101000000ABCDEF01")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bill.MemberID)

	_, err = uc.GetByBillNo(context.Background(), "TR00000000000000FFFFFFFF")
	assert.Error(t, err)
}

func TestUpdateStatusStatusValidation(t *testing.T) {
	uc, bills := newBillFixture()
	bills.add(&Bill{BillNo: "TR1", SettlementStatus: constants.SettlementStatusSettled})

	err := uc.UpdateStatus(context.Background(), 1, "refunded", "")
	assert.Error(t, err)
}

func TestUpdateStatusReversal(t *testing.T) {
	// settled -> failed 冲正允许
	uc, bills := newBillFixture()
	bills.add(&Bill{BillNo: "TR1", SettlementStatus: constants.SettlementStatusSettled})

	err := uc.UpdateStatus(context.Background(), 1, constants.SettlementStatusFailed, "打款渠道退回")
	require.NoError(t, err)
	assert.Equal(t, constants.SettlementStatusFailed, bills.bills[0].SettlementStatus)
	assert.Equal(t, "打款渠道退回", bills.bills[0].Remark)
}

func TestUpdateStatusFailedCannotBecomeSettled(t *testing.T) {
	// 冲正后的账单只能以新账单重新入账
	uc, bills := newBillFixture()
	bills.add(&Bill{BillNo: "TR1", SettlementStatus: constants.SettlementStatusFailed})

	err := uc.UpdateStatus(context.Background(), 1, constants.SettlementStatusSettled, "")
	assert.Error(t, err)
	assert.Equal(t, constants.SettlementStatusFailed, bills.bills[0].SettlementStatus)
}

func TestUpdateStatusBillNotFound(t *testing.T) {
	uc, _ := newBillFixture()

	err := uc.UpdateStatus(context.Background(), 999, constants.SettlementStatusFailed, "")
	assert.Error(t, err)
}

func TestListBillsPagingDefaults(t *testing.T) {
	uc, bills := newBillFixture()
	bills.add(&Bill{BillNo: "TR1"})

	out, total, err := uc.ListBills(context.Background(), &BillListFilter{}, -1, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, out, 1)
}
