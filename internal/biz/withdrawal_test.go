package biz

import (
	"context"
	"errors"
	"testing"
	"time"

	"settlement-service/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWithdrawalRepo 模拟 data 层的提现事务行为：
// success 时追加同编号提现账单
type fakeWithdrawalRepo struct {
	withdrawals map[uint64]*Withdrawal
	bills       *fakeBillRepo
	gen         *BillNoGenerator
	nextID      uint64
}

func newFakeWithdrawalRepo(bills *fakeBillRepo) *fakeWithdrawalRepo {
	return &fakeWithdrawalRepo{
		withdrawals: make(map[uint64]*Withdrawal),
		bills:       bills,
		gen:         NewBillNoGenerator(),
	}
}

func (r *fakeWithdrawalRepo) CreateWithdrawal(ctx context.Context, memberID uint64, amount float64) (*Withdrawal, error) {
	r.nextID++
	w := &Withdrawal{
		ID:        r.nextID,
		BillNo:    r.gen.Generate(constants.BillNoPrefixWithdrawal),
		MemberID:  memberID,
		Amount:    amount,
		Status:    constants.WithdrawalStatusPending,
		ApplyTime: time.Now(),
	}
	r.withdrawals[w.ID] = w
	return w, nil
}

func (r *fakeWithdrawalRepo) GetWithdrawal(ctx context.Context, id uint64) (*Withdrawal, error) {
	return r.withdrawals[id], nil
}

func (r *fakeWithdrawalRepo) ListWithdrawals(ctx context.Context, memberID uint64, status string, page, pageSize int) ([]*Withdrawal, int64, error) {
	var out []*Withdrawal
	for _, w := range r.withdrawals {
		out = append(out, w)
	}
	return out, int64(len(out)), nil
}

func (r *fakeWithdrawalRepo) ResolveWithdrawal(ctx context.Context, id uint64, outcome string) (*Withdrawal, error) {
	w, ok := r.withdrawals[id]
	if !ok {
		return nil, errors.New("withdrawal not found")
	}
	if w.Status != constants.WithdrawalStatusPending {
		return nil, errors.New("already resolved")
	}
	now := time.Now()
	w.ProcessTime = &now
	if outcome == constants.WithdrawalOutcomeSuccess {
		w.Status = constants.WithdrawalStatusSuccess
		wID := w.ID
		r.bills.add(&Bill{
			BillNo:           w.BillNo,
			MemberID:         w.MemberID,
			BillType:         constants.BillTypeWithdrawal,
			Amount:           w.Amount,
			WithdrawalID:     &wID,
			SettlementStatus: constants.SettlementStatusSettled,
		})
	} else {
		w.Status = constants.WithdrawalStatusFailed
	}
	return w, nil
}

func newWithdrawalFixture(balance float64) (*WithdrawalUseCase, *fakeWithdrawalRepo, *fakeBillRepo) {
	bills := &fakeBillRepo{}
	repo := newFakeWithdrawalRepo(bills)
	settlementRepo := &fakeSettlementRepo{bills: bills, gen: NewBillNoGenerator(), balance: balance}
	return NewWithdrawalUseCase(repo, settlementRepo, log.DefaultLogger), repo, bills
}

func TestWithdrawalRequest(t *testing.T) {
	uc, _, _ := newWithdrawalFixture(100.00)

	w, err := uc.Request(context.Background(), 1, 30.00)
	require.NoError(t, err)
	assert.Equal(t, constants.WithdrawalStatusPending, w.Status)
	assert.InDelta(t, 30.00, w.Amount, 1e-9)
	assert.NotEmpty(t, w.BillNo)
}

func TestWithdrawalRequestInsufficientBalance(t *testing.T) {
	// 余额不足直接拒绝，不产生任何申请记录
	uc, repo, bills := newWithdrawalFixture(10.00)

	_, err := uc.Request(context.Background(), 1, 30.00)
	assert.Error(t, err)
	assert.Empty(t, repo.withdrawals)
	assert.Empty(t, bills.bills)
}

func TestWithdrawalRequestInvalidAmount(t *testing.T) {
	uc, _, _ := newWithdrawalFixture(100.00)

	_, err := uc.Request(context.Background(), 1, 0)
	assert.Error(t, err)
	_, err = uc.Request(context.Background(), 1, -5)
	assert.Error(t, err)
}

func TestWithdrawalResolveSuccess(t *testing.T) {
	uc, _, bills := newWithdrawalFixture(100.00)

	w, err := uc.Request(context.Background(), 1, 30.00)
	require.NoError(t, err)

	resolved, err := uc.Resolve(context.Background(), w.ID, constants.WithdrawalOutcomeSuccess)
	require.NoError(t, err)
	assert.Equal(t, constants.WithdrawalStatusSuccess, resolved.Status)
	require.NotNil(t, resolved.ProcessTime)

	// 提现账单与申请共用同一账单编号
	require.Len(t, bills.bills, 1)
	bill := bills.bills[0]
	assert.Equal(t, w.BillNo, bill.BillNo)
	assert.Equal(t, constants.BillTypeWithdrawal, bill.BillType)
	require.NotNil(t, bill.WithdrawalID)
	assert.Equal(t, w.ID, *bill.WithdrawalID)
}

func TestWithdrawalResolveFailedCreatesNoBill(t *testing.T) {
	uc, _, bills := newWithdrawalFixture(100.00)

	w, err := uc.Request(context.Background(), 1, 30.00)
	require.NoError(t, err)

	resolved, err := uc.Resolve(context.Background(), w.ID, constants.WithdrawalOutcomeFailed)
	require.NoError(t, err)
	assert.Equal(t, constants.WithdrawalStatusFailed, resolved.Status)
	assert.Empty(t, bills.bills)
}

func TestWithdrawalResolveSingleShot(t *testing.T) {
	uc, _, bills := newWithdrawalFixture(100.00)

	w, err := uc.Request(context.Background(), 1, 30.00)
	require.NoError(t, err)

	_, err = uc.Resolve(context.Background(), w.ID, constants.WithdrawalOutcomeSuccess)
	require.NoError(t, err)

	// 重复处理被拒绝，账单不会翻倍
	_, err = uc.Resolve(context.Background(), w.ID, constants.WithdrawalOutcomeFailed)
	assert.Error(t, err)
	assert.Len(t, bills.bills, 1)
}

func TestWithdrawalResolveValidation(t *testing.T) {
	uc, _, _ := newWithdrawalFixture(100.00)

	_, err := uc.Resolve(context.Background(), 1, "cancelled")
	assert.Error(t, err)

	_, err = uc.Resolve(context.Background(), 999, constants.WithdrawalOutcomeSuccess)
	assert.Error(t, err)
}

func TestWithdrawalResolveBatch(t *testing.T) {
	uc, _, _ := newWithdrawalFixture(100.00)

	w1, err := uc.Request(context.Background(), 1, 10.00)
	require.NoError(t, err)
	w2, err := uc.Request(context.Background(), 1, 20.00)
	require.NoError(t, err)

	// w2 先单独处理掉，批量时它会作为失败单元计数
	_, err = uc.Resolve(context.Background(), w2.ID, constants.WithdrawalOutcomeFailed)
	require.NoError(t, err)

	success, failed, err := uc.ResolveBatch(context.Background(), []uint64{w1.ID, w2.ID, 999}, constants.WithdrawalOutcomeSuccess)
	require.NoError(t, err)
	assert.Equal(t, 1, success)
	assert.Equal(t, 2, failed)
}
