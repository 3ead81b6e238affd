package biz

import (
	"context"
	"strings"
	"testing"

	"settlement-service/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settlementFixture struct {
	uc        *SettlementUseCase
	bills     *fakeBillRepo
	repo      *fakeSettlementRepo
	publisher *fakePublisher
}

func newSettlementFixture(conf *SettlementConfig, members *fakeMemberRepo, groups *fakeGroupRepo, tasks *fakeTaskRepo) *settlementFixture {
	bills := &fakeBillRepo{}
	repo := &fakeSettlementRepo{bills: bills, gen: NewBillNoGenerator()}
	publisher := &fakePublisher{}
	uc := NewSettlementUseCase(repo, bills, members, groups, tasks, publisher, conf, log.DefaultLogger)
	return &settlementFixture{uc: uc, bills: bills, repo: repo, publisher: publisher}
}

func defaultSettlementConfig() *SettlementConfig {
	return &SettlementConfig{
		InviteReward:    &RewardPolicy{Enabled: true, Mode: constants.PolicyModeAmount, Value: 1.00, FirstTaskOnly: true},
		OwnerCommission: &RewardPolicy{Enabled: true, Mode: constants.PolicyModeRate, Value: 0.05},
	}
}

func TestSettleTaskApprovalFullChain(t *testing.T) {
	// 会员 1 由会员 2 邀请，入 10 号组，群主为 100：
	// 一次审批应落任务奖励、邀请奖励、群主佣金三条账单
	members := newFakeMemberRepo(
		&Member{ID: 1, InviterID: uint64Ptr(2), GroupID: uint64Ptr(10)},
		&Member{ID: 2, GroupID: uint64Ptr(10)},
	)
	groups := newFakeGroupRepo(members,
		&Group{ID: 10, OwnerID: uint64Ptr(100), MaxMembers: 5},
	)
	tasks := newFakeTaskRepo(&Task{ID: 50, RewardAmount: 10.00})
	f := newSettlementFixture(defaultSettlementConfig(), members, groups, tasks)

	bills, err := f.uc.SettleTaskApproval(context.Background(), 50, 1)
	require.NoError(t, err)
	require.Len(t, bills, 3)

	byType := make(map[string]*Bill)
	for _, b := range bills {
		byType[b.BillType] = b
	}

	reward := byType[constants.BillTypeTaskReward]
	require.NotNil(t, reward)
	assert.Equal(t, uint64(1), reward.MemberID)
	assert.InDelta(t, 10.00, reward.Amount, 1e-9)
	require.NotNil(t, reward.TaskID)
	assert.Equal(t, uint64(50), *reward.TaskID)
	require.NotNil(t, reward.RelatedGroupID)
	assert.Equal(t, uint64(10), *reward.RelatedGroupID)

	invite := byType[constants.BillTypeInviteReward]
	require.NotNil(t, invite)
	assert.Equal(t, uint64(2), invite.MemberID)
	assert.InDelta(t, 1.00, invite.Amount, 1e-9)
	require.NotNil(t, invite.RelatedMemberID)
	assert.Equal(t, uint64(1), *invite.RelatedMemberID)

	commission := byType[constants.BillTypeGroupOwnerCommission]
	require.NotNil(t, commission)
	assert.Equal(t, uint64(100), commission.MemberID)
	assert.InDelta(t, 0.50, commission.Amount, 1e-9)
	require.NotNil(t, commission.RelatedGroupID)
	assert.Equal(t, uint64(10), *commission.RelatedGroupID)

	// 编号前缀按账单类型区分
	assert.True(t, strings.HasPrefix(reward.BillNo, constants.BillNoPrefixTaskReward))
	assert.True(t, strings.HasPrefix(invite.BillNo, constants.BillNoPrefixInviteReward))
	assert.True(t, strings.HasPrefix(commission.BillNo, constants.BillNoPrefixCommission))

	// 落账事件已发布
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, uint64(50), f.publisher.events[0].TaskID)
	assert.Len(t, f.publisher.events[0].Bills, 3)
}

func TestSettleTaskApprovalIdempotent(t *testing.T) {
	members := newFakeMemberRepo(
		&Member{ID: 1, InviterID: uint64Ptr(2), GroupID: uint64Ptr(10)},
		&Member{ID: 2, GroupID: uint64Ptr(10)},
	)
	groups := newFakeGroupRepo(members,
		&Group{ID: 10, OwnerID: uint64Ptr(100), MaxMembers: 5},
	)
	tasks := newFakeTaskRepo(&Task{ID: 50, RewardAmount: 10.00})
	f := newSettlementFixture(defaultSettlementConfig(), members, groups, tasks)

	first, err := f.uc.SettleTaskApproval(context.Background(), 50, 1)
	require.NoError(t, err)
	require.Len(t, first, 3)
	total := len(f.bills.bills)

	// 重复审批：不新增账单，不重复发事件
	second, err := f.uc.SettleTaskApproval(context.Background(), 50, 1)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, constants.BillTypeTaskReward, second[0].BillType)
	assert.Len(t, f.bills.bills, total)
	assert.Len(t, f.publisher.events, 1)
	// 预检命中，事务不会再次执行
	assert.Equal(t, 1, f.repo.executed)
}

func TestSettleTaskApprovalNoInviterNoGroup(t *testing.T) {
	members := newFakeMemberRepo(&Member{ID: 1})
	groups := newFakeGroupRepo(members)
	tasks := newFakeTaskRepo(&Task{ID: 50, RewardAmount: 10.00})
	f := newSettlementFixture(defaultSettlementConfig(), members, groups, tasks)

	bills, err := f.uc.SettleTaskApproval(context.Background(), 50, 1)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, constants.BillTypeTaskReward, bills[0].BillType)
}

func TestSettleTaskApprovalOwnerIsMemberSelf(t *testing.T) {
	// 群主完成自己组里的任务不给自己发佣金
	members := newFakeMemberRepo(
		&Member{ID: 100, GroupID: uint64Ptr(10), IsGroupOwner: true},
	)
	groups := newFakeGroupRepo(members,
		&Group{ID: 10, OwnerID: uint64Ptr(100), MaxMembers: 5},
	)
	tasks := newFakeTaskRepo(&Task{ID: 50, RewardAmount: 10.00})
	f := newSettlementFixture(defaultSettlementConfig(), members, groups, tasks)

	bills, err := f.uc.SettleTaskApproval(context.Background(), 50, 100)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, constants.BillTypeTaskReward, bills[0].BillType)
}

func TestSettleTaskApprovalInviteRewardFirstTaskOnly(t *testing.T) {
	members := newFakeMemberRepo(
		&Member{ID: 1, InviterID: uint64Ptr(2)},
		&Member{ID: 2},
	)
	groups := newFakeGroupRepo(members)
	tasks := newFakeTaskRepo(
		&Task{ID: 50, RewardAmount: 10.00},
		&Task{ID: 51, RewardAmount: 8.00},
	)
	f := newSettlementFixture(defaultSettlementConfig(), members, groups, tasks)

	first, err := f.uc.SettleTaskApproval(context.Background(), 50, 1)
	require.NoError(t, err)
	require.Len(t, first, 2)
	// 首单标记随计划下传，data 层据此在事务内复核
	require.NotNil(t, f.repo.lastPlan)
	assert.True(t, f.repo.lastPlan.InviteFirstTaskOnly)

	// 第二个任务：邀请奖励只发一次
	second, err := f.uc.SettleTaskApproval(context.Background(), 51, 1)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, constants.BillTypeTaskReward, second[0].BillType)
}

func TestSettleTaskApprovalInviteRewardEveryTask(t *testing.T) {
	conf := defaultSettlementConfig()
	conf.InviteReward.FirstTaskOnly = false

	members := newFakeMemberRepo(
		&Member{ID: 1, InviterID: uint64Ptr(2)},
		&Member{ID: 2},
	)
	groups := newFakeGroupRepo(members)
	tasks := newFakeTaskRepo(
		&Task{ID: 50, RewardAmount: 10.00},
		&Task{ID: 51, RewardAmount: 8.00},
	)
	f := newSettlementFixture(conf, members, groups, tasks)

	first, err := f.uc.SettleTaskApproval(context.Background(), 50, 1)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := f.uc.SettleTaskApproval(context.Background(), 51, 1)
	require.NoError(t, err)
	require.Len(t, second, 2)
}

func TestSettleTaskApprovalTaskNotFound(t *testing.T) {
	members := newFakeMemberRepo(&Member{ID: 1})
	groups := newFakeGroupRepo(members)
	tasks := newFakeTaskRepo()
	f := newSettlementFixture(defaultSettlementConfig(), members, groups, tasks)

	_, err := f.uc.SettleTaskApproval(context.Background(), 999, 1)
	assert.Error(t, err)
	assert.Empty(t, f.bills.bills)
}

func TestSettleTaskApprovalPublishFailureDoesNotFail(t *testing.T) {
	members := newFakeMemberRepo(&Member{ID: 1})
	groups := newFakeGroupRepo(members)
	tasks := newFakeTaskRepo(&Task{ID: 50, RewardAmount: 10.00})
	f := newSettlementFixture(defaultSettlementConfig(), members, groups, tasks)
	f.publisher.err = assert.AnError

	bills, err := f.uc.SettleTaskApproval(context.Background(), 50, 1)
	require.NoError(t, err)
	assert.Len(t, bills, 1)
}

func TestRewardPolicyCompute(t *testing.T) {
	var nilPolicy *RewardPolicy
	assert.Zero(t, nilPolicy.Compute(10))

	disabled := &RewardPolicy{Mode: constants.PolicyModeAmount, Value: 2}
	assert.Zero(t, disabled.Compute(10))

	amount := &RewardPolicy{Enabled: true, Mode: constants.PolicyModeAmount, Value: 2}
	assert.InDelta(t, 2.0, amount.Compute(10), 1e-9)

	rate := &RewardPolicy{Enabled: true, Mode: constants.PolicyModeRate, Value: 0.1}
	assert.InDelta(t, 1.0, rate.Compute(10), 1e-9)

	unknown := &RewardPolicy{Enabled: true, Mode: "percentile", Value: 3}
	assert.Zero(t, unknown.Compute(10))
}
