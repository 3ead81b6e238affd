package biz

import (
	"context"
	"testing"

	"settlement-service/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemberFixture(members *fakeMemberRepo, groups *fakeGroupRepo) *MemberUseCase {
	assign := NewAssignUseCase(members, groups, log.DefaultLogger)
	return NewMemberUseCase(members, assign, log.DefaultLogger)
}

func TestApproveMembersBatch(t *testing.T) {
	// 1 号有邀请人可入组，2 号无邀请人（通过但不分组），999 不存在
	members := newFakeMemberRepo(
		&Member{ID: 1, InviterID: uint64Ptr(5), AuditStatus: constants.MemberAuditStatusPending},
		&Member{ID: 2, AuditStatus: constants.MemberAuditStatusPending},
		&Member{ID: 5, GroupID: uint64Ptr(10)},
	)
	groups := newFakeGroupRepo(members,
		&Group{ID: 10, OwnerID: uint64Ptr(100), MaxMembers: 5},
	)
	uc := newMemberFixture(members, groups)

	result, err := uc.ApproveMembers(context.Background(), []uint64{1, 2, 999})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Outcomes, 3)

	first := result.Outcomes[0]
	assert.True(t, first.Approved)
	assert.Equal(t, constants.AssignReasonInviterGroup, first.AssignReason)
	assert.Equal(t, constants.MemberAuditStatusApproved, members.members[1].AuditStatus)

	second := result.Outcomes[1]
	assert.True(t, second.Approved)
	assert.Equal(t, constants.AssignReasonNoInviter, second.AssignReason)
	assert.Nil(t, members.members[2].GroupID)

	third := result.Outcomes[2]
	assert.False(t, third.Approved)
	assert.NotEmpty(t, third.Error)
}

func TestApproveMembersAlreadyApproved(t *testing.T) {
	// 已通过的会员不重复更新审核状态，但仍触发分组
	members := newFakeMemberRepo(
		&Member{ID: 1, InviterID: uint64Ptr(5), AuditStatus: constants.MemberAuditStatusApproved},
		&Member{ID: 5, GroupID: uint64Ptr(10)},
	)
	groups := newFakeGroupRepo(members,
		&Group{ID: 10, OwnerID: uint64Ptr(100), MaxMembers: 5},
	)
	uc := newMemberFixture(members, groups)

	result, err := uc.ApproveMembers(context.Background(), []uint64{1})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
	assert.Empty(t, members.updated)
	assert.Equal(t, constants.AssignReasonInviterGroup, result.Outcomes[0].AssignReason)
}
