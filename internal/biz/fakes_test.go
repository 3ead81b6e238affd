package biz

import (
	"context"
	"errors"
	"sort"
)

// 测试用内存 repo 实现

type fakeMemberRepo struct {
	members map[uint64]*Member
	updated map[uint64]string
}

func newFakeMemberRepo(members ...*Member) *fakeMemberRepo {
	r := &fakeMemberRepo{
		members: make(map[uint64]*Member),
		updated: make(map[uint64]string),
	}
	for _, m := range members {
		r.members[m.ID] = m
	}
	return r
}

func (r *fakeMemberRepo) GetMember(ctx context.Context, id uint64) (*Member, error) {
	return r.members[id], nil
}

func (r *fakeMemberRepo) UpdateAuditStatus(ctx context.Context, id uint64, status string) error {
	m, ok := r.members[id]
	if !ok {
		return errors.New("member not found")
	}
	m.AuditStatus = status
	r.updated[id] = status
	return nil
}

type fakeGroupRepo struct {
	groups  map[uint64]*Group
	counts  map[uint64]int64
	members *fakeMemberRepo
}

func newFakeGroupRepo(members *fakeMemberRepo, groups ...*Group) *fakeGroupRepo {
	r := &fakeGroupRepo{
		groups:  make(map[uint64]*Group),
		counts:  make(map[uint64]int64),
		members: members,
	}
	for _, g := range groups {
		r.groups[g.ID] = g
		r.counts[g.ID] = g.MemberCount
	}
	return r
}

func (r *fakeGroupRepo) GetGroup(ctx context.Context, id uint64) (*Group, error) {
	return r.groups[id], nil
}

func (r *fakeGroupRepo) ListGroupsByOwner(ctx context.Context, ownerID uint64) ([]*Group, error) {
	var groups []*Group
	for _, g := range r.groups {
		if g.OwnerID != nil && *g.OwnerID == ownerID {
			groups = append(groups, g)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

func (r *fakeGroupRepo) CountGroupMembers(ctx context.Context, groupID uint64) (int64, error) {
	return r.counts[groupID], nil
}

func (r *fakeGroupRepo) AssignMemberToGroup(ctx context.Context, memberID, groupID uint64) (bool, error) {
	g, ok := r.groups[groupID]
	if !ok {
		return false, errors.New("group not found")
	}
	if r.counts[groupID] >= int64(g.MaxMembers) {
		return false, nil
	}
	r.counts[groupID]++
	gID := groupID
	if m := r.members.members[memberID]; m != nil {
		m.GroupID = &gID
	}
	return true, nil
}

type fakeTaskRepo struct {
	tasks map[uint64]*Task
}

func newFakeTaskRepo(tasks ...*Task) *fakeTaskRepo {
	r := &fakeTaskRepo{tasks: make(map[uint64]*Task)}
	for _, t := range tasks {
		r.tasks[t.ID] = t
	}
	return r
}

func (r *fakeTaskRepo) GetTask(ctx context.Context, id uint64) (*Task, error) {
	return r.tasks[id], nil
}

type fakeBillRepo struct {
	bills  []*Bill
	nextID uint64
}

func (r *fakeBillRepo) add(b *Bill) {
	r.nextID++
	b.ID = r.nextID
	r.bills = append(r.bills, b)
}

func (r *fakeBillRepo) GetBill(ctx context.Context, id uint64) (*Bill, error) {
	for _, b := range r.bills {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBillRepo) GetBillByNo(ctx context.Context, billNo string) (*Bill, error) {
	for _, b := range r.bills {
		if b.BillNo == billNo {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBillRepo) FindBillByTaskMemberType(ctx context.Context, taskID, memberID uint64, billType string) (*Bill, error) {
	for _, b := range r.bills {
		if b.TaskID != nil && *b.TaskID == taskID && b.MemberID == memberID && b.BillType == billType {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBillRepo) FindBillByRelatedMemberType(ctx context.Context, relatedMemberID uint64, billType string) (*Bill, error) {
	for _, b := range r.bills {
		if b.RelatedMemberID != nil && *b.RelatedMemberID == relatedMemberID && b.BillType == billType {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBillRepo) ListBills(ctx context.Context, filter *BillListFilter, page, pageSize int) ([]*Bill, int64, error) {
	return r.bills, int64(len(r.bills)), nil
}

func (r *fakeBillRepo) UpdateBillStatus(ctx context.Context, id uint64, status, remark string) error {
	for _, b := range r.bills {
		if b.ID == id {
			b.SettlementStatus = status
			b.Remark = remark
			return nil
		}
	}
	return errors.New("bill not found")
}

// fakeSettlementRepo 把计划转成账单写进 fakeBillRepo，模拟事务内幂等复核
type fakeSettlementRepo struct {
	bills    *fakeBillRepo
	gen      *BillNoGenerator
	balance  float64
	executed int
	lastPlan *SettlementPlan
}

func (r *fakeSettlementRepo) ExecuteSettlement(ctx context.Context, plan *SettlementPlan) ([]*Bill, bool, error) {
	r.executed++
	r.lastPlan = plan
	if existing, _ := r.bills.FindBillByTaskMemberType(ctx, plan.TaskID, plan.MemberID, "task_reward"); existing != nil {
		return []*Bill{existing}, false, nil
	}
	var bills []*Bill
	for _, e := range plan.Entries {
		b := &Bill{
			BillNo:           r.gen.Generate(BillNoPrefix(e.BillType)),
			MemberID:         e.MemberID,
			BillType:         e.BillType,
			Amount:           e.Amount,
			TaskID:           e.TaskID,
			RelatedMemberID:  e.RelatedMemberID,
			RelatedGroupID:   e.RelatedGroupID,
			SettlementStatus: "settled",
			Remark:           e.Remark,
		}
		r.bills.add(b)
		bills = append(bills, b)
	}
	return bills, true, nil
}

func (r *fakeSettlementRepo) MemberBalance(ctx context.Context, memberID uint64) (float64, error) {
	return r.balance, nil
}

type fakePublisher struct {
	events []*BillSettledEvent
	err    error
}

func (p *fakePublisher) PublishBillSettled(ctx context.Context, event *BillSettledEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}
