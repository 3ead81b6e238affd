package data

import (
	"context"
	"errors"

	"settlement-service/internal/biz"
	"settlement-service/internal/constants"
	"settlement-service/internal/data/model"
	settlementErrors "settlement-service/internal/errors"
	"settlement-service/internal/metrics"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// billMutableColumns 账单创建后允许变更的列
// 金额、类型、归属会员等财务字段落账后不可变
var billMutableColumns = map[string]struct{}{
	"settlement_status": {},
	"remark":            {},
}

// billRepo 账单相关数据访问
type billRepo struct {
	data *Data
	log  *log.Helper
}

// NewBillRepo 创建账单 repo（返回 biz.BillRepo 接口）
func NewBillRepo(data *Data, logger log.Logger) biz.BillRepo {
	return &billRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// insertBillWithFreshNo 写入账单，编号冲突时换新编号重试（有界）
// MySQL 下唯一索引冲突不会使事务失效，可以在同一事务内直接重试
func insertBillWithFreshNo(ctx context.Context, tx *gorm.DB, gen *biz.BillNoGenerator, m *model.Bill) error {
	prefix := biz.BillNoPrefix(m.BillType)
	for i := 0; i < constants.BillNoMaxRetries; i++ {
		m.BillNo = gen.Generate(prefix)
		err := tx.Create(m).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		if mts := metrics.GetMetrics(); mts != nil {
			mts.BillNoRetry.Inc()
		}
		m.ID = 0
	}
	return pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeBillNoExhausted)
}

func toBizBill(m *model.Bill) *biz.Bill {
	return &biz.Bill{
		ID:               m.ID,
		BillNo:           m.BillNo,
		MemberID:         m.MemberID,
		BillType:         m.BillType,
		Amount:           m.Amount,
		TaskID:           m.TaskID,
		WithdrawalID:     m.WithdrawalID,
		RelatedMemberID:  m.RelatedMemberID,
		RelatedGroupID:   m.RelatedGroupID,
		SettlementStatus: m.SettlementStatus,
		Remark:           m.Remark,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// GetBill 按主键查询账单
func (r *billRepo) GetBill(ctx context.Context, id uint64) (*biz.Bill, error) {
	var m model.Bill
	if err := r.data.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBizBill(&m), nil
}

// GetBillByNo 按账单编号查询账单
func (r *billRepo) GetBillByNo(ctx context.Context, billNo string) (*biz.Bill, error) {
	var m model.Bill
	if err := r.data.db.WithContext(ctx).Where("bill_no = ?", billNo).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBizBill(&m), nil
}

// FindBillByTaskMemberType 幂等查询
func (r *billRepo) FindBillByTaskMemberType(ctx context.Context, taskID, memberID uint64, billType string) (*biz.Bill, error) {
	var m model.Bill
	if err := r.data.db.WithContext(ctx).
		Where("task_id = ? AND member_id = ? AND bill_type = ?", taskID, memberID, billType).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBizBill(&m), nil
}

// FindBillByRelatedMemberType 按关联会员查询（首单邀请奖励判定）
func (r *billRepo) FindBillByRelatedMemberType(ctx context.Context, relatedMemberID uint64, billType string) (*biz.Bill, error) {
	var m model.Bill
	if err := r.data.db.WithContext(ctx).
		Where("related_member_id = ? AND bill_type = ?", relatedMemberID, billType).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBizBill(&m), nil
}

// ListBills 分页查询账单
func (r *billRepo) ListBills(ctx context.Context, filter *biz.BillListFilter, page, pageSize int) ([]*biz.Bill, int64, error) {
	db := r.data.db.WithContext(ctx).Model(&model.Bill{})
	if filter != nil {
		if filter.MemberID > 0 {
			db = db.Where("member_id = ?", filter.MemberID)
		}
		if filter.BillType != "" {
			db = db.Where("bill_type = ?", filter.BillType)
		}
		if filter.SettlementStatus != "" {
			db = db.Where("settlement_status = ?", filter.SettlementStatus)
		}
		if filter.StartTime != nil {
			db = db.Where("created_at >= ?", filter.StartTime)
		}
		if filter.EndTime != nil {
			db = db.Where("created_at < ?", filter.EndTime)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []model.Bill
	offset := (page - 1) * pageSize
	if err := db.Offset(offset).Limit(pageSize).Order("created_at DESC, id DESC").Find(&models).Error; err != nil {
		return nil, 0, err
	}

	bills := make([]*biz.Bill, 0, len(models))
	for i := range models {
		bills = append(bills, toBizBill(&models[i]))
	}
	return bills, total, nil
}

// UpdateBill 受限更新：只允许变更 billMutableColumns 中的列
func (r *billRepo) UpdateBill(ctx context.Context, id uint64, updates map[string]interface{}) error {
	for column := range updates {
		if _, ok := billMutableColumns[column]; !ok {
			return pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeImmutableFieldViolation)
		}
	}
	result := r.data.db.WithContext(ctx).Model(&model.Bill{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return pkgErrors.WrapErrorWithLang(ctx, result.Error, settlementErrors.ErrCodeBillUpdateFailed)
	}
	if result.RowsAffected == 0 {
		return pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeBillNotFound)
	}
	return nil
}

// UpdateBillStatus 变更结算状态（和备注）
func (r *billRepo) UpdateBillStatus(ctx context.Context, id uint64, status, remark string) error {
	updates := map[string]interface{}{"settlement_status": status}
	if remark != "" {
		updates["remark"] = remark
	}
	return r.UpdateBill(ctx, id, updates)
}
