package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentService struct {
	db            *gorm.DB
	webhookSecret string
}

func NewPaymentService(db *gorm.DB, webhookSecret string) *PaymentService {
	return &PaymentService{db: db, webhookSecret: webhookSecret}
}

// Fund creates an escrow record from the homeowner toward the assigned
// contractor, optionally pinned to one milestone.
func (s *PaymentService) Fund(projectID uint, milestoneID *uint, payerID uint, amount int64) (*model.Payment, error) {
	var project model.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, fmt.Errorf("40402:项目不存在")
	}
	if project.OwnerID != payerID {
		return nil, fmt.Errorf("40303:只有项目业主可以托管款项")
	}
	if project.ContractorID == nil {
		return nil, fmt.Errorf("40003:项目尚未指定承包商，无法托管款项")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("40002:托管金额必须大于 0")
	}
	if milestoneID != nil {
		var count int64
		s.db.Model(&model.Milestone{}).
			Where("id = ? AND project_id = ?", *milestoneID, projectID).Count(&count)
		if count == 0 {
			return nil, fmt.Errorf("40002:milestone_id 必须属于该项目")
		}
	}

	payment := &model.Payment{
		Reference:   uuid.NewString(),
		ProjectID:   projectID,
		MilestoneID: milestoneID,
		PayerID:     payerID,
		PayeeID:     *project.ContractorID,
		Amount:      amount,
		Status:      model.PaymentStatusHeld,
	}
	if err := s.db.Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) GetByID(id uint) (*model.Payment, error) {
	var payment model.Payment
	if err := s.db.Preload("Milestone").Preload("Payer").Preload("Payee").
		First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentService) ListByProject(projectID uint) ([]model.Payment, error) {
	var payments []model.Payment
	if err := s.db.Where("project_id = ?", projectID).
		Preload("Milestone").Order("created_at desc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Release pays out a held escrow to the contractor.
func (s *PaymentService) Release(id, byUserID uint, isAdmin bool) (*model.Payment, error) {
	payment, err := s.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("40408:托管记录不存在")
	}
	if !isAdmin && payment.PayerID != byUserID {
		return nil, fmt.Errorf("40303:只有付款方可以释放托管款项")
	}
	if payment.Status != model.PaymentStatusHeld {
		return nil, fmt.Errorf("40003:托管当前状态为 %s，无法释放", payment.Status)
	}

	now := time.Now()
	if err := s.db.Model(&model.Payment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      model.PaymentStatusReleased,
		"released_at": &now,
	}).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Refund returns a held escrow to the homeowner (project cancelled, dispute
// resolved their way, etc).
func (s *PaymentService) Refund(id, byUserID uint, isAdmin bool) (*model.Payment, error) {
	payment, err := s.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("40408:托管记录不存在")
	}
	if !isAdmin && payment.PayerID != byUserID {
		return nil, fmt.Errorf("40303:只有付款方可以申请退款")
	}
	if payment.Status != model.PaymentStatusHeld {
		return nil, fmt.Errorf("40003:托管当前状态为 %s，无法退款", payment.Status)
	}

	now := time.Now()
	if err := s.db.Model(&model.Payment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      model.PaymentStatusRefunded,
		"refunded_at": &now,
	}).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// VerifyWebhook checks the HMAC-SHA256 signature on a payment provider
// callback body.
func (s *PaymentService) VerifyWebhook(payload []byte, signature string) error {
	if signature == "" {
		return fmt.Errorf("40101:缺少签名")
	}
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("40103:签名校验失败")
	}
	return nil
}
