package service

import (
	"fmt"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"gorm.io/gorm"
)

type BidService struct {
	db *gorm.DB
}

func NewBidService(db *gorm.DB) *BidService {
	return &BidService{db: db}
}

func (s *BidService) Create(bid *model.Bid) error {
	var project model.Project
	if err := s.db.First(&project, bid.ProjectID).Error; err != nil {
		return fmt.Errorf("40402:项目不存在")
	}
	if project.Status != model.ProjectStatusPlanning {
		return fmt.Errorf("40003:项目不在招标阶段，无法投标")
	}
	if project.OwnerID == bid.ContractorID {
		return fmt.Errorf("40003:不能对自己发布的项目投标")
	}
	if bid.Amount <= 0 {
		return fmt.Errorf("40002:报价金额必须大于 0")
	}

	var count int64
	s.db.Model(&model.Bid{}).
		Where("project_id = ? AND contractor_id = ? AND status = ?",
			bid.ProjectID, bid.ContractorID, model.BidStatusPending).
		Count(&count)
	if count > 0 {
		return fmt.Errorf("40005:已对该项目提交过报价")
	}

	bid.Status = model.BidStatusPending
	return s.db.Create(bid).Error
}

func (s *BidService) ListByProject(projectID uint) ([]model.Bid, error) {
	var bids []model.Bid
	if err := s.db.Where("project_id = ?", projectID).
		Preload("Contractor").Order("created_at desc").Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

func (s *BidService) ListByContractor(contractorID uint, page, pageSize int) ([]model.Bid, int64, error) {
	query := s.db.Model(&model.Bid{}).Where("contractor_id = ?", contractorID)

	var total int64
	query.Count(&total)

	var bids []model.Bid
	if err := query.Preload("Project").Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&bids).Error; err != nil {
		return nil, 0, err
	}
	return bids, total, nil
}

func (s *BidService) GetByID(id uint) (*model.Bid, error) {
	var bid model.Bid
	if err := s.db.Preload("Contractor").Preload("Project").First(&bid, id).Error; err != nil {
		return nil, err
	}
	return &bid, nil
}

// Accept awards the project to the bidding contractor: the bid flips to
// accepted, every other pending bid is rejected, and the project moves to
// active with the contractor assigned, all in one transaction.
func (s *BidService) Accept(bidID uint) (*model.Bid, error) {
	bid, err := s.GetByID(bidID)
	if err != nil {
		return nil, fmt.Errorf("40407:报价不存在")
	}
	if bid.Status != model.BidStatusPending {
		return nil, fmt.Errorf("40003:报价当前状态为 %s，无法接受", bid.Status)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Bid{}).Where("id = ?", bidID).
			Update("status", model.BidStatusAccepted).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Bid{}).
			Where("project_id = ? AND id != ? AND status = ?",
				bid.ProjectID, bidID, model.BidStatusPending).
			Update("status", model.BidStatusRejected).Error; err != nil {
			return err
		}
		return tx.Model(&model.Project{}).Where("id = ?", bid.ProjectID).
			Updates(map[string]interface{}{
				"contractor_id": bid.ContractorID,
				"status":        model.ProjectStatusActive,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(bidID)
}

func (s *BidService) Withdraw(bidID, contractorID uint) error {
	bid, err := s.GetByID(bidID)
	if err != nil {
		return fmt.Errorf("40407:报价不存在")
	}
	if bid.ContractorID != contractorID {
		return fmt.Errorf("40303:非报价提交者，无权撤回")
	}
	if bid.Status != model.BidStatusPending {
		return fmt.Errorf("40003:报价当前状态为 %s，无法撤回", bid.Status)
	}
	return s.db.Model(&model.Bid{}).Where("id = ?", bidID).
		Update("status", model.BidStatusWithdrawn).Error
}
