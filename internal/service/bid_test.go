package service

import (
	"testing"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"gorm.io/gorm"
)

func seedMarketplace(t *testing.T, db *gorm.DB) (*model.Project, []uint) {
	t.Helper()
	owner := &model.User{ProviderUID: "uid-h", Name: "Homeowner", Role: "homeowner", Status: 1}
	c1 := &model.User{ProviderUID: "uid-c1", Name: "Builder One", Role: "contractor", Status: 1}
	c2 := &model.User{ProviderUID: "uid-c2", Name: "Builder Two", Role: "contractor", Status: 1}
	for _, u := range []*model.User{owner, c1, c2} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	project := &model.Project{Title: "Garage build", OwnerID: owner.ID, Status: model.ProjectStatusPlanning}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project, []uint{owner.ID, c1.ID, c2.ID}
}

func TestBidCreateRules(t *testing.T) {
	db := setupDB(t)
	svc := NewBidService(db)
	project, ids := seedMarketplace(t, db)
	ownerID, c1 := ids[0], ids[1]

	if err := svc.Create(&model.Bid{ProjectID: project.ID, ContractorID: ownerID, Amount: 1000}); err == nil {
		t.Error("owner bidding on own project should fail")
	}
	if err := svc.Create(&model.Bid{ProjectID: project.ID, ContractorID: c1, Amount: 0}); err == nil {
		t.Error("zero amount should fail")
	}
	if err := svc.Create(&model.Bid{ProjectID: project.ID, ContractorID: c1, Amount: 1000}); err != nil {
		t.Fatalf("valid bid failed: %v", err)
	}
	// One pending bid per contractor per project.
	if err := svc.Create(&model.Bid{ProjectID: project.ID, ContractorID: c1, Amount: 2000}); err == nil {
		t.Error("duplicate pending bid should fail")
	}

	// Bidding closes once the project leaves planning.
	db.Model(&model.Project{}).Where("id = ?", project.ID).Update("status", model.ProjectStatusActive)
	if err := svc.Create(&model.Bid{ProjectID: project.ID, ContractorID: ids[2], Amount: 1500}); err == nil {
		t.Error("bid on non-planning project should fail")
	}
}

func TestBidAcceptAwardsProject(t *testing.T) {
	db := setupDB(t)
	svc := NewBidService(db)
	project, ids := seedMarketplace(t, db)
	c1, c2 := ids[1], ids[2]

	b1 := &model.Bid{ProjectID: project.ID, ContractorID: c1, Amount: 1000}
	b2 := &model.Bid{ProjectID: project.ID, ContractorID: c2, Amount: 900}
	for _, b := range []*model.Bid{b1, b2} {
		if err := svc.Create(b); err != nil {
			t.Fatalf("create bid: %v", err)
		}
	}

	accepted, err := svc.Accept(b1.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != model.BidStatusAccepted {
		t.Errorf("status = %s, want accepted", accepted.Status)
	}

	// The losing pending bid is rejected in the same transaction.
	loser, _ := svc.GetByID(b2.ID)
	if loser.Status != model.BidStatusRejected {
		t.Errorf("losing bid status = %s, want rejected", loser.Status)
	}

	var reloaded model.Project
	db.First(&reloaded, project.ID)
	if reloaded.Status != model.ProjectStatusActive {
		t.Errorf("project status = %s, want active", reloaded.Status)
	}
	if reloaded.ContractorID == nil || *reloaded.ContractorID != c1 {
		t.Error("contractor not assigned")
	}

	// A decided bid cannot be accepted again.
	if _, err := svc.Accept(b2.ID); err == nil {
		t.Error("accepting a rejected bid should fail")
	}
}

func TestBidWithdraw(t *testing.T) {
	db := setupDB(t)
	svc := NewBidService(db)
	project, ids := seedMarketplace(t, db)
	c1, c2 := ids[1], ids[2]

	bid := &model.Bid{ProjectID: project.ID, ContractorID: c1, Amount: 1000}
	if err := svc.Create(bid); err != nil {
		t.Fatalf("create bid: %v", err)
	}

	if err := svc.Withdraw(bid.ID, c2); err == nil {
		t.Error("withdrawing someone else's bid should fail")
	}
	if err := svc.Withdraw(bid.ID, c1); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	reloaded, _ := svc.GetByID(bid.ID)
	if reloaded.Status != model.BidStatusWithdrawn {
		t.Errorf("status = %s, want withdrawn", reloaded.Status)
	}
	if err := svc.Withdraw(bid.ID, c1); err == nil {
		t.Error("withdrawing twice should fail")
	}
}
