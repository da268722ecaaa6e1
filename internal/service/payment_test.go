package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
)

func seedAssignedProject(t *testing.T, svc *PaymentService) (*model.Project, uint, uint) {
	t.Helper()
	db := svc.db

	owner := &model.User{ProviderUID: "uid-o", Name: "Owner", Role: "homeowner", Status: 1}
	contractor := &model.User{ProviderUID: "uid-c", Name: "Builder", Role: "contractor", Status: 1}
	for _, u := range []*model.User{owner, contractor} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	project := &model.Project{
		Title:        "Deck build",
		OwnerID:      owner.ID,
		ContractorID: &contractor.ID,
		Status:       model.ProjectStatusActive,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project, owner.ID, contractor.ID
}

func TestFund(t *testing.T) {
	svc := NewPaymentService(setupDB(t), "whsec")
	project, ownerID, contractorID := seedAssignedProject(t, svc)

	payment, err := svc.Fund(project.ID, nil, ownerID, 150000)
	if err != nil {
		t.Fatalf("fund: %v", err)
	}
	if payment.Status != model.PaymentStatusHeld {
		t.Errorf("status = %s, want held", payment.Status)
	}
	if payment.Reference == "" {
		t.Error("reference not assigned")
	}
	if payment.PayeeID != contractorID {
		t.Errorf("payee = %d, want contractor %d", payment.PayeeID, contractorID)
	}
}

func TestFundValidation(t *testing.T) {
	svc := NewPaymentService(setupDB(t), "whsec")
	project, ownerID, contractorID := seedAssignedProject(t, svc)

	if _, err := svc.Fund(project.ID, nil, contractorID, 100); err == nil {
		t.Error("expected error when a non-owner funds")
	}
	if _, err := svc.Fund(project.ID, nil, ownerID, 0); err == nil {
		t.Error("expected error for zero amount")
	}
	badMilestone := uint(9999)
	if _, err := svc.Fund(project.ID, &badMilestone, ownerID, 100); err == nil {
		t.Error("expected error for milestone outside project")
	}
}

func TestReleaseAndRefundRequireHeld(t *testing.T) {
	svc := NewPaymentService(setupDB(t), "whsec")
	project, ownerID, _ := seedAssignedProject(t, svc)

	payment, err := svc.Fund(project.ID, nil, ownerID, 5000)
	if err != nil {
		t.Fatalf("fund: %v", err)
	}

	released, err := svc.Release(payment.ID, ownerID, false)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if released.Status != model.PaymentStatusReleased || released.ReleasedAt == nil {
		t.Errorf("release not recorded: status=%s", released.Status)
	}

	// Already released; both follow-ups must fail.
	if _, err := svc.Release(payment.ID, ownerID, false); err == nil {
		t.Error("expected error releasing twice")
	}
	if _, err := svc.Refund(payment.ID, ownerID, false); err == nil {
		t.Error("expected error refunding a released payment")
	}
}

func TestReleasePermission(t *testing.T) {
	svc := NewPaymentService(setupDB(t), "whsec")
	project, ownerID, contractorID := seedAssignedProject(t, svc)

	payment, err := svc.Fund(project.ID, nil, ownerID, 5000)
	if err != nil {
		t.Fatalf("fund: %v", err)
	}

	if _, err := svc.Release(payment.ID, contractorID, false); err == nil {
		t.Error("payee must not be able to release")
	}
	if _, err := svc.Release(payment.ID, contractorID, true); err != nil {
		t.Errorf("admin release failed: %v", err)
	}
}

func TestVerifyWebhook(t *testing.T) {
	svc := NewPaymentService(setupDB(t), "whsec")
	payload := []byte(`{"reference":"abc","event":"settled"}`)

	mac := hmac.New(sha256.New, []byte("whsec"))
	mac.Write(payload)
	sig := hex.EncodeToString(mac.Sum(nil))

	if err := svc.VerifyWebhook(payload, sig); err != nil {
		t.Errorf("valid signature rejected: %v", err)
	}
	if err := svc.VerifyWebhook(payload, ""); err == nil {
		t.Error("missing signature accepted")
	}
	if err := svc.VerifyWebhook(payload, "deadbeef"); err == nil {
		t.Error("bad signature accepted")
	}
	if err := svc.VerifyWebhook([]byte("tampered"), sig); err == nil {
		t.Error("tampered payload accepted")
	}
}
