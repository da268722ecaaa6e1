package service

import (
	"testing"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Milestone{},
		&model.Bid{},
		&model.Payment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProject(t *testing.T, db *gorm.DB) *model.Project {
	t.Helper()
	owner := &model.User{ProviderUID: "uid-owner", Name: "Owner", Role: "homeowner", Status: 1}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("create owner: %v", err)
	}
	project := &model.Project{
		Title:   "Kitchen remodel",
		OwnerID: owner.ID,
		Status:  model.ProjectStatusPlanning,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}

func projectCompletion(t *testing.T, db *gorm.DB, projectID uint) int {
	t.Helper()
	var project model.Project
	if err := db.First(&project, projectID).Error; err != nil {
		t.Fatalf("reload project: %v", err)
	}
	return project.CompletionPercentage
}

func TestMilestoneCreateForcesPending(t *testing.T) {
	db := setupDB(t)
	svc := NewMilestoneService(db)
	project := seedProject(t, db)

	m := &model.Milestone{
		ProjectID: project.ID,
		Title:     "Demolition",
		Status:    model.MilestoneStatusCompleted,
	}
	if err := svc.Create(m); err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.Status != model.MilestoneStatusPending {
		t.Errorf("status = %s, want pending", m.Status)
	}
	if m.CompletedDate != nil {
		t.Errorf("completed_date should be nil on create")
	}
	if m.ProgressWeight != model.DefaultProgressWeight {
		t.Errorf("progress_weight = %d, want default %d", m.ProgressWeight, model.DefaultProgressWeight)
	}
	if got := projectCompletion(t, db, project.ID); got != 0 {
		t.Errorf("completion after create = %d, want 0", got)
	}
}

func TestMilestoneCreateValidation(t *testing.T) {
	db := setupDB(t)
	svc := NewMilestoneService(db)
	project := seedProject(t, db)

	if err := svc.Create(&model.Milestone{ProjectID: project.ID}); err == nil {
		t.Error("expected error for empty title")
	}
	if err := svc.Create(&model.Milestone{ProjectID: project.ID + 999, Title: "x"}); err == nil {
		t.Error("expected error for missing project")
	}
}

func TestToggleCompleteStampsAndClearsDate(t *testing.T) {
	db := setupDB(t)
	svc := NewMilestoneService(db)
	project := seedProject(t, db)

	m := &model.Milestone{ProjectID: project.ID, Title: "Foundation", ProgressWeight: 20}
	if err := svc.Create(m); err != nil {
		t.Fatalf("create: %v", err)
	}

	m, err := svc.ToggleComplete(m.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if m.Status != model.MilestoneStatusCompleted {
		t.Fatalf("status = %s, want completed", m.Status)
	}
	if m.CompletedDate == nil {
		t.Fatal("completed_date not stamped")
	}
	if got := projectCompletion(t, db, project.ID); got != 20 {
		t.Errorf("completion = %d, want 20", got)
	}

	// Toggling back reverts to pending and clears the date.
	m, err = svc.ToggleComplete(m.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if m.Status != model.MilestoneStatusPending {
		t.Errorf("status = %s, want pending", m.Status)
	}
	if m.CompletedDate != nil {
		t.Error("completed_date should be cleared on revert")
	}
	if got := projectCompletion(t, db, project.ID); got != 0 {
		t.Errorf("completion after revert = %d, want 0", got)
	}
}

func TestUpdateDoesNotStampCompletedDate(t *testing.T) {
	db := setupDB(t)
	svc := NewMilestoneService(db)
	project := seedProject(t, db)

	m := &model.Milestone{ProjectID: project.ID, Title: "Framing", ProgressWeight: 30}
	if err := svc.Create(m); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Setting status=completed through the general update path counts
	// toward completion but must not write completed_date.
	m, err := svc.Update(m.ID, map[string]interface{}{"status": model.MilestoneStatusCompleted})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if m.Status != model.MilestoneStatusCompleted {
		t.Fatalf("status = %s, want completed", m.Status)
	}
	if m.CompletedDate != nil {
		t.Error("general update must not stamp completed_date")
	}
	if got := projectCompletion(t, db, project.ID); got != 30 {
		t.Errorf("completion = %d, want 30", got)
	}
}

func TestWeightChangeRecomputes(t *testing.T) {
	db := setupDB(t)
	svc := NewMilestoneService(db)
	project := seedProject(t, db)

	m := &model.Milestone{ProjectID: project.ID, Title: "Roofing", ProgressWeight: 25}
	if err := svc.Create(m); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ToggleComplete(m.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := projectCompletion(t, db, project.ID); got != 25 {
		t.Fatalf("completion = %d, want 25", got)
	}

	if _, err := svc.Update(m.ID, map[string]interface{}{"progress_weight": 40}); err != nil {
		t.Fatalf("update weight: %v", err)
	}
	if got := projectCompletion(t, db, project.ID); got != 40 {
		t.Errorf("completion after weight change = %d, want 40", got)
	}
}

func TestCompletionMayExceedHundred(t *testing.T) {
	db := setupDB(t)
	svc := NewMilestoneService(db)
	project := seedProject(t, db)

	for _, w := range []int{60, 60} {
		m := &model.Milestone{ProjectID: project.ID, Title: "Phase", ProgressWeight: w}
		if err := svc.Create(m); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := svc.ToggleComplete(m.ID); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	// The stored value is the raw weighted sum, not clamped.
	if got := projectCompletion(t, db, project.ID); got != 120 {
		t.Errorf("completion = %d, want 120", got)
	}
}

func TestDeleteRecomputesWithoutCascade(t *testing.T) {
	db := setupDB(t)
	svc := NewMilestoneService(db)
	project := seedProject(t, db)

	a := &model.Milestone{ProjectID: project.ID, Title: "A", Position: 1, ProgressWeight: 50}
	b := &model.Milestone{ProjectID: project.ID, Title: "B", Position: 2, ProgressWeight: 50}
	for _, m := range []*model.Milestone{a, b} {
		if err := svc.Create(m); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := svc.ToggleComplete(a.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := svc.Delete(b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The sibling keeps its position and weight untouched.
	remaining, err := svc.ListByProject(project.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("len = %d, want 1", len(remaining))
	}
	if remaining[0].Position != 1 || remaining[0].ProgressWeight != 50 {
		t.Errorf("sibling mutated: position=%d weight=%d", remaining[0].Position, remaining[0].ProgressWeight)
	}
	if got := projectCompletion(t, db, project.ID); got != 50 {
		t.Errorf("completion after delete = %d, want 50", got)
	}
}

func TestCreateBatchAllOrNothing(t *testing.T) {
	db := setupDB(t)
	svc := NewMilestoneService(db)
	project := seedProject(t, db)

	err := svc.CreateBatch(project.ID, []model.Milestone{
		{Title: "Site prep", Position: 1, ProgressWeight: 10},
		{Title: "", Position: 2, ProgressWeight: 20},
	})
	if err == nil {
		t.Fatal("expected batch with empty title to fail")
	}

	var count int64
	db.Model(&model.Milestone{}).Where("project_id = ?", project.ID).Count(&count)
	if count != 0 {
		t.Errorf("partial batch persisted: %d rows", count)
	}
}

func TestListOrdering(t *testing.T) {
	db := setupDB(t)
	svc := NewMilestoneService(db)
	project := seedProject(t, db)

	for _, m := range []*model.Milestone{
		{ProjectID: project.ID, Title: "Second", Position: 2},
		{ProjectID: project.ID, Title: "First", Position: 1},
		{ProjectID: project.ID, Title: "Also second", Position: 2},
	} {
		if err := svc.Create(m); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	milestones, err := svc.ListByProject(project.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	titles := make([]string, 0, len(milestones))
	for _, m := range milestones {
		titles = append(titles, m.Title)
	}
	want := []string{"First", "Second", "Also second"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("order = %v, want %v", titles, want)
		}
	}
}

// Walks the renovation flow end to end: weights 20/30/50, completing,
// deleting and reverting, checking the cached completion at each step.
func TestProgressLifecycle(t *testing.T) {
	db := setupDB(t)
	svc := NewMilestoneService(db)
	project := seedProject(t, db)

	foundation := &model.Milestone{ProjectID: project.ID, Title: "Foundation", Position: 1, ProgressWeight: 20}
	framing := &model.Milestone{ProjectID: project.ID, Title: "Framing", Position: 2, ProgressWeight: 30}
	finishing := &model.Milestone{ProjectID: project.ID, Title: "Finishing", Position: 3, ProgressWeight: 50}
	for _, m := range []*model.Milestone{foundation, framing, finishing} {
		if err := svc.Create(m); err != nil {
			t.Fatalf("create %s: %v", m.Title, err)
		}
	}

	check := func(step string, want int) {
		t.Helper()
		if got := projectCompletion(t, db, project.ID); got != want {
			t.Errorf("%s: completion = %d, want %d", step, got, want)
		}
	}

	check("initial", 0)

	if _, err := svc.ToggleComplete(foundation.ID); err != nil {
		t.Fatalf("complete foundation: %v", err)
	}
	check("foundation done", 20)

	if _, err := svc.ToggleComplete(framing.ID); err != nil {
		t.Fatalf("complete framing: %v", err)
	}
	check("framing done", 50)

	if err := svc.Delete(finishing.ID); err != nil {
		t.Fatalf("delete finishing: %v", err)
	}
	check("finishing deleted", 50)

	if _, err := svc.ToggleComplete(foundation.ID); err != nil {
		t.Fatalf("revert foundation: %v", err)
	}
	check("foundation reverted", 30)
}
