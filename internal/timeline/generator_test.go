package timeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/service"
	"github.com/Imactuallyjuan/Terrin-sub000/pkg/llm"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) (*gorm.DB, *model.Project) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Project{}, &model.Milestone{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	project := &model.Project{Title: "Bathroom remodel", OwnerID: 1, Status: model.ProjectStatusPlanning}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}
	return db, project
}

// stubLLM returns an OpenAI-style chat completion server whose assistant
// reply is always the given content.
func stubLLM(t *testing.T, content string) *llm.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return llm.NewClient(srv.URL, "test-key", "test-model")
}

func milestoneCount(t *testing.T, db *gorm.DB, projectID uint) int64 {
	t.Helper()
	var count int64
	db.Model(&model.Milestone{}).Where("project_id = ?", projectID).Count(&count)
	return count
}

func TestGenerateHappyPath(t *testing.T) {
	db, project := setupDB(t)
	gen := NewGenerator(service.NewMilestoneService(db), 30)

	client := stubLLM(t, `{
		"total_duration_days": 45,
		"phases": [{"name": "Prep", "duration_days": 10}, {"name": "Build", "duration_days": 35}],
		"milestones": [
			{"title": "Demolition", "order": 1, "progress_weight": 20, "estimated_duration_days": 5},
			{"title": "Plumbing rough-in", "order": 2, "progress_weight": 30, "estimated_duration_days": 10},
			{"title": "Tiling", "order": 3, "progress_weight": 50, "estimated_duration_days": 30}
		]
	}`)

	result, err := gen.Generate(context.Background(), client, project)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.MilestonesCreated != 3 {
		t.Errorf("milestones created = %d, want 3", result.MilestonesCreated)
	}
	if result.TotalDurationDays != 45 {
		t.Errorf("total duration = %d, want 45", result.TotalDurationDays)
	}
	if len(result.Phases) != 2 {
		t.Errorf("phases = %d, want 2", len(result.Phases))
	}
	if got := milestoneCount(t, db, project.ID); got != 3 {
		t.Errorf("persisted = %d, want 3", got)
	}

	// Generated milestones start pending; completion stays untouched.
	var reloaded model.Project
	db.First(&reloaded, project.ID)
	if reloaded.CompletionPercentage != 0 {
		t.Errorf("completion = %d, want 0", reloaded.CompletionPercentage)
	}
	var first model.Milestone
	db.Where("project_id = ?", project.ID).Order("position asc").First(&first)
	if first.Status != model.MilestoneStatusPending {
		t.Errorf("status = %s, want pending", first.Status)
	}
	if first.Title != "Demolition" {
		t.Errorf("first milestone = %s, want Demolition", first.Title)
	}
}

func TestGenerateStripsCodeFences(t *testing.T) {
	db, project := setupDB(t)
	gen := NewGenerator(service.NewMilestoneService(db), 30)

	client := stubLLM(t, "Here is the plan:\n```json\n"+
		`{"total_duration_days": 10, "phases": [], "milestones": [{"title": "Paint", "order": 1, "progress_weight": 100}]}`+
		"\n```\nLet me know if you want changes.")

	result, err := gen.Generate(context.Background(), client, project)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.MilestonesCreated != 1 {
		t.Errorf("milestones created = %d, want 1", result.MilestonesCreated)
	}
}

func TestGenerateRejectsBadOutput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "sorry, I cannot help with that"},
		{"empty milestones", `{"total_duration_days": 10, "phases": [], "milestones": []}`},
		{"missing title", `{"milestones": [{"order": 1, "progress_weight": 50}]}`},
		{"negative weight", `{"milestones": [{"title": "X", "order": 1, "progress_weight": -5}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, project := setupDB(t)
			gen := NewGenerator(service.NewMilestoneService(db), 30)

			_, err := gen.Generate(context.Background(), stubLLM(t, tt.content), project)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), "50202:") {
				t.Errorf("error = %v, want 50202 prefix", err)
			}
			if got := milestoneCount(t, db, project.ID); got != 0 {
				t.Errorf("persisted %d milestones on failure, want 0", got)
			}
		})
	}
}

func TestGenerateUpstreamFailure(t *testing.T) {
	db, project := setupDB(t)
	gen := NewGenerator(service.NewMilestoneService(db), 30)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer srv.Close()

	_, err := gen.Generate(context.Background(), llm.NewClient(srv.URL, "k", "m"), project)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "50201:") {
		t.Errorf("error = %v, want 50201 prefix", err)
	}
	if got := milestoneCount(t, db, project.ID); got != 0 {
		t.Errorf("persisted %d milestones on failure, want 0", got)
	}
}
