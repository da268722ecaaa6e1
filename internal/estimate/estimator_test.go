package estimate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/pkg/llm"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *model.Project) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Project{}, &model.Estimate{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	project := &model.Project{Title: "Fence install", OwnerID: 1, Status: model.ProjectStatusPlanning}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}
	return db, project
}

func stubLLM(t *testing.T, content string) *llm.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return llm.NewClient(srv.URL, "test-key", "test-model")
}

func TestEstimateHappyPath(t *testing.T) {
	db, project := setup(t)
	est := NewEstimator(db, 30)

	result, err := est.Estimate(context.Background(), stubLLM(t, `{
		"cost_min": 400000,
		"cost_max": 650000,
		"confidence": "high",
		"breakdown": [
			{"item": "Materials", "cost_min": 250000, "cost_max": 350000},
			{"item": "Labor", "cost_min": 150000, "cost_max": 300000}
		]
	}`), project)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if result.CostMin != 400000 || result.CostMax != 650000 {
		t.Errorf("range = %d-%d, want 400000-650000", result.CostMin, result.CostMax)
	}
	if result.Confidence != "high" {
		t.Errorf("confidence = %s, want high", result.Confidence)
	}
	if len(result.Breakdown) != 2 {
		t.Errorf("breakdown lines = %d, want 2", len(result.Breakdown))
	}

	// Snapshot persisted and readable back through the JSON column.
	var stored model.Estimate
	if err := db.First(&stored, result.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(stored.Breakdown) != 2 || stored.Breakdown[0].Item != "Materials" {
		t.Errorf("breakdown round trip broken: %+v", stored.Breakdown)
	}
}

func TestEstimateConfidenceFallback(t *testing.T) {
	db, project := setup(t)
	est := NewEstimator(db, 30)

	result, err := est.Estimate(context.Background(), stubLLM(t, `{
		"cost_min": 1000, "cost_max": 2000, "confidence": "certain",
		"breakdown": [{"item": "Work", "cost_min": 1000, "cost_max": 2000}]
	}`), project)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if result.Confidence != "medium" {
		t.Errorf("confidence = %s, want medium fallback", result.Confidence)
	}
}

func TestEstimateRejectsBadOutput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "I'd estimate somewhere around a lot"},
		{"inverted range", `{"cost_min": 5000, "cost_max": 100, "breakdown": [{"item": "x"}]}`},
		{"zero min", `{"cost_min": 0, "cost_max": 100, "breakdown": [{"item": "x"}]}`},
		{"empty breakdown", `{"cost_min": 100, "cost_max": 200, "breakdown": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, project := setup(t)
			est := NewEstimator(db, 30)

			_, err := est.Estimate(context.Background(), stubLLM(t, tt.content), project)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), "50202:") {
				t.Errorf("error = %v, want 50202 prefix", err)
			}

			var count int64
			db.Model(&model.Estimate{}).Where("project_id = ?", project.ID).Count(&count)
			if count != 0 {
				t.Errorf("persisted %d estimates on failure, want 0", count)
			}
		})
	}
}
