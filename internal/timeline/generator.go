package timeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/service"
	"github.com/Imactuallyjuan/Terrin-sub000/pkg/llm"
)

// Phase is duration metadata returned alongside the milestone proposal.
type Phase struct {
	Name         string `json:"name"`
	DurationDays int    `json:"duration_days"`
	Description  string `json:"description,omitempty"`
}

type proposedMilestone struct {
	Title                 string `json:"title"`
	Description           string `json:"description"`
	Order                 int    `json:"order"`
	ProgressWeight        int    `json:"progress_weight"`
	EstimatedDurationDays int    `json:"estimated_duration_days"`
}

type proposal struct {
	TotalDurationDays int                 `json:"total_duration_days"`
	Phases            []Phase             `json:"phases"`
	Milestones        []proposedMilestone `json:"milestones"`
}

// Result is what a successful generation produced and persisted.
type Result struct {
	MilestonesCreated int
	TotalDurationDays int
	Phases            []Phase
	Milestones        []model.Milestone
}

// Generator proposes a full milestone timeline for a project through the
// LLM and persists it through the milestone store.
type Generator struct {
	milestones *service.MilestoneService
	timeout    time.Duration
}

func NewGenerator(milestones *service.MilestoneService, timeoutSeconds int) *Generator {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &Generator{
		milestones: milestones,
		timeout:    time.Duration(timeoutSeconds) * time.Second,
	}
}

// Generate runs one timeline generation. On any malformed or empty model
// output it fails with a 502xx error and persists nothing; on success the
// whole batch is created in order in a single transaction and the project
// completion is recomputed once.
func (g *Generator) Generate(ctx context.Context, client *llm.Client, project *model.Project) (*Result, error) {
	genCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	reply, err := client.Chat(genCtx, []llm.ChatMessage{
		{Role: "user", Content: BuildTimelinePrompt(project)},
	})
	if err != nil {
		return nil, fmt.Errorf("50201:时间线生成服务调用失败: %w", err)
	}

	var prop proposal
	if err := json.Unmarshal(llm.ExtractJSON(reply), &prop); err != nil {
		return nil, fmt.Errorf("50202:时间线生成结果解析失败: %w", err)
	}
	if err := validate(&prop); err != nil {
		return nil, err
	}

	batch := make([]model.Milestone, 0, len(prop.Milestones))
	for _, pm := range prop.Milestones {
		batch = append(batch, model.Milestone{
			Title:          pm.Title,
			Description:    pm.Description,
			Position:       pm.Order,
			ProgressWeight: pm.ProgressWeight,
		})
	}

	if err := g.milestones.CreateBatch(project.ID, batch); err != nil {
		return nil, err
	}

	return &Result{
		MilestonesCreated: len(batch),
		TotalDurationDays: prop.TotalDurationDays,
		Phases:            prop.Phases,
		Milestones:        batch,
	}, nil
}

func validate(prop *proposal) error {
	if len(prop.Milestones) == 0 {
		return fmt.Errorf("50202:时间线生成结果不包含任何里程碑")
	}
	for i, m := range prop.Milestones {
		if m.Title == "" {
			return fmt.Errorf("50202:第 %d 个里程碑缺少标题", i+1)
		}
		if m.ProgressWeight < 0 {
			return fmt.Errorf("50202:第 %d 个里程碑权重无效", i+1)
		}
	}
	return nil
}
