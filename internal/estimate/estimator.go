package estimate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/pkg/llm"
	"gorm.io/gorm"
)

type estimateReply struct {
	CostMin    int64                   `json:"cost_min"`
	CostMax    int64                   `json:"cost_max"`
	Confidence string                  `json:"confidence"`
	Breakdown  model.EstimateBreakdown `json:"breakdown"`
}

// Estimator proxies cost estimation to the LLM and stores each result as an
// Estimate snapshot on the project.
type Estimator struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewEstimator(db *gorm.DB, timeoutSeconds int) *Estimator {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &Estimator{db: db, timeout: time.Duration(timeoutSeconds) * time.Second}
}

func (e *Estimator) Estimate(ctx context.Context, client *llm.Client, project *model.Project) (*model.Estimate, error) {
	estCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	reply, err := client.Chat(estCtx, []llm.ChatMessage{
		{Role: "user", Content: BuildEstimatePrompt(project)},
	})
	if err != nil {
		return nil, fmt.Errorf("50201:成本估算服务调用失败: %w", err)
	}

	var parsed estimateReply
	if err := json.Unmarshal(llm.ExtractJSON(reply), &parsed); err != nil {
		return nil, fmt.Errorf("50202:成本估算结果解析失败: %w", err)
	}
	if parsed.CostMin <= 0 || parsed.CostMax < parsed.CostMin {
		return nil, fmt.Errorf("50202:成本估算金额无效")
	}
	if len(parsed.Breakdown) == 0 {
		return nil, fmt.Errorf("50202:成本估算缺少分项明细")
	}
	switch parsed.Confidence {
	case "low", "medium", "high":
	default:
		parsed.Confidence = "medium"
	}

	est := &model.Estimate{
		ProjectID:  project.ID,
		CostMin:    parsed.CostMin,
		CostMax:    parsed.CostMax,
		Confidence: parsed.Confidence,
		Breakdown:  parsed.Breakdown,
		Model:      client.Model(),
	}
	if err := e.db.Create(est).Error; err != nil {
		return nil, err
	}
	return est, nil
}
