package timeline

import (
	"fmt"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
)

func BuildTimelinePrompt(p *model.Project) string {
	return fmt.Sprintf(`你是资深工程项目经理。请为以下装修/建筑项目生成完整的里程碑时间线:

项目名称: %s
项目类型: %s
项目描述: %s
预算范围: %d - %d (美分)
期望工期: %s
所在地区: %s

要求:
1. 里程碑按施工顺序排列，覆盖从开工准备到竣工验收的全流程
2. progress_weight 为整数，表示该里程碑占整体进度的权重，总和约为 100
3. estimated_duration_days 为该里程碑的预计工期（天）

输出严格 JSON 格式:
{
  "total_duration_days": 总工期天数,
  "phases": [
    {"name": "阶段名称", "duration_days": 天数, "description": "说明"}
  ],
  "milestones": [
    {
      "title": "里程碑标题",
      "description": "工作内容说明",
      "order": 序号,
      "progress_weight": 权重,
      "estimated_duration_days": 天数
    }
  ]
}
只输出 JSON，不要任何其他内容。`,
		p.Title, p.ProjectType, p.Description, p.BudgetMin, p.BudgetMax, p.Timeline, p.Location)
}
