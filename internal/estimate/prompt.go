package estimate

import (
	"fmt"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
)

func BuildEstimatePrompt(p *model.Project) string {
	return fmt.Sprintf(`你是资深工程造价师。请为以下装修/建筑项目估算成本:

项目名称: %s
项目类型: %s
项目描述: %s
期望工期: %s
所在地区: %s

要求:
1. 金额单位为美分 (整数)
2. breakdown 按主要分项列出，覆盖人工与材料
3. confidence 为 low | medium | high

输出严格 JSON 格式:
{
  "cost_min": 最低估算,
  "cost_max": 最高估算,
  "confidence": "low|medium|high",
  "breakdown": [
    {"item": "分项名称", "cost_min": 金额, "cost_max": 金额, "note": "说明"}
  ]
}
只输出 JSON，不要任何其他内容。`,
		p.Title, p.ProjectType, p.Description, p.Timeline, p.Location)
}
