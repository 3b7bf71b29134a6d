package providers

import (
	"context"

	"quickgpt/internal/ai"
	"quickgpt/internal/pkg/placeholder"
)

// ThemedStage 主题SVG占位图阶段
// 本地渲染，不依赖任何网络服务
type ThemedStage struct{}

// NewThemedStage 创建主题SVG阶段
func NewThemedStage() *ThemedStage {
	return &ThemedStage{}
}

func (s *ThemedStage) Name() string {
	return "themed"
}

func (s *ThemedStage) Generate(ctx context.Context, prompt string) (*ai.StageOutput, error) {
	theme := placeholder.AnalyzePrompt(prompt)
	svg := placeholder.RenderThemedSVG(prompt, theme)
	return &ai.StageOutput{
		Data:        []byte(svg),
		ContentType: "image/svg+xml",
		Ext:         ".svg",
	}, nil
}
