package providers

import (
	"context"

	"quickgpt/internal/ai"
	"quickgpt/internal/pkg/placeholder"
)

// PicsumStage 确定性兜底阶段
// 把提示词散列成种子拼出 Picsum URL，纯函数，永远成功。
// URL本身就是持久引用，不经过对象存储
type PicsumStage struct{}

// NewPicsumStage 创建 Picsum 兜底阶段
func NewPicsumStage() *PicsumStage {
	return &PicsumStage{}
}

func (s *PicsumStage) Name() string {
	return "picsum"
}

func (s *PicsumStage) Generate(ctx context.Context, prompt string) (*ai.StageOutput, error) {
	return &ai.StageOutput{
		URL: placeholder.PicsumURL(prompt),
	}, nil
}
