package providers

import (
	"context"

	"quickgpt/internal/ai"
	"quickgpt/internal/pkg/pollinations"
)

// PollinationsStage Pollinations 免费图片生成阶段
type PollinationsStage struct {
	client *pollinations.Client
}

// NewPollinationsStage 创建 Pollinations 阶段
func NewPollinationsStage(client *pollinations.Client) *PollinationsStage {
	return &PollinationsStage{client: client}
}

func (s *PollinationsStage) Name() string {
	return "pollinations"
}

func (s *PollinationsStage) Generate(ctx context.Context, prompt string) (*ai.StageOutput, error) {
	data, err := s.client.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &ai.StageOutput{
		Data:        data,
		ContentType: "image/png",
		Ext:         ".png",
	}, nil
}
