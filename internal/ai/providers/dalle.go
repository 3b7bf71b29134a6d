package providers

import (
	"context"

	"quickgpt/internal/ai"
	"quickgpt/internal/pkg/dalle"
)

// DALLEStage OpenAI 图片生成阶段
type DALLEStage struct {
	client *dalle.Client
}

// NewDALLEStage 创建 DALL-E 阶段
func NewDALLEStage(client *dalle.Client) *DALLEStage {
	return &DALLEStage{client: client}
}

func (s *DALLEStage) Name() string {
	return "dalle"
}

func (s *DALLEStage) Generate(ctx context.Context, prompt string) (*ai.StageOutput, error) {
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
