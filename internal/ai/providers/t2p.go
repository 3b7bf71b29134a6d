package providers

import (
	"context"

	"quickgpt/internal/ai"
	"quickgpt/internal/pkg/t2p"
)

// T2PStage 火山引擎 Text-to-Picture 图片生成阶段
type T2PStage struct {
	client *t2p.Client
}

// NewT2PStage 创建 T2P 阶段
func NewT2PStage(client *t2p.Client) *T2PStage {
	return &T2PStage{client: client}
}

func (s *T2PStage) Name() string {
	return "t2p"
}

func (s *T2PStage) Generate(ctx context.Context, prompt string) (*ai.StageOutput, error) {
	data, err := s.client.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &ai.StageOutput{
		Data:        data,
		ContentType: "image/jpeg",
		Ext:         ".jpg",
	}, nil
}
