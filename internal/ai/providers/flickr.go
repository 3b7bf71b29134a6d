package providers

import (
	"context"
	"fmt"

	"quickgpt/internal/ai"
	"quickgpt/internal/pkg/keywords"
	"quickgpt/internal/pkg/picsearch"
)

// FlickrStage 关键词图片检索阶段
// 从提示词提取关键词，到图库检索一张近似图片
type FlickrStage struct {
	client    *picsearch.Client
	extractor *keywords.Extractor
}

// NewFlickrStage 创建图片检索阶段
func NewFlickrStage(client *picsearch.Client, extractor *keywords.Extractor) *FlickrStage {
	return &FlickrStage{client: client, extractor: extractor}
}

func (s *FlickrStage) Name() string {
	return "flickr"
}

func (s *FlickrStage) Generate(ctx context.Context, prompt string) (*ai.StageOutput, error) {
	kws := s.extractor.Extract(prompt, 2)
	if len(kws) == 0 {
		return nil, fmt.Errorf("no keywords extracted from prompt")
	}

	data, err := s.client.SearchImage(ctx, kws)
	if err != nil {
		return nil, err
	}
	return &ai.StageOutput{
		Data:        data,
		ContentType: "image/jpeg",
		Ext:         ".jpg",
	}, nil
}
