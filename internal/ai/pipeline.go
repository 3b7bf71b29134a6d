package ai

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"quickgpt/internal/pkg/id"
	"quickgpt/internal/pkg/logger"
	"quickgpt/internal/pkg/storage"
)

// ImagePipeline 图片生成回退链
// 按顺序尝试每个阶段，只有当前阶段出错才前进到下一个阶段，
// 单个阶段内不重试。成功产出图片字节的阶段由流水线负责转存，
// 返回持久URL
type ImagePipeline struct {
	stages       []ImageStage
	store        storage.Storage
	stageTimeout time.Duration
}

// NewImagePipeline 创建图片生成回退链
func NewImagePipeline(stages []ImageStage, store storage.Storage, stageTimeout time.Duration) *ImagePipeline {
	if stageTimeout <= 0 {
		stageTimeout = 30 * time.Second
	}
	return &ImagePipeline{
		stages:       stages,
		store:        store,
		stageTimeout: stageTimeout,
	}
}

// GenerateImage 为提示词生成图片并返回可访问URL
// 转存失败和生成失败同样使链条前进
func (p *ImagePipeline) GenerateImage(ctx context.Context, prompt string) (string, error) {
	log := logger.Get()

	for _, stage := range p.stages {
		stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
		out, err := stage.Generate(stageCtx, prompt)
		cancel()

		if err != nil {
			log.Warn().
				Err(err).
				Str("stage", stage.Name()).
				Msg("image stage failed, trying next")
			continue
		}
		if out == nil {
			log.Warn().
				Str("stage", stage.Name()).
				Msg("image stage returned no output, trying next")
			continue
		}

		// 阶段直接给出持久URL，不需要转存
		if len(out.Data) == 0 {
			if out.URL == "" {
				log.Warn().
					Str("stage", stage.Name()).
					Msg("image stage returned empty output, trying next")
				continue
			}
			log.Info().
				Str("stage", stage.Name()).
				Msg("image generated")
			return out.URL, nil
		}

		key := fmt.Sprintf("ai-generated/%s_%d_%s%s",
			stage.Name(), time.Now().UnixMilli(), id.Short(), out.Ext)

		url, err := p.store.Upload(ctx, key, bytes.NewReader(out.Data), out.ContentType)
		if err != nil {
			log.Warn().
				Err(err).
				Str("stage", stage.Name()).
				Str("key", key).
				Msg("image upload failed, trying next stage")
			continue
		}

		log.Info().
			Str("stage", stage.Name()).
			Str("key", key).
			Int("size", len(out.Data)).
			Msg("image generated and stored")
		return url, nil
	}

	return "", fmt.Errorf("all image stages failed")
}
