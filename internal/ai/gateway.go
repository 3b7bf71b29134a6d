package ai

import "context"

// TextGenerator 文本生成后端
type TextGenerator interface {
	// GenerateText 根据提示词生成一段回复文本
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// StageOutput 图片生成阶段的产物
// Data 非空时表示原始图片字节，由流水线负责转存；
// Data 为空时 URL 本身就是持久引用，直接返回给调用方
type StageOutput struct {
	Data        []byte
	ContentType string
	Ext         string // 文件扩展名，含点号
	URL         string
}

// ImageStage 图片回退链中的一个阶段
type ImageStage interface {
	// Name 阶段名，用于日志和对象存储key
	Name() string

	// Generate 尝试为提示词产出一张图片
	Generate(ctx context.Context, prompt string) (*StageOutput, error)
}
