package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoText 基于 eino ChatModel 的文本生成器
type EinoText struct {
	cm           model.ChatModel
	systemPrompt string
}

var _ TextGenerator = (*EinoText)(nil)

// NewEinoText 创建文本生成器
func NewEinoText(cm model.ChatModel, systemPrompt string) *EinoText {
	return &EinoText{
		cm:           cm,
		systemPrompt: systemPrompt,
	}
}

// GenerateText 根据提示词生成回复文本
// 每次调用都带上系统指令，单轮请求，不携带历史消息
func (t *EinoText) GenerateText(ctx context.Context, prompt string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(t.systemPrompt),
		schema.UserMessage(prompt),
	}

	resp, err := t.cm.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("chat model generate: %w", err)
	}
	if resp == nil || resp.Content == "" {
		return "", fmt.Errorf("empty response from chat model")
	}

	return resp.Content, nil
}
