package model

// Mode 生成类型，决定费用和走哪条生成管线
type Mode string

const (
	ModeText  Mode = "text"
	ModeImage Mode = "image"
)

// IsValid 检查模式是否有效
func (m Mode) IsValid() bool {
	return m == ModeText || m == ModeImage
}

// Cost 返回该模式的固定积分费用
// 固定资费表：text → 1，image → 2，不支持按请求配置
func (m Mode) Cost() int64 {
	if m == ModeImage {
		return 2
	}
	return 1
}

// GenerateRequest 一次生成请求
// 每次调用构造，不落库
type GenerateRequest struct {
	Mode        Mode
	ChatID      string
	Prompt      string
	UserID      string
	Credits     int64 // 认证上下文携带的余额快照，仅用于廉价前置检查
	IsPublished bool  // 仅图片模式有意义
}
