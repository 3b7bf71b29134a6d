package model

// Envelope 统一响应信封
// 所有业务接口返回 {success, ...}，失败时带人类可读的 message
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Reply   *Turn  `json:"reply,omitempty"`
}

// OK 构造成功响应
func OK(reply *Turn) Envelope {
	return Envelope{Success: true, Reply: reply}
}

// Fail 构造失败响应
func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}
