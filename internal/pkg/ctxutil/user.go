package ctxutil

import "context"

// AuthUser 认证中间件注入的用户上下文
// Credits 是中间件加载时的余额快照，只用于廉价前置检查；
// 权威扣费仍走账本的条件原子更新
type AuthUser struct {
	ID      string
	Name    string
	Credits int64
}

// userKeyType 使用私有类型避免与其他 context key 冲突
type userKeyType struct{}

var userKey = userKeyType{}

// WithUser 将认证用户注入到 context 中
// 建议在认证中间件中调用，例如在解析 JWT 并加载用户成功后：
//
//	ctx := ctxutil.WithUser(c.Request.Context(), user)
//	c.Request = c.Request.WithContext(ctx)
func WithUser(ctx context.Context, user AuthUser) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userKey, user)
}

// GetUser 从 context 中解析认证用户
func GetUser(ctx context.Context) (AuthUser, bool) {
	if ctx == nil {
		return AuthUser{}, false
	}
	user, ok := ctx.Value(userKey).(AuthUser)
	if !ok || user.ID == "" {
		return AuthUser{}, false
	}
	return user, true
}
