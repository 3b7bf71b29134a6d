package model

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Turn 角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn 对话中的一条消息（用户提问或助手回复）
// 追加后不可变，核心层不提供更新/删除操作
type Turn struct {
	Role        string    `bson:"role" json:"role"`
	Content     string    `bson:"content" json:"content"` // 文本，或图片的可访问URL
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
	IsImage     bool      `bson:"is_image" json:"isImage"`
	IsPublished bool      `bson:"is_published,omitempty" json:"isPublished,omitempty"` // 仅对助手图片消息有意义
}

// Chat 对话实体
// ID使用UUID格式（string），避免ObjectID转换的麻烦
// Turns 按追加顺序存储，顺序即会话顺序
type Chat struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Name      string    `bson:"name" json:"name"`
	UserName  string    `bson:"user_name" json:"userName"`
	Turns     []Turn    `bson:"turns" json:"turns"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Collection 返回集合名称
func (c *Chat) Collection() string { return "chats" }

// EnsureIndexes 创建和维护索引
func (c *Chat) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(c.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created"),
		},
		{
			Keys:    bson.D{{Key: "turns.is_published", Value: 1}},
			Options: options.Index().SetName("idx_published_turns"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// PublishedImage 社区画廊条目（聚合结果）
type PublishedImage struct {
	ImageURL string `bson:"image_url" json:"imageUrl"`
	UserName string `bson:"user_name" json:"userName"`
}
