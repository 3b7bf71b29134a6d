package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quickgpt/internal/model"
	"quickgpt/internal/pkg/mongodb"
)

// ChatRepository 对话存储
type ChatRepository struct {
	coll *mongo.Collection
}

// NewChatRepository 创建对话存储
func NewChatRepository(db *mongodb.Client) *ChatRepository {
	return &ChatRepository{
		coll: db.Collection((&model.Chat{}).Collection()),
	}
}

// Create 创建对话
func (r *ChatRepository) Create(ctx context.Context, chat *model.Chat) error {
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	if chat.Turns == nil {
		chat.Turns = []model.Turn{}
	}

	_, err := r.coll.InsertOne(ctx, chat)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// FindOwned 按ID和归属用户查找对话
// 其他用户的对话与不存在的对话不可区分，统一返回 ErrNotFound
func (r *ChatRepository) FindOwned(ctx context.Context, chatID, userID string) (*model.Chat, error) {
	filter := bson.M{"_id": chatID, "user_id": userID}

	var chat model.Chat
	if err := r.coll.FindOne(ctx, filter).Decode(&chat); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// AppendTurn 向对话追加一条消息
// 只追加，不修改已有消息，插入顺序即会话顺序
func (r *ChatRepository) AppendTurn(ctx context.Context, chatID, userID string, turn model.Turn) error {
	filter := bson.M{"_id": chatID, "user_id": userID}
	update := bson.M{
		"$push": bson.M{"turns": turn},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUserID 按用户列出全部对话，最新创建的在前
func (r *ChatRepository) ListByUserID(ctx context.Context, userID string) ([]*model.Chat, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	chats := make([]*model.Chat, 0)
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// Delete 删除用户自己的对话
func (r *ChatRepository) Delete(ctx context.Context, chatID, userID string) error {
	filter := bson.M{"_id": chatID, "user_id": userID}

	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPublishedImages 列出社区画廊的已发布图片
// 展开所有对话消息，筛选助手发布的图片消息
func (r *ChatRepository) ListPublishedImages(ctx context.Context) ([]*model.PublishedImage, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$turns"}},
		{{Key: "$match", Value: bson.M{
			"turns.is_image":     true,
			"turns.is_published": true,
			"turns.role":         model.RoleAssistant,
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":       0,
			"image_url": "$turns.content",
			"user_name": "$user_name",
		}}},
		{{Key: "$sort", Value: bson.M{"updated_at": -1}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	images := make([]*model.PublishedImage, 0)
	if err := cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}
