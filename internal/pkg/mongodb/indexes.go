package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"quickgpt/internal/model"
)

// EnsureIndexes 创建所有模型的索引
// 应用启动时调用一次
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	models := []Model{
		&model.User{},
		&model.Chat{},
		&model.Transaction{},
	}

	return EnsureAllIndexes(ctx, db, models...)
}
