package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"quickgpt/internal/model"
	"quickgpt/internal/pkg/mongodb"
)

// TransactionRepository 购买交易存储
type TransactionRepository struct {
	coll *mongo.Collection
}

// NewTransactionRepository 创建交易存储
func NewTransactionRepository(db *mongodb.Client) *TransactionRepository {
	return &TransactionRepository{
		coll: db.Collection((&model.Transaction{}).Collection()),
	}
}

// Create 创建未支付交易
func (r *TransactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	tx.IsPaid = false

	_, err := r.coll.InsertOne(ctx, tx)
	return err
}

// FindByID 按ID查找交易
func (r *TransactionRepository) FindByID(ctx context.Context, txID string) (*model.Transaction, error) {
	var tx model.Transaction
	if err := r.coll.FindOne(ctx, bson.M{"_id": txID}).Decode(&tx); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// MarkPaid 标记交易已支付
// 条件更新保证幂等：重复的支付回调只有第一次命中
func (r *TransactionRepository) MarkPaid(ctx context.Context, txID string) (*model.Transaction, error) {
	filter := bson.M{"_id": txID, "is_paid": false}
	update := bson.M{
		"$set": bson.M{
			"is_paid":    true,
			"updated_at": time.Now(),
		},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	if result.ModifiedCount == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, txID)
}
