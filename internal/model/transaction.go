package model

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Transaction 积分购买交易
// 创建时 IsPaid=false，支付回调确认后置为 true 并充值
type Transaction struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	PlanID    string    `bson:"plan_id" json:"planId"`
	Amount    int64     `bson:"amount" json:"amount"` // 美元价格
	Credits   int64     `bson:"credits" json:"credits"`
	IsPaid    bool      `bson:"is_paid" json:"isPaid"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Collection 返回集合名称
func (t *Transaction) Collection() string { return "transactions" }

// EnsureIndexes 创建和维护索引
func (t *Transaction) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(t.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
		{
			Keys:    bson.D{{Key: "is_paid", Value: 1}},
			Options: options.Index().SetName("idx_is_paid"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
