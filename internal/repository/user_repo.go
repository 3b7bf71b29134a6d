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

// UserRepository 用户存储，兼作积分账本
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository 创建用户存储
func NewUserRepository(db *mongodb.Client) *UserRepository {
	return &UserRepository{
		coll: db.Collection((&model.User{}).Collection()),
	}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// FindByID 按ID查找用户
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail 按邮箱查找用户
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// DebitCredits 原子扣减积分
// 扣减条件和扣减动作在同一个条件更新里完成，余额不足时不产生任何变更。
// 不做读取后改写，并发扣减不会把余额扣成负数
func (r *UserRepository) DebitCredits(ctx context.Context, userID string, amount int64) error {
	filter := bson.M{
		"_id":     userID,
		"credits": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"credits": -amount},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// AddCredits 原子充值积分
func (r *UserRepository) AddCredits(ctx context.Context, userID string, amount int64) error {
	update := bson.M{
		"$inc": bson.M{"credits": amount},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
