package repository

import "errors"

var (
	// ErrNotFound 记录不存在或不属于当前用户
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientBalance 余额不足，条件扣减未命中
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrDuplicate 唯一键冲突
	ErrDuplicate = errors.New("duplicate record")
)
