package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"quickgpt/internal/model"
	"quickgpt/internal/pkg/cache"
	"quickgpt/internal/pkg/id"
	"quickgpt/internal/repository"
)

// defaultChatName 新对话的默认名称
const defaultChatName = "New Chat"

// ChatService 对话管理
type ChatService struct {
	repo  *repository.ChatRepository
	cache *cache.RedisCache // 可为 nil，缓存不可用时直接穿透
}

// NewChatService 创建对话管理服务
func NewChatService(repo *repository.ChatRepository, cache *cache.RedisCache) *ChatService {
	return &ChatService{repo: repo, cache: cache}
}

// Create 创建一个空对话
func (s *ChatService) Create(ctx context.Context, userID, userName string) (*model.Chat, error) {
	chat := &model.Chat{
		ID:       id.New(),
		UserID:   userID,
		UserName: userName,
		Name:     defaultChatName,
		Turns:    []model.Turn{},
	}

	if err := s.repo.Create(ctx, chat); err != nil {
		return nil, err
	}

	s.invalidateList(ctx, userID)
	return chat, nil
}

// List 列出用户的全部对话，最新创建的在前
func (s *ChatService) List(ctx context.Context, userID string) ([]*model.Chat, error) {
	key := cache.ChatListCacheKey(userID)

	if s.cache != nil {
		var cached []*model.Chat
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	chats, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, chats, cache.ChatListCacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache chat list failed")
		}
	}
	return chats, nil
}

// Delete 删除用户自己的对话
func (s *ChatService) Delete(ctx context.Context, chatID, userID string) error {
	if err := s.repo.Delete(ctx, chatID, userID); err != nil {
		return err
	}
	s.invalidateList(ctx, userID)
	return nil
}

// ListPublishedImages 列出社区画廊的已发布图片
func (s *ChatService) ListPublishedImages(ctx context.Context) ([]*model.PublishedImage, error) {
	if s.cache != nil {
		var cached []*model.PublishedImage
		if err := s.cache.Get(ctx, cache.GalleryCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	images, err := s.repo.ListPublishedImages(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.GalleryCacheKey, images, cache.GalleryCacheTTL); err != nil {
			log.Warn().Err(err).Msg("cache gallery failed")
		}
	}
	return images, nil
}

// invalidateList 失效用户的对话列表缓存
func (s *ChatService) invalidateList(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.ChatListCacheKey(userID)); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("invalidate chat list cache failed")
	}
}
