package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickgpt/internal/model"
	"quickgpt/internal/pkg/logger"
	"quickgpt/internal/repository"
)

var (
	// ErrChatNotFound 对话不存在或不属于当前用户
	ErrChatNotFound = errors.New("chat not found")

	// ErrInsufficientCredits 积分不足
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrGenerationFailed 生成后端失败
	ErrGenerationFailed = errors.New("generation failed")

	// ErrPersistenceFailed 对话持久化失败
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrInvalidMode 不支持的生成模式
	ErrInvalidMode = errors.New("invalid generate mode")
)

// ChatStore 生成流程需要的对话存储能力
type ChatStore interface {
	FindOwned(ctx context.Context, chatID, userID string) (*model.Chat, error)
	AppendTurn(ctx context.Context, chatID, userID string, turn model.Turn) error
}

// CreditLedger 生成流程需要的积分账本能力
type CreditLedger interface {
	DebitCredits(ctx context.Context, userID string, amount int64) error
}

// TextGenerator 文本生成后端
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator 图片生成后端，返回可访问URL
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// GenerateService 消息生成编排
// 固定流程：校验对话归属 -> 前置积分检查 -> 落用户消息 ->
// 调用生成后端 -> 落助手消息 -> 原子扣费
type GenerateService struct {
	chats   ChatStore
	ledger  CreditLedger
	textGen TextGenerator
	imgGen  ImageGenerator
}

// NewGenerateService 创建消息生成编排服务
func NewGenerateService(chats ChatStore, ledger CreditLedger, textGen TextGenerator, imgGen ImageGenerator) *GenerateService {
	return &GenerateService{
		chats:   chats,
		ledger:  ledger,
		textGen: textGen,
		imgGen:  imgGen,
	}
}

// Generate 处理一次生成请求，返回落库后的助手消息
//
// 前置检查先验证对话归属，再验证积分；两者都不满足时报对话不存在。
// 请求里的积分是认证时的余额快照，只做廉价拦截，
// 权威判定在最后的条件扣费里完成。
// 用户消息在调用生成后端之前落库，生成失败时保留用户消息且不扣费
func (s *GenerateService) Generate(ctx context.Context, req *model.GenerateRequest) (*model.Turn, error) {
	log := logger.Get()

	if !req.Mode.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, req.Mode)
	}
	cost := req.Mode.Cost()

	// 对话归属校验
	if _, err := s.chats.FindOwned(ctx, req.ChatID, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		log.Error().Err(err).Str("chat_id", req.ChatID).Msg("find chat failed")
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	// 余额快照前置检查
	if req.Credits < cost {
		return nil, ErrInsufficientCredits
	}

	// 用户消息先落库，时间戳早于助手回复
	userTurn := model.Turn{
		Role:      model.RoleUser,
		Content:   req.Prompt,
		Timestamp: time.Now(),
	}
	if err := s.chats.AppendTurn(ctx, req.ChatID, req.UserID, userTurn); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		log.Error().Err(err).Str("chat_id", req.ChatID).Msg("append user turn failed")
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	// 调用生成后端
	reply, err := s.generate(ctx, req)
	if err != nil {
		log.Error().
			Err(err).
			Str("chat_id", req.ChatID).
			Str("mode", string(req.Mode)).
			Msg("generation failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if err := s.chats.AppendTurn(ctx, req.ChatID, req.UserID, *reply); err != nil {
		log.Error().Err(err).Str("chat_id", req.ChatID).Msg("append assistant turn failed")
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	// 权威扣费，条件原子更新，并发下不会扣成负数
	if err := s.ledger.DebitCredits(ctx, req.UserID, cost); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			log.Warn().
				Str("user_id", req.UserID).
				Int64("cost", cost).
				Msg("debit missed after generation, balance raced to zero")
			return nil, ErrInsufficientCredits
		}
		log.Error().Err(err).Str("user_id", req.UserID).Msg("debit credits failed")
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	return reply, nil
}

// generate 按模式分发到对应的生成后端
func (s *GenerateService) generate(ctx context.Context, req *model.GenerateRequest) (*model.Turn, error) {
	switch req.Mode {
	case model.ModeText:
		content, err := s.textGen.GenerateText(ctx, req.Prompt)
		if err != nil {
			return nil, err
		}
		return &model.Turn{
			Role:      model.RoleAssistant,
			Content:   content,
			Timestamp: time.Now(),
		}, nil
	case model.ModeImage:
		url, err := s.imgGen.GenerateImage(ctx, req.Prompt)
		if err != nil {
			return nil, err
		}
		return &model.Turn{
			Role:        model.RoleAssistant,
			Content:     url,
			Timestamp:   time.Now(),
			IsImage:     true,
			IsPublished: req.IsPublished,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported mode: %s", req.Mode)
	}
}
