package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "quickgpt/docs"
	"quickgpt/internal/ai"
	"quickgpt/internal/ai/component"
	"quickgpt/internal/ai/providers"
	"quickgpt/internal/config"
	"quickgpt/internal/handler"
	"quickgpt/internal/pkg/cache"
	"quickgpt/internal/pkg/dalle"
	"quickgpt/internal/pkg/jwt"
	"quickgpt/internal/pkg/keywords"
	"quickgpt/internal/pkg/mongodb"
	"quickgpt/internal/pkg/payment"
	"quickgpt/internal/pkg/picsearch"
	"quickgpt/internal/pkg/pollinations"
	"quickgpt/internal/pkg/storagefactory"
	"quickgpt/internal/pkg/t2p"
	"quickgpt/internal/repository"
	"quickgpt/internal/server/middleware"
	"quickgpt/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache
}

// New 创建服务器实例并完成全部装配
func New(cfg *config.Config) (*Server, error) {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	ctx := context.Background()

	// MongoDB 是核心依赖，连不上直接失败
	if cfg.Mongo.URI == "" {
		return nil, errors.New("mongo.uri is required")
	}
	mongoClient, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	// Redis 缓存可选，连不上时直接穿透到库
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	// 对象存储，图片回退链的落盘位置
	store, err := storagefactory.NewStorage(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	log.Info().Str("type", store.GetStorageType()).Msg("storage initialized")

	// 文本生成后端
	chatModel, err := component.NewChatModel(ctx, &cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("initialize chat model: %w", err)
	}
	textGen := ai.NewEinoText(chatModel, cfg.AI.SystemPrompt)
	log.Info().Str("provider", cfg.AI.Provider).Str("model", cfg.AI.Model).Msg("chat model initialized")

	// 图片生成回退链
	stages := buildImageStages(&cfg.Image)
	imgGen := ai.NewImagePipeline(stages, store, cfg.Image.StageTimeout)

	// 仓储
	userRepo := repository.NewUserRepository(mongoClient)
	chatRepo := repository.NewChatRepository(mongoClient)
	txRepo := repository.NewTransactionRepository(mongoClient)

	// 支付可选，未配置密钥时购买接口返回不可用
	var stripeClient *payment.StripeClient
	if cfg.Payment.StripeSecretKey != "" {
		sc, err := payment.NewStripeClient(cfg.Payment.StripeSecretKey, cfg.Payment.StripeWebhookSecret)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Stripe, payments disabled")
		} else {
			stripeClient = sc
			log.Info().Msg("Stripe payments enabled")
		}
	} else {
		log.Warn().Msg("Stripe secret key not configured, payments disabled")
	}

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
	}
	jwtUtil := jwt.NewJWT(jwtSecret, cfg.Auth.TokenExpiry)

	// 服务
	genSvc := service.NewGenerateService(chatRepo, userRepo, textGen, imgGen)
	chatSvc := service.NewChatService(chatRepo, redisCache)
	authSvc := service.NewAuthService(userRepo, jwtUtil, cfg.Auth.InitialCredits)
	creditSvc := service.NewCreditService(cfg.Plans, txRepo, userRepo, stripeClient)

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		mongo:  mongoClient,
		redis:  redisCache,
	}

	srv.setupRoutes(jwtUtil, userRepo, genSvc, chatSvc, authSvc, creditSvc)

	return srv, nil
}

// buildImageStages 按配置装配图片回退链
// 第一级是配置选定的付费后端，之后依次是免费生成、图库检索、
// 本地SVG占位图，最后是确定性的 Picsum 兜底
func buildImageStages(cfg *config.ImageConfig) []ai.ImageStage {
	stages := make([]ai.ImageStage, 0, 5)

	switch cfg.Provider {
	case "t2p":
		client, err := t2p.NewClient(&cfg.T2P)
		if err != nil {
			log.Warn().Err(err).Msg("t2p not available, skipping primary image stage")
		} else {
			stages = append(stages, providers.NewT2PStage(client))
		}
	default:
		stages = append(stages, providers.NewDALLEStage(dalle.NewClient(&cfg.DALLE)))
	}

	stages = append(stages,
		providers.NewPollinationsStage(pollinations.NewClient(&cfg.Pollinations)),
		providers.NewFlickrStage(picsearch.NewClient(&cfg.Search), keywords.New()),
		providers.NewThemedStage(),
		providers.NewPicsumStage(),
	)
	return stages
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(
	jwtUtil *jwt.JWT,
	userRepo *repository.UserRepository,
	genSvc *service.GenerateService,
	chatSvc *service.ChatService,
	authSvc *service.AuthService,
	creditSvc *service.CreditService,
) {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 本地存储时直接暴露静态文件，URL才能被前端访问到
	if s.cfg.Storage.Type == "local" && s.cfg.Storage.Local != nil {
		s.engine.Static("/storage", s.cfg.Storage.Local.BasePath)
	}

	msgHdl := handler.NewMessageHandler(genSvc)
	chatHdl := handler.NewChatHandler(chatSvc)
	userHdl := handler.NewUserHandler(authSvc, chatSvc)
	creditHdl := handler.NewCreditHandler(creditSvc)

	v1 := s.engine.Group("/api/v1")
	{
		// 公开接口
		v1.POST("/user/register", userHdl.Register)
		v1.POST("/user/login", userHdl.Login)
		v1.GET("/user/published-images", userHdl.PublishedImages)
		v1.GET("/credit/plans", creditHdl.Plans)

		// Stripe 回调用签名校验，不走 JWT
		v1.POST("/stripe/webhook", creditHdl.Webhook)

		// 需要认证的接口
		auth := v1.Group("")
		auth.Use(middleware.Auth(jwtUtil, userRepo))
		{
			auth.GET("/user/data", userHdl.Data)

			auth.GET("/chat/create", chatHdl.Create)
			auth.GET("/chat/list", chatHdl.List)
			auth.POST("/chat/delete", chatHdl.Delete)

			auth.POST("/message/text", msgHdl.Text)
			auth.POST("/message/image", msgHdl.Image)

			auth.POST("/credit/purchase", creditHdl.Purchase)
		}
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
