package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"quickgpt/internal/config"
	"quickgpt/internal/model"
	"quickgpt/internal/pkg/id"
	"quickgpt/internal/pkg/logger"
	"quickgpt/internal/pkg/mongodb"
	"quickgpt/internal/pkg/password"
	"quickgpt/internal/repository"
)

// 本地开发用的种子脚本：创建一个带积分的测试账号
func main() {
	// 1. 加载配置（与 cmd/root.go 保持一致的搜索路径）
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.quickgpt")

	viper.SetEnvPrefix("QUICKGPT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
		os.Exit(1)
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	// 2. 连接 MongoDB
	client, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	ctx := context.Background()
	users := repository.NewUserRepository(client)

	// 3. 读取环境变量或使用默认值
	name := os.Getenv("SEED_USER_NAME")
	if name == "" {
		name = "demo"
	}
	email := os.Getenv("SEED_USER_EMAIL")
	if email == "" {
		email = "demo@example.com"
	}
	passwordPlain := os.Getenv("SEED_USER_PASSWORD")
	if passwordPlain == "" {
		passwordPlain = "demo1234"
	}
	credits := int64(100)
	if c := os.Getenv("SEED_USER_CREDITS"); c != "" {
		if parsed, err := strconv.ParseInt(c, 10, 64); err == nil {
			credits = parsed
		}
	}

	// 4. 已存在则跳过
	if existing, err := users.FindByEmail(ctx, email); err == nil {
		log.Info().
			Str("email", email).
			Int64("credits", existing.Credits).
			Msg("seed user already exists, skipping")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Fatal().Err(err).Msg("failed to query user")
	}

	hashed, err := password.Hash(passwordPlain)
	if err != nil {
		log.Fatal().Err(err).Msg("hash password failed")
	}

	user := &model.User{
		ID:       id.New(),
		Name:     name,
		Email:    email,
		Password: hashed,
		Credits:  credits,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("create seed user failed")
	}

	fmt.Printf("Seed user created: email=%s password=%s credits=%d\n", email, passwordPlain, credits)
}
