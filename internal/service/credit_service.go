package service

import (
	"context"
	"errors"

	"quickgpt/internal/config"
	"quickgpt/internal/model"
	"quickgpt/internal/pkg/id"
	"quickgpt/internal/pkg/logger"
	"quickgpt/internal/pkg/payment"
	"quickgpt/internal/repository"
)

var (
	// ErrPlanNotFound 套餐不存在
	ErrPlanNotFound = errors.New("plan not found")

	// ErrPaymentDisabled 未配置支付
	ErrPaymentDisabled = errors.New("payment is not configured")
)

// CreditService 积分套餐购买
type CreditService struct {
	plans  []model.Plan
	txRepo *repository.TransactionRepository
	users  *repository.UserRepository
	stripe *payment.StripeClient // 可为 nil，未配置支付时购买接口不可用
}

// NewCreditService 创建积分服务
// 套餐目录启动时从配置加载一次，之后只读
func NewCreditService(planCfgs []config.PlanConfig, txRepo *repository.TransactionRepository, users *repository.UserRepository, stripe *payment.StripeClient) *CreditService {
	plans := make([]model.Plan, 0, len(planCfgs))
	for _, p := range planCfgs {
		plans = append(plans, model.Plan{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Credits:  p.Credits,
			Features: p.Features,
		})
	}

	return &CreditService{
		plans:  plans,
		txRepo: txRepo,
		users:  users,
		stripe: stripe,
	}
}

// Plans 返回套餐目录
func (s *CreditService) Plans() []model.Plan {
	return s.plans
}

// findPlan 按ID查找套餐
func (s *CreditService) findPlan(planID string) (*model.Plan, bool) {
	for i := range s.plans {
		if s.plans[i].ID == planID {
			return &s.plans[i], true
		}
	}
	return nil, false
}

// Purchase 发起套餐购买
// 先落一条未支付交易，再创建支付会话，返回支付页面URL
func (s *CreditService) Purchase(ctx context.Context, userID, planID, origin string) (string, error) {
	if s.stripe == nil {
		return "", ErrPaymentDisabled
	}

	plan, ok := s.findPlan(planID)
	if !ok {
		return "", ErrPlanNotFound
	}

	tx := &model.Transaction{
		ID:      id.New(),
		UserID:  userID,
		PlanID:  plan.ID,
		Amount:  plan.Price,
		Credits: plan.Credits,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return "", err
	}

	url, err := s.stripe.CreateCheckoutSession(&payment.CheckoutParams{
		PlanName:      plan.Name,
		AmountUSD:     plan.Price,
		TransactionID: tx.ID,
		Origin:        origin,
	})
	if err != nil {
		return "", err
	}
	return url, nil
}

// HandleWebhook 处理支付回调
// 只处理本应用的已完成结账事件；交易标记和充值分两步，
// 标记用条件更新保证幂等，重复回调不会重复充值
func (s *CreditService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.stripe == nil {
		return ErrPaymentDisabled
	}

	log := logger.Get()

	completed, err := s.stripe.ParseWebhookEvent(payload, signature)
	if err != nil {
		return err
	}
	if completed == nil {
		// 不关心的事件类型
		return nil
	}
	if completed.AppID != "quickgpt" || completed.TransactionID == "" {
		log.Warn().Str("app_id", completed.AppID).Msg("ignoring checkout event from another app")
		return nil
	}

	tx, err := s.txRepo.MarkPaid(ctx, completed.TransactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info().
				Str("transaction_id", completed.TransactionID).
				Msg("transaction already paid or unknown, skipping")
			return nil
		}
		return err
	}

	if err := s.users.AddCredits(ctx, tx.UserID, tx.Credits); err != nil {
		log.Error().
			Err(err).
			Str("transaction_id", tx.ID).
			Str("user_id", tx.UserID).
			Msg("add credits after payment failed")
		return err
	}

	log.Info().
		Str("transaction_id", tx.ID).
		Str("user_id", tx.UserID).
		Int64("credits", tx.Credits).
		Msg("credits purchased")
	return nil
}
