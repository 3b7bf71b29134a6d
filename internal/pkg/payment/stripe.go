package payment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeClient Stripe 支付客户端
type StripeClient struct {
	api           *client.API
	webhookSecret string
}

// NewStripeClient 创建 Stripe 支付客户端
func NewStripeClient(secretKey, webhookSecret string) (*StripeClient, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeClient{
		api:           api,
		webhookSecret: webhookSecret,
	}, nil
}

// CheckoutParams 结账会话参数
type CheckoutParams struct {
	PlanName      string
	AmountUSD     int64  // 美元金额
	TransactionID string // 内部交易ID，通过 metadata 带回 webhook
	Origin        string // 前端来源地址，用于支付完成后跳转
}

// CreateCheckoutSession 创建结账会话，返回支付页面URL
// 会话30分钟后过期，交易ID放在 metadata 里供 webhook 对账
func (c *StripeClient) CreateCheckoutSession(p *CheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(p.AmountUSD * 100),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.PlanName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.Origin + "/loading"),
		CancelURL:  stripe.String(p.Origin),
		ExpiresAt:  stripe.Int64(time.Now().Add(30 * time.Minute).Unix()),
	}
	params.AddMetadata("transaction_id", p.TransactionID)
	params.AddMetadata("app_id", "quickgpt")

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	return sess.URL, nil
}

// CompletedCheckout webhook 解析出的已完成结账信息
type CompletedCheckout struct {
	TransactionID string
	AppID         string
}

// ParseWebhookEvent 校验 webhook 签名并解析事件
// 只关心 checkout.session.completed，其余事件返回 nil
func (c *StripeClient) ParseWebhookEvent(payload []byte, signature string) (*CompletedCheckout, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal checkout session: %w", err)
	}

	return &CompletedCheckout{
		TransactionID: sess.Metadata["transaction_id"],
		AppID:         sess.Metadata["app_id"],
	}, nil
}
