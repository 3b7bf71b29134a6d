package pollinations

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"quickgpt/internal/config"
)

// Client Pollinations 免费图片生成客户端
// 无需API密钥，直接通过URL编码的提示词请求图片
type Client struct {
	baseURL    string
	width      int
	height     int
	httpClient *http.Client
}

// NewClient 创建 Pollinations 客户端
func NewClient(cfg *config.PollinationsConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://image.pollinations.ai"
	}
	width := cfg.Width
	if width <= 0 {
		width = 1024
	}
	height := cfg.Height
	if height <= 0 {
		height = 1024
	}

	return &Client{
		baseURL: baseURL,
		width:   width,
		height:  height,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// GenerateImage 生成图片并返回图片字节
// 每次请求使用随机种子，同一提示词可以得到不同的图
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	seed := rand.Intn(1000000)
	reqURL := fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&seed=%d",
		c.baseURL, url.PathEscape(prompt), c.width, c.height, seed)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pollinations request failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	return data, nil
}
