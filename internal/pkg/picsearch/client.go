package picsearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quickgpt/internal/config"
)

// Client 关键词图片搜索客户端
// 用提示词关键词从图库检索一张近似图片，作为生成后端的降级
type Client struct {
	baseURL    string
	width      int
	height     int
	httpClient *http.Client
}

// NewClient 创建图片搜索客户端
func NewClient(cfg *config.ImageSearchConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://loremflickr.com"
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

// SearchImage 按关键词检索图片并返回图片字节
func (c *Client) SearchImage(ctx context.Context, keywords []string) ([]byte, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords to search")
	}

	escaped := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		escaped = append(escaped, url.PathEscape(kw))
	}
	reqURL := fmt.Sprintf("%s/%d/%d/%s", c.baseURL, c.width, c.height, strings.Join(escaped, ","))

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
		return nil, fmt.Errorf("image search failed with status %d", resp.StatusCode)
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
