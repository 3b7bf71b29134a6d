package t2p

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/volcengine/volcengine-go-sdk/volcengine"
	"github.com/volcengine/volcengine-go-sdk/volcengine/credentials"
	"github.com/volcengine/volcengine-go-sdk/volcengine/session"

	"quickgpt/internal/config"
)

const (
	defaultAPIURL         = "https://visual.volcengineapi.com"
	defaultRegion         = "cn-north-1"
	defaultReqKey         = "high_aes_general_v21_L"
	defaultNegativePrompt = "watermark, text, letters, signature, logo, subtitle, low resolution, blurry, worst quality, bad anatomy, distorted hands"
)

// Client T2P（火山引擎 Text-to-Picture）客户端
// 调用火山引擎 visual 服务的 cv_process 接口生成图片
type Client struct {
	cfg        config.T2PConfig
	session    *session.Session
	httpClient *http.Client
	apiURL     string
	region     string
	reqKey     string
}

// NewClient 创建 T2P 客户端
// 使用 volcengine-go-sdk 的 session 和 credentials
func NewClient(cfg *config.T2PConfig) (*Client, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("t2p access key and secret key are required")
	}

	creds := credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	volcengineConfig := volcengine.NewConfig().
		WithCredentials(creds).
		WithRegion(region)

	sess, err := session.NewSession(volcengineConfig)
	if err != nil {
		return nil, fmt.Errorf("create volcengine session: %w", err)
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	reqKey := cfg.ReqKey
	if reqKey == "" {
		reqKey = defaultReqKey
	}

	c := *cfg
	if c.Width <= 0 {
		c.Width = 1024
	}
	if c.Height <= 0 {
		c.Height = 1024
	}

	return &Client{
		cfg:        c,
		session:    sess,
		httpClient: &http.Client{Timeout: 300 * time.Second},
		apiURL:     apiURL,
		region:     region,
		reqKey:     reqKey,
	}, nil
}

// cvProcessResponse cv_process 接口响应
type cvProcessResponse struct {
	ResponseMetadata *struct {
		Error *struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
		} `json:"Error,omitempty"`
	} `json:"ResponseMetadata,omitempty"`
	Data *struct {
		BinaryDataBase64 []string `json:"binary_data_base64,omitempty"`
		ImageURL         []string `json:"image_url,omitempty"`
	} `json:"data,omitempty"`
}

// GenerateImage 根据提示词生成图片并返回图片字节
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	form := map[string]interface{}{
		"req_key":         c.reqKey,
		"prompt":          prompt,
		"llm_seed":        -1,
		"seed":            -1,
		"scale":           3.5,
		"ddim_steps":      25,
		"width":           c.cfg.Width,
		"height":          c.cfg.Height,
		"use_pre_llm":     false,
		"use_sr":          true,
		"return_url":      false,
		"negative_prompt": defaultNegativePrompt,
		"logo_info": map[string]interface{}{
			"add_logo": false,
			"position": 0,
			"language": 0,
			"opacity":  0.3,
		},
	}

	requestBody, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	apiURL := fmt.Sprintf("%s/?Action=CVProcess&Version=2020-08-26", c.apiURL)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// 火山引擎签名
	// 参考: https://www.volcengine.com/docs/6460/6490
	if err := c.signRequest(httpReq, requestBody); err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var apiResp cvProcessResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if apiResp.ResponseMetadata != nil && apiResp.ResponseMetadata.Error != nil {
		return nil, fmt.Errorf("API error: %s - %s",
			apiResp.ResponseMetadata.Error.Code,
			apiResp.ResponseMetadata.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed, status: %d", resp.StatusCode)
	}

	if apiResp.Data == nil || len(apiResp.Data.BinaryDataBase64) == 0 {
		return nil, fmt.Errorf("no image data in response")
	}

	imageData, err := base64.StdEncoding.DecodeString(apiResp.Data.BinaryDataBase64[0])
	if err != nil {
		return nil, fmt.Errorf("decode base64 image data: %w", err)
	}

	return imageData, nil
}

// signRequest 为请求添加火山引擎签名
func (c *Client) signRequest(req *http.Request, body []byte) error {
	u, err := url.Parse(req.URL.String())
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	timestamp := time.Now().UTC().Format("20060102T150405Z")
	date := timestamp[:8]

	method := req.Method
	uri := u.Path
	if uri == "" {
		uri = "/"
	}

	// 查询字符串按字典序排序
	queryParams := u.Query()
	var queryKeys []string
	for k := range queryParams {
		queryKeys = append(queryKeys, k)
	}
	sort.Strings(queryKeys)
	var queryParts []string
	for _, k := range queryKeys {
		for _, v := range queryParams[k] {
			queryParts = append(queryParts, fmt.Sprintf("%s=%s", k, url.QueryEscape(v)))
		}
	}
	queryString := strings.Join(queryParts, "&")

	// Headers 按字典序排序，Host 和 Content-Type 不参与签名
	headerKeys := make([]string, 0, len(req.Header))
	for k := range req.Header {
		lower := strings.ToLower(k)
		if lower == "host" || lower == "content-type" {
			continue
		}
		headerKeys = append(headerKeys, lower)
	}
	sort.Strings(headerKeys)
	var headerParts []string
	for _, k := range headerKeys {
		for _, v := range req.Header.Values(k) {
			headerParts = append(headerParts, fmt.Sprintf("%s:%s", k, strings.TrimSpace(v)))
		}
	}
	headersString := strings.Join(headerParts, "\n")

	stringToSign := fmt.Sprintf("%s\n%s\n%s\n%s\n%s",
		method,
		uri,
		queryString,
		headersString,
		string(body))

	// 签名密钥派生链: kDate -> kRegion -> kService -> kSigning
	kDate := hmacSHA256([]byte(c.cfg.SecretKey), date)
	kRegion := hmacSHA256(kDate, c.region)
	kService := hmacSHA256(kRegion, "visual")
	kSigning := hmacSHA256(kService, "request")
	signature := hmacSHA256(kSigning, stringToSign)
	signatureHex := fmt.Sprintf("%x", signature)

	signedHeaders := strings.Join(headerKeys, ";")
	authorization := fmt.Sprintf("HMAC-SHA256 Credential=%s/%s/%s/visual/request, SignedHeaders=%s, Signature=%s",
		c.cfg.AccessKey,
		date,
		c.region,
		signedHeaders,
		signatureHex)

	req.Header.Set("Authorization", authorization)
	req.Header.Set("X-Date", timestamp)

	return nil
}

// hmacSHA256 计算 HMAC-SHA256
func hmacSHA256(key []byte, data string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(data))
	return h.Sum(nil)
}
