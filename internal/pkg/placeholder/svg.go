package placeholder

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderThemedSVG 生成主题占位图
// 当所有在线图片后端都不可用时，用提示词主题渲染一张本地SVG
func RenderThemedSVG(prompt string, theme Theme) string {
	truncated := prompt
	if runes := []rune(prompt); len(runes) > 40 {
		truncated = string(runes[:40]) + "..."
	}
	truncated = escapeXML(truncated)

	themeName := theme.Name
	if themeName != "" {
		themeName = strings.ToUpper(themeName[:1]) + themeName[1:]
	}

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="1024" height="1024" viewBox="0 0 1024 1024">
  <defs>
    <linearGradient id="bg" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
      <stop offset="0%%" style="stop-color:%s;stop-opacity:1" />
      <stop offset="100%%" style="stop-color:%s;stop-opacity:1" />
    </linearGradient>
  </defs>
  <rect width="1024" height="1024" fill="url(#bg)"/>
  <circle cx="512" cy="400" r="100" fill="rgba(255,255,255,0.2)" stroke="white" stroke-width="4"/>
  <text x="512" y="430" text-anchor="middle" font-size="60" fill="white">%s</text>
  <text x="512" y="550" text-anchor="middle" font-family="Arial" font-size="32" font-weight="bold" fill="white">AI Generated Image</text>
  <text x="512" y="600" text-anchor="middle" font-family="Arial" font-size="20" fill="rgba(255,255,255,0.9)">&quot;%s&quot;</text>
  <text x="512" y="650" text-anchor="middle" font-family="Arial" font-size="16" fill="rgba(255,255,255,0.7)">Theme: %s</text>
  <text x="512" y="700" text-anchor="middle" font-family="Arial" font-size="18" fill="rgba(255,255,255,0.8)">QuickGPT AI</text>
</svg>`, theme.Color, adjustColor(theme.Color, -40), theme.Emoji, truncated, themeName)
}

// adjustColor 按分量调整十六进制颜色亮度，结果限制在 [0,255]
func adjustColor(color string, amount int) string {
	col := strings.TrimPrefix(color, "#")
	num, err := strconv.ParseInt(col, 16, 32)
	if err != nil {
		return color
	}

	clamp := func(v int) int {
		if v > 255 {
			return 255
		}
		if v < 0 {
			return 0
		}
		return v
	}

	r := clamp(int(num>>16) + amount)
	g := clamp(int(num>>8&0xFF) + amount)
	b := clamp(int(num&0xFF) + amount)

	out := fmt.Sprintf("%06x", r<<16|g<<8|b)
	if strings.HasPrefix(color, "#") {
		return "#" + out
	}
	return out
}

// escapeXML 转义SVG文本节点中的特殊字符
func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}
