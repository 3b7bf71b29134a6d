package placeholder

import "strings"

// Theme 占位图主题
// 根据提示词里的关键词粗略归类，决定渐变色和表情符号
type Theme struct {
	Name     string
	Color    string
	Emoji    string
	keywords []string
}

var themes = []Theme{
	{
		Name:     "nature",
		Color:    "#10b981",
		Emoji:    "🌳",
		keywords: []string{"tree", "forest", "flower", "mountain", "ocean", "sunset", "sky"},
	},
	{
		Name:     "animal",
		Color:    "#f59e0b",
		Emoji:    "🦁",
		keywords: []string{"cat", "dog", "bird", "lion", "elephant", "fish"},
	},
	{
		Name:     "person",
		Color:    "#ef4444",
		Emoji:    "👤",
		keywords: []string{"man", "woman", "child", "person", "people", "human"},
	},
	{
		Name:     "object",
		Color:    "#6366f1",
		Emoji:    "🏠",
		keywords: []string{"car", "house", "building", "book", "phone", "computer"},
	},
	{
		Name:     "space",
		Color:    "#8b5cf6",
		Emoji:    "🌌",
		keywords: []string{"space", "star", "planet", "galaxy", "moon", "universe"},
	},
}

// themeAbstract 没有命中任何关键词时的兜底主题
var themeAbstract = Theme{
	Name:  "abstract",
	Color: "#667eea",
	Emoji: "✨",
}

// AnalyzePrompt 根据提示词内容选择主题
// 按主题声明顺序匹配，第一个命中的关键词决定主题
func AnalyzePrompt(prompt string) Theme {
	lower := strings.ToLower(prompt)
	for _, theme := range themes {
		for _, kw := range theme.keywords {
			if strings.Contains(lower, kw) {
				return theme
			}
		}
	}
	return themeAbstract
}
