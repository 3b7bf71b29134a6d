package keywords

import (
	"strings"
	"unicode"

	"github.com/go-ego/gse"
)

// stopwords 提取关键词时过滤掉的常见虚词
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true,
	"on": true, "with": true, "and": true, "or": true, "for": true,
	"to": true, "at": true, "by": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "this": true, "that": true,
	"的": true, "了": true, "和": true, "是": true, "在": true,
	"一个": true, "一张": true, "一只": true,
}

// Extractor 关键词提取器
// 基于 gse 分词，分词器初始化失败时退化为空白切分
type Extractor struct {
	seg *gse.Segmenter
}

// New 创建关键词提取器
func New() *Extractor {
	e := &Extractor{}
	seg, err := gse.New()
	if err == nil {
		e.seg = &seg
	}
	return e
}

// Extract 从文本中提取最多 max 个关键词
// 过滤虚词和过短的词，保持原文出现顺序
func (e *Extractor) Extract(text string, max int) []string {
	if max <= 0 {
		return nil
	}

	var tokens []string
	if e.seg != nil {
		tokens = e.seg.Cut(text, true)
	} else {
		tokens = strings.Fields(text)
	}

	seen := make(map[string]bool)
	keywords := make([]string, 0, max)
	for _, token := range tokens {
		word := normalize(token)
		if word == "" || stopwords[word] || seen[word] {
			continue
		}
		if isASCIIWord(word) && len(word) < 3 {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) >= max {
			break
		}
	}
	return keywords
}

// normalize 小写化并去掉首尾标点
func normalize(token string) string {
	word := strings.ToLower(strings.TrimSpace(token))
	return strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// isASCIIWord 判断是否为纯ASCII单词
func isASCIIWord(word string) bool {
	for _, r := range word {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
