package placeholder

import "fmt"

// PromptSeed 把提示词散列成确定性种子
// 同一提示词永远得到同一个种子，种子相当于图片的持久引用。
// 滚动散列在32位里回绕，取绝对值前先拓宽到64位，
// 散列恰好落在 MinInt32 时种子仍为正
func PromptSeed(prompt string) int64 {
	var a int32
	for _, c := range prompt {
		a = (a << 5) - a + int32(c)
	}
	seed := int64(a)
	if seed < 0 {
		return -seed
	}
	return seed
}

// PicsumURL 根据提示词生成确定性的 Picsum 图片URL
// 纯函数，不做任何网络调用，作为回退链的最后一级兜底
func PicsumURL(prompt string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/1024/1024", PromptSeed(prompt))
}
