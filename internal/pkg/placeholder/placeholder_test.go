package placeholder

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAnalyzePrompt(t *testing.T) {
	Convey("根据提示词选择主题", t, func() {
		Convey("命中自然类关键词", func() {
			theme := AnalyzePrompt("A beautiful sunset over the mountain")
			So(theme.Name, ShouldEqual, "nature")
			So(theme.Color, ShouldEqual, "#10b981")
		})

		Convey("命中动物类关键词", func() {
			theme := AnalyzePrompt("a cat sleeping on a sofa")
			So(theme.Name, ShouldEqual, "animal")
			So(theme.Emoji, ShouldEqual, "🦁")
		})

		Convey("命中太空类关键词", func() {
			theme := AnalyzePrompt("Galaxy far away")
			So(theme.Name, ShouldEqual, "space")
		})

		Convey("关键词匹配不区分大小写", func() {
			theme := AnalyzePrompt("OCEAN WAVES")
			So(theme.Name, ShouldEqual, "nature")
		})

		Convey("没有命中任何关键词时回退到抽象主题", func() {
			theme := AnalyzePrompt("quantum entanglement diagram")
			So(theme.Name, ShouldEqual, "abstract")
			So(theme.Color, ShouldEqual, "#667eea")
			So(theme.Emoji, ShouldEqual, "✨")
		})
	})
}

func TestRenderThemedSVG(t *testing.T) {
	Convey("渲染主题占位图", t, func() {
		theme := AnalyzePrompt("a lion in the savanna")
		svg := RenderThemedSVG("a lion in the savanna", theme)

		Convey("包含SVG基本结构", func() {
			So(svg, ShouldStartWith, "<svg")
			So(svg, ShouldEndWith, "</svg>")
			So(svg, ShouldContainSubstring, `width="1024"`)
		})

		Convey("包含主题颜色和表情", func() {
			So(svg, ShouldContainSubstring, theme.Color)
			So(svg, ShouldContainSubstring, theme.Emoji)
			So(svg, ShouldContainSubstring, "Theme: Animal")
		})

		Convey("包含提示词原文", func() {
			So(svg, ShouldContainSubstring, "a lion in the savanna")
		})

		Convey("超长提示词被截断", func() {
			long := strings.Repeat("x", 100)
			out := RenderThemedSVG(long, theme)
			So(out, ShouldContainSubstring, strings.Repeat("x", 40)+"...")
			So(out, ShouldNotContainSubstring, strings.Repeat("x", 41))
		})

		Convey("特殊字符被转义", func() {
			out := RenderThemedSVG(`a <cat> & "dog"`, AnalyzePrompt("cat"))
			So(out, ShouldNotContainSubstring, "<cat>")
			So(out, ShouldContainSubstring, "&lt;cat&gt;")
		})
	})
}

func TestPromptSeed(t *testing.T) {
	Convey("提示词散列种子", t, func() {
		Convey("同一提示词得到同一种子", func() {
			So(PromptSeed("a red balloon"), ShouldEqual, PromptSeed("a red balloon"))
		})

		Convey("不同提示词通常得到不同种子", func() {
			So(PromptSeed("a red balloon"), ShouldNotEqual, PromptSeed("a blue balloon"))
		})

		Convey("种子非负", func() {
			So(PromptSeed("some arbitrary prompt text"), ShouldBeGreaterThanOrEqualTo, 0)
			So(PromptSeed(""), ShouldEqual, 0)
		})

		Convey("32位散列为负时取64位绝对值", func() {
			// "sunset over the ocean" 的32位滚动散列是 -1260823795
			So(PromptSeed("sunset over the ocean"), ShouldEqual, int64(1260823795))
		})
	})
}

func TestPicsumURL(t *testing.T) {
	Convey("Picsum 兜底URL", t, func() {
		url := PicsumURL("a red balloon")

		Convey("URL格式正确", func() {
			So(url, ShouldStartWith, "https://picsum.photos/seed/")
			So(url, ShouldEndWith, "/1024/1024")
		})

		Convey("确定性", func() {
			So(PicsumURL("a red balloon"), ShouldEqual, url)
		})
	})
}

func TestAdjustColor(t *testing.T) {
	tests := []struct {
		name   string
		color  string
		amount int
		want   string
	}{
		{"darken", "#10b981", -40, "#009159"},
		{"lighten", "#000000", 64, "#404040"},
		{"clamp high", "#ffffff", 100, "#ffffff"},
		{"clamp low", "#101010", -100, "#000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adjustColor(tt.color, tt.amount); got != tt.want {
				t.Errorf("adjustColor(%s, %d) = %s, want %s", tt.color, tt.amount, got, tt.want)
			}
		})
	}
}
