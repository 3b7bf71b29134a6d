package keywords

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExtract(t *testing.T) {
	Convey("关键词提取", t, func() {
		e := New()

		Convey("提取英文关键词并过滤虚词", func() {
			kws := e.Extract("a photo of a mountain with a sunset", 2)
			So(len(kws), ShouldEqual, 2)
			So(kws, ShouldContain, "photo")
			So(kws, ShouldContain, "mountain")
		})

		Convey("过短的英文单词被过滤", func() {
			kws := e.Extract("go up in the big sky", 5)
			So(kws, ShouldNotContain, "go")
			So(kws, ShouldNotContain, "up")
			So(kws, ShouldContain, "big")
			So(kws, ShouldContain, "sky")
		})

		Convey("重复词只保留一次", func() {
			kws := e.Extract("cat cat cat dog", 5)
			So(len(kws), ShouldEqual, 2)
		})

		Convey("max 限制结果数量", func() {
			kws := e.Extract("mountain ocean forest flower sunset", 3)
			So(len(kws), ShouldEqual, 3)
		})

		Convey("max 为零时返回空", func() {
			So(e.Extract("mountain ocean", 0), ShouldBeEmpty)
		})

		Convey("空文本返回空", func() {
			So(e.Extract("", 3), ShouldBeEmpty)
		})

		Convey("分词器不可用时退化为空白切分", func() {
			bare := &Extractor{}
			kws := bare.Extract("a photo of a mountain with a sunset", 2)
			So(kws, ShouldResemble, []string{"photo", "mountain"})
		})
	})
}
