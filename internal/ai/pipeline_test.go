package ai

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeStage 测试用图片阶段
type fakeStage struct {
	name   string
	out    *StageOutput
	err    error
	called *int
}

func (s *fakeStage) Name() string { return s.name }

func (s *fakeStage) Generate(ctx context.Context, prompt string) (*StageOutput, error) {
	if s.called != nil {
		*s.called++
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

// fakeStorage 测试用对象存储
type fakeStorage struct {
	uploads []string
	fail    bool
}

func (f *fakeStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	if f.fail {
		return "", fmt.Errorf("storage unavailable")
	}
	f.uploads = append(f.uploads, key)
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeStorage) GetPresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	return "", fmt.Errorf("not implemented")
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeStorage) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

func (f *fakeStorage) GetStorageType() string { return "fake" }

func TestImagePipeline(t *testing.T) {
	ctx := context.Background()

	Convey("图片生成回退链", t, func() {
		Convey("首个阶段成功时直接转存并返回", func() {
			store := &fakeStorage{}
			var firstCalls, secondCalls int
			p := NewImagePipeline([]ImageStage{
				&fakeStage{name: "primary", out: &StageOutput{Data: []byte("png-bytes"), ContentType: "image/png", Ext: ".png"}, called: &firstCalls},
				&fakeStage{name: "backup", out: &StageOutput{Data: []byte("x")}, called: &secondCalls},
			}, store, time.Second)

			url, err := p.GenerateImage(ctx, "a cat")
			So(err, ShouldBeNil)
			So(url, ShouldStartWith, "https://cdn.example.com/ai-generated/primary_")
			So(firstCalls, ShouldEqual, 1)
			So(secondCalls, ShouldEqual, 0)
			So(len(store.uploads), ShouldEqual, 1)
		})

		Convey("前面阶段失败时按顺序前进", func() {
			store := &fakeStorage{}
			var calls [3]int
			p := NewImagePipeline([]ImageStage{
				&fakeStage{name: "one", err: fmt.Errorf("backend down"), called: &calls[0]},
				&fakeStage{name: "two", err: fmt.Errorf("timeout"), called: &calls[1]},
				&fakeStage{name: "three", out: &StageOutput{Data: []byte("svg"), ContentType: "image/svg+xml", Ext: ".svg"}, called: &calls[2]},
			}, store, time.Second)

			url, err := p.GenerateImage(ctx, "a dog")
			So(err, ShouldBeNil)
			So(url, ShouldContainSubstring, "/three_")
			So(calls[0], ShouldEqual, 1)
			So(calls[1], ShouldEqual, 1)
			So(calls[2], ShouldEqual, 1)
		})

		Convey("阶段内不重试", func() {
			store := &fakeStorage{}
			var calls int
			p := NewImagePipeline([]ImageStage{
				&fakeStage{name: "flaky", err: fmt.Errorf("boom"), called: &calls},
				&fakeStage{name: "ok", out: &StageOutput{Data: []byte("img")}},
			}, store, time.Second)

			_, err := p.GenerateImage(ctx, "prompt")
			So(err, ShouldBeNil)
			So(calls, ShouldEqual, 1)
		})

		Convey("转存失败同样使链条前进", func() {
			failStore := &fakeStorage{fail: true}
			p := NewImagePipeline([]ImageStage{
				&fakeStage{name: "gen", out: &StageOutput{Data: []byte("img"), Ext: ".png"}},
				&fakeStage{name: "fallback", out: &StageOutput{URL: "https://picsum.photos/seed/42/1024/1024"}},
			}, failStore, time.Second)

			url, err := p.GenerateImage(ctx, "prompt")
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "https://picsum.photos/seed/42/1024/1024")
		})

		Convey("阶段返回URL时不经过对象存储", func() {
			store := &fakeStorage{}
			p := NewImagePipeline([]ImageStage{
				&fakeStage{name: "picsum", out: &StageOutput{URL: "https://picsum.photos/seed/7/1024/1024"}},
			}, store, time.Second)

			url, err := p.GenerateImage(ctx, "prompt")
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "https://picsum.photos/seed/7/1024/1024")
			So(store.uploads, ShouldBeEmpty)
		})

		Convey("所有阶段失败时返回错误", func() {
			store := &fakeStorage{}
			p := NewImagePipeline([]ImageStage{
				&fakeStage{name: "one", err: fmt.Errorf("down")},
				&fakeStage{name: "two", err: fmt.Errorf("down")},
			}, store, time.Second)

			url, err := p.GenerateImage(ctx, "prompt")
			So(err, ShouldNotBeNil)
			So(url, ShouldBeEmpty)
		})

		Convey("对象存储key携带阶段名", func() {
			store := &fakeStorage{}
			p := NewImagePipeline([]ImageStage{
				&fakeStage{name: "pollinations", out: &StageOutput{Data: []byte("img"), Ext: ".png"}},
			}, store, time.Second)

			_, err := p.GenerateImage(ctx, "prompt")
			So(err, ShouldBeNil)
			So(len(store.uploads), ShouldEqual, 1)
			So(strings.HasPrefix(store.uploads[0], "ai-generated/pollinations_"), ShouldBeTrue)
			So(store.uploads[0], ShouldEndWith, ".png")
		})
	})
}
