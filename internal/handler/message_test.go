package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"quickgpt/internal/model"
	"quickgpt/internal/pkg/ctxutil"
	"quickgpt/internal/repository"
	"quickgpt/internal/service"
)

type stubChatStore struct {
	exists bool
	turns  []model.Turn
}

func (s *stubChatStore) FindOwned(ctx context.Context, chatID, userID string) (*model.Chat, error) {
	if !s.exists {
		return nil, repository.ErrNotFound
	}
	return &model.Chat{ID: chatID, UserID: userID}, nil
}

func (s *stubChatStore) AppendTurn(ctx context.Context, chatID, userID string, turn model.Turn) error {
	if !s.exists {
		return repository.ErrNotFound
	}
	s.turns = append(s.turns, turn)
	return nil
}

type stubLedger struct{ balance int64 }

func (s *stubLedger) DebitCredits(ctx context.Context, userID string, amount int64) error {
	if s.balance < amount {
		return repository.ErrInsufficientBalance
	}
	s.balance -= amount
	return nil
}

type stubTextGen struct{ err error }

func (s *stubTextGen) GenerateText(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "stub reply", nil
}

type stubImageGen struct{ err error }

func (s *stubImageGen) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "https://cdn.example.com/img.png", nil
}

// newTestRouter 装配带固定登录用户的测试路由
func newTestRouter(svc *service.GenerateService, credits int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := ctxutil.WithUser(c.Request.Context(), ctxutil.AuthUser{
			ID: "user-1", Name: "tester", Credits: credits,
		})
		c.Request = c.Request.WithContext(ctx)
	})

	h := NewMessageHandler(svc)
	r.POST("/api/v1/message/text", h.Text)
	r.POST("/api/v1/message/image", h.Image)
	return r
}

func doPost(r *gin.Engine, path, body string) (*httptest.ResponseRecorder, model.Envelope) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env model.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestMessageEndpoints(t *testing.T) {
	Convey("消息接口", t, func() {
		Convey("文本生成成功", func() {
			chats := &stubChatStore{exists: true}
			svc := service.NewGenerateService(chats, &stubLedger{balance: 10}, &stubTextGen{}, &stubImageGen{})
			r := newTestRouter(svc, 10)

			w, env := doPost(r, "/api/v1/message/text", `{"chatId":"chat-1","prompt":"hello"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(env.Success, ShouldBeTrue)
			So(env.Reply, ShouldNotBeNil)
			So(env.Reply.Content, ShouldEqual, "stub reply")
		})

		Convey("图片生成成功", func() {
			chats := &stubChatStore{exists: true}
			svc := service.NewGenerateService(chats, &stubLedger{balance: 10}, &stubTextGen{}, &stubImageGen{})
			r := newTestRouter(svc, 10)

			w, env := doPost(r, "/api/v1/message/image", `{"chatId":"chat-1","prompt":"a cat","isPublished":true}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(env.Success, ShouldBeTrue)
			So(env.Reply.IsImage, ShouldBeTrue)
			So(env.Reply.IsPublished, ShouldBeTrue)
		})

		Convey("对话不存在时返回业务失败", func() {
			svc := service.NewGenerateService(&stubChatStore{}, &stubLedger{balance: 10}, &stubTextGen{}, &stubImageGen{})
			r := newTestRouter(svc, 10)

			w, env := doPost(r, "/api/v1/message/text", `{"chatId":"missing","prompt":"hello"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(env.Success, ShouldBeFalse)
			So(env.Message, ShouldEqual, "Chat not found")
		})

		Convey("积分不足的提示按模式区分", func() {
			chats := &stubChatStore{exists: true}
			svc := service.NewGenerateService(chats, &stubLedger{balance: 0}, &stubTextGen{}, &stubImageGen{})

			Convey("文本", func() {
				r := newTestRouter(svc, 0)
				_, env := doPost(r, "/api/v1/message/text", `{"chatId":"chat-1","prompt":"hello"}`)
				So(env.Success, ShouldBeFalse)
				So(env.Message, ShouldEqual, "You don't have enough credits")
			})

			Convey("图片", func() {
				r := newTestRouter(svc, 1)
				_, env := doPost(r, "/api/v1/message/image", `{"chatId":"chat-1","prompt":"a cat"}`)
				So(env.Success, ShouldBeFalse)
				So(env.Message, ShouldEqual, "Not enough credits for image generation")
			})
		})

		Convey("生成失败的提示按模式区分", func() {
			chats := &stubChatStore{exists: true}

			Convey("文本", func() {
				svc := service.NewGenerateService(chats, &stubLedger{balance: 10}, &stubTextGen{err: fmt.Errorf("down")}, &stubImageGen{})
				r := newTestRouter(svc, 10)
				_, env := doPost(r, "/api/v1/message/text", `{"chatId":"chat-1","prompt":"hello"}`)
				So(env.Success, ShouldBeFalse)
				So(env.Message, ShouldEqual, "Failed to generate response. Please try again.")
			})

			Convey("图片", func() {
				svc := service.NewGenerateService(chats, &stubLedger{balance: 10}, &stubTextGen{}, &stubImageGen{err: fmt.Errorf("down")})
				r := newTestRouter(svc, 10)
				_, env := doPost(r, "/api/v1/message/image", `{"chatId":"chat-1","prompt":"a cat"}`)
				So(env.Success, ShouldBeFalse)
				So(env.Message, ShouldEqual, "Image generation failed. Please try again.")
			})
		})

		Convey("缺少必填字段", func() {
			chats := &stubChatStore{exists: true}
			svc := service.NewGenerateService(chats, &stubLedger{balance: 10}, &stubTextGen{}, &stubImageGen{})
			r := newTestRouter(svc, 10)

			_, env := doPost(r, "/api/v1/message/text", `{"prompt":"hello"}`)
			So(env.Success, ShouldBeFalse)
			So(env.Message, ShouldEqual, "chatId and prompt are required")
		})
	})
}
