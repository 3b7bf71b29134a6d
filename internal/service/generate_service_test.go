package service

import (
	"context"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"quickgpt/internal/model"
	"quickgpt/internal/repository"
)

// fakeChatStore 测试用对话存储
type fakeChatStore struct {
	chats     map[string]string // chatID -> userID
	turns     []model.Turn
	findErr   error
	appendErr error
}

func (f *fakeChatStore) FindOwned(ctx context.Context, chatID, userID string) (*model.Chat, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	owner, ok := f.chats[chatID]
	if !ok || owner != userID {
		return nil, repository.ErrNotFound
	}
	return &model.Chat{ID: chatID, UserID: userID}, nil
}

func (f *fakeChatStore) AppendTurn(ctx context.Context, chatID, userID string, turn model.Turn) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	if owner, ok := f.chats[chatID]; !ok || owner != userID {
		return repository.ErrNotFound
	}
	f.turns = append(f.turns, turn)
	return nil
}

// fakeLedger 测试用积分账本
type fakeLedger struct {
	balance int64
	debits  []int64
	err     error
}

func (f *fakeLedger) DebitCredits(ctx context.Context, userID string, amount int64) error {
	if f.err != nil {
		return f.err
	}
	if f.balance < amount {
		return repository.ErrInsufficientBalance
	}
	f.balance -= amount
	f.debits = append(f.debits, amount)
	return nil
}

// fakeTextGen 测试用文本生成后端
type fakeTextGen struct {
	reply string
	err   error
	calls int
}

func (f *fakeTextGen) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// fakeImageGen 测试用图片生成后端
type fakeImageGen struct {
	url   string
	err   error
	calls int
}

func (f *fakeImageGen) GenerateImage(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	newFixture := func() (*fakeChatStore, *fakeLedger, *fakeTextGen, *fakeImageGen, *GenerateService) {
		chats := &fakeChatStore{chats: map[string]string{"chat-1": "user-1"}}
		ledger := &fakeLedger{balance: 10}
		textGen := &fakeTextGen{reply: "hello there"}
		imgGen := &fakeImageGen{url: "https://cdn.example.com/ai-generated/img.png"}
		svc := NewGenerateService(chats, ledger, textGen, imgGen)
		return chats, ledger, textGen, imgGen, svc
	}

	Convey("消息生成编排", t, func() {
		Convey("文本生成成功", func() {
			chats, ledger, _, _, svc := newFixture()

			reply, err := svc.Generate(ctx, &model.GenerateRequest{
				Mode: model.ModeText, ChatID: "chat-1", Prompt: "hi", UserID: "user-1", Credits: 5,
			})

			So(err, ShouldBeNil)
			So(reply.Role, ShouldEqual, model.RoleAssistant)
			So(reply.Content, ShouldEqual, "hello there")
			So(reply.IsImage, ShouldBeFalse)

			Convey("先落用户消息再落助手消息", func() {
				So(len(chats.turns), ShouldEqual, 2)
				So(chats.turns[0].Role, ShouldEqual, model.RoleUser)
				So(chats.turns[0].Content, ShouldEqual, "hi")
				So(chats.turns[1].Role, ShouldEqual, model.RoleAssistant)
				So(chats.turns[0].Timestamp, ShouldHappenOnOrBefore, chats.turns[1].Timestamp)
			})

			Convey("按文本资费扣1分", func() {
				So(ledger.debits, ShouldResemble, []int64{1})
			})
		})

		Convey("图片生成成功", func() {
			chats, ledger, _, imgGen, svc := newFixture()

			reply, err := svc.Generate(ctx, &model.GenerateRequest{
				Mode: model.ModeImage, ChatID: "chat-1", Prompt: "a cat", UserID: "user-1",
				Credits: 5, IsPublished: true,
			})

			So(err, ShouldBeNil)
			So(reply.IsImage, ShouldBeTrue)
			So(reply.IsPublished, ShouldBeTrue)
			So(reply.Content, ShouldEqual, imgGen.url)

			Convey("按图片资费扣2分", func() {
				So(ledger.debits, ShouldResemble, []int64{2})
			})

			Convey("用户提问消息不带图片标记", func() {
				So(chats.turns[0].IsImage, ShouldBeFalse)
				So(chats.turns[0].IsPublished, ShouldBeFalse)
			})
		})

		Convey("对话不存在", func() {
			chats, ledger, textGen, _, svc := newFixture()

			_, err := svc.Generate(ctx, &model.GenerateRequest{
				Mode: model.ModeText, ChatID: "missing", Prompt: "hi", UserID: "user-1", Credits: 5,
			})

			So(err, ShouldEqual, ErrChatNotFound)
			So(chats.turns, ShouldBeEmpty)
			So(textGen.calls, ShouldEqual, 0)
			So(ledger.debits, ShouldBeEmpty)
		})

		Convey("对话属于其他用户时同样报不存在", func() {
			_, _, _, _, svc := newFixture()

			_, err := svc.Generate(ctx, &model.GenerateRequest{
				Mode: model.ModeText, ChatID: "chat-1", Prompt: "hi", UserID: "user-2", Credits: 5,
			})

			So(err, ShouldEqual, ErrChatNotFound)
		})

		Convey("对话不存在且积分不足时优先报对话不存在", func() {
			_, _, _, _, svc := newFixture()

			_, err := svc.Generate(ctx, &model.GenerateRequest{
				Mode: model.ModeImage, ChatID: "missing", Prompt: "hi", UserID: "user-1", Credits: 0,
			})

			So(err, ShouldEqual, ErrChatNotFound)
		})

		Convey("余额快照不足", func() {
			chats, ledger, textGen, _, svc := newFixture()

			_, err := svc.Generate(ctx, &model.GenerateRequest{
				Mode: model.ModeImage, ChatID: "chat-1", Prompt: "hi", UserID: "user-1", Credits: 1,
			})

			So(err, ShouldEqual, ErrInsufficientCredits)
			So(chats.turns, ShouldBeEmpty)
			So(textGen.calls, ShouldEqual, 0)
			So(ledger.debits, ShouldBeEmpty)
		})

		Convey("生成后端失败", func() {
			chats, ledger, textGen, _, svc := newFixture()
			textGen.err = fmt.Errorf("model unavailable")

			_, err := svc.Generate(ctx, &model.GenerateRequest{
				Mode: model.ModeText, ChatID: "chat-1", Prompt: "hi", UserID: "user-1", Credits: 5,
			})

			So(err, ShouldWrap, ErrGenerationFailed)

			Convey("用户消息已落库但不扣费", func() {
				So(len(chats.turns), ShouldEqual, 1)
				So(chats.turns[0].Role, ShouldEqual, model.RoleUser)
				So(ledger.debits, ShouldBeEmpty)
			})
		})

		Convey("扣费时余额已被并发请求耗尽", func() {
			_, ledger, _, _, svc := newFixture()
			ledger.balance = 0

			_, err := svc.Generate(ctx, &model.GenerateRequest{
				Mode: model.ModeText, ChatID: "chat-1", Prompt: "hi", UserID: "user-1", Credits: 5,
			})

			So(err, ShouldEqual, ErrInsufficientCredits)
		})

		Convey("落库失败", func() {
			chats, ledger, _, _, svc := newFixture()
			chats.appendErr = fmt.Errorf("write concern error")

			_, err := svc.Generate(ctx, &model.GenerateRequest{
				Mode: model.ModeText, ChatID: "chat-1", Prompt: "hi", UserID: "user-1", Credits: 5,
			})

			So(err, ShouldWrap, ErrPersistenceFailed)
			So(ledger.debits, ShouldBeEmpty)
		})

		Convey("不支持的模式", func() {
			_, _, _, _, svc := newFixture()

			_, err := svc.Generate(ctx, &model.GenerateRequest{
				Mode: "video", ChatID: "chat-1", Prompt: "hi", UserID: "user-1", Credits: 5,
			})

			So(err, ShouldWrap, ErrInvalidMode)
		})
	})
}
