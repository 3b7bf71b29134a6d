package jwt

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestJWT(t *testing.T) {
	Convey("JWT 签发与验证", t, func() {
		j := NewJWT("test-secret", time.Hour)

		Convey("签发后可以验证并取回用户ID", func() {
			token, err := j.GenerateToken("user-123")
			So(err, ShouldBeNil)
			So(token, ShouldNotBeEmpty)

			claims, err := j.ValidateToken(token)
			So(err, ShouldBeNil)
			So(claims.UserID, ShouldEqual, "user-123")
		})

		Convey("密钥不匹配时验证失败", func() {
			token, err := j.GenerateToken("user-123")
			So(err, ShouldBeNil)

			other := NewJWT("another-secret", time.Hour)
			_, err = other.ValidateToken(token)
			So(err, ShouldEqual, ErrInvalidToken)
		})

		Convey("过期token返回过期错误", func() {
			expired := NewJWT("test-secret", -time.Minute)
			token, err := expired.GenerateToken("user-123")
			So(err, ShouldBeNil)

			_, err = j.ValidateToken(token)
			So(err, ShouldEqual, ErrExpiredToken)
		})

		Convey("非法token返回无效错误", func() {
			_, err := j.ValidateToken("not-a-token")
			So(err, ShouldEqual, ErrInvalidToken)
		})
	})
}
