package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/okian/clubrank/internal/adapters/session"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@club.test"
	adminPassword = "s3cret-pass"
	testSecret    = "test-signing-secret"
)

func testHash(t *testing.T) string {
	h, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func TestAuthenticator(t *testing.T) {
	Convey("Given an authenticator with a configured admin", t, func() {
		ctx := context.Background()
		now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		a, err := New(adminEmail, testHash(t), testSecret,
			WithClock(clock),
			WithTTL(time.Hour),
			WithRevoker(session.NewMemoryRevoker(session.WithClock(clock))),
		)
		So(err, ShouldBeNil)
		So(a.Enabled(), ShouldBeTrue)

		Convey("When signing in with the right credentials", func() {
			s, err := a.SignIn(ctx, "  Admin@Club.test ", adminPassword)

			Convey("Then a token valid for the TTL is issued", func() {
				So(err, ShouldBeNil)
				So(s.Token, ShouldNotBeEmpty)
				So(s.Email, ShouldEqual, adminEmail)
				So(s.ExpiresAt.Equal(now.Add(time.Hour)), ShouldBeTrue)

				claims, err := a.Verify(ctx, s.Token)
				So(err, ShouldBeNil)
				So(claims.Subject, ShouldEqual, adminEmail)
				So(claims.ID, ShouldNotBeEmpty)
				So(a.IsAdmin(ctx, s.Token), ShouldBeTrue)
			})

			Convey("Then the token stops working once it expires", func() {
				now = now.Add(2 * time.Hour)
				_, err := a.Verify(ctx, s.Token)
				So(errors.Is(err, ErrUnauthorized), ShouldBeTrue)
			})

			Convey("Then signing out revokes it", func() {
				So(a.SignOut(ctx, s.Token), ShouldBeNil)
				So(a.IsAdmin(ctx, s.Token), ShouldBeFalse)
				So(errors.Is(a.SignOut(ctx, s.Token), ErrUnauthorized), ShouldBeTrue)
			})
		})

		Convey("When the password or email is wrong", func() {
			_, err1 := a.SignIn(ctx, adminEmail, "nope")
			_, err2 := a.SignIn(ctx, "someone@club.test", adminPassword)

			Convey("Then sign-in fails with invalid credentials", func() {
				So(err1, ShouldEqual, ErrInvalidCredentials)
				So(err2, ShouldEqual, ErrInvalidCredentials)
			})
		})

		Convey("When a token is forged or malformed", func() {
			forged, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
				ID: "x", Subject: adminEmail, Issuer: issuer,
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			}}).SignedString([]byte("other-secret"))

			Convey("Then verification fails", func() {
				for _, tok := range []string{"", "garbage", forged} {
					_, err := a.Verify(ctx, tok)
					So(errors.Is(err, ErrUnauthorized), ShouldBeTrue)
				}
			})
		})

		Convey("When a token for another subject is signed with the right key", func() {
			other, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
				ID: "y", Subject: "intruder@club.test", Issuer: issuer,
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			}}).SignedString([]byte(testSecret))

			Convey("Then it is not an admin token", func() {
				So(a.IsAdmin(ctx, other), ShouldBeFalse)
			})
		})
	})
}

func TestAuthenticatorConfiguration(t *testing.T) {
	Convey("Given authenticator settings", t, func() {
		ctx := context.Background()

		Convey("When no admin is configured", func() {
			a, err := New("", "", "")
			So(err, ShouldBeNil)

			Convey("Then sign-in is disabled", func() {
				So(a.Enabled(), ShouldBeFalse)
				_, err := a.SignIn(ctx, adminEmail, adminPassword)
				So(err, ShouldEqual, ErrInvalidCredentials)
				So(a.IsAdmin(ctx, "anything"), ShouldBeFalse)
			})
		})

		Convey("When credentials are set without a secret", func() {
			_, err := New(adminEmail, testHash(t), "")
			So(errors.Is(err, ErrMisconfigured), ShouldBeTrue)
		})

		Convey("When the hash is not bcrypt", func() {
			_, err := New(adminEmail, "plaintext", testSecret)
			So(errors.Is(err, ErrMisconfigured), ShouldBeTrue)
		})
	})
}

func TestHashPassword(t *testing.T) {
	Convey("Given a password", t, func() {
		h, err := HashPassword(adminPassword)

		Convey("Then the hash verifies against it", func() {
			So(err, ShouldBeNil)
			So(bcrypt.CompareHashAndPassword([]byte(h), []byte(adminPassword)), ShouldBeNil)
		})

		Convey("Then an empty password is refused", func() {
			_, err := HashPassword("")
			So(err, ShouldEqual, ErrEmptyPassword)
		})
	})
}
