package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryRevoker(t *testing.T) {
	Convey("Given a memory revoker with a controllable clock", t, func() {
		ctx := context.Background()
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		r := NewMemoryRevoker(WithClock(func() time.Time { return now }))

		Convey("When a token is revoked until later", func() {
			So(r.Revoke(ctx, "jti-1", now.Add(time.Hour)), ShouldBeNil)

			Convey("Then it reports revoked", func() {
				revoked, err := r.IsRevoked(ctx, "jti-1")
				So(err, ShouldBeNil)
				So(revoked, ShouldBeTrue)
				So(r.Len(), ShouldEqual, 1)
			})

			Convey("Then it expires with the token", func() {
				now = now.Add(2 * time.Hour)
				revoked, err := r.IsRevoked(ctx, "jti-1")
				So(err, ShouldBeNil)
				So(revoked, ShouldBeFalse)
				So(r.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the expiry is already past", func() {
			So(r.Revoke(ctx, "jti-2", now.Add(-time.Minute)), ShouldBeNil)

			Convey("Then nothing is stored", func() {
				revoked, _ := r.IsRevoked(ctx, "jti-2")
				So(revoked, ShouldBeFalse)
				So(r.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the id is empty", func() {
			So(r.Revoke(ctx, "", now.Add(time.Hour)), ShouldEqual, ErrEmptyID)
		})

		Convey("When an unknown id is checked", func() {
			revoked, err := r.IsRevoked(ctx, "never")
			So(err, ShouldBeNil)
			So(revoked, ShouldBeFalse)
			So(r.Close(), ShouldBeNil)
		})
	})
}

func TestRedisRevoker(t *testing.T) {
	addr := os.Getenv("CLUB_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CLUB_TEST_REDIS_ADDR not set")
	}

	Convey("Given a redis revoker", t, func() {
		ctx := context.Background()
		r, err := NewRedisRevoker(ctx, addr, "", 0)
		So(err, ShouldBeNil)
		Reset(func() { _ = r.Close() })
		id := uuid.NewString()

		Convey("When a token is revoked", func() {
			So(r.Revoke(ctx, id, time.Now().Add(time.Minute)), ShouldBeNil)

			Convey("Then it reports revoked", func() {
				revoked, err := r.IsRevoked(ctx, id)
				So(err, ShouldBeNil)
				So(revoked, ShouldBeTrue)
			})
		})

		Convey("When a token was never revoked", func() {
			revoked, err := r.IsRevoked(ctx, id)
			So(err, ShouldBeNil)
			So(revoked, ShouldBeFalse)
		})
	})
}
