package dedupe_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	dedupe "github.com/okian/clubrank/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryGuard(t *testing.T) {
	Convey("Given a new guard", t, func() {
		ctx := context.Background()
		g := dedupe.NewInMemoryGuard()

		Convey("When a key is claimed", func() {
			ok := g.Claim(ctx, "event-1/shooter-1")

			Convey("Then it is held", func() {
				So(ok, ShouldBeTrue)
				So(g.Size(), ShouldEqual, 1)
			})

			Convey("Then a second claim fails until release", func() {
				So(g.Claim(ctx, "event-1/shooter-1"), ShouldBeFalse)
				g.Release(ctx, "event-1/shooter-1")
				So(g.Size(), ShouldEqual, 0)
				So(g.Claim(ctx, "event-1/shooter-1"), ShouldBeTrue)
			})

			Convey("Then other keys are independent", func() {
				So(g.Claim(ctx, "event-1/shooter-2"), ShouldBeTrue)
				So(g.Size(), ShouldEqual, 2)
			})
		})

		Convey("When releasing a key that was never claimed", func() {
			g.Release(ctx, "missing")

			Convey("Then nothing changes", func() {
				So(g.Size(), ShouldEqual, 0)
			})
		})

		Convey("When many goroutines race for one key", func() {
			var wins atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < 64; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if g.Claim(ctx, "hot") {
						wins.Add(1)
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one wins", func() {
				So(wins.Load(), ShouldEqual, 1)
			})
		})
	})
}

func TestLocker(t *testing.T) {
	Convey("Given a locker", t, func() {
		l := dedupe.NewLocker()

		Convey("When readers share a key", func() {
			first := l.RLock("event-1")
			second := l.RLock("event-1", "event-2", "event-1")

			Convey("Then both hold it at once", func() {
				So(l.Len(), ShouldEqual, 2)
				second()
				first()
				So(l.Len(), ShouldEqual, 0)
			})
		})

		Convey("When a writer waits on a reader", func() {
			release := l.RLock("event-1")
			locked := make(chan struct{})
			go func() {
				unlock := l.Lock("event-1")
				close(locked)
				unlock()
			}()

			Convey("Then it proceeds only after the read lock is released", func() {
				select {
				case <-locked:
					t.Fatal("writer entered while a reader held the key")
				case <-time.After(20 * time.Millisecond):
				}
				release()
				select {
				case <-locked:
				case <-time.After(time.Second):
					t.Fatal("writer never entered")
				}
			})
		})

		Convey("When writers take unrelated keys", func() {
			a := l.Lock("event-1")
			b := l.Lock("event-2")

			Convey("Then neither blocks the other", func() {
				So(l.Len(), ShouldEqual, 2)
				a()
				b()
				So(l.Len(), ShouldEqual, 0)
			})
		})
	})
}
