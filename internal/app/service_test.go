package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/clubrank/internal/adapters/repository"
	service "github.com/okian/clubrank/internal/app"
	"github.com/okian/clubrank/internal/auth"
	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/internal/domain/ranking"
	"github.com/okian/clubrank/internal/domain/types"
	"github.com/okian/clubrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const (
	adminEmail    = "admin@club.test"
	adminPassword = "correct horse"
)

var fixedNow = time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T) *service.Service {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	a, err := auth.New(adminEmail, string(hash), "test-secret")
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	svc := service.New(
		service.WithLogger(logger.Nop()),
		service.WithStore(repository.NewMemoryStore()),
		service.WithAuthenticator(a),
		service.WithClock(func() time.Time { return fixedNow }),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return svc
}

func ptr[T any](v T) *T { return &v }

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New(service.WithLogger(logger.Nop()))

		Convey("Then operations report it is not started", func() {
			_, err := svc.ListShooters(context.Background(), false)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("When started without a store", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			defer svc.Stop()

			Convey("Then it falls back to memory storage", func() {
				stats, err := svc.GetStats(context.Background())
				So(err, ShouldBeNil)
				So(stats.StorageDriver, ShouldEqual, repository.DriverMemory)
				So(svc.Start(context.Background()), ShouldBeNil)
			})
		})
	})
}

func TestService_Shooters(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newService(t)
		Reset(svc.Stop)

		Convey("When a shooter is created", func() {
			sh, err := svc.CreateShooter(ctx, model.ShooterInput{Name: " Ana ", Email: "ana@club.test"})
			So(err, ShouldBeNil)

			Convey("Then it is active and trimmed", func() {
				So(sh.Active, ShouldBeTrue)
				So(sh.Name, ShouldEqual, "Ana")
			})

			Convey("Then it can be renamed", func() {
				got, err := svc.UpdateShooter(ctx, sh.ID, model.ShooterPatch{Name: ptr("Ana B")})
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Ana B")
				So(got.Email, ShouldEqual, "ana@club.test")
			})

			Convey("Then its email can be cleared", func() {
				got, err := svc.UpdateShooter(ctx, sh.ID, model.ShooterPatch{Email: ptr("")})
				So(err, ShouldBeNil)
				So(got.Email, ShouldEqual, "")
				So(got.Name, ShouldEqual, "Ana")
			})

			Convey("Then a malformed email is refused", func() {
				_, err := svc.UpdateShooter(ctx, sh.ID, model.ShooterPatch{Email: ptr("not-an-email")})
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			})

			Convey("Then deactivating keeps it listed but not active", func() {
				_, err := svc.DeactivateShooter(ctx, sh.ID)
				So(err, ShouldBeNil)
				all, _ := svc.ListShooters(ctx, false)
				active, _ := svc.ListShooters(ctx, true)
				So(len(all), ShouldEqual, 1)
				So(len(active), ShouldEqual, 0)
			})

			Convey("Then deleting it removes its results", func() {
				ev, err := svc.CreateEvent(ctx, model.EventInput{Name: "Cup", Date: "2024-05-01", Type: model.EventOfficial, TotalTargets: 10})
				So(err, ShouldBeNil)
				_, err = svc.CreateResult(ctx, model.ResultInput{EventID: ev.ID, ShooterID: sh.ID, TargetsHit: 5})
				So(err, ShouldBeNil)

				So(svc.DeleteShooter(ctx, sh.ID), ShouldBeNil)
				results, _ := svc.ListResults(ctx, service.ResultFilter{EventID: ev.ID})
				So(len(results), ShouldEqual, 0)
				_, err = svc.GetShooter(ctx, sh.ID)
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When input is invalid", func() {
			_, err := svc.CreateShooter(ctx, model.ShooterInput{Name: "   "})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When the shooter does not exist", func() {
			_, err := svc.UpdateShooter(ctx, "missing", model.ShooterPatch{Name: ptr("x")})
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			So(errors.Is(svc.DeleteShooter(ctx, "missing"), service.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_EventsAndResults(t *testing.T) {
	Convey("Given an event with two shooters", t, func() {
		ctx := context.Background()
		svc := newService(t)
		Reset(svc.Stop)

		ana, _ := svc.CreateShooter(ctx, model.ShooterInput{Name: "Ana"})
		ben, _ := svc.CreateShooter(ctx, model.ShooterInput{Name: "Ben"})
		ev, err := svc.CreateEvent(ctx, model.EventInput{Name: "Spring Open", Date: "2024-04-13", Type: model.EventOfficial, TotalTargets: 20})
		So(err, ShouldBeNil)
		So(ev.Season, ShouldEqual, 2024)

		Convey("When a result is recorded", func() {
			r, err := svc.CreateResult(ctx, model.ResultInput{EventID: ev.ID, ShooterID: ana.ID, TargetsHit: 18})
			So(err, ShouldBeNil)

			Convey("Then derived values are computed", func() {
				So(r.Effectiveness, ShouldAlmostEqual, 90.0)
				So(r.WeightedEffectiveness, ShouldAlmostEqual, 90.0)
			})

			Convey("Then a second result for the pair conflicts", func() {
				_, err := svc.CreateResult(ctx, model.ResultInput{EventID: ev.ID, ShooterID: ana.ID, TargetsHit: 1})
				So(errors.Is(err, service.ErrConflict), ShouldBeTrue)
			})

			Convey("Then the shooter is no longer available for the event", func() {
				avail, err := svc.AvailableShooters(ctx, ev.ID)
				So(err, ShouldBeNil)
				So(len(avail), ShouldEqual, 1)
				So(avail[0].ID, ShouldEqual, ben.ID)
			})

			Convey("Then updating the hits rescores it", func() {
				got, err := svc.UpdateResult(ctx, r.ID, model.ResultPatch{TargetsHit: ptr(10)})
				So(err, ShouldBeNil)
				So(got.Effectiveness, ShouldAlmostEqual, 50.0)
			})

			Convey("Then moving it onto another shooter's pair conflicts", func() {
				_, err := svc.CreateResult(ctx, model.ResultInput{EventID: ev.ID, ShooterID: ben.ID, TargetsHit: 3})
				So(err, ShouldBeNil)
				_, err = svc.UpdateResult(ctx, r.ID, model.ResultPatch{ShooterID: ptr(ben.ID)})
				So(errors.Is(err, service.ErrConflict), ShouldBeTrue)
			})

			Convey("Then changing the event type rescores every result", func() {
				_, err := svc.UpdateEvent(ctx, ev.ID, model.EventPatch{Type: ptr(model.EventInternal), TotalTargets: ptr(25)})
				So(err, ShouldBeNil)
				got, _ := svc.GetResult(ctx, r.ID)
				So(got.Effectiveness, ShouldAlmostEqual, 72.0)
				So(got.WeightedEffectiveness, ShouldAlmostEqual, 43.2, 1e-9)
			})

			Convey("Then shrinking the event below a hit count conflicts", func() {
				_, err := svc.UpdateEvent(ctx, ev.ID, model.EventPatch{TotalTargets: ptr(15)})
				So(errors.Is(err, service.ErrConflict), ShouldBeTrue)
				got, _ := svc.GetEvent(ctx, ev.ID)
				So(got.TotalTargets, ShouldEqual, 20)
			})

			Convey("Then deleting the event removes its results", func() {
				So(svc.DeleteEvent(ctx, ev.ID), ShouldBeNil)
				_, err := svc.GetResult(ctx, r.ID)
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When hits exceed the target count", func() {
			_, err := svc.CreateResult(ctx, model.ResultInput{EventID: ev.ID, ShooterID: ana.ID, TargetsHit: 21})

			Convey("Then it is invalid", func() {
				var ve *model.ValidationError
				So(errors.As(err, &ve), ShouldBeTrue)
				So(ve.Fields, ShouldContainKey, "targets_hit")
			})
		})

		Convey("When the event or shooter is unknown", func() {
			_, err1 := svc.CreateResult(ctx, model.ResultInput{EventID: "nope", ShooterID: ana.ID})
			_, err2 := svc.CreateResult(ctx, model.ResultInput{EventID: ev.ID, ShooterID: "nope"})

			Convey("Then the reference is reported invalid", func() {
				So(errors.Is(err1, service.ErrInvalidInput), ShouldBeTrue)
				So(errors.Is(err2, service.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When listing events by season", func() {
			_, err := svc.CreateEvent(ctx, model.EventInput{Name: "Old", Date: "2023-06-01", Type: model.EventInternal, TotalTargets: 10})
			So(err, ShouldBeNil)

			Convey("Then only that season is returned", func() {
				events, err := svc.ListEvents(ctx, 2023)
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 1)
				all, _ := svc.ListEvents(ctx, 0)
				So(len(all), ShouldEqual, 2)
			})
		})
	})
}

func TestService_ConcurrentRescoring(t *testing.T) {
	Convey("Given results recorded while their event changes size", t, func() {
		ctx := context.Background()
		svc := newService(t)
		Reset(svc.Stop)

		ev, err := svc.CreateEvent(ctx, model.EventInput{Name: "Night Shoot", Date: "2024-08-10", Type: model.EventOfficial, TotalTargets: 10})
		So(err, ShouldBeNil)
		shooters := make([]model.Shooter, 16)
		for i := range shooters {
			shooters[i], err = svc.CreateShooter(ctx, model.ShooterInput{Name: fmt.Sprintf("Shooter %02d", i)})
			So(err, ShouldBeNil)
		}

		var wg sync.WaitGroup
		errs := make(chan error, len(shooters)+8)
		for _, sh := range shooters {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := svc.CreateResult(ctx, model.ResultInput{EventID: ev.ID, ShooterID: id, TargetsHit: 10})
				errs <- err
			}(sh.ID)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range []int{40, 20, 40, 20, 40, 20, 40, 20} {
				_, err := svc.UpdateEvent(ctx, ev.ID, model.EventPatch{TotalTargets: ptr(n)})
				errs <- err
			}
		}()
		wg.Wait()
		close(errs)

		Convey("Then every result is scored against the final target count", func() {
			for err := range errs {
				So(err, ShouldBeNil)
			}
			results, err := svc.ListResults(ctx, service.ResultFilter{EventID: ev.ID})
			So(err, ShouldBeNil)
			So(len(results), ShouldEqual, len(shooters))
			for _, r := range results {
				So(r.Effectiveness, ShouldEqual, 50.0)
				So(r.WeightedEffectiveness, ShouldEqual, 50.0)
			}
		})
	})
}

func TestService_Ranking(t *testing.T) {
	Convey("Given a shooter with two official and two internal results in 2024", t, func() {
		ctx := context.Background()
		svc := newService(t)
		Reset(svc.Stop)

		ana, _ := svc.CreateShooter(ctx, model.ShooterInput{Name: "Ana"})
		ben, _ := svc.CreateShooter(ctx, model.ShooterInput{Name: "Ben"})
		mk := func(name, date string, typ model.EventType, targets int) model.Event {
			ev, err := svc.CreateEvent(ctx, model.EventInput{Name: name, Date: date, Type: typ, TotalTargets: targets})
			So(err, ShouldBeNil)
			return ev
		}
		o1 := mk("O1", "2024-03-01", model.EventOfficial, 20)
		o2 := mk("O2", "2024-04-01", model.EventOfficial, 20)
		i1 := mk("I1", "2024-05-01", model.EventInternal, 25)
		i2 := mk("I2", "2024-06-01", model.EventInternal, 25)
		old := mk("Old", "2023-06-01", model.EventOfficial, 10)

		for _, in := range []model.ResultInput{
			{EventID: o1.ID, ShooterID: ana.ID, TargetsHit: 18},
			{EventID: o2.ID, ShooterID: ana.ID, TargetsHit: 18},
			{EventID: i1.ID, ShooterID: ana.ID, TargetsHit: 25},
			{EventID: i2.ID, ShooterID: ana.ID, TargetsHit: 25},
			{EventID: old.ID, ShooterID: ana.ID, TargetsHit: 0},
			{EventID: o1.ID, ShooterID: ben.ID, TargetsHit: 20},
			{EventID: i1.ID, ShooterID: ben.ID, TargetsHit: 25},
			{EventID: i2.ID, ShooterID: ben.ID, TargetsHit: 25},
		} {
			_, err := svc.CreateResult(ctx, in)
			So(err, ShouldBeNil)
		}

		Convey("When the 2024 ranking is requested", func() {
			st, err := svc.Ranking(ctx, 2024)
			So(err, ShouldBeNil)

			Convey("Then the qualifier leads with the expected averages", func() {
				So(len(st.Rows), ShouldEqual, 2)
				top := st.Rows[0]
				So(top.Shooter.ID, ShouldEqual, ana.ID)
				So(top.Rank, ShouldEqual, 1)
				So(top.Leader, ShouldBeTrue)
				So(top.AverageEffectiveness, ShouldAlmostEqual, 95.0, 1e-9)
				So(top.WeightedAverage, ShouldAlmostEqual, 75.0, 1e-9)
				So(top.Category, ShouldEqual, ranking.Advanced)
				So(top.TotalEvents, ShouldEqual, 4)
			})

			Convey("Then one official event is not enough to qualify", func() {
				second := st.Rows[1]
				So(second.Shooter.ID, ShouldEqual, ben.ID)
				So(second.Qualifies, ShouldBeFalse)
				So(second.Rank, ShouldEqual, 0)
				So(second.Category, ShouldEqual, ranking.Unclassified)
			})

			Convey("Then the 2023 result is left out", func() {
				for _, r := range st.Rows[0].Results {
					So(r.EventID, ShouldNotEqual, old.ID)
				}
			})
		})

		Convey("When an event is retyped", func() {
			_, err := svc.UpdateEvent(ctx, o2.ID, model.EventPatch{Type: ptr(model.EventInternal)})
			So(err, ShouldBeNil)

			Convey("Then the next ranking reflects it", func() {
				st, err := svc.Ranking(ctx, 2024)
				So(err, ShouldBeNil)
				So(st.Rows[0].Qualifies, ShouldBeFalse)
				So(st.Qualified, ShouldEqual, 0)
			})
		})

		Convey("When the shooter is deactivated", func() {
			_, err := svc.DeactivateShooter(ctx, ana.ID)
			So(err, ShouldBeNil)

			Convey("Then they drop out of the ranking", func() {
				st, _ := svc.Ranking(ctx, 2024)
				So(len(st.Rows), ShouldEqual, 1)
				So(st.Rows[0].Shooter.ID, ShouldEqual, ben.ID)
			})
		})

		Convey("When the seasons are listed", func() {
			seasons, err := svc.Seasons(ctx)

			Convey("Then they are newest first", func() {
				So(err, ShouldBeNil)
				So(seasons.Current, ShouldEqual, 2024)
				So(seasons.Seasons, ShouldResemble, []int{2024, 2023})
			})
		})

		Convey("When all seasons are ranked", func() {
			st, err := svc.Ranking(ctx, ranking.AllSeasons)

			Convey("Then the 2023 result counts", func() {
				So(err, ShouldBeNil)
				So(st.Rows[0].Shooter.ID, ShouldEqual, ana.ID)
				So(st.Rows[0].TotalEvents, ShouldEqual, 5)
			})
		})

		Convey("When stats are read", func() {
			stats, err := svc.GetStats(ctx)

			Convey("Then they count every record", func() {
				So(err, ShouldBeNil)
				So(stats, ShouldResemble, types.Stats{
					Shooters: 2, ActiveShooters: 2, Events: 5, Results: 8,
					CurrentSeason: 2024, StorageDriver: "memory", Uptime: "0s",
					WritesInFlight: 0,
				})
			})
		})
	})
}

func TestService_Sessions(t *testing.T) {
	Convey("Given a service with an admin account", t, func() {
		ctx := context.Background()
		svc := newService(t)
		Reset(svc.Stop)

		Convey("When the admin signs in", func() {
			sess, err := svc.SignIn(ctx, types.LoginRequest{Email: adminEmail, Password: adminPassword})
			So(err, ShouldBeNil)

			Convey("Then the session can be inspected and closed", func() {
				info, err := svc.Session(ctx, sess.Token)
				So(err, ShouldBeNil)
				So(info.Email, ShouldEqual, adminEmail)

				So(svc.SignOut(ctx, sess.Token), ShouldBeNil)
				_, err = svc.Session(ctx, sess.Token)
				So(errors.Is(err, service.ErrUnauthorized), ShouldBeTrue)
			})
		})

		Convey("When the password is wrong", func() {
			_, err := svc.SignIn(ctx, types.LoginRequest{Email: adminEmail, Password: "nope"})
			So(errors.Is(err, service.ErrInvalidCredentials), ShouldBeTrue)
		})

		Convey("When the request is incomplete", func() {
			_, err := svc.SignIn(ctx, types.LoginRequest{Email: "not-an-email"})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})
	})
}
