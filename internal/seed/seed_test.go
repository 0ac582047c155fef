package seed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/clubrank/internal/adapters/http/api"
	"github.com/okian/clubrank/internal/adapters/repository"
	service "github.com/okian/clubrank/internal/app"
	"github.com/okian/clubrank/internal/auth"
	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/internal/domain/ranking"
	"github.com/okian/clubrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"
)

func newClubServer(t *testing.T) *httptest.Server {
	hash, err := bcrypt.GenerateFromPassword([]byte("seed-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	a, err := auth.New("admin@club.test", string(hash), "seed-secret")
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	svc := service.New(
		service.WithLogger(logger.Nop()),
		service.WithStore(repository.NewMemoryStore()),
		service.WithAuthenticator(a),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		svc.Stop()
	})
	return srv
}

func TestNewPlan(t *testing.T) {
	Convey("Given a plan for twelve shooters", t, func() {
		p := NewPlan(2024, 12)

		Convey("Then every hit count fits its event", func() {
			for i, row := range p.Hits {
				for j, h := range row {
					So(h, ShouldBeLessThanOrEqualTo, p.Events[j].TotalTargets)
					if i%3 != 2 {
						So(h, ShouldBeGreaterThanOrEqualTo, 0)
					}
				}
			}
		})

		Convey("Then events fall in the season", func() {
			for _, ev := range p.Events {
				So(model.SeasonOf(ev.Date), ShouldEqual, 2024)
			}
		})

		Convey("Then it is deterministic", func() {
			So(NewPlan(2024, 12), ShouldResemble, p)
			So(p.Results(), ShouldEqual, 8*7+4*4)
		})

		Convey("Then names stay readable past the name list", func() {
			big := NewPlan(2024, 20)
			So(big.Shooters[16].Name, ShouldEqual, "Ana 2")
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given well-formed standings", t, func() {
		entries := []ranking.Entry{
			{Shooter: model.Shooter{ID: "a"}, WeightedAverage: 82, Category: ranking.Master, Qualifies: true},
			{Shooter: model.Shooter{ID: "b"}, WeightedAverage: 70, Category: ranking.Advanced, Qualifies: true},
			{Shooter: model.Shooter{ID: "c"}, WeightedAverage: 90, Category: ranking.Unclassified},
		}
		st := ranking.NewStandings(2024, entries)
		So(Verify(st), ShouldBeNil)

		Convey("When a non-qualifier leads", func() {
			st.Rows[0], st.Rows[2] = st.Rows[2], st.Rows[0]
			So(errors.Is(Verify(st), ErrInvariant), ShouldBeTrue)
		})

		Convey("When ranks skip", func() {
			st.Rows[1].Rank = 3
			So(errors.Is(Verify(st), ErrInvariant), ShouldBeTrue)
		})

		Convey("When scores rise among qualifiers", func() {
			st.Rows[1].WeightedAverage = 85
			So(errors.Is(Verify(st), ErrInvariant), ShouldBeTrue)
		})

		Convey("When a category does not match the score", func() {
			st.Rows[1].Category = ranking.Beginner
			So(errors.Is(Verify(st), ErrInvariant), ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running club service", t, func() {
		srv := newClubServer(t)
		cfg := Config{
			BaseURL:  srv.URL,
			Email:    "admin@club.test",
			Password: "seed-pass",
			Season:   2024,
			Shooters: 9,
			Workers:  3,
			Timeout:  5 * time.Second,
		}

		Convey("When the club is seeded", func() {
			report, err := Run(context.Background(), cfg, logger.Nop())

			Convey("Then the ranking verifies", func() {
				So(err, ShouldBeNil)
				So(report.Shooters, ShouldEqual, 9)
				So(report.Events, ShouldEqual, 7)
				So(report.Results, ShouldEqual, 6*7+3*4)
				So(report.Qualified, ShouldEqual, 6)
			})

			Convey("Then the ranking can be fetched anonymously", func() {
				st, err := NewClient(srv.URL, time.Second).Ranking(context.Background(), ranking.AllSeasons)
				So(err, ShouldBeNil)
				So(len(st.Rows), ShouldEqual, 9)
				So(Verify(st), ShouldBeNil)
			})
		})

		Convey("When the password is wrong", func() {
			cfg.Password = "nope"
			_, err := Run(context.Background(), cfg, logger.Nop())

			Convey("Then the API error surfaces", func() {
				var apiErr *APIError
				So(errors.As(err, &apiErr), ShouldBeTrue)
				So(apiErr.Status, ShouldEqual, http.StatusUnauthorized)
				So(errors.Is(err, ErrRequest), ShouldBeTrue)
			})
		})
	})
}
