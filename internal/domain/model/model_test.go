package model_test

import (
	"errors"
	"testing"

	"github.com/okian/clubrank/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func ptr[T any](v T) *T { return &v }

func TestShooterValidation(t *testing.T) {
	convey.Convey("Given shooter inputs", t, func() {
		convey.Convey("When the input is complete", func() {
			in := model.ShooterInput{Name: "  Ana Ruiz ", Email: "ana@example.com"}
			in.Normalize()

			convey.Convey("Then it validates and is trimmed", func() {
				convey.So(model.Validate(in), convey.ShouldBeNil)
				convey.So(in.Name, convey.ShouldEqual, "Ana Ruiz")
			})
		})

		convey.Convey("When the name is missing and the email is malformed", func() {
			err := model.Validate(model.ShooterInput{Email: "not-an-email"})

			convey.Convey("Then both fields are reported under their json names", func() {
				convey.So(errors.Is(err, model.ErrInvalidInput), convey.ShouldBeTrue)
				var ve *model.ValidationError
				convey.So(errors.As(err, &ve), convey.ShouldBeTrue)
				convey.So(ve.Fields["name"], convey.ShouldEqual, "required")
				convey.So(ve.Fields["email"], convey.ShouldEqual, "email")
			})
		})

		convey.Convey("When a patch clears the email and deactivates", func() {
			p := model.ShooterPatch{Email: ptr(""), Active: ptr(false)}
			s := p.Apply(model.Shooter{Name: "Ana", Email: "ana@example.com", Active: true})

			convey.Convey("Then the patch is valid and applied", func() {
				convey.So(model.Validate(p), convey.ShouldBeNil)
				convey.So(s.Email, convey.ShouldEqual, "")
				convey.So(s.Active, convey.ShouldBeFalse)
				convey.So(s.Name, convey.ShouldEqual, "Ana")
			})
		})

		convey.Convey("When a patch replaces the email with a malformed one", func() {
			err := model.Validate(model.ShooterPatch{Email: ptr("ana at club")})

			convey.Convey("Then the email field is reported", func() {
				var ve *model.ValidationError
				convey.So(errors.As(err, &ve), convey.ShouldBeTrue)
				convey.So(ve.Fields["email"], convey.ShouldEqual, "email")
			})
		})

		convey.Convey("When a patch replaces the email with a padded valid one", func() {
			convey.So(model.Validate(model.ShooterPatch{Email: ptr(" ana@club.test ")}), convey.ShouldBeNil)
		})

		convey.Convey("When a patch sets an empty name", func() {
			err := model.Validate(model.ShooterPatch{Name: ptr("")})

			convey.Convey("Then it is rejected", func() {
				convey.So(errors.Is(err, model.ErrInvalidInput), convey.ShouldBeTrue)
			})
		})
	})
}

func TestEventValidation(t *testing.T) {
	convey.Convey("Given event inputs", t, func() {
		convey.Convey("When season is omitted", func() {
			in := model.EventInput{Name: "Spring Open", Date: "2024-04-13", Type: model.EventOfficial, TotalTargets: 25}
			in.Normalize()

			convey.Convey("Then it is taken from the date", func() {
				convey.So(model.Validate(in), convey.ShouldBeNil)
				convey.So(in.Season, convey.ShouldEqual, 2024)
			})
		})

		convey.Convey("When type, date and target count are bad", func() {
			err := model.Validate(model.EventInput{Name: "x", Date: "13/04/2024", Type: "friendly", TotalTargets: 0})

			convey.Convey("Then each is reported", func() {
				var ve *model.ValidationError
				convey.So(errors.As(err, &ve), convey.ShouldBeTrue)
				convey.So(ve.Fields, convey.ShouldContainKey, "date")
				convey.So(ve.Fields["type"], convey.ShouldEqual, "oneof")
				convey.So(ve.Fields["total_targets"], convey.ShouldEqual, "min")
			})
		})

		convey.Convey("When a patch changes only the name", func() {
			current := model.Event{Type: model.EventOfficial, TotalTargets: 25}
			p := model.EventPatch{Name: ptr("Renamed")}

			convey.Convey("Then scoring is unaffected", func() {
				convey.So(p.AffectsScoring(current), convey.ShouldBeFalse)
				convey.So(p.Apply(current).Name, convey.ShouldEqual, "Renamed")
			})
		})

		convey.Convey("When a patch changes type or targets", func() {
			current := model.Event{Type: model.EventOfficial, TotalTargets: 25}

			convey.Convey("Then scoring is affected", func() {
				convey.So(model.EventPatch{Type: ptr(model.EventInternal)}.AffectsScoring(current), convey.ShouldBeTrue)
				convey.So(model.EventPatch{TotalTargets: ptr(50)}.AffectsScoring(current), convey.ShouldBeTrue)
				convey.So(model.EventPatch{TotalTargets: ptr(25)}.AffectsScoring(current), convey.ShouldBeFalse)
			})
		})
	})
}

func TestResultValidation(t *testing.T) {
	convey.Convey("Given result inputs", t, func() {
		convey.So(model.Validate(model.ResultInput{EventID: "e1", ShooterID: "s1", TargetsHit: 0}), convey.ShouldBeNil)
		convey.So(errors.Is(model.Validate(model.ResultInput{EventID: "e1", ShooterID: "s1", TargetsHit: -1}), model.ErrInvalidInput), convey.ShouldBeTrue)
		convey.So(errors.Is(model.Validate(model.ResultPatch{TargetsHit: ptr(-3)}), model.ErrInvalidInput), convey.ShouldBeTrue)

		r := model.ResultPatch{TargetsHit: ptr(20)}.Apply(model.Result{EventID: "e1", ShooterID: "s1", TargetsHit: 10})
		convey.So(r.TargetsHit, convey.ShouldEqual, 20)
		convey.So(r.PairKey(), convey.ShouldEqual, "e1/s1")
	})
}

func TestEventType(t *testing.T) {
	convey.Convey("Given event types", t, func() {
		convey.So(model.EventOfficial.Valid(), convey.ShouldBeTrue)
		convey.So(model.EventInternal.Valid(), convey.ShouldBeTrue)
		convey.So(model.EventType("friendly").Valid(), convey.ShouldBeFalse)
		convey.So(model.SeasonOf("2023-11-02"), convey.ShouldEqual, 2023)
		convey.So(model.SeasonOf("garbage"), convey.ShouldEqual, 0)
	})
}
