package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/internal/domain/ranking"
	"github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"
)

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the clubctl root command", t, func() {
		root := newRootCmd()

		convey.Convey("Then it exposes the operator subcommands", func() {
			names := []string{}
			for _, c := range root.Commands() {
				names = append(names, c.Name())
			}
			convey.So(names, convey.ShouldContain, "hash-password")
			convey.So(names, convey.ShouldContain, "seed")
			convey.So(names, convey.ShouldContain, "ranking")
		})
	})
}

func TestHashPassword(t *testing.T) {
	convey.Convey("Given the hash-password command", t, func() {
		root := newRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)

		convey.Convey("When the password comes from stdin", func() {
			root.SetIn(strings.NewReader("club-admin\n"))
			root.SetArgs([]string{"hash-password"})

			convey.Convey("Then it prints a matching bcrypt hash", func() {
				convey.So(root.Execute(), convey.ShouldBeNil)
				hash := strings.TrimSpace(out.String())
				convey.So(bcrypt.CompareHashAndPassword([]byte(hash), []byte("club-admin")), convey.ShouldBeNil)
			})
		})
	})
}

func TestParseSeasonFlag(t *testing.T) {
	convey.Convey("Given season flag values", t, func() {
		s, err := parseSeasonFlag("ALL")
		convey.So(err, convey.ShouldBeNil)
		convey.So(s, convey.ShouldEqual, ranking.AllSeasons)

		s, err = parseSeasonFlag("2024")
		convey.So(err, convey.ShouldBeNil)
		convey.So(s, convey.ShouldEqual, 2024)

		_, err = parseSeasonFlag("next")
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestPrintStandings(t *testing.T) {
	convey.Convey("Given standings with a leader and a non-qualifier", t, func() {
		st := ranking.NewStandings(2024, []ranking.Entry{
			{Shooter: model.Shooter{ID: "a", Name: "Ana"}, TotalEvents: 4, OfficialEvents: 2,
				AverageEffectiveness: 95, WeightedAverage: 75, Category: ranking.Advanced, Qualifies: true},
			{Shooter: model.Shooter{ID: "b", Name: "Ben"}, TotalEvents: 1, OfficialEvents: 1,
				AverageEffectiveness: 100, WeightedAverage: 100, Category: ranking.Unclassified},
		})
		var out bytes.Buffer

		convey.So(printStandings(&out, st), convey.ShouldBeNil)

		convey.Convey("Then the table marks rank and leader", func() {
			text := out.String()
			convey.So(text, convey.ShouldContainSubstring, "season 2024: 1 of 2 qualified")
			convey.So(text, convey.ShouldContainSubstring, "Ana *")
			convey.So(text, convey.ShouldContainSubstring, "75.00")
			convey.So(text, convey.ShouldContainSubstring, "unclassified")
		})
	})
}
