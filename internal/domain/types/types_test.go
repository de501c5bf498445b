package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/contest/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntry(t *testing.T) {
	Convey("Given an Entry struct", t, func() {
		Convey("When creating a new entry", func() {
			entry := types.Entry{
				Rank:       1,
				Contestant: "Alice",
				Total:      39,
			}

			Convey("Then it should have the correct values", func() {
				So(entry.Rank, ShouldEqual, 1)
				So(entry.Contestant, ShouldEqual, "Alice")
				So(entry.Total, ShouldEqual, 39.0)
			})
		})

		Convey("When creating an entry with zero values", func() {
			entry := types.Entry{}

			Convey("Then it should have default values", func() {
				So(entry.Rank, ShouldEqual, 0)
				So(entry.Contestant, ShouldEqual, "")
				So(entry.Total, ShouldEqual, 0.0)
			})
		})

		Convey("When encoding to JSON", func() {
			b, err := json.Marshal(types.Entry{Rank: 2, Contestant: "Bob", Total: 2.31})

			Convey("Then it should use snake case field names", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"rank":2,"contestant":"Bob","total":2.31}`)
			})
		})
	})
}
