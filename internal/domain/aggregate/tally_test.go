package aggregate_test

import (
	"testing"

	"github.com/okian/tagtrend/internal/domain/aggregate"
	"github.com/okian/tagtrend/internal/domain/model"
	"github.com/okian/tagtrend/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTally(t *testing.T) {
	Convey("Given a tally fed with the sample records", t, func() {
		tally := aggregate.NewTally()
		tally.AddRecords([]model.Record{
			{Date: "2023-01-01", Tags: "python, java", Title: "A"},
			{Date: "2023-01-02", Tags: "python", Title: "B"},
			{Date: "2023-01-03", Tags: "", Title: "C"},
		})

		Convey("Then rows and counts should match the input", func() {
			So(tally.Rows(), ShouldEqual, 3)
			So(tally.Distinct(), ShouldEqual, 2)
			n, ok := tally.Count("python")
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, 2)
			n, _ = tally.Count("java")
			So(n, ShouldEqual, 1)
		})

		Convey("Then the ranking should be by count", func() {
			So(tally.Ranked(), ShouldResemble, []types.TagCount{
				{Rank: 1, Tag: "python", Count: 2},
				{Rank: 2, Tag: "java", Count: 1},
			})
		})

		Convey("When asking for an unknown tag", func() {
			_, ok := tally.Rank("cobol")
			_, counted := tally.Count("cobol")

			Convey("Then it should not be found", func() {
				So(ok, ShouldBeFalse)
				So(counted, ShouldBeFalse)
			})
		})
	})

	Convey("Given tags with equal counts", t, func() {
		tally := aggregate.NewTally()
		tally.Add([]string{"zig", "ada"})
		tally.Add([]string{"go"})
		tally.Add([]string{"go", "ada", "zig", "nim"})

		Convey("When ranking", func() {
			ranked := tally.Ranked()

			Convey("Then ties should keep first-encountered order", func() {
				So(len(ranked), ShouldEqual, 4)
				So(ranked[0].Tag, ShouldEqual, "zig")
				So(ranked[1].Tag, ShouldEqual, "ada")
				So(ranked[2].Tag, ShouldEqual, "go")
				So(ranked[3].Tag, ShouldEqual, "nim")
				So(ranked[3].Rank, ShouldEqual, 4)
			})
		})

		Convey("When taking the top entries", func() {
			So(len(tally.Top(2)), ShouldEqual, 2)
			So(len(tally.Top(10)), ShouldEqual, 4)
			So(tally.Top(0), ShouldBeEmpty)
		})

		Convey("When looking up the rank of a tag", func() {
			tc, ok := tally.Rank("go")

			Convey("Then it should report its position and count", func() {
				So(ok, ShouldBeTrue)
				So(tc, ShouldResemble, types.TagCount{Rank: 3, Tag: "go", Count: 2})
			})
		})
	})

	Convey("Given a tag repeated inside one record", t, func() {
		tally := aggregate.NewTally()
		tally.AddRecords([]model.Record{{Tags: "go, go,,", Title: "dup"}})

		Convey("Then each non-empty token should be counted", func() {
			n, _ := tally.Count("go")
			So(n, ShouldEqual, 2)
			_, empty := tally.Count("")
			So(empty, ShouldBeFalse)
			So(tally.Rows(), ShouldEqual, 1)
		})
	})
}
