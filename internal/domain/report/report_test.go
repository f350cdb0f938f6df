package report_test

import (
	"testing"

	"github.com/okian/tagtrend/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	years := []int{2023, 2024, 2025}

	Convey("Given series for three tags", t, func() {
		series := []report.Series{
			{Name: "java", Values: []int{10, 10, 10}},
			{Name: "python", Values: []int{30, 60, 10}},
			{Name: "go", Values: []int{60, 30, 0}},
		}

		Convey("When building the report", func() {
			rep := report.Build(years, series, 42)

			Convey("Then totals and row count should be carried over", func() {
				So(rep.Years, ShouldResemble, years)
				So(rep.TotalRowsProcessed, ShouldEqual, 42)
				So(rep.TotalQuestions, ShouldResemble, map[int]int{2023: 100, 2024: 100, 2025: 20})
			})

			Convey("Then tags should be sorted by average share", func() {
				So(len(rep.Tags), ShouldEqual, 3)
				So(rep.Tags[0].Name, ShouldEqual, "python")
				So(rep.Tags[0].Data, ShouldResemble, []float64{30, 60, 50})
				So(rep.Tags[0].Average, ShouldEqual, 46.67)
				So(rep.Tags[1].Name, ShouldEqual, "go")
				So(rep.Tags[1].Data, ShouldResemble, []float64{60, 30, 0})
				So(rep.Tags[1].Average, ShouldEqual, 30)
				So(rep.Tags[2].Name, ShouldEqual, "java")
				So(rep.Tags[2].Data, ShouldResemble, []float64{10, 10, 50})
				So(rep.Tags[2].Average, ShouldEqual, 23.33)
			})

			Convey("Then every year's percentages should sum to 100", func() {
				for i := range years {
					sum := 0.0
					for _, tag := range rep.Tags {
						sum += tag.Data[i]
					}
					So(sum, ShouldAlmostEqual, 100, 0.05)
				}
			})
		})
	})

	Convey("Given a year where every tag is zero", t, func() {
		series := []report.Series{
			{Name: "a", Values: []int{5, 0, 1}},
			{Name: "b", Values: []int{5, 0, 3}},
		}

		Convey("When building the report", func() {
			rep := report.Build(years, series, 2)

			Convey("Then that year should be all zeros", func() {
				So(rep.TotalQuestions[2024], ShouldEqual, 0)
				for _, tag := range rep.Tags {
					So(tag.Data[1], ShouldEqual, 0)
				}
			})
		})
	})

	Convey("Given equal averages", t, func() {
		series := []report.Series{
			{Name: "first", Values: []int{1, 1, 1}},
			{Name: "second", Values: []int{1, 1, 1}},
		}

		Convey("Then the input order should be kept", func() {
			rep := report.Build(years, series, 0)
			So(rep.Tags[0].Name, ShouldEqual, "first")
			So(rep.Tags[1].Name, ShouldEqual, "second")
		})
	})

	Convey("Given no series", t, func() {
		rep := report.Build(years, nil, 0)

		Convey("Then the report should have no tags and zero totals", func() {
			So(rep.Tags, ShouldBeEmpty)
			So(rep.TotalQuestions[2023], ShouldEqual, 0)
		})
	})
}

func TestPercent(t *testing.T) {
	Convey("Given values and totals", t, func() {
		So(report.Percent(1, 3), ShouldEqual, 33.33)
		So(report.Percent(2, 3), ShouldEqual, 66.67)
		So(report.Percent(5, 0), ShouldEqual, 0)
		So(report.Round2(12.345678), ShouldEqual, 12.35)
	})
}
