// Package report turns synthetic tag series into yearly percentage shares.
package report

import (
	"math"
	"sort"

	"github.com/okian/tagtrend/internal/domain/model"
)

// Series is one tag's synthetic values, aligned with the report years.
type Series struct {
	Name   string
	Values []int
}

// Build normalizes each year's values into percentages of that year's
// total and ranks the tags by their average share. A year whose total is
// zero gives every tag 0 for that year.
func Build(years []int, series []Series, rowsProcessed int) model.Report {
	totals := make([]int, len(years))
	for _, s := range series {
		for i := range years {
			totals[i] += valueAt(s, i)
		}
	}

	tags := make([]model.TagTrend, 0, len(series))
	for _, s := range series {
		data := make([]float64, len(years))
		sum := 0.0
		for i := range years {
			data[i] = Percent(valueAt(s, i), totals[i])
			sum += data[i]
		}
		avg := 0.0
		if len(data) > 0 {
			avg = Round2(sum / float64(len(data)))
		}
		tags = append(tags, model.TagTrend{Name: s.Name, Data: data, Average: avg})
	}

	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Average > tags[j].Average
	})

	totalQuestions := make(map[int]int, len(years))
	for i, y := range years {
		totalQuestions[y] = totals[i]
	}

	return model.Report{
		Years:              append([]int(nil), years...),
		Tags:               tags,
		TotalQuestions:     totalQuestions,
		TotalRowsProcessed: rowsProcessed,
	}
}

// Percent returns v as a share of total, in percent with two decimals.
func Percent(v, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(v) / float64(total) * 100)
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func valueAt(s Series, i int) int {
	if i < len(s.Values) {
		return s.Values[i]
	}
	return 0
}
