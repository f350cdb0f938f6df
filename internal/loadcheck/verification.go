package loadcheck

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/tagtrend/internal/domain/model"
)

// VerifyReport checks a single report against the invariants every
// response must hold. All violations are returned joined, each wrapping
// ErrVerification.
func VerifyReport(rep model.Report, maxTags int) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrVerification}, args...)...))
	}

	if maxTags > 0 && len(rep.Tags) > maxTags {
		fail("%d tags returned, want at most %d", len(rep.Tags), maxTags)
	}
	if rep.TotalRowsProcessed < 0 {
		fail("negative total_rows_processed %d", rep.TotalRowsProcessed)
	}

	for i, tag := range rep.Tags {
		if len(tag.Data) != len(rep.Years) {
			fail("tag %q has %d values for %d years", tag.Name, len(tag.Data), len(rep.Years))
		}
		for _, v := range tag.Data {
			if v < 0 {
				fail("tag %q has negative share %.2f", tag.Name, v)
				break
			}
		}
		if i > 0 && tag.Average > rep.Tags[i-1].Average {
			fail("tag %q (%.2f) ranked below %q (%.2f)", tag.Name, tag.Average, rep.Tags[i-1].Name, rep.Tags[i-1].Average)
		}
	}

	for yi, year := range rep.Years {
		sum := 0.0
		for _, tag := range rep.Tags {
			if yi < len(tag.Data) {
				sum += tag.Data[yi]
			}
		}
		total, ok := rep.TotalQuestions[year]
		switch {
		case !ok:
			fail("no total for year %d", year)
		case total == 0 && sum != 0:
			fail("year %d has zero total but shares summing to %.2f", year, sum)
		case total > 0 && math.Abs(sum-percentTotal) > percentTolerance*float64(max(1, len(rep.Tags))):
			fail("year %d shares sum to %.2f, want %.0f", year, sum, percentTotal)
		}
	}

	return errors.Join(errs...)
}

// verifyConsistency checks that reports computed from the same file agree
// on everything that does not depend on randomness.
func verifyConsistency(reports []model.Report) error {
	if len(reports) < 2 {
		return nil
	}
	first := reports[0]
	for i, rep := range reports[1:] {
		if rep.TotalRowsProcessed != first.TotalRowsProcessed {
			return fmt.Errorf("%w: report %d processed %d rows, report 0 processed %d",
				ErrVerification, i+1, rep.TotalRowsProcessed, first.TotalRowsProcessed)
		}
		if len(rep.Tags) != len(first.Tags) {
			return fmt.Errorf("%w: report %d has %d tags, report 0 has %d",
				ErrVerification, i+1, len(rep.Tags), len(first.Tags))
		}
	}
	return nil
}
