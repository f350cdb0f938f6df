package model

// TagTrend is one tag's share of the yearly totals.
type TagTrend struct {
	Name    string    `json:"name"`
	Data    []float64 `json:"data"`    // percentage per year, chronological
	Average float64   `json:"average"` // mean of Data, two decimals
}

// Report is the payload served by GET /api/data.
type Report struct {
	Years              []int       `json:"years"`
	Tags               []TagTrend  `json:"tags"`
	TotalQuestions     map[int]int `json:"total_questions"`
	TotalRowsProcessed int         `json:"total_rows_processed"`
}
