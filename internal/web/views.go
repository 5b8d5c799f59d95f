package web

import "gradebook/internal/records"

// resultView decorates a stored result with its derived percentage.
type resultView struct {
	records.Result
	Percentage string `json:"percentage"`
}

func viewResult(res records.Result) resultView {
	return resultView{Result: res, Percentage: res.Percentage().StringFixed(2)}
}

func viewResults(results []records.Result) []resultView {
	views := make([]resultView, 0, len(results))
	for _, res := range results {
		views = append(views, viewResult(res))
	}
	return views
}
