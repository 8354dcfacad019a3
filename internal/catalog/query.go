package catalog

// Query bundles everything one listing request asks of the engine.
type Query struct {
	Criteria Criteria
	Sort     SortKey
	Page     int
	PageSize int
}

// Result is the page shown to the caller plus the records skipped as
// malformed while filtering.
type Result[T any] struct {
	Page[T]
	Anomalies []Anomaly
}

// Run executes filter, sort and paginate in that order.
func Run[T Item](items []T, q Query) Result[T] {
	matched, anomalies := Filter(items, q.Criteria)
	sorted := Sort(matched, q.Sort)
	return Result[T]{
		Page:      Paginate(sorted, q.Page, q.PageSize),
		Anomalies: anomalies,
	}
}
