package catalog

// Anomaly describes a record that was excluded because its data is
// malformed. Callers log these; they never abort a query.
type Anomaly struct {
	ID     string
	Reason string
}

const (
	reasonNegativePrice  = "negative price"
	reasonNegativeStock  = "negative stock quantity"
	reasonNegativeRating = "negative rating"
)

func validate(a Attributes) (string, bool) {
	if a.Price.IsNegative() {
		return reasonNegativePrice, false
	}
	if a.StockQuantity < 0 {
		return reasonNegativeStock, false
	}
	if a.Rating < 0 {
		return reasonNegativeRating, false
	}
	return "", true
}

// Filter returns the ordered sub-sequence of items accepted by the criteria,
// together with the malformed items it skipped. The input is not modified.
func Filter[T Item](items []T, c Criteria) ([]T, []Anomaly) {
	accept := Compose(c)
	out := make([]T, 0, len(items))
	var anomalies []Anomaly

	for _, item := range items {
		attrs := item.Attributes()
		if reason, ok := validate(attrs); !ok {
			anomalies = append(anomalies, Anomaly{ID: attrs.ID, Reason: reason})
			continue
		}
		if accept(attrs) {
			out = append(out, item)
		}
	}
	return out, anomalies
}
