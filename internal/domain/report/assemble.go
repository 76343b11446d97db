package report

// Assemble packages the summary, the store table and, unless the caller asked
// for the lighter table-only mode, the full enriched order list in roster
// order.
func Assemble(results []StoreOrders, includeOrders bool) *Report {
	summary, table := Aggregate(results)

	r := &Report{
		Summary:    summary,
		StoreTable: table,
	}

	if includeOrders {
		var orders []EnrichedOrder
		for _, sr := range results {
			orders = append(orders, sr.Orders...)
		}
		r.Orders = orders
	}

	return r
}
