package report

import "github.com/shopspring/decimal"

const fulfillmentFulfilled = "fulfilled"

// Aggregate folds every store's enriched orders into a global summary and one
// stat row per configured store, zeroed rows included. The table preserves
// the roster order of results.
//
// Counters are non-exclusive. An order that is both cancelled and partially
// refunded adds its total to LostAmount twice: the upstream treats those as
// independent signals and this keeps both visible rather than silently
// deduplicating them. Revenue is gross; cancellations and refunds do not
// subtract from it.
func Aggregate(results []StoreOrders) (Summary, []StoreStat) {
	var (
		totalOrders     int
		totalRevenue    = decimal.Zero
		ordersToFulfill int
	)

	table := make([]StoreStat, 0, len(results))

	for _, sr := range results {
		stat := StoreStat{
			StoreID:    sr.Store.ID,
			Name:       sr.Store.Name,
			Revenue:    decimal.Zero,
			LostAmount: decimal.Zero,
		}

		for _, order := range sr.Orders {
			total := ParseAmount(order.TotalPrice)

			stat.TotalOrders++
			stat.Revenue = stat.Revenue.Add(total)

			if order.FulfillmentStatus == fulfillmentFulfilled {
				stat.Fulfilled++
			} else {
				ordersToFulfill++
			}
			if order.FinancialStatus == "partially_refunded" {
				stat.PartiallyRefunded++
				stat.LostAmount = stat.LostAmount.Add(total)
			}
			if order.FinancialStatus == "refunded" {
				stat.FullyRefunded++
			}
			if order.CancelledAt != nil {
				stat.Cancelled++
				stat.LostAmount = stat.LostAmount.Add(total)
			}
		}

		totalOrders += stat.TotalOrders
		totalRevenue = totalRevenue.Add(stat.Revenue)
		table = append(table, stat)
	}

	summary := Summary{
		TotalOrders:     totalOrders,
		TotalRevenue:    totalRevenue.StringFixed(2),
		OrdersToFulfill: ordersToFulfill,
	}

	return summary, table
}
