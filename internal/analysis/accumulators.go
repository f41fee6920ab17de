package analysis

import (
	"maps"
	"slices"
	"time"

	"github.com/Veraticus/salesflow/internal/model"
)

type salesAcc struct {
	total float64
	count int
}

func addSale(a salesAcc, tx model.Transaction) salesAcc {
	a.total += tx.Amount
	a.count++
	return a
}

type productAcc struct {
	revenue  float64
	quantity int
}

func addProduct(a productAcc, tx model.Transaction) productAcc {
	a.quantity += tx.Quantity
	a.revenue += tx.Amount
	return a
}

type customerAcc struct {
	products map[string]struct{}
	spent    float64
	count    int
}

func newCustomerAcc() customerAcc {
	return customerAcc{products: make(map[string]struct{})}
}

func addPurchase(a customerAcc, tx model.Transaction) customerAcc {
	a.spent += tx.Amount
	a.count++
	a.products[tx.ProductName] = struct{}{}
	return a
}

func (a customerAcc) productNames() []string {
	return slices.Sorted(maps.Keys(a.products))
}

type dayAcc struct {
	date      time.Time
	customers map[string]struct{}
	revenue   float64
	count     int
}

func newDayAcc() dayAcc {
	return dayAcc{customers: make(map[string]struct{})}
}

func addDaySale(a dayAcc, tx model.Transaction) dayAcc {
	if a.count == 0 {
		a.date = tx.Date
	}
	a.revenue += tx.Amount
	a.count++
	a.customers[tx.CustomerID] = struct{}{}
	return a
}
