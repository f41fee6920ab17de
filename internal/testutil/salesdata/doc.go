// Package salesdata provides test infrastructure for building pipe-delimited
// sales logs. It offers a fluent builder for ad hoc logs and fixtures whose
// expected pipeline counters are known.
//
// # Basic Usage
//
//	path := salesdata.NewBuilder(t).
//		WithHeader().
//		WithRow(salesdata.Row{ID: "T001", Date: "2024-12-01", ProductID: "P101",
//			ProductName: "Laptop", Quantity: "1", UnitPrice: "45000",
//			CustomerID: "C001", Region: "North"}).
//		WithLine("garbage").
//		WriteFile(t)
//
// # Using Fixtures
//
//	path := salesdata.NewBuilder(t).WithFixture(salesdata.FixtureMixed).WriteFile(t)
//	want := salesdata.FixtureMixed.Expected()
//
// Fixture expectations describe an unfiltered run.
package salesdata
