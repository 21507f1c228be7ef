// Package views is the navigator view configuration for the repo trading
// ledger. A Registry built for one schema Variant returns the fixed set of
// table views (ccp, assets, trades, dvps); each view carries its source
// query and the column projections that turn a contract into a row.
//
// Both schema majors share one builder. They differ only in how a
// contract's argument reaches the projections: major 1 receives plain JSON,
// major 2 receives Daml-LF encoded values that go through damlvalue.Decode
// first.
package views
