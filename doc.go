// Package portfolio simulates stock portfolios over historical prices.
//
// The core pieces are:
//   - Historian: a lazy in-memory cache of daily prices, fetched once per
//     ticker from a PriceSource, that tells apart a day before the IPO, after
//     a delisting, in the future or on a closed market.
//   - Store: named portfolios of dated buys and sells, validated against the
//     shares held on the day and across later sells, valued over time.
//   - DCA: a Ledger decorator adding dollar-cost averaging portfolios, whose
//     recurring purchases are rolled to trading days and rendered on read.
//   - Analytics: moving averages, crossovers and rebalancing on top of them.
//
// A Session ties one Historian, one Store and one DCA engine together.
// Price sources and persistence formats live in sub packages (eodhd, yahoo,
// alpaca, pricecache, jsonl, sqlstore, xlsx), and the stocksim command line
// tool drives them.
package portfolio
