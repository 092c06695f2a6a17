// Package suggest produces symbol candidates for the backtest combobox.
package suggest

import "github.com/sahilm/fuzzy"

// seedSymbols is a starter set of liquid US tickers so the combobox is
// useful before any local history exists.
var seedSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "AMD",
	"NFLX", "INTC", "BABA", "SPY", "QQQ", "IWM", "COIN", "PLTR",
	"SOFI", "F", "NIO", "RIVN",
}

// Symbols returns candidate symbols for a query. Recently traded symbols
// rank ahead of the seed list; an empty query returns recents followed by
// unseen seeds. Matching is fuzzy, so "apl" still finds AAPL.
func Symbols(query string, recent []string) []string {
	pool := merge(recent, seedSymbols)
	if query == "" {
		return pool
	}

	matches := fuzzy.Find(query, pool)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, pool[m.Index])
	}
	return out
}

// merge concatenates the two lists, preserving order and dropping
// duplicates from the tail.
func merge(head, tail []string) []string {
	seen := make(map[string]bool, len(head)+len(tail))
	out := make([]string, 0, len(head)+len(tail))
	for _, list := range [][]string{head, tail} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
