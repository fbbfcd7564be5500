// package stats summarizes a catalog: totals, genre distribution and top-rated and most-played rankings.
package stats
