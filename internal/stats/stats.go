// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package stats computes summary statistics over per-frame header
// fields: numeric fields get mean/stdev/min/max, categorical fields
// get occurrence counts and a dominant value.
package stats

import "math"

// Numeric accumulates avg/stdev/min/max over a stream of float64
// samples without retaining them.
type Numeric struct {
	count  int
	sum    float64
	sumSq  float64
	min    float64
	max    float64
}

// Add records one sample.
func (n *Numeric) Add(v float64) {
	if n.count == 0 {
		n.min, n.max = v, v
	} else {
		if v < n.min {
			n.min = v
		}
		if v > n.max {
			n.max = v
		}
	}
	n.count++
	n.sum += v
	n.sumSq += v * v
}

// NumericSummary is the computed avg/stdev/min/max for a Numeric
// accumulator.
type NumericSummary struct {
	Avg   float64
	Stdev float64
	Min   float64
	Max   float64
}

// Summary computes the final statistics. Calling Summary on a Numeric
// with no samples returns the zero value.
func (n *Numeric) Summary() NumericSummary {
	if n.count == 0 {
		return NumericSummary{}
	}
	avg := n.sum / float64(n.count)
	variance := n.sumSq/float64(n.count) - avg*avg
	if variance < 0 {
		variance = 0 // guards against floating point drift
	}
	return NumericSummary{
		Avg:   avg,
		Stdev: math.Sqrt(variance),
		Min:   n.min,
		Max:   n.max,
	}
}

// Categorical counts occurrences of string-valued categories. Seeding
// with a category list (via NewCategorical) guarantees those keys are
// always present in the result, even at zero, and fixes their
// first-seen order for Dominant's tie-break.
type Categorical struct {
	order  []string
	counts map[string]int
}

// NewCategorical seeds the counter with seedCategories at zero, so the
// result always reports every expected category.
func NewCategorical(seedCategories []string) *Categorical {
	c := &Categorical{counts: make(map[string]int)}
	for _, cat := range seedCategories {
		if _, ok := c.counts[cat]; !ok {
			c.order = append(c.order, cat)
			c.counts[cat] = 0
		}
	}
	return c
}

// Add records one occurrence of category. Categories outside the seed
// list are appended in first-seen order.
func (c *Categorical) Add(category string) {
	if _, ok := c.counts[category]; !ok {
		c.order = append(c.order, category)
	}
	c.counts[category]++
}

// Counts returns a copy of the category counts. The map carries no
// order; Order gives the first-seen (seed, then discovery) order.
func (c *Categorical) Counts() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// Order returns the categories in first-seen order, the same order
// Dominant uses to break ties.
func (c *Categorical) Order() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Dominant returns the category with the highest count, breaking ties
// by first-seen order (the earliest-seeded or earliest-encountered
// category wins), matching the key_max helper in the tool this
// aggregator's behavior is bound to.
func (c *Categorical) Dominant() string {
	var best string
	bestCount := -1
	for _, cat := range c.order {
		if n := c.counts[cat]; n > bestCount {
			bestCount = n
			best = cat
		}
	}
	return best
}
