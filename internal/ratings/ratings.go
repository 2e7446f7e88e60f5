// Package ratings holds the pure reputation math. The rating list is the
// source of truth; the stored average is a cache that must always equal
// Aggregate over the list.
package ratings

const (
	Min = 1
	Max = 5
)

func Valid(v int) bool { return v >= Min && v <= Max }

// Aggregate recomputes the derived count and mean from the full list.
// An empty list averages to 0.
func Aggregate(values []int) (count int, avg float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return len(values), float64(sum) / float64(len(values))
}
