package ratings

import "testing"

func TestValid(t *testing.T) {
	for _, v := range []int{1, 2, 3, 4, 5} {
		if !Valid(v) {
			t.Fatalf("%d should be valid", v)
		}
	}
	for _, v := range []int{0, -1, 6, 100} {
		if Valid(v) {
			t.Fatalf("%d should be rejected", v)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	n, avg := Aggregate(nil)
	if n != 0 || avg != 0 {
		t.Fatalf("empty list: got n=%d avg=%v", n, avg)
	}
}

func TestAggregateMean(t *testing.T) {
	n, avg := Aggregate([]int{5, 4, 3})
	if n != 3 {
		t.Fatalf("count: got %d", n)
	}
	if avg != 4 {
		t.Fatalf("avg: got %v", avg)
	}
	n, avg = Aggregate([]int{5, 4})
	if n != 2 || avg != 4.5 {
		t.Fatalf("got n=%d avg=%v", n, avg)
	}
}
