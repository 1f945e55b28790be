package model

import "testing"

func TestStatusForRate(t *testing.T) {
	tests := []struct {
		rate float64
		want ClaimStatus
	}{
		{100, StatusApproved},
		{75, StatusApproved},
		{70, StatusApproved},
		{69.9, StatusUnderReview},
		{45, StatusUnderReview},
		{40, StatusUnderReview},
		{39.9, StatusPending},
		{25, StatusPending},
		{10, StatusPending},
		{9.9, StatusRejected},
		{5, StatusRejected},
		{0, StatusRejected},
	}

	for _, tt := range tests {
		if got := StatusForRate(tt.rate); got != tt.want {
			t.Errorf("StatusForRate(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestCounts_Add(t *testing.T) {
	a := Counts{Received: 100, Distributed: 40}
	b := Counts{Received: 25, Distributed: 10}

	sum := a.Add(b)
	if sum.Received != 125 || sum.Distributed != 50 {
		t.Errorf("unexpected sum: %+v", sum)
	}

	if !(Counts{}).IsZero() {
		t.Error("zero counts should report IsZero")
	}
	if sum.IsZero() {
		t.Error("non-zero counts should not report IsZero")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []ClaimStatus{StatusApproved, StatusUnderReview, StatusPending, StatusRejected} {
		if !ValidStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidStatus("Granted") {
		t.Error("unknown status should be invalid")
	}
}
