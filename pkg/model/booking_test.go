package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDateBucket_JSONHidesBookkeeping(t *testing.T) {
	bucket := DateBucket{
		Date:      "2025-06-01",
		Bookings:  []BookingEntry{{Description: "Fix AC", Assigned: "Alice"}},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	data, err := json.Marshal(bucket)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"date":"2025-06-01","bookings":[{"description":"Fix AC","assigned":"Alice"}]}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
	if strings.Contains(string(data), "created_at") {
		t.Errorf("bookkeeping timestamps must not be exposed")
	}
}

func TestDateBucket_IsEmpty(t *testing.T) {
	var nilBucket *DateBucket
	if !nilBucket.IsEmpty() {
		t.Errorf("nil bucket should be empty")
	}
	if !(&DateBucket{Date: "2025-06-01"}).IsEmpty() {
		t.Errorf("bucket without entries should be empty")
	}
	if (&DateBucket{Date: "2025-06-01", Bookings: []BookingEntry{{}}}).IsEmpty() {
		t.Errorf("bucket with an entry should not be empty")
	}
}
