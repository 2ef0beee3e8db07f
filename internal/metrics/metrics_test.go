package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTransitionIncrementsLabel(t *testing.T) {
	before := testutil.ToFloat64(CommitmentTransitions.WithLabelValues(TransitionJoined))
	RecordTransition(TransitionJoined)
	after := testutil.ToFloat64(CommitmentTransitions.WithLabelValues(TransitionJoined))
	if after-before != 1 {
		t.Fatalf("expected joined counter to grow by 1, got %v", after-before)
	}
}

func TestRecordLogSplitsByCompleted(t *testing.T) {
	beforeTrue := testutil.ToFloat64(LogRecords.WithLabelValues("true"))
	beforeFalse := testutil.ToFloat64(LogRecords.WithLabelValues("false"))

	RecordLog(true)
	RecordLog(true)
	RecordLog(false)

	if got := testutil.ToFloat64(LogRecords.WithLabelValues("true")) - beforeTrue; got != 2 {
		t.Fatalf("expected 2 completed records, got %v", got)
	}
	if got := testutil.ToFloat64(LogRecords.WithLabelValues("false")) - beforeFalse; got != 1 {
		t.Fatalf("expected 1 missed record, got %v", got)
	}
}

func TestObserveRequestRegistersSeries(t *testing.T) {
	ObserveRequest("GET", "/api/asceticisms/progress", 200, 15*time.Millisecond)
	if count := testutil.CollectAndCount(HTTPRequestDuration); count == 0 {
		t.Fatal("expected at least one histogram series")
	}
}
