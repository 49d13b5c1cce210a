package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordMatch(t *testing.T) {
	matched := NameMatches.WithLabelValues("weight", "matched")
	unmatched := NameMatches.WithLabelValues("weight", "unmatched")
	before := testutil.ToFloat64(matched)
	beforeMiss := testutil.ToFloat64(unmatched)

	RecordMatch("weight", true)
	RecordMatch("weight", true)
	RecordMatch("weight", false)

	assert.Equal(t, before+2, testutil.ToFloat64(matched))
	assert.Equal(t, beforeMiss+1, testutil.ToFloat64(unmatched))
}

func TestCollectorsRegistered(t *testing.T) {
	ShadowsAttached.Add(0)
	LoggersAttached.Add(0)
	SQNR.Observe(12)

	assert.Equal(t, 1, testutil.CollectAndCount(ShadowsAttached))
	assert.Equal(t, 1, testutil.CollectAndCount(LoggersAttached))
	assert.Equal(t, 1, testutil.CollectAndCount(SQNR))
}
