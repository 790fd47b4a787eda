// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reserveMethod = "/reservation.ReservationService/Reserve"

func TestNewInMemoryCollector(t *testing.T) {
	collector := NewInMemoryCollector()

	require.NotNil(t, collector)
	assert.NotNil(t, collector.callsByMethod)
	assert.NotNil(t, collector.resultsByCode)
	assert.NotNil(t, collector.durations)
	assert.NotNil(t, collector.durationsByMethod)
	assert.NotNil(t, collector.errorsByType)
	assert.NotNil(t, collector.errorsByMethod)
	assert.False(t, collector.startTime.IsZero())
}

func TestInMemoryCollectorRecordCall(t *testing.T) {
	collector := NewInMemoryCollector()

	collector.RecordCall(reserveMethod)
	collector.RecordCall(reserveMethod)
	collector.RecordCall("/reservation.ReservationService/Get")

	stats := collector.GetStats()
	assert.Equal(t, int64(3), stats.TotalCalls)
	assert.Equal(t, int64(3), stats.ActiveCalls)
	assert.Equal(t, int64(2), stats.CallsByMethod[reserveMethod])
}

func TestInMemoryCollectorRecordResult(t *testing.T) {
	collector := NewInMemoryCollector()

	collector.RecordCall(reserveMethod)
	collector.RecordResult(reserveMethod, 0, 5*time.Millisecond)

	stats := collector.GetStats()
	assert.Equal(t, int64(1), stats.TotalResults)
	assert.Equal(t, int64(0), stats.ActiveCalls)
	assert.Equal(t, int64(1), stats.ResultsByCode[0])
	assert.Equal(t, int64(1), stats.DurationStats.Count)
	assert.Equal(t, int64(1), stats.DurationByMethod[reserveMethod].Count)
}

func TestInMemoryCollectorRecordError(t *testing.T) {
	collector := NewInMemoryCollector()

	collector.RecordCall(reserveMethod)
	collector.RecordError(reserveMethod, errors.New("conflict"))

	stats := collector.GetStats()
	assert.Equal(t, int64(1), stats.TotalErrors)
	assert.Equal(t, int64(0), stats.ActiveCalls)
	assert.Equal(t, int64(1), stats.ErrorsByType["conflict"])
	assert.Equal(t, int64(1), stats.ErrorsByMethod[reserveMethod])
}

func TestInMemoryCollectorRecordReconnect(t *testing.T) {
	collector := NewInMemoryCollector()

	collector.RecordReconnect()
	collector.RecordReconnect()

	assert.Equal(t, int64(2), collector.GetStats().ListenerReconnects)
}

func TestInMemoryCollectorReset(t *testing.T) {
	collector := NewInMemoryCollector()
	collector.RecordCall(reserveMethod)
	collector.RecordResult(reserveMethod, 0, time.Millisecond)
	collector.RecordReconnect()

	collector.Reset()

	stats := collector.GetStats()
	assert.Equal(t, int64(0), stats.TotalCalls)
	assert.Equal(t, int64(0), stats.TotalResults)
	assert.Equal(t, int64(0), stats.ListenerReconnects)
	assert.Empty(t, stats.CallsByMethod)
}

func TestInMemoryCollectorConcurrentAccess(t *testing.T) {
	collector := NewInMemoryCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.RecordCall(reserveMethod)
			collector.RecordResult(reserveMethod, 0, time.Microsecond)
		}()
	}
	wg.Wait()

	stats := collector.GetStats()
	assert.Equal(t, int64(50), stats.TotalCalls)
	assert.Equal(t, int64(50), stats.TotalResults)
}

func TestDurationAggregatorStatsEmpty(t *testing.T) {
	agg := newDurationAggregator()
	stats := agg.stats()
	assert.Equal(t, int64(0), stats.Count)
	assert.Equal(t, time.Duration(0), stats.Min)
}

func TestDurationAggregatorStatsTracksMinMaxAverage(t *testing.T) {
	agg := newDurationAggregator()
	agg.add(10 * time.Millisecond)
	agg.add(30 * time.Millisecond)
	agg.add(20 * time.Millisecond)

	stats := agg.stats()
	assert.Equal(t, int64(3), stats.Count)
	assert.Equal(t, 10*time.Millisecond, stats.Min)
	assert.Equal(t, 30*time.Millisecond, stats.Max)
	assert.Equal(t, 20*time.Millisecond, stats.Average)
}
