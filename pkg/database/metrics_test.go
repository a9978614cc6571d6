package database

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ prometheus.Collector = (*PoolStatsCollector)(nil)

func describeAll(c *PoolStatsCollector) []string {
	ch := make(chan *prometheus.Desc, 32)
	c.Describe(ch)
	close(ch)

	var names []string
	for d := range ch {
		names = append(names, d.String())
	}
	return names
}

func TestPoolStatsCollector_DescribesEveryPoolStat(t *testing.T) {
	c := NewPoolStatsCollector(nil, "portfolio")
	require.NotNil(t, c)

	descs := describeAll(c)
	assert.Len(t, descs, 12)

	joined := strings.Join(descs, "\n")
	for _, name := range []string{
		"db_pool_acquired_connections",
		"db_pool_idle_connections",
		"db_pool_total_connections",
		"db_pool_max_connections",
		"db_pool_constructing_connections",
		"db_pool_acquire_count_total",
		"db_pool_acquire_duration_seconds_total",
		"db_pool_canceled_acquire_count_total",
		"db_pool_empty_acquire_count_total",
		"db_pool_new_connections_total",
		"db_pool_max_lifetime_destroy_total",
		"db_pool_max_idle_destroy_total",
	} {
		assert.Contains(t, joined, name)
	}
}

func TestPoolStatsCollector_CarriesServiceLabel(t *testing.T) {
	c := NewPoolStatsCollector(nil, "portfolio")
	assert.Equal(t, "portfolio", c.service)

	for _, d := range describeAll(c) {
		assert.Contains(t, d, "service")
	}
}
