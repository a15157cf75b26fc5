package database

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestPoolStatsCollector_Describe(t *testing.T) {
	c := NewPoolStatsCollector(nil)

	ch := make(chan *prometheus.Desc, 10)
	c.Describe(ch)
	close(ch)

	var names []string
	for d := range ch {
		names = append(names, d.String())
	}

	assert.Len(t, names, 6)
	for _, want := range []string{
		"datagen_catalog_db_acquired_connections",
		"datagen_catalog_db_idle_connections",
		"datagen_catalog_db_total_connections",
		"datagen_catalog_db_max_connections",
		"datagen_catalog_db_acquire_count_total",
		"datagen_catalog_db_acquire_duration_seconds_total",
	} {
		found := false
		for _, n := range names {
			if strings.Contains(n, `"`+want+`"`) {
				found = true
				break
			}
		}
		assert.True(t, found, "descriptor %s missing", want)
	}
}

func TestPoolStatsCollector_ImplementsCollector(t *testing.T) {
	var _ prometheus.Collector = NewPoolStatsCollector(nil)
}
