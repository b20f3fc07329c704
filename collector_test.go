package stackarena

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	a, _ := newTestArena(t, 32)

	a.Allocate(1, 1)
	top := a.Allocate(4, 4)
	a.Deallocate(top)
	a.Deallocate(a.Allocate(64, 8))

	c := NewCollector(a, prometheus.Labels{"arena": "test"})
	assert.Equal(t, 9, testutil.CollectAndCount(c))

	expected := `
# HELP stackarena_allocations_total Allocations by where they were served from.
# TYPE stackarena_allocations_total counter
stackarena_allocations_total{arena="test",origin="heap"} 1
stackarena_allocations_total{arena="test",origin="region"} 2
# HELP stackarena_available_bytes Bytes above the arena cursor.
# TYPE stackarena_available_bytes gauge
stackarena_available_bytes{arena="test"} 28
# HELP stackarena_capacity_bytes Size of the arena region in bytes.
# TYPE stackarena_capacity_bytes gauge
stackarena_capacity_bytes{arena="test"} 32
# HELP stackarena_deallocations_total Deallocations by outcome.
# TYPE stackarena_deallocations_total counter
stackarena_deallocations_total{arena="test",outcome="heap"} 1
stackarena_deallocations_total{arena="test",outcome="interior"} 0
stackarena_deallocations_total{arena="test",outcome="reclaimed"} 1
# HELP stackarena_padding_bytes_total Alignment padding bytes inserted into the region.
# TYPE stackarena_padding_bytes_total counter
stackarena_padding_bytes_total{arena="test"} 3
# HELP stackarena_used_bytes Bytes below the arena cursor, alignment padding included.
# TYPE stackarena_used_bytes gauge
stackarena_used_bytes{arena="test"} 4
`
	require.NoError(t, testutil.CollectAndCompare(c, bytes.NewBufferString(expected)))
}

func TestCollectorRegister(t *testing.T) {
	s, err := NewSafeArena(16)
	require.NoError(t, err)
	defer s.Release()

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(s, nil)))

	s.AllocBytes(16)
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
	err = testutil.GatherAndCompare(reg, bytes.NewBufferString(`
# HELP stackarena_used_bytes Bytes below the arena cursor, alignment padding included.
# TYPE stackarena_used_bytes gauge
stackarena_used_bytes 16
`), "stackarena_used_bytes")
	require.NoError(t, err)
}
