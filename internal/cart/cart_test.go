package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string) Item {
	return Item{EntrepreneurID: id, Name: "Entrepreneur " + id, BusinessName: "Business " + id}
}

func priorities(c *Cart) map[string]int {
	out := make(map[string]int)
	for _, it := range c.Items() {
		out[it.EntrepreneurID] = it.Priority
	}
	return out
}

// assertDense checks that priorities are exactly {1..len} with no gaps or
// duplicates.
func assertDense(t *testing.T, c *Cart) {
	t.Helper()
	items := c.Items()
	seen := make(map[int]bool)
	for _, it := range items {
		assert.GreaterOrEqual(t, it.Priority, 1)
		assert.LessOrEqual(t, it.Priority, len(items))
		assert.False(t, seen[it.Priority], "duplicate priority %d", it.Priority)
		seen[it.Priority] = true
	}
}

func TestAddAssignsSequentialPriorities(t *testing.T) {
	c := New(3)

	require.True(t, c.Add(item("E1")))
	require.True(t, c.Add(item("E2")))
	require.True(t, c.Add(item("E3")))

	assert.Equal(t, map[string]int{"E1": 1, "E2": 2, "E3": 3}, priorities(c))
	assert.True(t, c.IsFull())
}

func TestAddRejectsWhenFull(t *testing.T) {
	c := New(3)
	c.Add(item("E1"))
	c.Add(item("E2"))
	c.Add(item("E3"))

	assert.False(t, c.Add(item("E4")))
	assert.Equal(t, 3, c.Len())
	assert.False(t, c.Contains("E4"))
	assert.Equal(t, map[string]int{"E1": 1, "E2": 2, "E3": 3}, priorities(c))
}

func TestAddRejectsDuplicate(t *testing.T) {
	c := New(3)
	require.True(t, c.Add(item("E1")))

	assert.False(t, c.Add(item("E1")))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, map[string]int{"E1": 1}, priorities(c))
}

func TestRemoveReindexesPriorities(t *testing.T) {
	c := New(3)
	c.Add(item("E1"))
	c.Add(item("E2"))
	c.Add(item("E3"))

	c.Remove("E2")

	assert.Equal(t, map[string]int{"E1": 1, "E3": 2}, priorities(c))
	assert.False(t, c.Contains("E2"))
	assertDense(t, c)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	c := New(3)
	c.Add(item("E1"))

	c.Remove("E9")

	assert.Equal(t, map[string]int{"E1": 1}, priorities(c))
}

func TestMoveUpSwapsWithPrevious(t *testing.T) {
	c := New(3)
	c.Add(item("E1"))
	c.Add(item("E2"))

	c.MoveUp("E2")

	assert.Equal(t, map[string]int{"E2": 1, "E1": 2}, priorities(c))
	assertDense(t, c)
}

func TestMoveUpFirstIsNoop(t *testing.T) {
	c := New(3)
	c.Add(item("E1"))
	c.Add(item("E2"))

	c.MoveUp("E1")

	assert.Equal(t, map[string]int{"E1": 1, "E2": 2}, priorities(c))
}

func TestMoveDownLastIsNoop(t *testing.T) {
	c := New(3)
	c.Add(item("E1"))
	c.Add(item("E2"))

	c.MoveDown("E2")

	assert.Equal(t, map[string]int{"E1": 1, "E2": 2}, priorities(c))
}

func TestMoveDownSwapsWithNext(t *testing.T) {
	c := New(3)
	c.Add(item("E1"))
	c.Add(item("E2"))
	c.Add(item("E3"))

	c.MoveDown("E1")

	assert.Equal(t, map[string]int{"E2": 1, "E1": 2, "E3": 3}, priorities(c))
	assertDense(t, c)
}

func TestItemsSortedByPriority(t *testing.T) {
	c := New(3)
	c.Add(item("E1"))
	c.Add(item("E2"))
	c.Add(item("E3"))
	c.MoveUp("E3")
	c.MoveUp("E3")

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "E3", items[0].EntrepreneurID)
	assert.Equal(t, "E1", items[1].EntrepreneurID)
	assert.Equal(t, "E2", items[2].EntrepreneurID)
}

func TestClear(t *testing.T) {
	c := New(3)
	c.Add(item("E1"))
	c.Add(item("E2"))

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.False(t, c.IsFull())
	assert.True(t, c.Add(item("E1")))
}

// Priorities stay dense through an arbitrary mix of operations.
func TestPrioritiesStayDenseThroughMixedOperations(t *testing.T) {
	c := New(3)

	ops := []func(){
		func() { c.Add(item("E1")) },
		func() { c.Add(item("E2")) },
		func() { c.MoveUp("E2") },
		func() { c.Add(item("E3")) },
		func() { c.Remove("E1") },
		func() { c.MoveDown("E2") },
		func() { c.Add(item("E4")) },
		func() { c.Add(item("E4")) },
		func() { c.Remove("E3") },
		func() { c.MoveUp("E4") },
		func() { c.Add(item("E5")) },
	}
	for _, op := range ops {
		op()
		assert.LessOrEqual(t, c.Len(), 3)
		assertDense(t, c)
	}
}

func TestManagerIsolatesSessions(t *testing.T) {
	m := NewManager(3, time.Hour)

	a := m.NewSession()
	b := m.NewSession()

	m.Get(a).Add(item("E1"))

	assert.Equal(t, 1, m.Get(a).Len())
	assert.Equal(t, 0, m.Get(b).Len())
	assert.Equal(t, 2, m.Count())
}

func TestManagerCreatesCartOnFirstUse(t *testing.T) {
	m := NewManager(3, time.Hour)

	c := m.Get("unseen-session")
	require.NotNil(t, c)
	assert.True(t, c.Add(item("E1")))
	assert.Equal(t, 1, m.Get("unseen-session").Len())
}

func TestManagerPurgesExpiredSessions(t *testing.T) {
	m := NewManager(3, time.Nanosecond)

	id := m.NewSession()
	m.Get(id).Add(item("E1"))

	time.Sleep(2 * time.Millisecond)
	m.PurgeExpired()

	assert.Equal(t, 0, m.Count())
	// The session id resolves to a fresh empty cart afterwards.
	assert.Equal(t, 0, m.Get(id).Len())
}
