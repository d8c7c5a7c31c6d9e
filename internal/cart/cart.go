package cart

import (
	"sort"
	"sync"
)

// DefaultMaxItems is the selection capacity of a cart.
const DefaultMaxItems = 3

// Item is one selected entrepreneur with its priority rank. Name and business
// name ride along so a submission can snapshot them without a lookup.
type Item struct {
	EntrepreneurID string `json:"entrepreneur_id"`
	Name           string `json:"name"`
	BusinessName   string `json:"business_name"`
	Priority       int    `json:"priority"`
}

// Cart holds an ordered, capacity-bounded set of candidate entrepreneurs.
// Priorities are always a dense sequence 1..len with no gaps or duplicates
// after any Add, Remove, MoveUp or MoveDown. All methods are safe for
// concurrent use.
type Cart struct {
	mu       sync.Mutex
	maxItems int
	items    []Item
}

// New creates an empty cart. A maxItems of 0 or less falls back to the default
// capacity.
func New(maxItems int) *Cart {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Cart{maxItems: maxItems}
}

// Add appends the entrepreneur with priority len+1. It returns false without
// mutating when the cart is full or the entrepreneur is already present.
func (c *Cart) Add(item Item) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= c.maxItems {
		return false
	}
	if c.contains(item.EntrepreneurID) {
		return false
	}

	item.Priority = len(c.items) + 1
	c.items = append(c.items, item)
	return true
}

// Remove deletes the matching item and re-indexes the remaining priorities to
// 1..len in their existing relative order.
func (c *Cart) Remove(entrepreneurID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := c.items[:0]
	for _, item := range c.items {
		if item.EntrepreneurID != entrepreneurID {
			filtered = append(filtered, item)
		}
	}
	c.items = filtered
	c.reindex()
}

// Contains reports whether the entrepreneur is in the cart.
func (c *Cart) Contains(entrepreneurID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contains(entrepreneurID)
}

// SetPriority assigns the priority directly. It does not enforce uniqueness;
// MoveUp/MoveDown swap both affected items under one lock instead.
func (c *Cart) SetPriority(entrepreneurID string, priority int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPriority(entrepreneurID, priority)
}

// MoveUp swaps the item's priority with the previous item. Moving the first
// item up is a no-op.
func (c *Cart) MoveUp(entrepreneurID string) {
	c.swapWithNeighbour(entrepreneurID, -1)
}

// MoveDown swaps the item's priority with the next item. Moving the last item
// down is a no-op.
func (c *Cart) MoveDown(entrepreneurID string) {
	c.swapWithNeighbour(entrepreneurID, +1)
}

// Items returns a copy of the cart contents sorted by ascending priority.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortedItems()
}

// Clear empties the cart. Called after a successful request submission.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Len returns the number of selected entrepreneurs.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// IsFull reports whether the cart has reached capacity.
func (c *Cart) IsFull() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) >= c.maxItems
}

func (c *Cart) contains(entrepreneurID string) bool {
	for _, item := range c.items {
		if item.EntrepreneurID == entrepreneurID {
			return true
		}
	}
	return false
}

func (c *Cart) setPriority(entrepreneurID string, priority int) {
	for i := range c.items {
		if c.items[i].EntrepreneurID == entrepreneurID {
			c.items[i].Priority = priority
			return
		}
	}
}

func (c *Cart) sortedItems() []Item {
	sorted := make([]Item, len(c.items))
	copy(sorted, c.items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

func (c *Cart) swapWithNeighbour(entrepreneurID string, direction int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sorted := c.sortedItems()
	for i, item := range sorted {
		if item.EntrepreneurID != entrepreneurID {
			continue
		}
		j := i + direction
		if j < 0 || j >= len(sorted) {
			return
		}
		c.setPriority(sorted[i].EntrepreneurID, sorted[j].Priority)
		c.setPriority(sorted[j].EntrepreneurID, sorted[i].Priority)
		return
	}
}

func (c *Cart) reindex() {
	sorted := c.sortedItems()
	for i, item := range sorted {
		c.setPriority(item.EntrepreneurID, i+1)
	}
}
