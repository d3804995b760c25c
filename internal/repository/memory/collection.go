package memory

import (
	"slices"

	apperrors "github.com/jwalitptl/hms/pkg/errors"
)

// collection is one ordered, capacity-bounded record sequence plus its ID
// counter. The counter only moves forward and only on a successful add.
type collection[T any] struct {
	resource string
	items    []T
	nextID   int
	max      int
	idOf     func(*T) int
	setID    func(*T, int)
}

func newCollection[T any](resource string, max int, idOf func(*T) int, setID func(*T, int)) *collection[T] {
	return &collection[T]{
		resource: resource,
		nextID:   1,
		max:      max,
		idOf:     idOf,
		setID:    setID,
	}
}

func (c *collection[T]) add(item T) (T, error) {
	if len(c.items) >= c.max {
		var zero T
		return zero, apperrors.NewCapacityExceeded(c.resource, c.max)
	}
	c.setID(&item, c.nextID)
	c.nextID++
	c.items = append(c.items, item)
	return item, nil
}

func (c *collection[T]) index(id int) int {
	for i := range c.items {
		if c.idOf(&c.items[i]) == id {
			return i
		}
	}
	return -1
}

func (c *collection[T]) get(id int) (T, error) {
	i := c.index(id)
	if i < 0 {
		var zero T
		return zero, apperrors.NewNotFound(c.resource, id)
	}
	return c.items[i], nil
}

func (c *collection[T]) replace(item T) error {
	id := c.idOf(&item)
	i := c.index(id)
	if i < 0 {
		return apperrors.NewNotFound(c.resource, id)
	}
	c.items[i] = item
	return nil
}

// remove deletes one record and shifts the tail left, keeping order.
func (c *collection[T]) remove(id int) (T, error) {
	i := c.index(id)
	if i < 0 {
		var zero T
		return zero, apperrors.NewNotFound(c.resource, id)
	}
	removed := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	return removed, nil
}

func (c *collection[T]) filter(keep func(*T) bool) []*T {
	var out []*T
	for i := range c.items {
		if keep(&c.items[i]) {
			item := c.items[i]
			out = append(out, &item)
		}
	}
	return out
}

func (c *collection[T]) all() []*T {
	return c.filter(func(*T) bool { return true })
}

func (c *collection[T]) values() []T {
	return slices.Clone(c.items)
}

func (c *collection[T]) len() int {
	return len(c.items)
}

// load replaces the contents wholesale. Callers validate first.
func (c *collection[T]) load(items []T, nextID int) {
	c.items = slices.Clone(items)
	c.nextID = nextID
}
