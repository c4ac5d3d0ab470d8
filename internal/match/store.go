package match

import (
	"sync"

	"github.com/GoFutureTeam/gofomentos/internal/models"
)

// Catalog holds the fetched notice collection together with the active
// filter selection and search query, and notifies subscribers with the
// recomputed visible list whenever any of the three changes.
//
// Single-writer semantics: mutations come from one interactive caller
// at a time; the mutex only protects subscribers reading snapshots.
type Catalog struct {
	mu      sync.Mutex
	editais []models.Edital
	state   FilterState
	query   string

	nextID int
	subs   map[int]func([]models.Edital)
}

func NewCatalog() *Catalog {
	return &Catalog{
		state: make(FilterState),
		subs:  make(map[int]func([]models.Edital)),
	}
}

// Subscribe registers a callback invoked with the visible notice list
// after every mutation. It returns an unsubscribe function.
func (c *Catalog) Subscribe(fn func([]models.Edital)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// SetEditais replaces the backing notice collection.
func (c *Catalog) SetEditais(editais []models.Edital) {
	c.mu.Lock()
	c.editais = append([]models.Edital(nil), editais...)
	c.notifyLocked()
	c.mu.Unlock()
}

// SetFilter replaces the selection for one category.
func (c *Catalog) SetFilter(cat FilterCategory, selected []string) {
	c.mu.Lock()
	if len(selected) == 0 {
		delete(c.state, cat)
	} else {
		c.state[cat] = append([]string(nil), selected...)
	}
	c.notifyLocked()
	c.mu.Unlock()
}

// SetQuery replaces the free-text search string.
func (c *Catalog) SetQuery(query string) {
	c.mu.Lock()
	c.query = query
	c.notifyLocked()
	c.mu.Unlock()
}

// Reset clears every filter and the query, keeping the collection.
func (c *Catalog) Reset() {
	c.mu.Lock()
	c.state = make(FilterState)
	c.query = ""
	c.notifyLocked()
	c.mu.Unlock()
}

// Visible returns the current filtered view.
func (c *Catalog) Visible() []models.Edital {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Apply(c.editais, c.state, c.query)
}

func (c *Catalog) notifyLocked() {
	if len(c.subs) == 0 {
		return
	}
	visible := Apply(c.editais, c.state, c.query)
	for _, fn := range c.subs {
		fn(visible)
	}
}
