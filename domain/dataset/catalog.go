package dataset

import "sort"

// Catalog maps file names to their parsed tables.
type Catalog struct {
	tables map[string]*Table
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]*Table)}
}

// Add stores t under its name, replacing any previous entry.
func (c *Catalog) Add(t *Table) {
	c.tables[t.Name()] = t
}

// Get looks a table up by file name.
func (c *Catalog) Get(name string) (*Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Names returns the file names in lexicographic order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of tables.
func (c *Catalog) Len() int { return len(c.tables) }
