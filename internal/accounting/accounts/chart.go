package accounts

import "sort"

// Chart is an id-indexed snapshot of the chart of accounts.
type Chart struct {
	byID     map[int64]Account
	byCode   map[string]int64
	children map[int64][]int64
	roots    []int64
}

// NewChart indexes accounts by id and code and links parents by ParentID.
// Accounts whose parent is absent from the slice are treated as roots.
func NewChart(list []Account) *Chart {
	c := &Chart{
		byID:     make(map[int64]Account, len(list)),
		byCode:   make(map[string]int64, len(list)),
		children: make(map[int64][]int64),
	}
	for _, a := range list {
		c.byID[a.ID] = a
		c.byCode[a.Code] = a.ID
	}
	sorted := append([]Account(nil), list...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	for _, a := range sorted {
		if a.ParentID != nil {
			if _, ok := c.byID[*a.ParentID]; ok {
				c.children[*a.ParentID] = append(c.children[*a.ParentID], a.ID)
				continue
			}
		}
		c.roots = append(c.roots, a.ID)
	}
	return c
}

// Len returns the number of accounts.
func (c *Chart) Len() int { return len(c.byID) }

// Get returns the account with id.
func (c *Chart) Get(id int64) (Account, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// ByCode returns the account with code.
func (c *Chart) ByCode(code string) (Account, bool) {
	id, ok := c.byCode[code]
	if !ok {
		return Account{}, false
	}
	return c.byID[id], true
}

// Roots returns accounts without a known parent, ordered by code.
func (c *Chart) Roots() []Account {
	return c.collect(c.roots)
}

// Children returns the direct children of id ordered by code.
func (c *Chart) Children(id int64) []Account {
	return c.collect(c.children[id])
}

// Ancestors walks parent links from id up to its root, nearest first.
func (c *Chart) Ancestors(id int64) []Account {
	var out []Account
	seen := map[int64]bool{id: true}
	cur, ok := c.byID[id]
	for ok && cur.ParentID != nil {
		pid := *cur.ParentID
		if seen[pid] {
			break
		}
		seen[pid] = true
		cur, ok = c.byID[pid]
		if ok {
			out = append(out, cur)
		}
	}
	return out
}

// Leaves returns the postable accounts under id, including id itself.
func (c *Chart) Leaves(id int64) []Account {
	var out []Account
	stack := []int64{id}
	seen := map[int64]bool{}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		a, ok := c.byID[cur]
		if !ok {
			continue
		}
		if a.AcceptsPostings {
			out = append(out, a)
		}
		kids := c.children[cur]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}

func (c *Chart) collect(ids []int64) []Account {
	out := make([]Account, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.byID[id])
	}
	return out
}
