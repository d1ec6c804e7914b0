package state

import (
	"log"
	"sort"
	"sync"

	"PixelBoard/internal/geom"
	"PixelBoard/internal/palette"
)

// ChangeKind tells listeners what kind of mutation happened.
type ChangeKind int

const (
	// PixelChanged is a single user cell being set or erased.
	PixelChanged ChangeKind = iota
	UserCleared
	UserLoaded
	TileLoaded
	TileCleared
)

// Change describes one canvas mutation. Point and Color are only
// meaningful for PixelChanged; Color is None for an erase.
type Change struct {
	Kind  ChangeKind
	Point geom.Point
	Color palette.Color
}

// Entry is a serialized user cell.
type Entry struct {
	Key   string
	Color string
}

// Canvas is the two-layer pixel store: a mutable user layer over a
// read-only tile layer. It is safe for concurrent use; listeners run
// after the lock is released.
type Canvas struct {
	mu        sync.RWMutex
	user      PixelGrid
	tile      PixelGrid
	bounds    boundsTracker
	listeners []func(Change)
}

// NewCanvas creates an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{
		user: NewPixelGrid(),
		tile: NewPixelGrid(),
	}
}

// OnChange registers fn to be called after every mutation.
func (c *Canvas) OnChange(fn func(Change)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Canvas) notify(ch Change) {
	c.mu.RLock()
	listeners := c.listeners
	c.mu.RUnlock()
	for _, fn := range listeners {
		fn(ch)
	}
}

// SetPixel writes col into the user layer. None erases the cell.
func (c *Canvas) SetPixel(x, y int, col palette.Color) {
	p := geom.Pt(x, y)
	c.mu.Lock()
	if col.IsNone() {
		c.user.Delete(x, y)
		c.bounds.remove(p)
	} else {
		c.user.Set(x, y, col)
		c.bounds.add(p)
	}
	c.mu.Unlock()

	c.notify(Change{Kind: PixelChanged, Point: p, Color: col})
}

// DeletePixel erases a user cell.
func (c *Canvas) DeletePixel(x, y int) {
	c.SetPixel(x, y, palette.None)
}

// UserPixel returns the user-layer colour at (x, y), None if unpainted.
func (c *Canvas) UserPixel(x, y int) palette.Color {
	c.mu.RLock()
	defer c.mu.RUnlock()
	col, _ := c.user.Get(x, y)
	return col
}

// TilePixel returns the tile-layer colour at (x, y).
func (c *Canvas) TilePixel(x, y int) palette.Color {
	c.mu.RLock()
	defer c.mu.RUnlock()
	col, _ := c.tile.Get(x, y)
	return col
}

// EffectiveColor composes the layers: user, else tile, else None.
func (c *Canvas) EffectiveColor(x, y int) palette.Color {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if col, ok := c.user.Get(x, y); ok {
		return col
	}
	col, _ := c.tile.Get(x, y)
	return col
}

// ClearUser empties the user layer.
func (c *Canvas) ClearUser() {
	c.mu.Lock()
	n := c.user.Len()
	c.user.Clear()
	c.bounds.reset()
	c.mu.Unlock()

	log.Printf("[STORE] Cleared %d user pixels", n)
	c.notify(Change{Kind: UserCleared})
}

// LoadUser merges pixels into the user layer.
func (c *Canvas) LoadUser(pixels map[geom.Key]palette.Color) {
	c.mu.Lock()
	c.user.Load(pixels)
	for k, col := range pixels {
		if !col.IsNone() {
			c.bounds.add(k.Point())
		}
	}
	c.mu.Unlock()

	c.notify(Change{Kind: UserLoaded})
}

// ReplaceUser swaps the whole user layer for pixels in one step.
func (c *Canvas) ReplaceUser(pixels map[geom.Key]palette.Color) {
	c.mu.Lock()
	c.user.Clear()
	c.bounds.reset()
	c.user.Load(pixels)
	for k, col := range pixels {
		if !col.IsNone() {
			c.bounds.add(k.Point())
		}
	}
	c.mu.Unlock()

	c.notify(Change{Kind: UserLoaded})
}

// LoadTile merges pixels into the tile layer. Loading is additive.
func (c *Canvas) LoadTile(pixels map[geom.Key]palette.Color) {
	c.mu.Lock()
	c.tile.Load(pixels)
	c.mu.Unlock()

	c.notify(Change{Kind: TileLoaded})
}

// ClearTile empties the tile layer.
func (c *Canvas) ClearTile() {
	c.mu.Lock()
	c.tile.Clear()
	c.mu.Unlock()

	c.notify(Change{Kind: TileCleared})
}

// UserLen returns the number of painted user cells.
func (c *Canvas) UserLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user.Len()
}

// TileLen returns the number of tile cells.
func (c *Canvas) TileLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tile.Len()
}

// Bounds returns the bounding rectangle of the painted user cells.
func (c *Canvas) Bounds() Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds.get(c.user)
}

// UserSnapshot returns a copy of the user layer.
func (c *Canvas) UserSnapshot() map[geom.Key]palette.Color {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[geom.Key]palette.Color, len(c.user))
	for k, col := range c.user {
		out[k] = col
	}
	return out
}

// Entries returns the user layer in its serialized form, ordered by row
// then column.
func (c *Canvas) Entries() []Entry {
	c.mu.RLock()
	points := make([]geom.Point, 0, len(c.user))
	colors := make(map[geom.Point]palette.Color, len(c.user))
	c.user.Each(func(p geom.Point, col palette.Color) {
		points = append(points, p)
		colors[p] = col
	})
	c.mu.RUnlock()

	sort.Slice(points, func(i, j int) bool {
		if points[i].Y != points[j].Y {
			return points[i].Y < points[j].Y
		}
		return points[i].X < points[j].X
	})

	entries := make([]Entry, len(points))
	for i, p := range points {
		entries[i] = Entry{Key: p.String(), Color: colors[p].String()}
	}
	return entries
}

// Region reads a w x h block of cells starting at origin under a single
// lock. Both layers are returned row-major; the caller composes them.
func (c *Canvas) Region(origin geom.Point, w, h int) (user, tile []palette.Color) {
	if w <= 0 || h <= 0 {
		return nil, nil
	}
	user = make([]palette.Color, w*h)
	tile = make([]palette.Color, w*h)

	c.mu.RLock()
	defer c.mu.RUnlock()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			user[i], _ = c.user.Get(origin.X+x, origin.Y+y)
			tile[i], _ = c.tile.Get(origin.X+x, origin.Y+y)
		}
	}
	return user, tile
}
