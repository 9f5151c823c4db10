package layout

import "github.com/google/uuid"

// Size is a width/height pair in pixels.
type Size struct {
	Width  int
	Height int
}

// Rect is an axis aligned rectangle in output coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Client is the engine's handle for one window. The engine compares clients
// by pointer only; the fields are informational.
type Client struct {
	ID      uuid.UUID
	Name    string
	MinSize Size
}

// NewClient returns a client with a fresh random ID.
func NewClient(name string, minSize Size) *Client {
	return &Client{
		ID:      uuid.New(),
		Name:    name,
		MinSize: minSize,
	}
}

func (c *Client) String() string {
	if c == nil {
		return "<nil>"
	}
	return c.Name + "#" + c.ID.String()[:8]
}
