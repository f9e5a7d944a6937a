package window

// Edge is one of the four screen edges the bar can be pinned to.
type Edge string

const (
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// invalidPositionMsg is the message the front end receives for an unknown
// edge keyword.
const invalidPositionMsg = "Invalid position"

// Edges returns all recognized edges in menu order.
func Edges() []Edge {
	return []Edge{EdgeLeft, EdgeRight, EdgeTop, EdgeBottom}
}

// ParseEdge accepts exactly the lower-case keywords left, right, top and
// bottom.
func ParseEdge(s string) (Edge, error) {
	switch e := Edge(s); e {
	case EdgeLeft, EdgeRight, EdgeTop, EdgeBottom:
		return e, nil
	default:
		return "", InvalidArgument(invalidPositionMsg)
	}
}

// Vertical reports whether a strip on this edge runs top-to-bottom.
func (e Edge) Vertical() bool {
	return e == EdgeLeft || e == EdgeRight
}

func (e Edge) String() string {
	return string(e)
}
