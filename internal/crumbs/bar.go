// Package crumbs implements the breadcrumb bar: a fixed arena of four
// segments rendered from the current path, and the drag-and-drop controller
// that moves dropped items into the directory a segment stands for.
//
// Nothing in this package touches Gio; internal/ui draws the attached node
// list and feeds pointer and transfer events into the Controller handlers.
package crumbs

import "strings"

// Role identifies one of the four breadcrumb segments.
type Role int

const (
	Home Role = iota
	Ellipsis
	Parent
	Current

	roleCount = 4
)

// NoRole marks the absence of a segment (nothing highlighted, pointer not
// over a segment).
const NoRole Role = -1

func (r Role) String() string {
	switch r {
	case Home:
		return "home"
	case Ellipsis:
		return "ellipsis"
	case Parent:
		return "parent"
	case Current:
		return "current"
	}
	return "none"
}

// Valid reports whether r names one of the four segments.
func (r Role) Valid() bool { return r >= Home && r < roleCount }

// Roles lists the segments in display order.
var Roles = [roleCount]Role{Home, Ellipsis, Parent, Current}

// NavTargets are the navigation targets of each segment, relative to the
// current path at click time. They are resolved by the file-system model.
var NavTargets = [roleCount]string{"/", "../../", "../", ""}

// Labels of the segments whose text never changes.
const (
	HomeLabel     = "Home"
	EllipsisLabel = "..."
)

// Segment is one breadcrumb. Role never changes; Label and Tooltip are
// rewritten on every render.
type Segment struct {
	Role    Role
	Label   string
	Target  string
	Tooltip string
}

// NodeKind distinguishes attached segments from separators.
type NodeKind int

const (
	NodeSegment NodeKind = iota
	NodeSeparator
)

// Node is one entry of the attached node list. Role is set for segments,
// Sep (0, 1 or 2) for separators. Separator i always precedes the segment
// Roles[i+1].
type Node struct {
	Kind NodeKind
	Role Role
	Sep  int
}

func segmentNode(r Role) Node { return Node{Kind: NodeSegment, Role: r, Sep: -1} }
func separatorNode(i int) Node { return Node{Kind: NodeSeparator, Role: NoRole, Sep: i} }

// Bar owns the segment arena and the list of currently attached nodes.
// It is not safe for concurrent use; render and read it from the UI goroutine.
type Bar struct {
	segments [roleCount]Segment
	nodes    []Node
	path     string
}

// NewBar returns a bar with only Home attached.
func NewBar() *Bar {
	b := &Bar{nodes: make([]Node, 0, 2*roleCount-1)}
	for _, r := range Roles {
		b.segments[r] = Segment{Role: r, Target: NavTargets[r]}
	}
	b.segments[Home].Label = HomeLabel
	b.segments[Home].Tooltip = "/"
	b.segments[Ellipsis].Label = EllipsisLabel
	b.nodes = append(b.nodes, segmentNode(Home))
	return b
}

// Split breaks a path into its name components. The empty path has a single
// empty component, matching strings.Split.
func Split(path string) []string {
	return strings.Split(path, "/")
}

// Depth returns the number of components of a non-empty path, 0 for "".
func Depth(path string) int {
	if path == "" {
		return 0
	}
	return len(Split(path))
}

// Render recomputes the attached nodes for path. Home stays attached;
// everything else is detached and re-attached as the path requires.
func (b *Bar) Render(path string) {
	b.nodes = b.nodes[:1]
	b.path = path

	parts := Split(path)
	n := len(parts)

	if n > 2 {
		b.nodes = append(b.nodes, separatorNode(0), segmentNode(Ellipsis))
		b.segments[Ellipsis].Tooltip = strings.Join(parts[:n-2], "/")
	}

	if path == "" {
		return
	}

	if n >= 2 {
		parent := &b.segments[Parent]
		parent.Label = parts[n-2]
		parent.Tooltip = strings.Join(parts[:n-1], "/")
		b.nodes = append(b.nodes, separatorNode(1), segmentNode(Parent))
	}

	current := &b.segments[Current]
	current.Label = parts[n-1]
	current.Tooltip = path
	b.nodes = append(b.nodes, separatorNode(2), segmentNode(Current))
}

// Path returns the path of the last render.
func (b *Bar) Path() string { return b.path }

// Nodes returns a copy of the attached node list in display order.
func (b *Bar) Nodes() []Node {
	out := make([]Node, len(b.nodes))
	copy(out, b.nodes)
	return out
}

// Segment returns the segment record for r.
func (b *Bar) Segment(r Role) Segment {
	if !r.Valid() {
		return Segment{Role: NoRole}
	}
	return b.segments[r]
}

// Attached reports whether the segment r is in the attached node list.
func (b *Bar) Attached(r Role) bool {
	for _, n := range b.nodes {
		if n.Kind == NodeSegment && n.Role == r {
			return true
		}
	}
	return false
}

// Segments returns the attached segments in display order.
func (b *Bar) Segments() []Segment {
	out := make([]Segment, 0, roleCount)
	for _, n := range b.nodes {
		if n.Kind == NodeSegment {
			out = append(out, b.segments[n.Role])
		}
	}
	return out
}
