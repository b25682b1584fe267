package orderbook

// rbTree is a standard red-black tree keyed by price, each node owning one
// PriceLevel. Bids and asks each get their own tree; BestMin/BestMax give
// O(log n) access to the best opposing price and WalkAsc/WalkDesc give
// ordered traversal for sweeps and snapshotting (§4.4).
//
// The teacher's draft left insertion as a placeholder ("reuse your
// existing correct RB insert code here"); this is the real CLRS insert and
// delete, built around the same sentinel-node shape and public surface.
type rbTree struct {
	root *rbNode
	nilN *rbNode
}

type color uint8

const (
	red color = iota
	black
)

type rbNode struct {
	key    int64
	level  *PriceLevel
	left   *rbNode
	right  *rbNode
	parent *rbNode
	color  color
}

func newRBTree() *rbTree {
	sentinel := &rbNode{color: black}
	return &rbTree{root: sentinel, nilN: sentinel}
}

// GetOrCreate returns the PriceLevel at price, creating and inserting an
// empty one if none exists yet.
func (t *rbTree) GetOrCreate(price int64) *PriceLevel {
	n := t.find(price)
	if n != t.nilN {
		return n.level
	}
	lvl := &PriceLevel{Price: price}
	t.insert(price, lvl)
	return lvl
}

// Find returns the PriceLevel at price, or nil if none exists.
func (t *rbTree) Find(price int64) *PriceLevel {
	n := t.find(price)
	if n == t.nilN {
		return nil
	}
	return n.level
}

// Delete removes the level at price. Called once a level's FIFO empties.
func (t *rbTree) Delete(price int64) bool {
	n := t.find(price)
	if n == t.nilN {
		return false
	}
	t.deleteNode(n)
	return true
}

// BestMin is the lowest-priced level (best ask).
func (t *rbTree) BestMin() *PriceLevel {
	n := t.min(t.root)
	if n == t.nilN {
		return nil
	}
	return n.level
}

// BestMax is the highest-priced level (best bid).
func (t *rbTree) BestMax() *PriceLevel {
	n := t.max(t.root)
	if n == t.nilN {
		return nil
	}
	return n.level
}

func (t *rbTree) Empty() bool { return t.root == t.nilN }

// WalkAsc visits levels in ascending price order, stopping early if fn
// returns false.
func (t *rbTree) WalkAsc(fn func(*PriceLevel) bool) {
	for n := t.min(t.root); n != t.nilN; n = t.next(n) {
		if !fn(n.level) {
			return
		}
	}
}

// WalkDesc visits levels in descending price order, stopping early if fn
// returns false.
func (t *rbTree) WalkDesc(fn func(*PriceLevel) bool) {
	for n := t.max(t.root); n != t.nilN; n = t.prev(n) {
		if !fn(n.level) {
			return
		}
	}
}

// ---- search helpers ----

func (t *rbTree) find(price int64) *rbNode {
	n := t.root
	for n != t.nilN {
		switch {
		case price < n.key:
			n = n.left
		case price > n.key:
			n = n.right
		default:
			return n
		}
	}
	return t.nilN
}

func (t *rbTree) min(n *rbNode) *rbNode {
	for n != t.nilN && n.left != t.nilN {
		n = n.left
	}
	return n
}

func (t *rbTree) max(n *rbNode) *rbNode {
	for n != t.nilN && n.right != t.nilN {
		n = n.right
	}
	return n
}

func (t *rbTree) next(n *rbNode) *rbNode {
	if n.right != t.nilN {
		return t.min(n.right)
	}
	p := n.parent
	for p != t.nilN && n == p.right {
		n = p
		p = p.parent
	}
	return p
}

func (t *rbTree) prev(n *rbNode) *rbNode {
	if n.left != t.nilN {
		return t.max(n.left)
	}
	p := n.parent
	for p != t.nilN && n == p.left {
		n = p
		p = p.parent
	}
	return p
}

// ---- rotations ----

func (t *rbTree) rotateLeft(x *rbNode) {
	y := x.right
	x.right = y.left
	if y.left != t.nilN {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == t.nilN {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *rbTree) rotateRight(x *rbNode) {
	y := x.left
	x.left = y.right
	if y.right != t.nilN {
		y.right.parent = x
	}
	y.parent = x.parent
	if x.parent == t.nilN {
		t.root = y
	} else if x == x.parent.right {
		x.parent.right = y
	} else {
		x.parent.left = y
	}
	y.right = x
	x.parent = y
}

// ---- insertion ----

func (t *rbTree) insert(price int64, lvl *PriceLevel) {
	z := &rbNode{key: price, level: lvl, left: t.nilN, right: t.nilN, color: red}

	y := t.nilN
	x := t.root
	for x != t.nilN {
		y = x
		if z.key < x.key {
			x = x.left
		} else {
			x = x.right
		}
	}
	z.parent = y
	switch {
	case y == t.nilN:
		t.root = z
	case z.key < y.key:
		y.left = z
	default:
		y.right = z
	}
	t.insertFixup(z)
}

func (t *rbTree) insertFixup(z *rbNode) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
				continue
			}
			if z == z.parent.right {
				z = z.parent
				t.rotateLeft(z)
			}
			z.parent.color = black
			z.parent.parent.color = red
			t.rotateRight(z.parent.parent)
		} else {
			y := z.parent.parent.left
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
				continue
			}
			if z == z.parent.left {
				z = z.parent
				t.rotateRight(z)
			}
			z.parent.color = black
			z.parent.parent.color = red
			t.rotateLeft(z.parent.parent)
		}
	}
	t.root.color = black
}

// ---- deletion ----

func (t *rbTree) transplant(u, v *rbNode) {
	switch {
	case u.parent == t.nilN:
		t.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}
	v.parent = u.parent
}

func (t *rbTree) deleteNode(z *rbNode) {
	y := z
	yOriginalColor := y.color
	var x *rbNode

	switch {
	case z.left == t.nilN:
		x = z.right
		t.transplant(z, z.right)
	case z.right == t.nilN:
		x = z.left
		t.transplant(z, z.left)
	default:
		y = t.min(z.right)
		yOriginalColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yOriginalColor == black {
		t.deleteFixup(x)
	}
}

func (t *rbTree) deleteFixup(x *rbNode) {
	for x != t.root && x.color == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rotateLeft(x.parent)
				w = x.parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = x.parent
				continue
			}
			if w.right.color == black {
				w.left.color = black
				w.color = red
				t.rotateRight(w)
				w = x.parent.right
			}
			w.color = x.parent.color
			x.parent.color = black
			w.right.color = black
			t.rotateLeft(x.parent)
			x = t.root
		} else {
			w := x.parent.left
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rotateRight(x.parent)
				w = x.parent.left
			}
			if w.right.color == black && w.left.color == black {
				w.color = red
				x = x.parent
				continue
			}
			if w.left.color == black {
				w.right.color = black
				w.color = red
				t.rotateLeft(w)
				w = x.parent.left
			}
			w.color = x.parent.color
			x.parent.color = black
			w.left.color = black
			t.rotateRight(x.parent)
			x = t.root
		}
	}
	x.color = black
}
