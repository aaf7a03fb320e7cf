package tree

import (
	"github.com/benz9527/xset/lib/infra"
)

type rbTree[E infra.OrderedKey] struct {
	root           *rbNode[E]
	count          int64
	rotations      uint64
	isRmBorrowSucc bool
}

func (tree *rbTree[E]) Len() int64 {
	return tree.count
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// So the shortest path nodes are black nodes. Otherwise,
// the path must contain red node.
// The longest path nodes' number is 2 * shortest path nodes' number.

func (tree *rbTree[E]) search(key E) *rbNode[E] {
	for aux := tree.root; aux != nil; {
		res := infra.NaturalOrder(key, aux.elem)
		if /* equal */ res == 0 {
			return aux
		} else /* less */ if res < 0 {
			aux = aux.left
		} else /* greater */ {
			aux = aux.right
		}
	}
	return nil
}

// The caller has to make sure that the element of z is absent.
// z is always attached as a leaf.
func (tree *rbTree[E]) insertLeaf(z *rbNode[E]) {
	z.left, z.right = nil, nil
	if tree.root == nil {
		tree.root = z
		z.parent = nil
		return
	}

	for aux := tree.root; ; {
		if infra.NaturalOrder(z.elem, aux.elem) < 0 {
			if aux.left == nil {
				aux.left = z
				z.parent = aux
				return
			}
			aux = aux.left
		} else {
			if aux.right == nil {
				aux.right = z
				z.parent = aux
				return
			}
			aux = aux.right
		}
	}
}

/*
Unbalanced removal. The RB removal reduces z to at most one child before
it calls here, the two children branch only serves the plain BST usage.

	  |                    |
	  Z                    C
	 /      splice(Z)
	C       ========>
*/
func (tree *rbTree[E]) spliceOut(z *rbNode[E]) {
	if z == nil {
		return
	}

	if z.left != nil && z.right != nil {
		y := z.succ()
		z.elem = y.elem
		tree.spliceOut(y)
		return
	}

	child := z.left
	if child == nil {
		child = z.right
	}
	switch dir := z.Direction(); dir {
	case Root:
		tree.root = child
	case Left:
		z.parent.left = child
	case Right:
		z.parent.right = child
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to splice")
	}
	if child != nil {
		child.parent = z.parent
	}
	z.parent, z.left, z.right = nil, nil, nil
}

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[E]) leftRotate(x *rbNode[E]) {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.parent = p
	tree.rotations++
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *rbTree[E]) rightRotate(x *rbNode[E]) {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.parent = p
	tree.rotations++
}

// insert returns false on duplicate element and leaves the tree untouched.
func (tree *rbTree[E]) insert(elem E) bool {
	if tree.search(elem) != nil {
		return false
	}

	z := &rbNode[E]{
		elem:  elem,
		color: Red,
	}
	tree.insertLeaf(z)
	tree.insertRebalance(z)
	tree.count++
	return true
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: X is the root, paint it into black.

im2: X's parent P is black, nothing violated.

im3: Both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Continue to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to the direction of P, then
the former parent P is the lower node. Must enter im5 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: Current node is the same direction as parent.
Repaint P into black and G into red, rotate G to the opposite direction.

	    [G]                 <G>                [P]
	    / \    repaint      / \    rotate(G)   / \
	  <P> [U]  ======>    [P] [U]  ======>   <X> <G>
	  /                   /                        \
	<X>                 <X>                        [U]
*/
func (tree *rbTree[E]) insertRebalance(x *rbNode[E]) {
	for x != nil {
		p := x.parent
		if /* im1 */ p == nil {
			x.color = Black
			return
		}

		if /* im2 */ p.isBlack() {
			return
		}

		g := p.parent
		if g == nil {
			// impossible run to here, the root is always black
			panic( /* debug assertion */ "[rbtree] insert red parent without grandpa")
		}

		if u := x.uncle(); /* im3 */ u.isRed() {
			p.color = Black
			u.color = Black
			g.color = Red
			x = g
			continue
		}

		if /* im4 */ dir := x.Direction(); dir != p.Direction() {
			switch dir {
			case Right:
				tree.leftRotate(p)
			case Left:
				tree.rightRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] insert violate (im4)")
			}
			x, p = p, x
		}

		/* im5 */
		p.color = Black
		g.color = Red
		switch dir := x.Direction(); dir {
		case Left:
			tree.rightRotate(g)
		case Right:
			tree.leftRotate(g)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] insert violate (im5)")
		}
		return
	}
}

/*
r1: Current node Z has left and right node.
Find node Z's pred (or succ if borrowing succ) to replace it.
Swap the element only, then remove the pred node instead.
The pred node has at most one child.

	  |                    |
	  Z                    L
	 / \                  / \
	L  ..   swap(Z, L)   Z  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                S  ..

r2: Z is black. Its black would be lost by the removal, so the tree is
restructured around Z while Z is still linked in (see removeRebalance).

r3: Splice Z out, its only child (or NIL) takes Z's place.
*/
func (tree *rbTree[E]) removeNode(z *rbNode[E]) {
	if /* r1 */ z.left != nil && z.right != nil {
		var y *rbNode[E]
		if tree.isRmBorrowSucc {
			y = z.succ()
		} else {
			y = z.pred()
		}
		z.elem = y.elem
		z = y
	}

	if /* r2 */ z.isBlack() {
		tree.removeRebalance(z)
	}

	/* r3 */
	tree.spliceOut(z)
	tree.count--
}

// remove returns false if the key is absent.
func (tree *rbTree[E]) remove(key E) bool {
	z := tree.search(key)
	if z == nil {
		return false
	}
	tree.removeNode(z)
	return true
}

/*
X is a black node going to be removed and still linked in the tree.
S is X's sibling. It must not be nil, otherwise the black depth through X
is greater than through S.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it is X's sibling's child node.
Sd is the opposite direction to X and it is X's sibling's child node.

rm1: X is red or X is the root, nothing to prepare.

rm2: X's sibling S is red, so the parent P and nephews Sc, Sd must be black.
Repaint P into red and S into black, rotate P to X's direction.
Continue with X's new sibling (the former Sc).

	  [P]                   [S]
	  / \    l-rotate(P)    / \
	[X] <S>  ==========>  <P> [Sd]
	    / \               / \
	 [Sc] [Sd]          [X] [Sc]

rm3: All of X's parent P, the sibling S, nephews Sc and Sd are black.
Paint S into red to satisfy p4 locally. Then P has to lose a black,
continue to prepare P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: X's parent P is red, the sibling S, nephews Sc and Sd are black.
Repaint S into red and P into black. Done.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm5: X's sibling S is black, nephew Sc is red and Sd is black.
Repaint S into red and Sc into black, rotate S away from X.
Continue with X's new sibling (the former Sc) into rm6.

	  {P}                    {P}
	  / \    r-rotate(S)     / \
	[X] [S]  ==========>   [X] [Sc]
	    / \                      \
	  <Sc> [Sd]                  <S>
	                               \
	                               [Sd]

rm6: X's sibling S is black and nephew Sd is red.
S takes P's color, repaint P and Sd into black, rotate P to X's direction.
Done.

	  {P}                   {S}
	  / \    l-rotate(P)    / \
	[X] [S]  ==========>  [P] [Sd]
	    / \               / \
	  {Sc} <Sd>         [X] {Sc}
*/
func (tree *rbTree[E]) removeRebalance(x *rbNode[E]) {
	for {
		if /* rm1 */ x.isRed() || x.isRoot() {
			return
		}

		dir := x.Direction()
		sibling := x.sibling()
		if sibling == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove black node without sibling")
		}

		if /* rm2 */ sibling.isRed() {
			x.parent.color = Red
			sibling.color = Black
			switch dir {
			case Left:
				tree.leftRotate(x.parent)
			case Right:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove violate (rm2)")
			}
			sibling = x.sibling()
		}

		if sibling.left.isBlack() && sibling.right.isBlack() {
			if /* rm3 */ x.parent.isBlack() {
				sibling.color = Red
				x = x.parent
				continue
			}
			/* rm4 */
			x.parent.color = Black
			sibling.color = Red
			return
		}

		if /* rm5 */ dir == Left && sibling.left.isRed() && sibling.right.isBlack() {
			sibling.color = Red
			sibling.left.color = Black
			tree.rightRotate(sibling)
			sibling = x.sibling()
		} else if /* rm5 mirror */ dir == Right && sibling.right.isRed() && sibling.left.isBlack() {
			sibling.color = Red
			sibling.right.color = Black
			tree.leftRotate(sibling)
			sibling = x.sibling()
		}

		/* rm6 */
		sibling.color = x.parent.color
		x.parent.color = Black
		switch dir {
		case Left:
			sibling.right.color = Black
			tree.leftRotate(x.parent)
		case Right:
			sibling.left.color = Black
			tree.rightRotate(x.parent)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate (rm6)")
		}
		return
	}
}

// The number of nodes on the longest path from the node to a leaf.
func (tree *rbTree[E]) height(node *rbNode[E]) int {
	if node == nil {
		return 0
	}
	return 1 + max(tree.height(node.left), tree.height(node.right))
}

// All nodes reachable through child links below the node.
func (tree *rbTree[E]) descendants(node *rbNode[E]) int64 {
	if node == nil {
		return 0
	}

	count := int64(0)
	stack := make([]*rbNode[E], 0, 8)
	stack = append(stack, node)
	for len(stack) > 0 {
		aux := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if aux.left != nil {
			stack = append(stack, aux.left)
			count++
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
			count++
		}
	}
	return count
}

// Inorder traversal to implement the DFS.
func (tree *rbTree[E]) Foreach(action func(idx int64, color RBColor, elem E) bool) {
	size := tree.count
	aux := tree.root
	if size <= 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[E], 0, size>>1+1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.elem) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

// Release unlinks every node so nothing survives through a leaked node.
func (tree *rbTree[E]) Release() {
	aux := tree.root
	tree.root = nil
	tree.count = 0
	if aux == nil {
		return
	}

	stack := make([]*rbNode[E], 0, 8)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		r := aux.right
		aux.left, aux.right, aux.parent = nil, nil, nil
		stack = stack[:size-1]
		for aux = r; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}
