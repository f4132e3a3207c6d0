package diff

// maxEditDistance bounds the edit script search. Inputs whose middle section
// needs more edits than this are reported as a whole delete followed by a
// whole insert.
const maxEditDistance = 1024

// opKind classifies one step of an edit script.
type opKind int

const (
	opEqual  opKind = iota // Element is in both sequences.
	opInsert               // Element is present in b only.
	opDelete               // Element is present in a only.
)

// op is a single step of an edit script. AIdx and BIdx index the element in
// a (for equal and delete) and b (for equal and insert); the unused index is
// -1.
type op struct {
	Kind opKind
	AIdx int
	BIdx int
}

// myers computes an edit script transforming a into b. The common prefix
// and suffix are matched directly and the middle goes through the Myers
// search, which is minimal up to maxEditDistance edits.
func myers[T comparable](a, b []T) []op {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	mid := shortestEdit(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix], maxEditDistance)
	if prefix == 0 && suffix == 0 {
		return mid
	}

	ops := make([]op, 0, prefix+len(mid)+suffix)
	for i := 0; i < prefix; i++ {
		ops = append(ops, op{Kind: opEqual, AIdx: i, BIdx: i})
	}
	for _, o := range mid {
		if o.AIdx >= 0 {
			o.AIdx += prefix
		}
		if o.BIdx >= 0 {
			o.BIdx += prefix
		}
		ops = append(ops, o)
	}
	for i := 0; i < suffix; i++ {
		ops = append(ops, op{Kind: opEqual, AIdx: len(a) - suffix + i, BIdx: len(b) - suffix + i})
	}
	return ops
}

// shortestEdit runs the Myers search for at most limit edits. Each step d
// keeps only the diagonals [-d, d] it reached, so memory is O(N+M+D^2)
// rather than O((N+M)*D). When the limit is exceeded it falls back to
// replacing a with b wholesale.
func shortestEdit[T comparable](a, b []T, limit int) []op {
	n := len(a)
	m := len(b)

	if n == 0 || m == 0 {
		return replaceAll(n, m)
	}

	max := n + m
	v := make([]int, 2*max+1)

	// trace[d] holds v[-d..d] after processing edit distance d.
	var trace [][]int

	for d := 0; d <= max && d <= limit; d++ {
		for k := -d; k <= d; k += 2 {
			idx := k + max
			var x int
			if k == -d || (k != d && v[idx-1] < v[idx+1]) {
				x = v[idx+1] // down: insert
			} else {
				x = v[idx-1] + 1 // right: delete
			}
			y := x - k

			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[idx] = x

			if x >= n && y >= m {
				return backtrack(trace, n, m, d)
			}
		}

		trace = append(trace, append([]int(nil), v[max-d:max+d+1]...))
	}

	return replaceAll(n, m)
}

// replaceAll deletes all n elements of a and then inserts all m of b.
func replaceAll(n, m int) []op {
	ops := make([]op, 0, n+m)
	for i := 0; i < n; i++ {
		ops = append(ops, op{Kind: opDelete, AIdx: i, BIdx: -1})
	}
	for i := 0; i < m; i++ {
		ops = append(ops, op{Kind: opInsert, AIdx: -1, BIdx: i})
	}
	return ops
}

// backtrack rebuilds the edit script from the trace of v windows. The
// window for step d is offset by d, so diagonal k lives at index k+d.
func backtrack(trace [][]int, n, m, dFinal int) []op {
	x, y := n, m

	var ops []op
	for d := dFinal; d > 0; d-- {
		k := x - y
		vPrev := trace[d-1]
		off := d - 1

		var prevK int
		if k == -d || (k != d && vPrev[k-1+off] < vPrev[k+1+off]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := vPrev[prevK+off]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, op{Kind: opEqual, AIdx: x, BIdx: y})
		}

		if k == prevK+1 {
			x--
			ops = append(ops, op{Kind: opDelete, AIdx: x, BIdx: -1})
		} else {
			y--
			ops = append(ops, op{Kind: opInsert, AIdx: -1, BIdx: y})
		}
	}

	for x > 0 && y > 0 {
		x--
		y--
		ops = append(ops, op{Kind: opEqual, AIdx: x, BIdx: y})
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}
