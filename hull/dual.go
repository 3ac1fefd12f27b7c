// SPDX-License-Identifier: MIT

package hull

import (
	"context"

	"go.uber.org/zap"

	"github.com/polymake/polymake-sub008/bitset"
	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

// DualResult describes the cone {x : a·x ≥ 0 for every inequality a}.
type DualResult[T num.Integer[T]] struct {
	// Dim is the ambient dimension, Rank the dimension of the cone.
	Dim  int
	Rank int

	// Rays are primitive extreme rays of the cone modulo its lineality space.
	Rays [][]T

	// Lineality is a primitive basis of the maximal linear subspace.
	Lineality [][]T

	// Facets indexes the irredundant inequalities (first of each class);
	// SupportHyperplanes holds them made primitive.
	Facets             []int
	SupportHyperplanes [][]T

	// Implicit indexes the inequalities that vanish on the whole cone.
	Implicit []int

	Stats Stats
}

// ddRay is a ray of the double description with the inequalities (among
// those processed) it is tight on.
type ddRay[T num.Integer[T]] struct {
	v    []T
	zero bitset.Set
}

// Dual runs the double description method on ineqs (rows of length dim).
// It starts from the whole space and cuts one inequality at a time, using
// the combination P.val·N − N.val·P and the adjacency tests of Build.
//
// Errors:
//   - ErrOptionViolation, ErrRaggedInput, num.ErrOverflow, ErrInterrupted.
func Dual[T num.Integer[T]](ctx context.Context, ineqs [][]T, dim int, opts ...Option) (*DualResult[T], error) {
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, err
	}
	for _, a := range ineqs {
		if len(a) != dim {
			return nil, hullErrorf("Dual", ErrRaggedInput)
		}
	}
	m := len(ineqs)
	var ck num.Checked[T]
	lin := matrix.Identity[T](dim).ToRows()
	var rays []*ddRay[T]
	processed := bitset.New(m)
	var st Stats

	for k, a := range ineqs {
		if err := ctx.Err(); err != nil {
			return nil, interrupted(err)
		}
		if num.IsZeroVector(a) {
			processed.Set(k)

			continue
		}
		pivot := -1
		var pv T
		for i, l := range lin {
			if v := ck.Dot(a, l); !v.IsZero() {
				pivot, pv = i, v

				break
			}
		}
		if err := ck.Err(); err != nil {
			return nil, err
		}
		if pivot >= 0 {
			l0 := lin[pivot]
			if pv.Sign() < 0 {
				for j := range l0 {
					l0[j] = ck.Neg(l0[j])
				}
				pv = ck.Neg(pv)
			}
			rest := make([][]T, 0, len(lin)-1)
			for i, l := range lin {
				if i == pivot {
					continue
				}
				rest = append(rest, shiftInto(&ck, l, l0, pv, ck.Dot(a, l)))
			}
			for _, r := range rays {
				r.v = shiftInto(&ck, r.v, l0, pv, ck.Dot(a, r.v))
				r.zero.Set(k)
			}
			rays = append(rays, &ddRay[T]{v: l0, zero: processed.Clone()})
			lin = rest
			processed.Set(k)
			if err := ck.Err(); err != nil {
				return nil, err
			}

			continue
		}

		var pos, neg []*ddRay[T]
		vals := make(map[*ddRay[T]]T, len(rays))
		for _, r := range rays {
			v := ck.Dot(a, r.v)
			vals[r] = v
			switch v.Sign() {
			case 1:
				pos = append(pos, r)
			case -1:
				neg = append(neg, r)
			default:
				r.zero.Set(k)
			}
		}
		if err := ck.Err(); err != nil {
			return nil, err
		}
		need := dim - len(lin) - 2
		rankTest := o.RankTest || len(rays) >= o.RankTestThreshold
		var fresh []*ddRay[T]
		n := 0
		for _, nr := range neg {
			for _, pr := range pos {
				n++
				if n&1023 == 0 {
					if err := ctx.Err(); err != nil {
						return nil, interrupted(err)
					}
				}
				if bitset.AndCount(pr.zero, nr.zero) < need {
					continue
				}
				common := bitset.And(pr.zero, nr.zero)
				ok, err := ddAdjacent(ineqs, rays, pr, nr, common, dim, need, rankTest)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				v := make([]T, dim)
				for j := range v {
					v[j] = ck.MulSub(vals[pr], nr.v[j], vals[nr], pr.v[j])
				}
				ck.MakePrimitive(v)
				common.Set(k)
				fresh = append(fresh, &ddRay[T]{v: v, zero: common})
			}
		}
		if err := ck.Err(); err != nil {
			return nil, err
		}
		st.Comparisons += n
		st.FacetsCreated += len(fresh)
		kept := rays[:0]
		for _, r := range rays {
			if vals[r].Sign() >= 0 {
				kept = append(kept, r)
			}
		}
		rays = append(kept, fresh...)
		processed.Set(k)
		o.Logger.Debug("inequality processed",
			zap.Int("inequality", k),
			zap.Int("rays", len(rays)),
			zap.Int("lineality", len(lin)))
	}

	res := &DualResult[T]{Dim: dim, Lineality: lin, Stats: st}
	for _, l := range lin {
		ck.MakePrimitive(l)
	}
	res.Rays = make([][]T, len(rays))
	for i, r := range rays {
		res.Rays[i] = r.v
	}
	if err := ck.Err(); err != nil {
		return nil, err
	}
	if err := res.classify(ineqs, rays); err != nil {
		return nil, err
	}
	o.Logger.Info("dual done",
		zap.Int("rays", len(res.Rays)),
		zap.Int("lineality", len(lin)),
		zap.Int("facets", len(res.Facets)))

	return res, nil
}

// shiftInto returns (pv·x − xv·l0) made primitive, which vanishes on the
// current inequality and differs from pv·x by a lineality vector.
func shiftInto[T num.Integer[T]](ck *num.Checked[T], x, l0 []T, pv, xv T) []T {
	if xv.IsZero() {
		return x
	}
	out := make([]T, len(x))
	for j := range out {
		out[j] = ck.MulSub(pv, x[j], xv, l0[j])
	}
	ck.MakePrimitive(out)

	return out
}

// ddAdjacent decides whether rays p and n span a 2-face.
func ddAdjacent[T num.Integer[T]](ineqs [][]T, rays []*ddRay[T], p, n *ddRay[T], common bitset.Set, dim, need int, rankTest bool) (bool, error) {
	if rankTest {
		idx := common.Indices()
		rows := make([][]T, len(idx))
		for i, k := range idx {
			rows[i] = ineqs[k]
		}
		r, err := matrix.RankOf(dim, rows)
		if err != nil {
			return false, err
		}

		return r == need, nil
	}
	for _, r := range rays {
		if r == p || r == n {
			continue
		}
		if common.IsSubsetOf(r.zero) {
			return false, nil
		}
	}

	return true, nil
}

// classify finds the irredundant and the implicit inequalities.
func (res *DualResult[T]) classify(ineqs [][]T, rays []*ddRay[T]) error {
	all := append(append([][]T(nil), res.Rays...), res.Lineality...)
	rank, err := matrix.RankOf(res.Dim, all)
	if err != nil {
		return err
	}
	res.Rank = rank
	seen := make(map[string]struct{})
	for k, a := range ineqs {
		if num.IsZeroVector(a) {
			continue
		}
		tight := bitset.New(len(rays))
		rows := append([][]T(nil), res.Lineality...)
		for i, r := range rays {
			if r.zero.Test(k) {
				tight.Set(i)
				rows = append(rows, r.v)
			}
		}
		if tight.Count() == len(rays) {
			res.Implicit = append(res.Implicit, k)

			continue
		}
		rk, err := matrix.RankOf(res.Dim, rows)
		if err != nil {
			return err
		}
		if rk != rank-1 {
			continue
		}
		if _, dup := seen[tight.Key()]; dup {
			continue
		}
		seen[tight.Key()] = struct{}{}
		h := append([]T(nil), a...)
		var ck num.Checked[T]
		ck.MakePrimitive(h)
		if err := ck.Err(); err != nil {
			return err
		}
		res.Facets = append(res.Facets, k)
		res.SupportHyperplanes = append(res.SupportHyperplanes, h)
	}

	return nil
}
