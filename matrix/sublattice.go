// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math/big"

	"github.com/polymake/polymake-sub008/num"
)

// Sublattice represents a rank-r lattice map between ambient space Z^d and
// coordinates Z^r by an embedding B (r×d), a projection P (d×r) and an
// annihilator c > 0 with B·P = c·I.
//
// Vectors move by x = y·B (FromSublattice) and y = x·P / c (ToSublattice).
// Linear forms move by f' = B·f (ToSublatticeDual) and f ∝ P·f'
// (FromSublatticeDual, made primitive). Quotients by a linear subspace use
// the same triple with the roles of the two maps exchanged, so every
// coordinate change in the cone pipeline is one Sublattice, and chains of
// them collapse through Compose.
type Sublattice struct {
	embedding   [][]*big.Int
	projection  [][]*big.Int
	annihilator *big.Int
	dim         int
	// quotient maps are defined on all of Z^d
	quotient bool
}

// Dim is the ambient dimension d.
func (s *Sublattice) Dim() int { return s.dim }

// Rank is the coordinate dimension r.
func (s *Sublattice) Rank() int { return len(s.embedding) }

// Embedding returns a copy of B.
func (s *Sublattice) Embedding() [][]*big.Int { return copyBig(s.embedding) }

// Projection returns a copy of P.
func (s *Sublattice) Projection() [][]*big.Int { return copyBig(s.projection) }

// Annihilator returns a copy of c.
func (s *Sublattice) Annihilator() *big.Int { return new(big.Int).Set(s.annihilator) }

// IsIdentity reports whether the map is the identity of Z^d.
func (s *Sublattice) IsIdentity() bool {
	if s.Rank() != s.dim || s.annihilator.Cmp(big.NewInt(1)) != 0 {
		return false
	}
	for i, row := range s.embedding {
		for j, x := range row {
			want := int64(0)
			if i == j {
				want = 1
			}
			if x.Cmp(big.NewInt(want)) != 0 {
				return false
			}
		}
	}

	return true
}

func (s *Sublattice) String() string {
	return fmt.Sprintf("Sublattice(rank %d in Z^%d, annihilator %s)", s.Rank(), s.dim, s.annihilator)
}

func copyBig(m [][]*big.Int) [][]*big.Int {
	out := make([][]*big.Int, len(m))
	for i, row := range m {
		out[i] = make([]*big.Int, len(row))
		for j, x := range row {
			out[i][j] = new(big.Int).Set(x)
		}
	}

	return out
}

func toDense(cols int, rows [][]*big.Int) (*Dense[num.BigInt], error) {
	conv, _ := num.FromBigMatrix[num.BigInt](rows)

	return FromRows(cols, conv)
}

func fromDense(m *Dense[num.BigInt]) [][]*big.Int { return num.BigMatrix(m.ToRows()) }

// NewIdentity returns the identity sublattice of Z^d.
func NewIdentity(d int) *Sublattice {
	e := make([][]*big.Int, d)
	for i := range e {
		e[i] = make([]*big.Int, d)
		for j := range e[i] {
			e[i][j] = new(big.Int)
		}
		e[i][i].SetInt64(1)
	}

	return &Sublattice{embedding: e, projection: copyBig(e), annihilator: big.NewInt(1), dim: d}
}

// fromBasis builds the triple for the lattice with the given basis rows,
// LLL-reducing the basis first unless disabled.
func fromBasis(d int, basis [][]*big.Int, o Options) (*Sublattice, error) {
	if len(basis) == 0 {
		proj := make([][]*big.Int, d)
		for i := range proj {
			proj[i] = []*big.Int{}
		}

		return &Sublattice{embedding: [][]*big.Int{}, projection: proj, annihilator: big.NewInt(1), dim: d}, nil
	}
	reduced := basis
	if o.reduceBasis {
		var err error
		if reduced, _, err = LLL(basis, WithLLLDelta(o.delta.Num().Int64(), o.delta.Denom().Int64())); err != nil {
			return nil, matrixErrorf(opSublattice, err)
		}
	}
	p, c, err := rightInverse(d, reduced)
	if err != nil {
		return nil, err
	}

	return &Sublattice{embedding: reduced, projection: p, annihilator: c, dim: d}, nil
}

// rightInverse returns P (d×r) and c > 0 with B·P = c·I for a full row rank B.
func rightInverse(d int, b [][]*big.Int) ([][]*big.Int, *big.Int, error) {
	r := len(b)
	bd, err := toDense(d, b)
	if err != nil {
		return nil, nil, matrixErrorf(opSublattice, err)
	}
	h, u, rank, err := ColumnHermite(bd)
	if err != nil {
		return nil, nil, matrixErrorf(opSublattice, err)
	}
	if rank != r {
		return nil, nil, matrixErrorf(opSublattice, ErrNotFullRank)
	}
	hsq, _ := NewDense[num.BigInt](r, r)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			hsq.data[i*r+j] = h.data[i*d+j]
		}
	}
	adj, det, err := Invert(hsq)
	if err != nil {
		return nil, nil, matrixErrorf(opSublattice, err)
	}
	ur, _ := NewDense[num.BigInt](d, r)
	for i := 0; i < d; i++ {
		for j := 0; j < r; j++ {
			ur.data[i*r+j] = u.data[i*d+j]
		}
	}
	p, err := Mul(ur, adj)
	if err != nil {
		return nil, nil, matrixErrorf(opSublattice, err)
	}
	pr := fromDense(p)
	c := det.Big()
	if c.Sign() < 0 {
		c.Neg(c)
		for _, row := range pr {
			for _, x := range row {
				x.Neg(x)
			}
		}
	}
	g := new(big.Int).Set(c)
	for _, row := range pr {
		for _, x := range row {
			g.GCD(nil, nil, g, new(big.Int).Abs(x))
		}
	}
	if g.Cmp(big.NewInt(1)) > 0 {
		c.Quo(c, g)
		for _, row := range pr {
			for _, x := range row {
				x.Quo(x, g)
			}
		}
	}

	return pr, c, nil
}

// SaturatedSpan returns the lattice span(gens) ∩ Z^d.
func SaturatedSpan(d int, gens [][]*big.Int, opts ...Option) (*Sublattice, error) {
	o := gatherOptions(opts...)
	if err := ValidateRows(d, gens); err != nil {
		return nil, matrixErrorf(opSublattice, err)
	}
	if len(gens) == 0 {
		return fromBasis(d, nil, o)
	}
	g, _ := toDense(d, gens)
	eq, err := Kernel(g)
	if err != nil {
		return nil, err
	}
	if eq.Rows() == 0 {
		return NewIdentity(d), nil
	}
	basis, err := Kernel(eq)
	if err != nil {
		return nil, err
	}

	return fromBasis(d, fromDense(basis), o)
}

// GeneratedBy returns the lattice generated by gens (not saturated).
func GeneratedBy(d int, gens [][]*big.Int, opts ...Option) (*Sublattice, error) {
	o := gatherOptions(opts...)
	if err := ValidateRows(d, gens); err != nil {
		return nil, matrixErrorf(opSublattice, err)
	}
	if len(gens) == 0 {
		return fromBasis(d, nil, o)
	}
	g, _ := toDense(d, gens)
	basis, err := LatticeBasis(g)
	if err != nil {
		return nil, err
	}

	return fromBasis(d, fromDense(basis), o)
}

// SolutionLattice returns {x ∈ Z^d : E·x = 0, a_k·x ≡ 0 mod m_k}.
// equations have d columns; congruences have d+1 columns, the last being
// the modulus m_k > 0.
func SolutionLattice(d int, equations, congruences [][]*big.Int, opts ...Option) (*Sublattice, error) {
	o := gatherOptions(opts...)
	if err := ValidateRows(d, equations); err != nil {
		return nil, matrixErrorf(opSublattice, err)
	}
	if err := ValidateRows(d+1, congruences); err != nil {
		return nil, matrixErrorf(opSublattice, err)
	}
	if len(congruences) == 0 {
		if len(equations) == 0 {
			return NewIdentity(d), nil
		}
		e, _ := toDense(d, equations)
		basis, err := Kernel(e)
		if err != nil {
			return nil, err
		}

		return fromBasis(d, fromDense(basis), o)
	}
	k := len(congruences)
	w := d + k
	rows := make([][]*big.Int, 0, len(equations)+k)
	for _, e := range equations {
		row := make([]*big.Int, w)
		for j := range row {
			row[j] = new(big.Int)
			if j < d {
				row[j].Set(e[j])
			}
		}
		rows = append(rows, row)
	}
	for i, cg := range congruences {
		if cg[d].Sign() <= 0 {
			return nil, matrixErrorf(opSublattice, fmt.Errorf("congruence %d has non-positive modulus: %w", i, ErrOutOfRange))
		}
		row := make([]*big.Int, w)
		for j := range row {
			row[j] = new(big.Int)
			if j < d {
				row[j].Set(cg[j])
			}
		}
		row[d+i].Neg(cg[d])
		rows = append(rows, row)
	}
	m, _ := toDense(w, rows)
	ker, err := Kernel(m)
	if err != nil {
		return nil, err
	}
	gens := make([][]*big.Int, 0, ker.Rows())
	for _, row := range fromDense(ker) {
		gens = append(gens, row[:d])
	}

	return GeneratedBy(d, gens, opts...)
}

// QuotientBy returns the projection Z^d → Z^d / (span(lineality) ∩ Z^d).
// ToSublattice maps a vector to its class, FromSublattice lifts a class, and
// forms vanishing on the subspace move with the dual maps.
func QuotientBy(d int, lineality [][]*big.Int, opts ...Option) (*Sublattice, error) {
	o := gatherOptions(opts...)
	if err := ValidateRows(d, lineality); err != nil {
		return nil, matrixErrorf(opSublattice, err)
	}
	if len(lineality) == 0 {
		return NewIdentity(d), nil
	}
	l, _ := toDense(d, lineality)
	forms, err := Kernel(l)
	if err != nil {
		return nil, err
	}
	m := fromDense(forms)
	if len(m) == 0 {
		z, err := fromBasis(d, nil, o)
		if err != nil {
			return nil, err
		}
		z.quotient = true

		return z, nil
	}
	n, c, err := rightInverse(d, m)
	if err != nil {
		return nil, err
	}
	if c.Cmp(big.NewInt(1)) != 0 {
		return nil, matrixErrorf(opSublattice, ErrNotFullRank)
	}
	// Embedding = Nᵀ, Projection = Mᵀ.
	emb := transposeBig(n, len(m))
	proj := transposeBig(m, d)

	return &Sublattice{embedding: emb, projection: proj, annihilator: c, dim: d, quotient: true}, nil
}

func transposeBig(m [][]*big.Int, cols int) [][]*big.Int {
	out := make([][]*big.Int, cols)
	for j := range out {
		out[j] = make([]*big.Int, len(m))
		for i := range m {
			out[j][i] = new(big.Int).Set(m[i][j])
		}
	}

	return out
}

// ToSublattice returns the coordinates of x.
//
// Errors:
//   - ErrDimensionMismatch, ErrNotInLattice.
func (s *Sublattice) ToSublattice(x []*big.Int) ([]*big.Int, error) {
	y, err := s.project(x)
	if err != nil {
		return nil, err
	}
	if !s.inSpan(x, y) {
		return nil, matrixErrorf(opSublattice, ErrNotInLattice)
	}
	rem := new(big.Int)
	for _, v := range y {
		v.QuoRem(v, s.annihilator, rem)
		if rem.Sign() != 0 {
			return nil, matrixErrorf(opSublattice, ErrNotInLattice)
		}
	}

	return y, nil
}

// ToSublatticeScaled returns the primitive coordinate vector of the ray
// through x; x only needs to lie in the rational span of the lattice.
func (s *Sublattice) ToSublatticeScaled(x []*big.Int) ([]*big.Int, error) {
	y, err := s.project(x)
	if err != nil {
		return nil, err
	}
	if !s.inSpan(x, y) {
		return nil, matrixErrorf(opSublattice, ErrNotInLattice)
	}
	makePrimitiveBig(y)

	return y, nil
}

func (s *Sublattice) project(x []*big.Int) ([]*big.Int, error) {
	if err := ValidateVecLen(s.dim, x); err != nil {
		return nil, matrixErrorf(opSublattice, err)
	}
	r := s.Rank()
	y := make([]*big.Int, r)
	for k := 0; k < r; k++ {
		acc := new(big.Int)
		for j := 0; j < s.dim; j++ {
			acc.Add(acc, new(big.Int).Mul(x[j], s.projection[j][k]))
		}
		y[k] = acc
	}

	return y, nil
}

// inSpan reports whether y = x·P satisfies y·B = c·x, which holds exactly
// when x lies in the rational span of the lattice. Quotients accept every x.
func (s *Sublattice) inSpan(x, y []*big.Int) bool {
	if s.quotient {
		return true
	}
	t := new(big.Int)
	for j := 0; j < s.dim; j++ {
		acc := new(big.Int)
		for k, row := range s.embedding {
			acc.Add(acc, t.Mul(y[k], row[j]))
		}
		if acc.Cmp(t.Mul(s.annihilator, x[j])) != 0 {
			return false
		}
	}

	return true
}

// FromSublattice returns y·B.
func (s *Sublattice) FromSublattice(y []*big.Int) ([]*big.Int, error) {
	if err := ValidateVecLen(s.Rank(), y); err != nil {
		return nil, matrixErrorf(opSublattice, err)
	}
	x := make([]*big.Int, s.dim)
	for j := range x {
		x[j] = new(big.Int)
	}
	for k, row := range s.embedding {
		if y[k].Sign() == 0 {
			continue
		}
		for j := range x {
			x[j].Add(x[j], new(big.Int).Mul(y[k], row[j]))
		}
	}

	return x, nil
}

// ToSublatticeDual restricts the ambient form f to the lattice: f'_k = B_k·f.
func (s *Sublattice) ToSublatticeDual(f []*big.Int) ([]*big.Int, error) {
	if err := ValidateVecLen(s.dim, f); err != nil {
		return nil, matrixErrorf(opSublattice, err)
	}
	out := make([]*big.Int, s.Rank())
	for k, row := range s.embedding {
		acc := new(big.Int)
		for j := range row {
			acc.Add(acc, new(big.Int).Mul(row[j], f[j]))
		}
		out[k] = acc
	}

	return out, nil
}

// FromSublatticeDual returns the primitive ambient form P·f', which agrees
// with f' on the lattice up to a positive factor.
func (s *Sublattice) FromSublatticeDual(f []*big.Int) ([]*big.Int, error) {
	if err := ValidateVecLen(s.Rank(), f); err != nil {
		return nil, matrixErrorf(opSublattice, err)
	}
	out := make([]*big.Int, s.dim)
	for j := range out {
		acc := new(big.Int)
		for k := range f {
			acc.Add(acc, new(big.Int).Mul(s.projection[j][k], f[k]))
		}
		out[j] = acc
	}
	makePrimitiveBig(out)

	return out, nil
}

// Compose returns the map "s, then inner", where inner lives in the
// coordinates of s.
func (s *Sublattice) Compose(inner *Sublattice) (*Sublattice, error) {
	if inner.dim != s.Rank() {
		return nil, matrixErrorf(opSublattice, ErrDimensionMismatch)
	}
	bi, _ := toDense(inner.dim, inner.embedding)
	bo, _ := toDense(s.dim, s.embedding)
	po, _ := toDense(s.Rank(), s.projection)
	pi, _ := toDense(inner.Rank(), inner.projection)
	b, err := Mul(bi, bo)
	if err != nil {
		return nil, err
	}
	p, err := Mul(po, pi)
	if err != nil {
		return nil, err
	}
	pr := fromDense(p)
	c := new(big.Int).Mul(s.annihilator, inner.annihilator)
	g := new(big.Int).Set(c)
	for _, row := range pr {
		for _, x := range row {
			g.GCD(nil, nil, g, new(big.Int).Abs(x))
		}
	}
	if g.Cmp(big.NewInt(1)) > 0 {
		c.Quo(c, g)
		for _, row := range pr {
			for _, x := range row {
				x.Quo(x, g)
			}
		}
	}

	return &Sublattice{embedding: fromDense(b), projection: pr, annihilator: c, dim: s.dim, quotient: s.quotient || inner.quotient}, nil
}

// Equations returns a basis of the linear forms vanishing on the lattice.
func (s *Sublattice) Equations() ([][]*big.Int, error) {
	if s.Rank() == 0 {
		return NewIdentity(s.dim).Embedding(), nil
	}
	b, _ := toDense(s.dim, s.embedding)
	k, err := Kernel(b)
	if err != nil {
		return nil, err
	}

	return fromDense(k), nil
}

func makePrimitiveBig(v []*big.Int) {
	g := new(big.Int)
	for _, x := range v {
		g.GCD(nil, nil, g, new(big.Int).Abs(x))
	}
	if g.Sign() == 0 || g.Cmp(big.NewInt(1)) == 0 {
		return
	}
	for _, x := range v {
		x.Quo(x, g)
	}
}
