// SPDX-License-Identifier: MIT

package cone

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/polymake/polymake-sub008/matrix"
)

// InputKind tags an input matrix.
type InputKind int

const (
	InputGenerators InputKind = iota
	InputInequalities
	InputEquations
	InputCongruences
	InputGrading
	InputDehomogenization
	InputExcludedFaces
	InputExtremeRays
	InputSupportHyperplanes
	InputInhomInequalities
	InputInhomEquations
	InputVertices
	InputPolytope

	numInputKinds
)

var inputNames = [numInputKinds]string{
	"generators",
	"inequalities",
	"equations",
	"congruences",
	"grading",
	"dehomogenization",
	"excluded_faces",
	"extreme_rays",
	"support_hyperplanes",
	"inhom_inequalities",
	"inhom_equations",
	"vertices",
	"polytope",
}

func (k InputKind) String() string {
	if k < 0 || k >= numInputKinds {
		return fmt.Sprintf("InputKind(%d)", int(k))
	}

	return inputNames[k]
}

// ParseInputKind accepts the names above; "cone" is an alias of
// "generators".
func ParseInputKind(s string) (InputKind, error) {
	if strings.EqualFold(s, "cone") {
		return InputGenerators, nil
	}
	for i, name := range inputNames {
		if strings.EqualFold(s, name) {
			return InputKind(i), nil
		}
	}

	return 0, inputErrorf(numInputKinds, "unknown input kind %q", s)
}

// ColumnOffset is the number of columns a row of kind k has beyond the
// ambient dimension.
func (k InputKind) ColumnOffset() int {
	switch k {
	case InputCongruences, InputInhomInequalities, InputInhomEquations, InputVertices:
		return 1
	default:
		return 0
	}
}

func (k InputKind) inhomogeneous() bool {
	return k == InputInhomInequalities || k == InputInhomEquations || k == InputVertices
}

// Input maps kinds to matrices. Rows are not copied by New; they must not
// be modified afterwards.
type Input map[InputKind][][]*big.Int

// Int64Input converts machine-integer matrices into an Input.
func Int64Input(in map[InputKind][][]int64) Input {
	out := make(Input, len(in))
	for k, rows := range in {
		m := make([][]*big.Int, len(rows))
		for i, r := range rows {
			m[i] = make([]*big.Int, len(r))
			for j, x := range r {
				m[i][j] = big.NewInt(x)
			}
		}
		out[k] = m
	}

	return out
}

// prepared is the input in internal homogeneous coordinates of length dim.
type prepared struct {
	userDim int
	dim     int

	inhom    bool // dehomogenization set, vertices of polyhedron make sense
	polytope bool

	gens     [][]*big.Int
	ineqs    [][]*big.Int
	eqs      [][]*big.Int
	congs    [][]*big.Int // dim+1 columns
	excluded [][]*big.Int
	grading  []*big.Int
	dehom    []*big.Int

	// implicitDehom adds dehom ≥ 0 to constraint-only inhomogeneous input.
	implicitDehom bool
	// precomputed is set when extreme rays and support hyperplanes were
	// given; they have been checked against each other and the rays are
	// used as generators.
	precomputed bool
}

func (p *prepared) constrained() bool {
	return len(p.ineqs) > 0 || len(p.eqs) > 0 || p.implicitDehom
}

func sortedKinds(in Input) []InputKind {
	kinds := make([]InputKind, 0, len(in))
	for k := range in {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(a, b int) bool { return kinds[a] < kinds[b] })

	return kinds
}

// prepare checks the shapes of in and homogenizes it.
func prepare(in Input) (*prepared, error) {
	n := -1
	for _, k := range sortedKinds(in) {
		if k < 0 || k >= numInputKinds {
			return nil, inputErrorf(k, "unknown input kind")
		}
		rows := in[k]
		for i, r := range rows {
			if len(r) != len(rows[0]) {
				return nil, inputErrorf(k, "row %d has %d entries, row 0 has %d", i, len(r), len(rows[0]))
			}
			for j, x := range r {
				if x == nil {
					return nil, inputErrorf(k, "nil entry at (%d,%d)", i, j)
				}
			}
		}
		if len(rows) == 0 {
			continue
		}
		d := len(rows[0]) - k.ColumnOffset()
		if d < 1 {
			return nil, inputErrorf(k, "rows of length %d are too short", len(rows[0]))
		}
		if n >= 0 && d != n {
			return nil, inputErrorf(k, "ambient dimension %d, other input has %d", d, n)
		}
		n = d
	}
	if n < 0 {
		return nil, inputErrorf(InputGenerators, "empty input")
	}

	p := &prepared{userDim: n, dim: n}
	for _, k := range []InputKind{InputGrading, InputDehomogenization} {
		if rows, ok := in[k]; ok && len(rows) != 1 {
			return nil, inputErrorf(k, "want one row, got %d", len(rows))
		}
	}
	inhomKinds := false
	for k := range in {
		if k.inhomogeneous() && len(in[k]) > 0 {
			inhomKinds = true
		}
	}
	_, hasDehom := in[InputDehomogenization]
	_, hasGrading := in[InputGrading]
	if polyRows := in[InputPolytope]; len(polyRows) > 0 {
		for k, rows := range in {
			if k != InputPolytope && len(rows) > 0 {
				return nil, inputErrorf(k, "cannot be combined with polytope input")
			}
		}
		p.polytope = true
		p.dim = n + 1
		for _, r := range polyRows {
			p.gens = append(p.gens, appendInt(r, 1))
		}
		p.grading = unitVector(p.dim, n)

		return p, p.checkGenerators(InputPolytope)
	}
	switch {
	case inhomKinds && hasDehom:
		return nil, inputErrorf(InputDehomogenization, "cannot be combined with inhomogeneous input")
	case inhomKinds && hasGrading:
		return nil, inputErrorf(InputGrading, "inhomogeneous input is graded by the dehomogenization")
	case hasDehom && hasGrading:
		return nil, inputErrorf(InputGrading, "cannot be combined with a dehomogenization")
	}

	pad := func(rows [][]*big.Int) [][]*big.Int { return rows }
	if inhomKinds {
		p.dim = n + 1
		p.inhom = true
		p.dehom = unitVector(p.dim, n)
		pad = func(rows [][]*big.Int) [][]*big.Int {
			out := make([][]*big.Int, len(rows))
			for i, r := range rows {
				out[i] = appendInt(r, 0)
			}

			return out
		}
	}
	if hasDehom {
		p.inhom = true
		p.dehom = copyVec(in[InputDehomogenization][0])
		if isZero(p.dehom) {
			return nil, inputErrorf(InputDehomogenization, "zero form")
		}
	}
	if hasGrading {
		p.grading = copyVec(in[InputGrading][0])
		if isZero(p.grading) {
			return nil, inputErrorf(InputGrading, "zero form")
		}
	}

	p.gens = append(p.gens, pad(in[InputGenerators])...)
	p.gens = append(p.gens, pad(in[InputExtremeRays])...)
	for _, v := range in[InputVertices] {
		if v[n].Sign() <= 0 {
			return nil, inputErrorf(InputVertices, "denominator %s is not positive", v[n])
		}
		p.gens = append(p.gens, copyVec(v))
	}
	if err := p.checkGenerators(InputGenerators); err != nil {
		return nil, err
	}

	if len(in[InputExtremeRays]) > 0 && len(in[InputSupportHyperplanes]) > 0 {
		if err := checkPrecomputed(pad(in[InputExtremeRays]), pad(in[InputSupportHyperplanes])); err != nil {
			return nil, err
		}
		p.precomputed = true
	}

	p.ineqs = append(p.ineqs, dropZero(pad(in[InputInequalities]))...)
	if !p.precomputed {
		p.ineqs = append(p.ineqs, dropZero(pad(in[InputSupportHyperplanes]))...)
	}
	p.ineqs = append(p.ineqs, dropZero(in[InputInhomInequalities])...)
	p.eqs = append(p.eqs, dropZero(pad(in[InputEquations]))...)
	p.eqs = append(p.eqs, dropZero(in[InputInhomEquations])...)
	p.excluded = pad(in[InputExcludedFaces])
	for _, cg := range in[InputCongruences] {
		if cg[n].Sign() <= 0 {
			return nil, inputErrorf(InputCongruences, "modulus %s is not positive", cg[n])
		}
		row := copyVec(cg[:n])
		if inhomKinds {
			row = append(row, new(big.Int))
		}
		p.congs = append(p.congs, append(row, new(big.Int).Set(cg[n])))
	}
	if p.inhom && len(p.gens) == 0 {
		p.implicitDehom = true
	}

	if len(p.gens) == 0 && !p.constrained() && len(p.congs) == 0 {
		return nil, inputErrorf(InputGenerators, "no generators or constraints")
	}

	return p, nil
}

func (p *prepared) checkGenerators(k InputKind) error {
	for i, g := range p.gens {
		if isZero(g) {
			return inputErrorf(k, "generator %d is zero", i)
		}
	}

	return nil
}

// checkPrecomputed verifies that every support hyperplane is non-negative
// on every extreme ray.
func checkPrecomputed(rays, hyps [][]*big.Int) error {
	for i, h := range hyps {
		for j, r := range rays {
			if dotBig(h, r).Sign() < 0 {
				return inputErrorf(InputSupportHyperplanes, "hyperplane %d is negative on extreme ray %d", i, j)
			}
		}
	}

	return nil
}

// frame is the lattice part of the input: L0 is the saturated span of the
// generators (identity without generators), L1 the solutions of the
// equations and congruences inside L0, and lat = L0 then L1.
type frame struct {
	l0, l1, lat *matrix.Sublattice
}

func (p *prepared) frame() (*frame, error) {
	l0 := matrix.NewIdentity(p.dim)
	if len(p.gens) > 0 {
		var err error
		if l0, err = matrix.SaturatedSpan(p.dim, p.gens); err != nil {
			return nil, &InputError{Kind: InputGenerators, Err: fmt.Errorf("%w: %w", ErrBadInput, err)}
		}
	}
	eqs := make([][]*big.Int, 0, len(p.eqs))
	for _, e := range p.eqs {
		r, err := l0.ToSublatticeDual(e)
		if err != nil {
			return nil, err
		}
		eqs = append(eqs, r)
	}
	congs := make([][]*big.Int, 0, len(p.congs))
	for _, cg := range p.congs {
		r, err := l0.ToSublatticeDual(cg[:p.dim])
		if err != nil {
			return nil, err
		}
		congs = append(congs, append(r, cg[p.dim]))
	}
	l1, err := matrix.SolutionLattice(l0.Rank(), eqs, congs)
	if err != nil {
		return nil, &InputError{Kind: InputCongruences, Err: fmt.Errorf("%w: %w", ErrBadInput, err)}
	}
	lat, err := l0.Compose(l1)
	if err != nil {
		return nil, err
	}

	return &frame{l0: l0, l1: l1, lat: lat}, nil
}

func appendInt(v []*big.Int, x int64) []*big.Int {
	return append(copyVec(v), big.NewInt(x))
}

func unitVector(n, i int) []*big.Int {
	v := make([]*big.Int, n)
	for j := range v {
		v[j] = new(big.Int)
	}
	v[i].SetInt64(1)

	return v
}

func copyVec(v []*big.Int) []*big.Int {
	out := make([]*big.Int, len(v))
	for i, x := range v {
		out[i] = new(big.Int).Set(x)
	}

	return out
}

func copyRows(m [][]*big.Int) [][]*big.Int {
	if m == nil {
		return nil
	}
	out := make([][]*big.Int, len(m))
	for i, r := range m {
		out[i] = copyVec(r)
	}

	return out
}

func isZero(v []*big.Int) bool {
	for _, x := range v {
		if x.Sign() != 0 {
			return false
		}
	}

	return true
}

func dropZero(rows [][]*big.Int) [][]*big.Int {
	out := make([][]*big.Int, 0, len(rows))
	for _, r := range rows {
		if !isZero(r) {
			out = append(out, copyVec(r))
		}
	}

	return out
}

func dotBig(a, b []*big.Int) *big.Int {
	acc := new(big.Int)
	t := new(big.Int)
	for i := range a {
		acc.Add(acc, t.Mul(a[i], b[i]))
	}

	return acc
}
