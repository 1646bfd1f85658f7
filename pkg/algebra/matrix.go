package algebra

import (
	"math/big"
	"strings"
)

// Matrix is a dense matrix of exact rationals.
type Matrix struct {
	rows, cols int
	data       [][]*big.Rat
}

// NewMatrix returns a rows x cols zero matrix.
func NewMatrix(rows, cols int) *Matrix {
	data := make([][]*big.Rat, rows)
	for i := range data {
		data[i] = make([]*big.Rat, cols)
		for j := range data[i] {
			data[i][j] = new(big.Rat)
		}
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

// MatrixFromRows copies rows into a matrix. All rows must have the same
// length.
func MatrixFromRows(rows [][]*big.Rat) *Matrix {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	m := NewMatrix(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			panic("algebra: ragged matrix rows")
		}
		for j, v := range row {
			m.data[i][j].Set(v)
		}
	}
	return m
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

// At returns a copy of entry (i, j).
func (m *Matrix) At(i, j int) *big.Rat { return new(big.Rat).Set(m.data[i][j]) }

// Set stores a copy of v at (i, j).
func (m *Matrix) Set(i, j int, v *big.Rat) { m.data[i][j].Set(v) }

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []*big.Rat {
	out := make([]*big.Rat, m.cols)
	for j := range out {
		out[j] = m.At(i, j)
	}
	return out
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return MatrixFromRows(m.data)
}

// Transpose returns the transpose.
func (m *Matrix) Transpose() *Matrix {
	t := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			t.data[j][i].Set(m.data[i][j])
		}
	}
	return t
}

// VStack stacks a on top of b. Both must have the same column count.
func VStack(a, b *Matrix) *Matrix {
	if a.cols != b.cols {
		panic("algebra: column mismatch in VStack")
	}
	rows := make([][]*big.Rat, 0, a.rows+b.rows)
	rows = append(rows, a.data...)
	rows = append(rows, b.data...)
	if len(rows) == 0 {
		return NewMatrix(0, a.cols)
	}
	return MatrixFromRows(rows)
}

// RREF returns the reduced row echelon form and its pivot columns.
func (m *Matrix) RREF() (*Matrix, []int) {
	r := m.Clone()
	var pivots []int
	lead := 0
	tmp := new(big.Rat)
	for col := 0; col < r.cols && lead < r.rows; col++ {
		pivot := -1
		for i := lead; i < r.rows; i++ {
			if r.data[i][col].Sign() != 0 {
				pivot = i
				break
			}
		}
		if pivot < 0 {
			continue
		}
		r.data[lead], r.data[pivot] = r.data[pivot], r.data[lead]

		inv := new(big.Rat).Inv(r.data[lead][col])
		for j := col; j < r.cols; j++ {
			r.data[lead][j].Mul(r.data[lead][j], inv)
		}
		for i := 0; i < r.rows; i++ {
			if i == lead || r.data[i][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Set(r.data[i][col])
			for j := col; j < r.cols; j++ {
				tmp.Mul(factor, r.data[lead][j])
				r.data[i][j].Sub(r.data[i][j], tmp)
			}
		}
		pivots = append(pivots, col)
		lead++
	}
	return r, pivots
}

// Rank returns the rank.
func (m *Matrix) Rank() int {
	_, pivots := m.RREF()
	return len(pivots)
}

// NullSpace returns a basis of the right null space {x : m*x = 0}, one
// vector per free column.
func (m *Matrix) NullSpace() [][]*big.Rat {
	r, pivots := m.RREF()
	isPivot := make(map[int]int, len(pivots))
	for row, col := range pivots {
		isPivot[col] = row
	}
	var basis [][]*big.Rat
	for free := 0; free < m.cols; free++ {
		if _, ok := isPivot[free]; ok {
			continue
		}
		v := make([]*big.Rat, m.cols)
		for j := range v {
			v[j] = new(big.Rat)
		}
		v[free].SetInt64(1)
		for col, row := range isPivot {
			v[col].Neg(r.data[row][free])
		}
		basis = append(basis, v)
	}
	return basis
}

// Integerize scales v by the least common multiple of its denominators and
// divides out the common factor, giving the smallest integer vector in
// the same direction. The first nonzero entry is made positive.
func Integerize(v []*big.Rat) []*big.Rat {
	lcm := big.NewInt(1)
	for _, x := range v {
		d := x.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}
	ints := make([]*big.Int, len(v))
	gcd := new(big.Int)
	for i, x := range v {
		n := new(big.Int).Mul(x.Num(), new(big.Int).Quo(lcm, x.Denom()))
		ints[i] = n
		gcd.GCD(nil, nil, gcd, new(big.Int).Abs(n))
	}
	if gcd.Sign() == 0 {
		gcd.SetInt64(1)
	}
	sign := int64(1)
	for _, n := range ints {
		if n.Sign() != 0 {
			if n.Sign() < 0 {
				sign = -1
			}
			break
		}
	}
	out := make([]*big.Rat, len(v))
	for i, n := range ints {
		q := new(big.Int).Quo(n, gcd)
		q.Mul(q, big.NewInt(sign))
		out[i] = new(big.Rat).SetInt(q)
	}
	return out
}

func (m *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < m.rows; i++ {
		b.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				b.WriteString(" ")
			}
			b.WriteString(m.data[i][j].RatString())
		}
		b.WriteString("]\n")
	}
	return b.String()
}
