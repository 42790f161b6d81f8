// Package matrix validates the integer matrices behind matrix procedures.
//
// A matrix procedure applies a fixed linear transform to its arguments. The
// transform is only usable inside an involution when it is its own inverse,
// so construction rejects anything whose square is not the identity.
package matrix

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// NonSquareError reports an element count that is not a perfect square.
type NonSquareError struct {
	Len int
}

func (e *NonSquareError) Error() string {
	return fmt.Sprintf("matrix of %d element(s) has an invalid size", e.Len)
}

// NotInvolutoryError reports a square matrix whose square is not the identity.
type NotInvolutoryError struct {
	Matrix *Square
}

func (e *NotInvolutoryError) Error() string {
	return fmt.Sprintf("%s is not involutory", e.Matrix)
}

// Square is an immutable size x size integer matrix stored row-major.
type Square struct {
	data []int
	size int
}

// NewSquare copies data into a square matrix.
func NewSquare(data []int) (*Square, error) {
	n := len(data)
	size := isqrt(n)
	if size*size != n {
		return nil, &NonSquareError{Len: n}
	}
	cp := make([]int, n)
	copy(cp, data)
	return &Square{data: cp, size: size}, nil
}

func isqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

func (m *Square) Size() int { return m.size }

// Get returns the element at row, col. It panics when either index is out of range.
func (m *Square) Get(row, col int) int {
	if row < 0 || row >= m.size || col < 0 || col >= m.size {
		panic(fmt.Sprintf("matrix index (%d, %d) out of range for size %d", row, col, m.size))
	}
	return m.data[m.size*row+col]
}

// Mul returns m * other. Both operands must have the same size. Products are
// accumulated exactly; ok is false when an element of the result does not fit
// in an int.
func (m *Square) Mul(other *Square) (product *Square, ok bool) {
	size := m.size
	data := make([]int, size*size)
	var sum, term, x, y big.Int
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			sum.SetInt64(0)
			for i := 0; i < size; i++ {
				x.SetInt64(int64(m.Get(row, i)))
				y.SetInt64(int64(other.Get(i, col)))
				sum.Add(&sum, term.Mul(&x, &y))
			}
			if !sum.IsInt64() || sum.Int64() < math.MinInt || sum.Int64() > math.MaxInt {
				return nil, false
			}
			data[size*row+col] = int(sum.Int64())
		}
	}
	return &Square{data: data, size: size}, true
}

// IsIdentity reports whether every row equals the matching identity row.
func (m *Square) IsIdentity() bool {
	for row := 0; row < m.size; row++ {
		if !m.IsIdentityRow(row) {
			return false
		}
	}
	return true
}

// IsIdentityRow reports whether row has 1 on the diagonal and 0 elsewhere.
func (m *Square) IsIdentityRow(row int) bool {
	for col := 0; col < m.size; col++ {
		want := 0
		if row == col {
			want = 1
		}
		if m.Get(row, col) != want {
			return false
		}
	}
	return true
}

// Values returns a copy of the row-major elements.
func (m *Square) Values() []int {
	cp := make([]int, len(m.data))
	copy(cp, m.data)
	return cp
}

func (m *Square) String() string {
	vals := m.Values()
	rows := make([]string, m.size)
	for row := range rows {
		cols := make([]string, m.size)
		for col, v := range vals[row*m.size : (row+1)*m.size] {
			cols[col] = strconv.Itoa(v)
		}
		rows[row] = strings.Join(cols, ", ")
	}
	return "[" + strings.Join(rows, "; ") + "]"
}

// Involutory is a square matrix known to be its own inverse.
type Involutory struct {
	*Square
}

// NewInvolutory validates a row-major element list. It fails with
// *NonSquareError or *NotInvolutoryError.
func NewInvolutory(data []int) (*Involutory, error) {
	sq, err := NewSquare(data)
	if err != nil {
		return nil, err
	}
	if sq2, ok := sq.Mul(sq); !ok || !sq2.IsIdentity() {
		return nil, &NotInvolutoryError{Matrix: sq}
	}
	return &Involutory{Square: sq}, nil
}
