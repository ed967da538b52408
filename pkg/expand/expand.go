// Package expand converts vector and constant notations into their
// ordered per-bit components, and rewrites vector-valued statements into
// scalar-equivalent form.
package expand

import (
	"fmt"
	"strconv"

	"github.com/visiboole/Visiboole-sub000/pkg/lexer"
	"github.com/visiboole/Visiboole-sub000/pkg/namespace"
)

// Memo caches expansions by literal text. A given literal always expands
// identically, so entries are never invalidated; the memo is owned by one
// design scan and discarded with it. The whole-namespace form "name[]" is
// not cached because its expansion depends on registry state.
type Memo struct {
	vectors   map[string][]string
	constants map[string][]string
}

// NewMemo creates an empty expansion cache.
func NewMemo() *Memo {
	return &Memo{
		vectors:   make(map[string][]string),
		constants: make(map[string][]string),
	}
}

// Vector expands an explicit-bounds vector literal into its ordered
// component names, most significant bit first.
func (m *Memo) Vector(literal string) ([]string, error) {
	if cached, ok := m.vectors[literal]; ok {
		return cached, nil
	}
	components, err := expandVector(literal)
	if err != nil {
		return nil, err
	}
	m.vectors[literal] = components
	return components, nil
}

// Constant expands a constant literal into its ordered bit values, most
// significant bit first, as "1"/"0" strings.
func (m *Memo) Constant(literal string) ([]string, error) {
	if cached, ok := m.constants[literal]; ok {
		return cached, nil
	}
	bits, err := expandConstant(literal)
	if err != nil {
		return nil, err
	}
	m.constants[literal] = bits
	return bits, nil
}

// Operand expands any operand lexeme: an explicit vector via the memo, a
// whole-namespace vector via the registry, a constant via the memo, and a
// scalar to itself.
func (m *Memo) Operand(literal string, reg *namespace.Registry) ([]string, error) {
	if mv := lexer.VectorRegexp.FindStringSubmatch(literal); mv != nil {
		if mv[2] == "" && mv[4] == "" {
			components := reg.Components(mv[1])
			if len(components) == 0 {
				return nil, fmt.Errorf("'%s' has no declared namespace", mv[1])
			}
			return components, nil
		}
		return m.Vector(literal)
	}
	if lexer.ConstantRegexp.MatchString(literal) {
		return m.Constant(literal)
	}
	return []string{literal}, nil
}

func expandVector(literal string) ([]string, error) {
	m := lexer.VectorRegexp.FindStringSubmatch(literal)
	if m == nil || (m[2] == "" && m[4] == "") {
		return nil, fmt.Errorf("'%s' is not an explicit vector", literal)
	}
	name := m[1]
	left, _ := strconv.Atoi(m[2])
	right, _ := strconv.Atoi(m[4])
	step := 1
	if m[3] != "" {
		step, _ = strconv.Atoi(m[3])
	}
	if step < 1 {
		return nil, fmt.Errorf("'%s' uses an illegal step", literal)
	}

	// Normalize so the left bound is the most significant bit.
	if left < right {
		left, right = right, left
	}
	var components []string
	for b := left; b >= right; b -= step {
		components = append(components, name+strconv.Itoa(b))
	}
	return components, nil
}

// expandConstant converts a constant's value to binary and applies the
// explicit bit count. A count larger than the natural digit count
// left-pads with zero bits; a smaller count is a hard error rather than a
// silent truncation.
func expandConstant(literal string) ([]string, error) {
	m := lexer.ConstantRegexp.FindStringSubmatch(literal)
	if m == nil {
		return nil, fmt.Errorf("'%s' is not a constant", literal)
	}
	count, binary, hex, formattedDecimal, bareDecimal := m[1], m[2], m[3], m[4], m[5]

	var digits string
	switch {
	case binary != "":
		digits = binary
	case hex != "":
		v, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not a constant", literal)
		}
		digits = strconv.FormatUint(v, 2)
		// Hex digits carry four bits each, leading zeros included.
		if natural := 4 * len(hex); len(digits) < natural {
			digits = pad(digits, natural)
		}
	default:
		value := formattedDecimal
		if value == "" {
			value = bareDecimal
		}
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not a constant", literal)
		}
		digits = strconv.FormatUint(v, 2)
	}

	if count != "" {
		n, err := strconv.Atoi(count)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not a constant", literal)
		}
		if n < len(digits) {
			return nil, fmt.Errorf("'%s' doesn't specify enough bits", literal)
		}
		digits = pad(digits, n)
	}

	bits := make([]string, len(digits))
	for i := range digits {
		bits[i] = string(digits[i])
	}
	return bits, nil
}

func pad(digits string, width int) string {
	for len(digits) < width {
		digits = "0" + digits
	}
	return digits
}
