// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

// PairKey is an unordered pair of expression or element keys. Two keys
// built from the same pair in either order are equal.
type PairKey struct {
	a, b string
}

// NewPairKey returns the PairKey for x and y.
func NewPairKey(x, y string) PairKey {
	if y < x {
		x, y = y, x
	}
	return PairKey{a: x, b: y}
}

// exprPair returns the PairKey for two class expressions.
func exprPair(x, y ClassExpression) PairKey {
	return NewPairKey(x.Key(), y.Key())
}

// Parts returns the two halves of the pair in canonical order.
func (k PairKey) Parts() (string, string) { return k.a, k.b }
