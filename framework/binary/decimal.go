// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package binary

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// MaxDecimalScale is the largest power of ten a Decimal may be scaled by.
const MaxDecimalScale = 28

const (
	decimalScaleShift = 16
	decimalSignBit    = uint32(1) << 31
	decimalFlagsMask  = decimalSignBit | uint32(0xff)<<decimalScaleShift
)

// Decimal is a 96 bit unsigned integer mantissa with a sign and a power of
// ten scale. The value is (-1)^Negative * (Hi<<64 | Lo) / 10^Scale.
// It is encoded as 16 bytes: Lo, Hi and a flags word holding the scale and
// sign.
type Decimal struct {
	Lo       uint64
	Hi       uint32
	Scale    uint8
	Negative bool
}

var maxMantissa = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))

// NewDecimal returns the Decimal holding unscaled / 10^scale.
func NewDecimal(unscaled *big.Int, scale uint8) (Decimal, error) {
	if scale > MaxDecimalScale {
		return Decimal{}, errors.Errorf("Decimal scale %d exceeds %d", scale, MaxDecimalScale)
	}
	abs := new(big.Int).Abs(unscaled)
	if abs.Cmp(maxMantissa) > 0 {
		return Decimal{}, errors.Errorf("Decimal mantissa %v exceeds 96 bits", unscaled)
	}
	lo := new(big.Int).And(abs, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(abs, 64)
	return Decimal{
		Lo:       lo.Uint64(),
		Hi:       uint32(hi.Uint64()),
		Scale:    scale,
		Negative: unscaled.Sign() < 0,
	}, nil
}

// DecimalFromBits builds a Decimal from its encoded words.
func DecimalFromBits(lo uint64, hi uint32, flags uint32) (Decimal, error) {
	if flags&^decimalFlagsMask != 0 {
		return Decimal{}, errors.Errorf("Invalid decimal flags 0x%.8x", flags)
	}
	scale := uint8(flags >> decimalScaleShift)
	if scale > MaxDecimalScale {
		return Decimal{}, errors.Errorf("Decimal scale %d exceeds %d", scale, MaxDecimalScale)
	}
	return Decimal{Lo: lo, Hi: hi, Scale: scale, Negative: flags&decimalSignBit != 0}, nil
}

// Flags returns the encoded flags word of d.
func (d Decimal) Flags() uint32 {
	flags := uint32(d.Scale) << decimalScaleShift
	if d.Negative {
		flags |= decimalSignBit
	}
	return flags
}

// Unscaled returns the signed mantissa of d.
func (d Decimal) Unscaled() *big.Int {
	v := new(big.Int).SetUint64(uint64(d.Hi))
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(d.Lo))
	if d.Negative {
		v.Neg(v)
	}
	return v
}

func (d Decimal) String() string {
	digits := new(big.Int).Abs(d.Unscaled()).String()
	scale := int(d.Scale)
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	sign := ""
	if d.Negative && (d.Lo != 0 || d.Hi != 0) {
		sign = "-"
	}
	if scale == 0 {
		return sign + digits
	}
	split := len(digits) - scale
	return sign + digits[:split] + "." + digits[split:]
}
