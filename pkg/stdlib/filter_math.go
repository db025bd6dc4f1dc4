// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package stdlib

import (
	"math"

	"carvel.dev/liquid/pkg/registry"
	"carvel.dev/liquid/pkg/runtime"
	"carvel.dev/liquid/pkg/value"
)

func mathFilters() []registry.Filter {
	return []registry.Filter{
		binaryMathFilter("plus", "Adds a number", value.Add),
		binaryMathFilter("minus", "Subtracts a number", value.Sub),
		binaryMathFilter("times", "Multiplies by a number", value.Mul),
		binaryMathFilter("divided_by", "Divides by a number (floor division for Integers)", value.Div),
		binaryMathFilter("modulo", "Remainder of floor division", value.Mod),

		registry.NewFilter("abs", noParams(), "Absolute value",
			func(input value.Value, _ runtime.FilterArgs) (value.Value, error) {
				num, err := value.ToNumber(input, "abs")
				if err != nil {
					return value.Nil, err
				}
				if i, ok := num.AsInt(); ok {
					if i == math.MinInt64 {
						return value.NewFloat(-float64(i)), nil
					}
					if i < 0 {
						return value.NewInt(-i), nil
					}
					return num, nil
				}
				f, _ := num.AsFloat()
				return value.NewFloat(math.Abs(f)), nil
			}),

		roundingFilter("ceil", "Rounds up to an Integer", math.Ceil),
		roundingFilter("floor", "Rounds down to an Integer", math.Floor),

		registry.NewFilter("round", params(optional("digits")), "Rounds to a number of decimal digits",
			func(input value.Value, args runtime.FilterArgs) (value.Value, error) {
				num, err := value.ToNumber(input, "round")
				if err != nil {
					return value.Nil, err
				}
				digits := int64(0)
				if args.Has(0) {
					digits, err = value.ToInt(args.At(0), "round")
					if err != nil {
						return value.Nil, err
					}
				}
				if _, isInt := num.AsInt(); isInt && digits >= 0 {
					return num, nil
				}

				f, _ := value.ToFloat(num, "round")
				scale := math.Pow(10, float64(digits))
				rounded := math.Round(f*scale) / scale
				if digits <= 0 {
					return floatToInt(rounded), nil
				}
				return value.NewFloat(rounded), nil
			}),
	}
}

func binaryMathFilter(name, description string, op func(a, b value.Value) (value.Value, error)) registry.Filter {
	return registry.NewFilter(name, params(required("operand")), description,
		func(input value.Value, args runtime.FilterArgs) (value.Value, error) {
			return op(input, args.At(0))
		})
}

func roundingFilter(name, description string, round func(float64) float64) registry.Filter {
	return registry.NewFilter(name, noParams(), description,
		func(input value.Value, _ runtime.FilterArgs) (value.Value, error) {
			num, err := value.ToNumber(input, name)
			if err != nil {
				return value.Nil, err
			}
			if _, isInt := num.AsInt(); isInt {
				return num, nil
			}
			f, _ := num.AsFloat()
			return floatToInt(round(f)), nil
		})
}

// floatToInt keeps values outside the Integer range as Floats.
func floatToInt(f float64) value.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return value.NewFloat(f)
	}
	return value.NewInt(int64(f))
}
