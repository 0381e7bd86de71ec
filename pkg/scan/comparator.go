package scan

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Comparator is the predicate a Scan applies to every candidate element.
// ref1 and ref2 are raw bit patterns (zero-extended for integers,
// IEEE-754 bit patterns for floats); ref2 is absent unless the predicate
// is one of increased_by/decreased_by/value_between.
// Grounded on original_source/scanner/scan.hpp's scan::comparator_fn.
type Comparator func(value, ref1 uint64, ref2 *uint64) bool

const (
	epsF32 = float32(0.01)
	epsF64 = 1e-7
)

// between reports whether v falls strictly inside (lo+eps, hi-eps). It is
// generic over both IEEE kinds but only the F32 value_between branch uses
// it; the F64 branch compares against its bounds without an epsilon.
func between[T constraints.Float](v, lo, hi, eps T) bool {
	return v > lo+eps && v < hi-eps
}

// MakeComparator builds the Comparator for one (predicate, element kind)
// pair, mirroring slow_scanner::make_comparator's per-element-kind
// dispatch: integers compare exactly, F32 uses an epsilon of 0.01, and
// F64 uses exact equality for equality-style predicates but an epsilon
// of 1e-7 for the strict order predicates (bigger_than/smaller_than),
// matching the original's asymmetric double branch.
func MakeComparator(kind PredicateKind, elem ElementKind) Comparator {
	switch elem {
	case F32:
		return makeFloat32Comparator(kind)
	case F64:
		return makeFloat64Comparator(kind)
	default:
		return makeIntComparator(kind)
	}
}

func makeIntComparator(kind PredicateKind) Comparator {
	return func(value, ref1 uint64, ref2 *uint64) bool {
		a, b := value, ref1
		switch kind {
		case ExactValue:
			return a == b
		case IncreasedValue:
			return a > b
		case DecreasedValue:
			return a < b
		case BiggerThan:
			return a > b
		case SmallerThan:
			return a < b
		case Changed:
			return a != b
		case Unchanged:
			return a == b
		case IncreasedBy:
			return ref2 != nil && a-b == *ref2
		case DecreasedBy:
			return ref2 != nil && b-a == *ref2
		case ValueBetween:
			return ref2 != nil && a > b && a < *ref2
		default:
			return false
		}
	}
}

func makeFloat32Comparator(kind PredicateKind) Comparator {
	return func(value, ref1 uint64, ref2 *uint64) bool {
		a := math.Float32frombits(uint32(value))
		b := math.Float32frombits(uint32(ref1))
		const eps = epsF32

		switch kind {
		case ExactValue:
			return float32(math.Abs(float64(a-b))) <= eps
		case IncreasedValue:
			return a > b+eps
		case DecreasedValue:
			return a < b-eps
		case BiggerThan:
			return a > b+eps
		case SmallerThan:
			return a < b-eps
		case Changed:
			return float32(math.Abs(float64(a-b))) > eps
		case Unchanged:
			return float32(math.Abs(float64(a-b))) <= eps
		case IncreasedBy:
			if ref2 == nil {
				return false
			}
			c := math.Float32frombits(uint32(*ref2))
			return float32(math.Abs(float64((a-b)-c))) <= eps
		case DecreasedBy:
			if ref2 == nil {
				return false
			}
			c := math.Float32frombits(uint32(*ref2))
			return float32(math.Abs(float64((b-a)-c))) <= eps
		case ValueBetween:
			if ref2 == nil {
				return false
			}
			c := math.Float32frombits(uint32(*ref2))
			return between(a, b, c, eps)
		default:
			return false
		}
	}
}

func makeFloat64Comparator(kind PredicateKind) Comparator {
	return func(value, ref1 uint64, ref2 *uint64) bool {
		a := math.Float64frombits(value)
		b := math.Float64frombits(ref1)
		const eps = epsF64

		switch kind {
		case ExactValue:
			return a == b
		case IncreasedValue:
			return a > b
		case DecreasedValue:
			return a < b
		case BiggerThan:
			return a > b+eps
		case SmallerThan:
			return a < b-eps
		case Changed:
			return a != b
		case Unchanged:
			return a == b
		case IncreasedBy:
			return ref2 != nil && (a-b) == math.Float64frombits(*ref2)
		case DecreasedBy:
			return ref2 != nil && (b-a) == math.Float64frombits(*ref2)
		case ValueBetween:
			if ref2 == nil {
				return false
			}
			c := math.Float64frombits(*ref2)
			return a > b && a < c
		default:
			return false
		}
	}
}
