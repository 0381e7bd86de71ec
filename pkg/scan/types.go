// Package scan implements the scan (component G) and scan engine
// (component H): predicate search over region snapshots, first-scan and
// next-scan orchestration.
package scan

// PredicateKind selects the comparison a Scan runs against its region's
// elements. Grounded on original_source/scanner/scan.hpp's scan_type.
type PredicateKind int

const (
	UnknownValue PredicateKind = iota
	IncreasedValue
	DecreasedValue
	ExactValue
	IncreasedBy
	DecreasedBy
	SmallerThan
	BiggerThan
	Changed
	Unchanged
	ValueBetween
)

// String renders the predicate kind for logs and diagnostics.
func (k PredicateKind) String() string {
	switch k {
	case UnknownValue:
		return "unknown_value"
	case IncreasedValue:
		return "increased_value"
	case DecreasedValue:
		return "decreased_value"
	case ExactValue:
		return "exact_value"
	case IncreasedBy:
		return "increased_by"
	case DecreasedBy:
		return "decreased_by"
	case SmallerThan:
		return "smaller_than"
	case BiggerThan:
		return "bigger_than"
	case Changed:
		return "changed"
	case Unchanged:
		return "unchanged"
	case ValueBetween:
		return "value_between"
	default:
		return "unknown"
	}
}

// ElementKind is the interpretation given to the raw bytes of one scan
// element. Grounded on original_source/slow_scanner.h's element_type.
type ElementKind int

const (
	U8 ElementKind = iota
	U16
	U32
	U64
	F32
	F64
)

// Size returns the element's width in bytes, matching element_size().
func (k ElementKind) Size() int {
	switch k {
	case U8:
		return 1
	case U16:
		return 2
	case U32:
		return 4
	case U64:
		return 8
	case F32:
		return 4
	case F64:
		return 8
	default:
		return 1
	}
}

// String renders the element kind for logs and diagnostics.
func (k ElementKind) String() string {
	switch k {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

// requiresSecondOperand reports whether a predicate needs the ref2
// operand (increased_by/decreased_by/value_between's upper bound).
func (k PredicateKind) requiresSecondOperand() bool {
	switch k {
	case IncreasedBy, DecreasedBy, ValueBetween:
		return true
	default:
		return false
	}
}
