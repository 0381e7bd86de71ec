// Command memscan attaches to a foreign process by PID and runs a
// single first-scan over its address space, printing surviving
// elements. Grounded on cmd/chrono/main.go's plain, framework-free
// main(): parse inputs, wire the pieces together, log.Fatalf on setup
// failure.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/nullstride/memscan/pkg/config"
	"github.com/nullstride/memscan/pkg/region"
	"github.com/nullstride/memscan/pkg/scan"
	"github.com/nullstride/memscan/pkg/store"
	"github.com/nullstride/memscan/pkg/target"
	"github.com/nullstride/memscan/pkg/version"
)

func main() {
	var (
		pid         = flag.Uint64("pid", 0, "target process ID")
		predicate   = flag.String("predicate", "exact_value", "predicate: exact_value, changed, unchanged, increased_value, decreased_value, bigger_than, smaller_than, increased_by, decreased_by, value_between, unknown_value")
		elemKind    = flag.String("type", "u32", "element type: u8, u16, u32, u64, f32, f64")
		value       = flag.String("value", "", "reference value (integer or float literal, per -type)")
		value2      = flag.String("value2", "", "second reference value, for increased_by/decreased_by/value_between")
		lo          = flag.Uint64("lo", 0, "lower bound of the address window to scan")
		hi          = flag.Uint64("hi", 0x7FFFFFFFFFFF, "upper bound of the address window to scan")
		protect     = flag.Uint64("protect", 0, "protection mask to match (bitwise OR of PAGE_* flags); defaults to the config's default_protect")
		configPath  = flag.String("config", "", "optional YAML config file")
		showVersion = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetVersionInfo())
		return
	}

	if *pid == 0 {
		log.Fatalf("memscan: -pid is required")
	}

	opts, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("memscan: loading config: %v", err)
	}

	protectSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "protect" {
			protectSet = true
		}
	})
	if !protectSet {
		*protect = uint64(opts.DefaultProtect)
	}

	kind, err := parsePredicate(*predicate)
	if err != nil {
		log.Fatalf("memscan: %v", err)
	}

	elem, err := parseElementKind(*elemKind)
	if err != nil {
		log.Fatalf("memscan: %v", err)
	}

	ref1, err := parseRef(*value, elem)
	if err != nil && kind != scan.UnknownValue {
		log.Fatalf("memscan: -value: %v", err)
	}

	var ref2 *uint64
	if *value2 != "" {
		v2, err := parseRef(*value2, elem)
		if err != nil {
			log.Fatalf("memscan: -value2: %v", err)
		}
		ref2 = &v2
	}

	progress := isatty.IsTerminal(os.Stdout.Fd())

	t, err := target.Open(uint32(*pid))
	if err != nil {
		log.Fatalf("memscan: %v", err)
	}
	defer t.Close()

	snapStore, err := store.New(opts.BackingFilePath)
	if err != nil {
		log.Fatalf("memscan: opening snapshot store: %v", err)
	}
	defer snapStore.Close()

	engine := scan.Global(func() *scan.Engine {
		return scan.NewEngine(snapStore, opts.WorkerCount)
	})
	defer engine.Close()
	engine.AttachTo(t.Handle)

	window := region.Window{Lo: uintptr(*lo), Hi: uintptr(*hi)}

	if progress {
		fmt.Fprintf(os.Stderr, "memscan: scanning pid %d, window [%#x, %#x)...\n", *pid, *lo, *hi)
	}

	results, err := engine.FirstScan(window, uint32(*protect), kind, elem, ref1, ref2)
	if err != nil {
		log.Fatalf("memscan: first scan: %v", err)
	}

	printResults(results, elem)
}

func printResults(results []*scan.Scan, elem scan.ElementKind) {
	total := 0
	for _, s := range results {
		base := s.Region().Base()
		for _, e := range s.Results() {
			fmt.Printf("%#016x\t%s\n", uintptr(base)+uintptr(e.ElementIndex*elem.Size()), formatValue(e.Value, elem))
			total++
		}
	}
	fmt.Fprintf(os.Stderr, "memscan: %d region(s), %d match(es)\n", len(results), total)
}

func formatValue(bits uint64, elem scan.ElementKind) string {
	switch elem {
	case scan.F32, scan.F64:
		return strconv.FormatFloat(bitsToFloat(bits, elem), 'g', -1, 64)
	default:
		return strconv.FormatUint(maskToWidth(bits, elem.Size()), 10)
	}
}

func maskToWidth(bits uint64, size int) uint64 {
	if size >= 8 {
		return bits
	}
	return bits & ((uint64(1) << (uint(size) * 8)) - 1)
}

func parsePredicate(s string) (scan.PredicateKind, error) {
	switch strings.ToLower(s) {
	case "unknown_value":
		return scan.UnknownValue, nil
	case "increased_value":
		return scan.IncreasedValue, nil
	case "decreased_value":
		return scan.DecreasedValue, nil
	case "exact_value":
		return scan.ExactValue, nil
	case "increased_by":
		return scan.IncreasedBy, nil
	case "decreased_by":
		return scan.DecreasedBy, nil
	case "smaller_than":
		return scan.SmallerThan, nil
	case "bigger_than":
		return scan.BiggerThan, nil
	case "changed":
		return scan.Changed, nil
	case "unchanged":
		return scan.Unchanged, nil
	case "value_between":
		return scan.ValueBetween, nil
	default:
		return 0, fmt.Errorf("unknown predicate %q", s)
	}
}

func parseElementKind(s string) (scan.ElementKind, error) {
	switch strings.ToLower(s) {
	case "u8":
		return scan.U8, nil
	case "u16":
		return scan.U16, nil
	case "u32":
		return scan.U32, nil
	case "u64":
		return scan.U64, nil
	case "f32":
		return scan.F32, nil
	case "f64":
		return scan.F64, nil
	default:
		return 0, fmt.Errorf("unknown element type %q", s)
	}
}

func bitsToFloat(bits uint64, elem scan.ElementKind) float64 {
	if elem == scan.F32 {
		return float64(math.Float32frombits(uint32(bits)))
	}
	return math.Float64frombits(bits)
}

func floatBitsOf(f float32) uint32 {
	return math.Float32bits(f)
}

func floatBitsOf64(f float64) uint64 {
	return math.Float64bits(f)
}

func parseRef(s string, elem scan.ElementKind) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}
	switch elem {
	case scan.F32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return 0, err
		}
		return uint64(floatBitsOf(float32(f))), nil
	case scan.F64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return floatBitsOf64(f), nil
	default:
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return 0, err
		}
		return v, nil
	}
}
