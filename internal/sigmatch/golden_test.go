package sigmatch

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type sigmatchGoldenCase struct {
	Formal           string `yaml:"formal"`
	Actual           string `yaml:"actual"`
	OK               bool   `yaml:"ok"`
	IntCosts         int    `yaml:"intCosts"`
	InheritanceCosts int    `yaml:"inheritanceCosts"`
}

// parseTypeSpec parses the tiny type-spec mini-language used by
// testdata/sigmatch-tests.yaml: intN/uintN/floatN/char/bool, or
// named:Name[>Parent] for a nominal type with an optional direct
// inheritance parent.
func parseTypeSpec(s string) *Type {
	switch {
	case strings.HasPrefix(s, "int"):
		w, _ := strconv.Atoi(strings.TrimPrefix(s, "int"))
		return Int(w)
	case strings.HasPrefix(s, "uint"):
		w, _ := strconv.Atoi(strings.TrimPrefix(s, "uint"))
		return UInt(w)
	case strings.HasPrefix(s, "float"):
		w, _ := strconv.Atoi(strings.TrimPrefix(s, "float"))
		return Float(w)
	case s == "char":
		return Char()
	case s == "bool":
		return Bool()
	case strings.HasPrefix(s, "named:"):
		rest := strings.TrimPrefix(s, "named:")
		if i := strings.IndexByte(rest, '>'); i >= 0 {
			return Named(rest[:i]).WithParent(Named(rest[i+1:]))
		}
		return Named(rest)
	default:
		panic("sigmatch golden test: unrecognized type spec " + s)
	}
}

// TestMatchGolden exercises single-parameter Match scenarios from a
// name-keyed fixture table, in sorted-name order.
func TestMatchGolden(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("testdata", "sigmatch-tests.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var cases map[string]sigmatchGoldenCase
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&cases); err != nil {
		t.Fatal(err)
	}

	names := make([]string, 0, len(cases))
	for name := range cases {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tc := cases[name]
		t.Run(name, func(t *testing.T) {
			formal := parseTypeSpec(tc.Formal)
			actual := parseTypeSpec(tc.Actual)

			c := &Candidate{Sym: "f", Sig: sig([]Param{{Name: "x", Type: formal}}, Untyped())}
			st := Match(c, []Item{{Typ: actual}})

			if st.Ok() != tc.OK {
				t.Fatalf("Ok() = %v, want %v (err=%v)", st.Ok(), tc.OK, st.Err)
			}
			if !tc.OK {
				return
			}
			if st.IntCosts != tc.IntCosts {
				t.Errorf("IntCosts = %d, want %d", st.IntCosts, tc.IntCosts)
			}
			if st.InheritanceCosts != tc.InheritanceCosts {
				t.Errorf("InheritanceCosts = %d, want %d", st.InheritanceCosts, tc.InheritanceCosts)
			}
		})
	}
}
