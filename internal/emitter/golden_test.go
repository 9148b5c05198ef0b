package emitter

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/nifc-lang/nifc/internal/nif"
)

type emitterGoldenCase struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// TestGenModuleGolden runs the emitter over a name-keyed fixture
// table, in sorted-name order.
func TestGenModuleGolden(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("testdata", "emitter-tests.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var cases map[string]emitterGoldenCase
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
			buf, derr := nif.Decode(name+".nif", []byte(tc.Input))
			if derr != nil {
				t.Fatalf("decode failed: %v", derr)
			}
			var sb strings.Builder
			if err := GenModule(&sb, buf); err != nil {
				t.Fatalf("GenModule failed: %v", err)
			}
			want := strings.TrimLeft(tc.Output, "\n")
			if got := sb.String(); got != want {
				t.Fatalf("got:\n%q\nwant:\n%q", got, want)
			}
		})
	}
}
