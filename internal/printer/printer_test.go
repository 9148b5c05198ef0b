package printer

import (
	"strings"
	"testing"

	"github.com/nifc-lang/nifc/internal/nif"
)

func decodeOrFatal(t *testing.T, src string) *nif.Buffer {
	t.Helper()
	buf, err := nif.Decode("test.nif", []byte(src))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return buf
}

func TestBufferRoundTrip(t *testing.T) {
	sources := []string{
		`(stmts (text main: (mov rax 0) (add rbx 1)))`,
		`(stmts (global $_start) (extern printf:))`,
		`(stmts (rodata (datadecl msg: (string "hi\n"))))`,
		`(stmts (text main: (mov rax (mem3 rbx rcx 4))))`,
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			buf := decodeOrFatal(t, src)

			var p Printer
			var sb strings.Builder
			if err := p.Buffer(&sb, buf); err != nil {
				t.Fatalf("Buffer failed: %v", err)
			}

			reparsed := decodeOrFatal(t, sb.String())
			if reparsed.Len() != buf.Len() {
				t.Fatalf("token count changed: got %d, want %d (printed: %q)", reparsed.Len(), buf.Len(), sb.String())
			}
			for i := 0; i < buf.Len(); i++ {
				want, got := buf.At(i), reparsed.At(i)
				if want.Kind != got.Kind || want.Tag != got.Tag || want.SVal != got.SVal ||
					want.IVal != got.IVal || want.FVal != got.FVal {
					t.Fatalf("token %d differs: got %+v, want %+v (printed: %q)", i, got, want, sb.String())
				}
			}
		})
	}
}

func TestBufferRendersSymbolAndSymbolDef(t *testing.T) {
	buf := decodeOrFatal(t, `(stmts (global $_start))`)
	var p Printer
	var sb strings.Builder
	if err := p.Buffer(&sb, buf); err != nil {
		t.Fatalf("Buffer failed: %v", err)
	}
	if !strings.Contains(sb.String(), "$_start") {
		t.Fatalf("expected $_start in output, got %q", sb.String())
	}
}
