package emitter

import (
	"strings"
	"testing"

	"github.com/nifc-lang/nifc/internal/nif"
)

func mustDecode(t *testing.T, src string) *nif.Buffer {
	t.Helper()
	buf, err := nif.Decode("test.nif", []byte(src))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return buf
}

func TestGenModulePeepholeRewritesMovAddSub(t *testing.T) {
	buf := mustDecode(t, `
		(stmts
			(text main:
				(mov rax 0)
				(add rbx 1)
				(sub rcx 1)))
	`)
	var sb strings.Builder
	if err := GenModule(&sb, buf); err != nil {
		t.Fatalf("GenModule failed: %v", err)
	}
	want := ".intel_syntax noprefix\n.text\nmain:\nxor rax, rax\ninc rbx\ndec rcx\n"
	if got := sb.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenModuleMemoryAddressingScale(t *testing.T) {
	buf := mustDecode(t, `
		(stmts
			(text main:
				(mov rax (mem3 rbx rcx 4))))
	`)
	var sb strings.Builder
	if err := GenModule(&sb, buf); err != nil {
		t.Fatalf("GenModule failed: %v", err)
	}
	if !strings.Contains(sb.String(), "mov rax, [rbx+rcx*4]\n") {
		t.Fatalf("got:\n%s", sb.String())
	}
}

func TestGenModuleDropsRedundantMovToSameDest(t *testing.T) {
	buf := mustDecode(t, `
		(stmts
			(text main:
				(mov rax 1)
				(mov rax 2)))
	`)
	var sb strings.Builder
	if err := GenModule(&sb, buf); err != nil {
		t.Fatalf("GenModule failed: %v", err)
	}
	want := ".intel_syntax noprefix\n.text\nmain:\nmov rax, 2\n"
	if got := sb.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenModuleDoesNotCollapseAcrossNonAdjacentMov(t *testing.T) {
	buf := mustDecode(t, `
		(stmts
			(text main:
				(mov rax 1)
				(add rbx 2)
				(mov rax 3)))
	`)
	var sb strings.Builder
	if err := GenModule(&sb, buf); err != nil {
		t.Fatalf("GenModule failed: %v", err)
	}
	want := ".intel_syntax noprefix\n.text\nmain:\nmov rax, 1\nadd rbx, 2\nmov rax, 3\n"
	if got := sb.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenModuleResetsPeepholeStateAtLabel(t *testing.T) {
	buf := mustDecode(t, `
		(stmts
			(text main:
				(mov rax 1)
				(lab loop:)
				(mov rax 2)))
	`)
	var sb strings.Builder
	if err := GenModule(&sb, buf); err != nil {
		t.Fatalf("GenModule failed: %v", err)
	}
	want := ".intel_syntax noprefix\n.text\nmain:\nmov rax, 1\nloop:\nmov rax, 2\n"
	if got := sb.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenModuleSectionsAndDataDecls(t *testing.T) {
	buf := mustDecode(t, `
		(stmts
			(global $_start)
			(extern printf:)
			(rodata
				(datadecl msg:
					(string "hi")))
			(data
				(datadecl buf:
					(byte (times 4 0)))))
	`)
	var sb strings.Builder
	if err := GenModule(&sb, buf); err != nil {
		t.Fatalf("GenModule failed: %v", err)
	}
	got := sb.String()
	for _, want := range []string{
		".global _start",
		".extern printf",
		".rodata",
		"msg:",
		`.string "hi"`,
		".bss",
		"buf:",
		".byte 0, 0, 0, 0",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q, got:\n%s", want, got)
		}
	}
}

func TestGenModuleJloopEmitsJmp(t *testing.T) {
	buf := mustDecode(t, `
		(stmts
			(text main:
				(lab top:)
				(jloop top)))
	`)
	var sb strings.Builder
	if err := GenModule(&sb, buf); err != nil {
		t.Fatalf("GenModule failed: %v", err)
	}
	if !strings.Contains(sb.String(), "jmp top\n") {
		t.Fatalf("got:\n%s", sb.String())
	}
}

func TestGenModuleRejectsUnknownMnemonic(t *testing.T) {
	buf := mustDecode(t, `
		(stmts
			(text main:
				(bogus rax 1)))
	`)
	var sb strings.Builder
	if err := GenModule(&sb, buf); err == nil {
		t.Fatalf("expected an error for an unknown mnemonic")
	}
}

func TestGenModuleRejectsWrongOuterTag(t *testing.T) {
	buf := mustDecode(t, `(notstmts)`)
	var sb strings.Builder
	if err := GenModule(&sb, buf); err == nil {
		t.Fatalf("expected an error for a non-'stmts' outer tag")
	}
}
