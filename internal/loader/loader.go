// Package loader maps a module suffix string to a NIF file on disk,
// emits an accompanying index file, and resolves symbol ids to a
// cursor positioned at their declaration.
package loader

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/nifc-lang/nifc/internal/diag"
	"github.com/nifc-lang/nifc/internal/nif"
)

// Loader resolves module suffixes to parsed NIF buffers and their
// symbol indexes.
type Loader struct {
	fsys        fs.FS
	maxIncDepth int
	errors      *diag.List

	cache map[string]*Module
}

// New returns a Loader reading modules from fsys.
func New(fsys fs.FS) *Loader {
	return &Loader{
		fsys:        fsys,
		errors:      diag.NewList(10),
		maxIncDepth: 128,
		cache:       make(map[string]*Module),
	}
}

func (l *Loader) SetMaxIncludeDepth(d int) { l.maxIncDepth = d }
func (l *Loader) MaxIncludeDepth() int     { return l.maxIncDepth }

// SetFilesystem sets the file system used for resolving module files.
// Note: if set to a nil FS, no modules can be loaded.
func (l *Loader) SetFilesystem(fsys fs.FS) { l.fsys = fsys }
func (l *Loader) Filesystem() fs.FS        { return l.fsys }

func (l *Loader) Errors() *diag.List { return l.errors }

// Module is a loaded NIF file: its decoded token buffer, the symbol
// index built while scanning it, and the content hash written into
// the accompanying index file.
type Module struct {
	Path        string
	Buf         *nif.Buffer
	Index       *Index
	ContentHash [32]byte
}

// Index maps a declared top-level symbol name to its token offset and
// source position within a Module's buffer.
type Index struct {
	entries map[string]indexEntry
}

type indexEntry struct {
	Offset int
	Pos    diag.Position
}

func newIndex() *Index { return &Index{entries: make(map[string]indexEntry)} }

// LoadModule resolves suffix to a "<suffix>.nif" file, reads and
// decodes it, builds its symbol index, and hashes its content with
// sha3. The accompanying "<suffix>.nifidx" index file is written only
// when fsys has a WriteFile method; otherwise (as with os.DirFS) no
// index file is written, and a write error is ignored. Results are
// cached per suffix for the lifetime of the Loader.
func (l *Loader) LoadModule(suffix string) (*Module, error) {
	if m, ok := l.cache[suffix]; ok {
		return m, nil
	}
	if l.fsys == nil {
		return nil, fmt.Errorf("loader: no filesystem configured")
	}

	file := suffix + ".nif"
	content, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		l.errors.Add(err)
		return nil, err
	}

	buf, derr := nif.Decode(file, content)
	if derr != nil {
		l.errors.Add(derr)
		return nil, derr
	}

	mod := &Module{
		Path:        file,
		Buf:         buf,
		Index:       buildIndex(buf),
		ContentHash: sha3.Sum256(content),
	}
	l.cache[suffix] = mod

	if w, ok := l.fsys.(interface {
		WriteFile(name string, data []byte, perm fs.FileMode) error
	}); ok {
		_ = w.WriteFile(suffix+".nifidx", renderIndex(mod), 0o644)
	}

	return mod, nil
}

// buildIndex scans a decoded buffer for SymbolDef tokens and records,
// for each, the token offset of the ParLe that opens its declaration
// (or of the SymbolDef itself when no ParLe directly precedes it): the
// "decl_cursor" the core expects a successful load to yield.
func buildIndex(buf *nif.Buffer) *Index {
	idx := newIndex()
	for i := 0; i < buf.Len(); i++ {
		tok := buf.At(i)
		if tok.Kind != nif.SymbolDef {
			continue
		}
		declOffset := i
		if i > 0 && buf.At(i-1).Kind == nif.ParLe {
			declOffset = i - 1
		}
		if _, exists := idx.entries[tok.SVal]; !exists {
			idx.entries[tok.SVal] = indexEntry{Offset: declOffset, Pos: tok.Pos}
		}
	}
	return idx
}

// renderIndex produces the on-disk representation of an index file: one
// "symbol offset line col" line per entry, sorted by offset for
// determinism.
func renderIndex(mod *Module) []byte {
	type row struct {
		sym string
		e   indexEntry
	}
	rows := make([]row, 0, len(mod.Index.entries))
	for sym, e := range mod.Index.entries {
		rows = append(rows, row{sym, e})
	}
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && rows[j].e.Offset < rows[j-1].e.Offset; j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "; content-hash %x\n", mod.ContentHash)
	for _, r := range rows {
		fmt.Fprintf(&sb, "%s %d %d %d\n", r.sym, r.e.Offset, r.e.Pos.Line, r.e.Pos.Col)
	}
	return []byte(sb.String())
}

// LoadStatus is the result of TryLoadSym.
type LoadStatus int

const (
	// LacksModuleName means sym_id carries no resolvable module suffix,
	// or the named module file does not exist.
	LacksModuleName LoadStatus = iota
	// LacksOffset means the module was found but its index has no entry
	// for this symbol.
	LacksOffset
	// LacksPosition means an offset was found but it does not resolve to
	// a valid token position (a stale or corrupted index).
	LacksPosition
	// LacksNothing is a complete success: decl_cursor is positioned at
	// the symbol's declaration.
	LacksNothing
)

func (s LoadStatus) String() string {
	switch s {
	case LacksModuleName:
		return "LacksModuleName"
	case LacksOffset:
		return "LacksOffset"
	case LacksPosition:
		return "LacksPosition"
	case LacksNothing:
		return "LacksNothing"
	default:
		return "InvalidLoadStatus"
	}
}

// SymID identifies a symbol to resolve: ModuleSuffix names the module
// to search, Name is the bare symbol name within it.
type SymID struct {
	ModuleSuffix string
	Name         string
}

// TryLoadSym resolves sym to a cursor positioned at its declaration.
// A successful load yields LacksNothing and a cursor; any earlier
// failure yields the status naming what could not be resolved.
func (l *Loader) TryLoadSym(sym SymID) (LoadStatus, nif.Cursor) {
	if sym.ModuleSuffix == "" {
		return LacksModuleName, nif.Cursor{}
	}
	mod, err := l.LoadModule(sym.ModuleSuffix)
	if err != nil {
		return LacksModuleName, nif.Cursor{}
	}

	entry, ok := mod.Index.entries[sym.Name]
	if !ok {
		return LacksOffset, nif.Cursor{}
	}
	if entry.Offset < 0 || entry.Offset >= mod.Buf.Len() {
		return LacksPosition, nif.Cursor{}
	}

	cur := mod.Buf.Cursor()
	for i := 0; i < entry.Offset; i++ {
		_, cur = cur.Next()
	}
	if cur.Pos().IsZero() {
		return LacksPosition, cur
	}
	return LacksNothing, cur
}

// ResolveRelative joins filename against basepath's directory,
// rejecting any result that escapes the project root.
func ResolveRelative(basepath string, filename string) (string, error) {
	res := path.Clean(path.Join(path.Dir(basepath), filename))
	if strings.Contains(res, "..") {
		return "", fmt.Errorf("path %q escapes project root", filename)
	}
	return res, nil
}

// ParseSymID parses "module/suffix:name" into a SymID, splitting at the
// last ':'.
func ParseSymID(s string) (SymID, bool) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return SymID{}, false
	}
	return SymID{ModuleSuffix: s[:i], Name: s[i+1:]}, true
}
