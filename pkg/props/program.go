package props

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/aizetachan/ui-forge-sub001/pkg/parser"
	"github.com/aizetachan/ui-forge-sub001/pkg/util"
)

// SourceFile is one parsed script file of a Program.
type SourceFile struct {
	Path   string
	Source []byte
	Tree   *ts.Tree
}

// typeDecl is a top-level interface or type alias declaration.
type typeDecl struct {
	file *SourceFile
	node *ts.Node
}

// Program is the per-repository type resolution context: every script file
// parsed once, plus an index of top-level interface and type alias
// declarations by name. It is the unit cached by ProgramCache.
type Program struct {
	Root  string
	files map[string]*SourceFile
	types map[string][]typeDecl

	// mu serializes tree access by resolvers.
	mu sync.Mutex

	refMu   sync.Mutex
	refs    int
	evicted bool
	closed  bool
}

// NewProgram parses files (absolute paths) with pm using a worker pool.
// Files that cannot be read or parsed are logged and skipped.
func NewProgram(pm *parser.ParserManager, root string, files []string, logger *slog.Logger) *Program {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	p := &Program{
		Root:  root,
		files: make(map[string]*SourceFile, len(files)),
		types: make(map[string][]typeDecl),
	}

	type parsed struct {
		file *SourceFile
		err  error
		path string
	}
	jobs := make(chan string)
	results := make(chan parsed)
	var wg sync.WaitGroup
	for range util.WorkerCount(len(files)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				sf, err := parseSource(pm, path)
				results <- parsed{file: sf, err: err, path: path}
			}
		}()
	}
	go func() {
		for _, f := range files {
			if parser.IsScriptFile(f) {
				jobs <- f
			}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for r := range results {
		if r.err != nil {
			logger.Warn("program parse failed", "file", r.path, "error", r.err)
			continue
		}
		p.files[r.file.Path] = r.file
	}
	for _, sf := range p.files {
		p.index(sf)
	}

	logger.Debug("program built", "root", root, "files", len(p.files), "types", len(p.types),
		"ms", time.Since(start).Milliseconds())
	return p
}

func parseSource(pm *parser.ParserManager, path string) (*SourceFile, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	tree, err := pm.ParseFile(source, path)
	if err != nil {
		return nil, err
	}
	return &SourceFile{Path: path, Source: source, Tree: tree}, nil
}

// index records top-level type declarations of sf, including exported ones.
func (p *Program) index(sf *SourceFile) {
	root := sf.Tree.RootNode()
	for i := uint(0); i < root.ChildCount(); i++ {
		node := root.Child(i)
		if node.Kind() == "export_statement" {
			if decl := node.ChildByFieldName("declaration"); decl != nil {
				node = decl
			}
		}
		switch node.Kind() {
		case "interface_declaration", "type_alias_declaration":
			name := node.ChildByFieldName("name")
			if name == nil {
				continue
			}
			key := name.Utf8Text(sf.Source)
			p.types[key] = append(p.types[key], typeDecl{file: sf, node: node})
		}
	}
}

// File returns the parsed file at path, parsing nothing new.
func (p *Program) File(path string) (*SourceFile, bool) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	sf, ok := p.files[path]
	return sf, ok
}

// lookupType finds a declaration by name, preferring the given file.
func (p *Program) lookupType(name, preferFile string) (typeDecl, bool) {
	decls := p.types[name]
	if len(decls) == 0 {
		return typeDecl{}, false
	}
	for _, d := range decls {
		if d.file.Path == preferFile {
			return d, true
		}
	}
	return decls[0], true
}

// Files returns the number of parsed files.
func (p *Program) Files() int {
	return len(p.files)
}

func (p *Program) retain() bool {
	p.refMu.Lock()
	defer p.refMu.Unlock()
	if p.closed {
		return false
	}
	p.refs++
	return true
}

func (p *Program) release() {
	p.refMu.Lock()
	p.refs--
	closeNow := p.evicted && p.refs == 0 && !p.closed
	if closeNow {
		p.closed = true
	}
	p.refMu.Unlock()
	if closeNow {
		p.closeTrees()
	}
}

// evict closes the trees now, or when the last user releases the program.
func (p *Program) evict() {
	p.refMu.Lock()
	p.evicted = true
	closeNow := p.refs == 0 && !p.closed
	if closeNow {
		p.closed = true
	}
	p.refMu.Unlock()
	if closeNow {
		p.closeTrees()
	}
}

func (p *Program) closeTrees() {
	for _, sf := range p.files {
		sf.Tree.Close()
	}
}
