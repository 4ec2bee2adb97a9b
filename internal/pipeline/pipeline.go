// Package pipeline wires crawling, parsing, interpretation and rendering
// into the end-to-end documentation run.
package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/spf13/afero"
	lua "github.com/tree-sitter-grammars/tree-sitter-lua/bindings/go"

	"lcat/internal/config"
	"lcat/internal/crawler"
	"lcat/internal/processor"
	"lcat/internal/render"
	"lcat/internal/scanner"
)

type Pipeline struct {
	fs  afero.Fs
	log *logrus.Logger
}

func New(fsys afero.Fs, log *logrus.Logger) *Pipeline {
	return &Pipeline{fs: fsys, log: log}
}

// Run documents every Lua file under the project root and renders the
// result. IO and syntax-level parse failures abort the run; malformed
// annotations are logged and skipped.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Config) error {
	proc, files, err := p.Process(ctx, cfg.Project.Root, cfg.Project.Files...)
	if err != nil {
		return err
	}

	p.log.WithFields(logrus.Fields{
		"files":     files,
		"classes":   len(proc.Classes),
		"aliases":   len(proc.Aliases),
		"enums":     len(proc.Enums),
		"functions": len(proc.Functions),
	}).Info("project processed")

	renderer := render.NewVitePress(p.fs, cfg.Output.Dir, cfg.Output.BaseURL)
	if err := renderer.Render(proc); err != nil {
		return fmt.Errorf("render documentation: %w", err)
	}

	p.log.WithField("dir", cfg.Output.Dir).Info("documentation written")
	return nil
}

// Process crawls root and interprets every Lua file, plus any explicitly
// listed extra files, returning the filled processor and the number of files
// seen.
func (p *Pipeline) Process(ctx context.Context, root string, extra ...string) (*processor.Processor, int, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(sitter.NewLanguage(lua.Language()))

	proc := processor.New()
	files := 0

	c := crawler.NewCrawler(p.fs)
	err := c.ScanProject(root, func(path string, source []byte) error {
		files++
		return p.processFile(ctx, parser, proc, path, source)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan %s: %w", root, err)
	}

	for _, path := range extra {
		source, err := afero.ReadFile(p.fs, path)
		if err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", path, err)
		}
		files++
		if err := p.processFile(ctx, parser, proc, path, source); err != nil {
			return nil, 0, err
		}
	}

	return proc, files, nil
}

func (p *Pipeline) processFile(ctx context.Context, parser *sitter.Parser, proc *processor.Processor, path string, source []byte) error {
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	cursor := sitter.NewTreeCursor(tree.RootNode())
	defer cursor.Close()

	seen := len(proc.Diagnostics())
	proc.ProcessBlocks(scanner.ParseBlocks(cursor, source, false))

	for _, diag := range proc.Diagnostics()[seen:] {
		p.log.WithField("file", path).Warn(diag.Error())
	}

	return nil
}
