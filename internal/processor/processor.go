// Package processor interprets scanned documentation blocks and builds the
// documented entity collections.
package processor

import (
	"fmt"
	"strings"

	"lcat/internal/annotation"
	"lcat/internal/scanner"
	"lcat/internal/typeexpr"
)

// Diagnostic is one recoverable problem found while interpreting annotations.
// Malformed tag payloads are reported and skipped rather than aborting the
// file.
type Diagnostic struct {
	Tag annotation.Tag
	Err error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %v", d.Tag, d.Err)
}

// Processor accumulates documented entities across blocks. Table names are
// remembered so functions declared on a table documented as a class report
// the class name as their owner.
type Processor struct {
	Classes   []annotation.Class
	Aliases   []annotation.Alias
	Enums     []annotation.Enum
	Functions []annotation.Function

	tableClassMap map[string]string
	diags         []Diagnostic
}

func New() *Processor {
	return &Processor{tableClassMap: make(map[string]string)}
}

// ProcessBlocks interprets the blocks of one file, in order.
func (p *Processor) ProcessBlocks(blocks []scanner.Block) {
	for _, block := range blocks {
		p.processBlock(block, nil, nil)
	}
}

// Diagnostics returns the problems collected so far.
func (p *Processor) Diagnostics() []Diagnostic {
	return p.diags
}

func (p *Processor) report(tag annotation.Tag, err error) {
	p.diags = append(p.diags, Diagnostic{Tag: tag, Err: err})
}

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingClass
	pendingAlias
	pendingEnum
	pendingType
)

// pending is the single declaration slot: at most one class, alias, enum or
// bare type annotation is open at a time, and declaring another commits the
// previous one.
type pending struct {
	kind  pendingKind
	class annotation.Class
	alias annotation.Alias
	enum  annotation.Enum
	ty    typeexpr.Type
}

// commit pushes the open declaration into its collection. A pending bare
// type annotation is dropped: it only has meaning next to a structural field.
func (p *Processor) commit(cur *pending) {
	switch cur.kind {
	case pendingClass:
		p.Classes = append(p.Classes, cur.class)
	case pendingAlias:
		p.Aliases = append(p.Aliases, cur.alias)
	case pendingEnum:
		p.Enums = append(p.Enums, cur.enum)
	}
	*cur = pending{}
}

type fnAnnotations struct {
	params  []annotation.Param
	returns []annotation.Return
	sees    []annotation.See
}

func (f *fnAnnotations) clear() {
	f.params = nil
	f.returns = nil
	f.sees = nil
}

func (p *Processor) processBlock(block scanner.Block, parentClass *annotation.Class, parentEnum *annotation.Enum) {
	var (
		nodoc       bool
		cur         pending
		fn          fnAnnotations
		docComments []string
	)

	desc := func() string { return strings.Join(docComments, "\n") }

	for _, line := range block.Annotations() {
		tag, payload, isTag := annotation.ParseTag(line)
		if !isTag {
			// A piped line continues the open alias; everything else is
			// description text.
			if cur.kind == pendingAlias {
				if rest, piped := annotation.TryParseAliasLine(line); piped {
					if rest == "" {
						continue
					}
					ty, tyDesc, err := annotation.ParseAliasLine(rest, desc())
					if err != nil {
						p.report(annotation.TagAlias, err)
						continue
					}
					docComments = docComments[:0]
					cur.alias.AddType(ty, tyDesc)
					continue
				}
			}
			docComments = append(docComments, line)
			continue
		}

		switch tag {
		case annotation.TagClass:
			class, err := annotation.ParseClass(payload, desc())
			if err != nil {
				p.report(tag, err)
				continue
			}
			docComments = docComments[:0]
			if nodoc {
				continue
			}
			p.commit(&cur)
			cur = pending{kind: pendingClass, class: class}
			fn.clear()

		case annotation.TagField:
			if cur.kind != pendingClass {
				if !nodoc {
					p.report(tag, fmt.Errorf("field outside a class declaration: %q", line))
				}
				continue
			}
			field, err := annotation.ParseField(payload, desc())
			if err != nil {
				p.report(tag, err)
				continue
			}
			docComments = docComments[:0]
			if nodoc {
				continue
			}
			cur.class.LspFields = append(cur.class.LspFields, field)
			fn.clear()

		case annotation.TagAlias:
			alias, err := annotation.ParseAlias(payload, desc())
			if err != nil {
				p.report(tag, err)
				continue
			}
			docComments = docComments[:0]
			if nodoc {
				continue
			}
			p.commit(&cur)
			cur = pending{kind: pendingAlias, alias: alias}
			fn.clear()

		case annotation.TagEnum:
			enum, err := annotation.ParseEnum(payload, desc())
			if err != nil {
				p.report(tag, err)
				continue
			}
			docComments = docComments[:0]
			if nodoc {
				continue
			}
			p.commit(&cur)
			cur = pending{kind: pendingEnum, enum: enum}
			fn.clear()

		case annotation.TagType:
			// Doc comments stay: they describe the structural field this
			// annotation types.
			ty, err := annotation.ParseTypeAnnotation(payload)
			if err != nil {
				p.report(tag, err)
				continue
			}
			if nodoc {
				continue
			}
			p.commit(&cur)
			cur = pending{kind: pendingType, ty: ty}
			fn.clear()

		case annotation.TagParam:
			param, err := annotation.ParseParam(payload)
			if err != nil {
				p.report(tag, err)
				continue
			}
			if nodoc {
				continue
			}
			fn.params = append(fn.params, param)
			p.commit(&cur)

		case annotation.TagReturn:
			ret, err := annotation.ParseReturn(payload)
			if err != nil {
				p.report(tag, err)
				continue
			}
			if nodoc {
				continue
			}
			fn.returns = append(fn.returns, ret)
			p.commit(&cur)

		case annotation.TagSee:
			see, err := annotation.ParseSee(payload)
			if err != nil {
				p.report(tag, err)
				continue
			}
			if nodoc {
				continue
			}
			fn.sees = append(fn.sees, see)
			p.commit(&cur)

		case annotation.TagLcat:
			if annotation.ParseLcat(payload).Has(annotation.LcatNodoc) {
				nodoc = true
			}

		case annotation.TagUnknown:
			// Foreign tags pass through untouched.
		}
	}

	if field, ok := block.(*scanner.FieldBlock); ok && !nodoc {
		if parentClass != nil || parentEnum != nil {
			var ty *typeexpr.Type
			if cur.kind == pendingType {
				t := cur.ty
				ty = &t
			}
			ts := annotation.TsField{
				Name:        field.Name,
				Type:        ty,
				Description: desc(),
				Value:       field.Value,
			}
			if parentClass != nil {
				parentClass.TsFields = append(parentClass.TsFields, ts)
			}
			if parentEnum != nil {
				parentEnum.Fields = append(parentEnum.Fields, ts)
			}
		}
	}

	// An undocumented block leaves everything before it intact.
	if nodoc {
		return
	}

	switch cur.kind {
	case pendingClass:
		class := cur.class
		if table, ok := block.(*scanner.TableBlock); ok {
			p.tableClassMap[table.Name] = class.Name
			for _, inner := range table.Fields {
				p.processBlock(inner, &class, nil)
			}
		}
		p.Classes = append(p.Classes, class)
	case pendingAlias:
		p.Aliases = append(p.Aliases, cur.alias)
	case pendingEnum:
		enum := cur.enum
		if table, ok := block.(*scanner.TableBlock); ok {
			for _, inner := range table.Fields {
				p.processBlock(inner, nil, &enum)
			}
		}
		p.Enums = append(p.Enums, enum)
	}

	if fnBlock, ok := block.(*scanner.FunctionBlock); ok {
		table := fnBlock.Table
		if table != "" {
			if className, ok := p.tableClassMap[table]; ok {
				table = className
			}
		}
		if parentClass != nil {
			if table != "" {
				table = table + "." + parentClass.Name
			} else {
				table = parentClass.Name
			}
		}

		p.Functions = append(p.Functions, annotation.Function{
			Name:        fnBlock.Name,
			Table:       table,
			Params:      fn.params,
			Returns:     fn.returns,
			Sees:        fn.sees,
			IsMethod:    fnBlock.IsMethod,
			Description: desc(),
		})
	}
}
