package scanner

// Block is one unit of the scan: a doc-comment run plus the classification of
// the syntax node it documents. Concrete types are TableBlock, FieldBlock,
// FunctionBlock and FreeBlock.
type Block interface {
	// Annotations returns the raw comment lines of the block, doc marker
	// stripped, in source order.
	Annotations() []string
}

// TableBlock documents a named table literal. Fields holds the blocks found
// inside the literal's body, in source order.
type TableBlock struct {
	Lines  []string
	Name   string
	Fields []Block
}

// FieldBlock documents a single table entry. Name is nil for positional
// (array-style) entries; Value is the literal source text of the entry value.
type FieldBlock struct {
	Lines []string
	Name  *FieldName
	Value string
}

// FunctionBlock documents a function declaration or a function-valued
// assignment. Table is the dotted owner path, empty for free functions.
type FunctionBlock struct {
	Lines    []string
	Table    string
	Name     string
	Params   []FunctionParam
	IsMethod bool
}

// FreeBlock is loose commentary with no attached structure.
type FreeBlock struct {
	Lines []string
}

func (b *TableBlock) Annotations() []string    { return b.Lines }
func (b *FieldBlock) Annotations() []string    { return b.Lines }
func (b *FunctionBlock) Annotations() []string { return b.Lines }
func (b *FreeBlock) Annotations() []string     { return b.Lines }

// FieldName is a table entry's key: a plain identifier, or the source text of
// a computed (bracketed) key expression.
type FieldName struct {
	Text     string
	Computed bool
}

func (n FieldName) String() string {
	if n.Computed {
		return "[" + n.Text + "]"
	}
	return n.Text
}

// FunctionParam is a declared parameter: an identifier or the vararg marker.
type FunctionParam struct {
	Name   string
	Vararg bool
}
