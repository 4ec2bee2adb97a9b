package scanner

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// docMarker prefixes the comment lines the scanner considers documentation.
const docMarker = "---"

// commentRun is a grouped run of doc-comment lines plus the named node that
// immediately follows it, if any.
type commentRun struct {
	comments []string
	node     *sitter.Node
}

// ParseBlocks walks the siblings under the cursor and produces the ordered
// block sequence, recursing into table-literal bodies and other containers.
// With parseAll set, every non-comment sibling yields a zero-comment block;
// this is used when iterating table-constructor children, where every field
// is a candidate even without comments.
func ParseBlocks(cursor *sitter.TreeCursor, source []byte, parseAll bool) []Block {
	var blocks []Block

	for {
		current := cursor.CurrentNode()
		if current.Type() != kindComment && !parseAll {
			// Not a documentation candidate; nested runs may still hide in
			// its children.
			blocks = append(blocks, scanChildren(current, source)...)
			if !cursor.GoToNextSibling() {
				break
			}
			continue
		}

		run, more := collectRun(cursor, source, parseAll)
		if run != nil {
			blocks = append(blocks, classify(run, source)...)
		}
		if !more {
			break
		}
	}

	return blocks
}

// collectRun consumes a run of consecutive doc-comment siblings starting at
// the cursor, requiring exact line adjacency between them, and captures the
// first non-comment sibling after the run. It leaves the cursor on the first
// unconsumed sibling and reports whether one exists.
func collectRun(cursor *sitter.TreeCursor, source []byte, parseAnyway bool) (*commentRun, bool) {
	current := cursor.CurrentNode()
	endRow := current.EndPoint().Row

	if current.Type() != kindComment {
		if parseAnyway {
			return &commentRun{node: current}, cursor.GoToNextSibling()
		}
		return nil, cursor.GoToNextSibling()
	}

	text := current.Content(source)
	if !strings.HasPrefix(text, docMarker) {
		return nil, cursor.GoToNextSibling()
	}

	run := &commentRun{comments: []string{strings.TrimPrefix(text, docMarker)}}

	more := false
	for {
		if !cursor.GoToNextSibling() {
			break
		}
		next := cursor.CurrentNode()

		// A blank line (or any gap) between siblings breaks the run.
		if endRow+1 != next.StartPoint().Row {
			more = true
			break
		}

		endRow = next.EndPoint().Row

		if next.Type() != kindComment {
			if next.IsNamed() {
				run.node = next
			}
			more = cursor.GoToNextSibling()
			break
		}

		if text := next.Content(source); strings.HasPrefix(text, docMarker) {
			run.comments = append(run.comments, strings.TrimPrefix(text, docMarker))
		}
	}

	return run, more
}

// classify decides what the run documents. Tried in order, first match wins:
// table, function, field; anything else is free commentary whose children are
// still scanned.
func classify(run *commentRun, source []byte) []Block {
	if run.node == nil {
		if len(run.comments) > 0 {
			return []Block{&FreeBlock{Lines: run.comments}}
		}
		return nil
	}

	if table := parseTableBlock(run.node, source, run.comments); table != nil {
		return []Block{table}
	}

	if fn := parseFunctionBlock(run.node, source, run.comments); fn != nil {
		blocks := []Block{fn}
		return append(blocks, scanChildren(run.node, source)...)
	}

	if field := parseFieldBlock(run.node, source, run.comments); field != nil {
		return []Block{field}
	}

	var blocks []Block
	if len(run.comments) > 0 {
		blocks = append(blocks, &FreeBlock{Lines: run.comments})
	}
	return append(blocks, scanChildren(run.node, source)...)
}

func scanChildren(node *sitter.Node, source []byte) []Block {
	cursor := sitter.NewTreeCursor(node)
	defer cursor.Close()
	if !cursor.GoToFirstChild() {
		return nil
	}
	return ParseBlocks(cursor, source, false)
}

// parseTableBlock matches a variable declaration/assignment with a
// table-literal right-hand side, or a table field whose value is a table
// literal, and scans the literal's body as nested blocks.
func parseTableBlock(node *sitter.Node, source []byte, lines []string) *TableBlock {
	if node.Type() == kindVariableDeclaration {
		stmt := node.NamedChild(0)
		if stmt == nil || stmt.Type() != kindAssignmentStatement {
			return nil
		}
		node = stmt
	}

	if node.Type() == kindAssignmentStatement {
		varList := node.NamedChild(0)
		exprList := node.NamedChild(1)
		if varList == nil || varList.Type() != kindVariableList {
			return nil
		}
		if exprList == nil || exprList.Type() != kindExpressionList {
			return nil
		}
		name := varList.ChildByFieldName(fieldName)
		value := exprList.ChildByFieldName(fieldValue)
		if name == nil || value == nil || value.Type() != kindTableConstructor {
			return nil
		}
		return &TableBlock{
			Lines:  lines,
			Name:   name.Content(source),
			Fields: tableFields(value, source),
		}
	}

	if node.Type() == kindField {
		name := node.ChildByFieldName(fieldName)
		value := node.ChildByFieldName(fieldValue)
		if name == nil || value == nil || value.Type() != kindTableConstructor {
			return nil
		}
		return &TableBlock{
			Lines:  lines,
			Name:   name.Content(source),
			Fields: tableFields(value, source),
		}
	}

	return nil
}

// tableFields scans a table constructor's children in parse-anyway mode, so
// uncommented entries still yield blocks.
func tableFields(constructor *sitter.Node, source []byte) []Block {
	cursor := sitter.NewTreeCursor(constructor)
	defer cursor.Close()
	if !cursor.GoToFirstChild() {
		return nil
	}
	return ParseBlocks(cursor, source, true)
}

// parseFunctionBlock matches function declarations and function-valued
// assignments or table fields, capturing the owner path and method flag.
func parseFunctionBlock(node *sitter.Node, source []byte, lines []string) *FunctionBlock {
	if node.Type() == kindVariableDeclaration {
		stmt := node.NamedChild(0)
		if stmt == nil || stmt.Type() != kindAssignmentStatement {
			return nil
		}
		node = stmt
	}

	switch node.Type() {
	case kindAssignmentStatement:
		varList := node.NamedChild(0)
		exprList := node.NamedChild(1)
		if varList == nil || varList.Type() != kindVariableList {
			return nil
		}
		if exprList == nil || exprList.Type() != kindExpressionList {
			return nil
		}
		name := varList.ChildByFieldName(fieldName)
		if name == nil {
			return nil
		}

		table := ""
		if name.Type() == kindDotIndexExpression {
			tableNode := name.ChildByFieldName(fieldTable)
			fieldNode := name.ChildByFieldName(fieldField)
			if tableNode == nil || fieldNode == nil {
				return nil
			}
			table = tableNode.Content(source)
			name = fieldNode
		}

		value := exprList.ChildByFieldName(fieldValue)
		if value == nil || value.Type() != kindFunctionDefinition {
			return nil
		}
		return functionBlock(value, source, lines, table, name.Content(source), false)

	case kindFunctionDeclaration:
		name := node.ChildByFieldName(fieldName)
		if name == nil {
			return nil
		}

		table := ""
		isMethod := false
		switch name.Type() {
		case kindDotIndexExpression:
			tableNode := name.ChildByFieldName(fieldTable)
			fieldNode := name.ChildByFieldName(fieldField)
			if tableNode == nil || fieldNode == nil {
				return nil
			}
			table = tableNode.Content(source)
			name = fieldNode
		case kindMethodIndexExpression:
			tableNode := name.ChildByFieldName(fieldTable)
			methodNode := name.ChildByFieldName(fieldMethod)
			if tableNode == nil || methodNode == nil {
				return nil
			}
			table = tableNode.Content(source)
			name = methodNode
			isMethod = true
		}

		return functionBlock(node, source, lines, table, name.Content(source), isMethod)

	case kindField:
		name := node.ChildByFieldName(fieldName)
		value := node.ChildByFieldName(fieldValue)
		if name == nil || value == nil || value.Type() != kindFunctionDefinition {
			return nil
		}
		return functionBlock(value, source, lines, "", name.Content(source), false)
	}

	return nil
}

func functionBlock(node *sitter.Node, source []byte, lines []string, table, name string, isMethod bool) *FunctionBlock {
	parameters := node.ChildByFieldName(fieldParameters)
	if parameters == nil || parameters.Type() != kindParameters {
		return nil
	}

	var params []FunctionParam
	for i := 0; i < int(parameters.NamedChildCount()); i++ {
		param := parameters.NamedChild(i)
		switch param.Type() {
		case kindIdentifier:
			params = append(params, FunctionParam{Name: param.Content(source)})
		case kindVarargExpression:
			params = append(params, FunctionParam{Vararg: true})
		}
	}

	return &FunctionBlock{
		Lines:    lines,
		Table:    table,
		Name:     name,
		Params:   params,
		IsMethod: isMethod,
	}
}

// parseFieldBlock matches any remaining table field, capturing its name and
// the literal source text of its value.
func parseFieldBlock(node *sitter.Node, source []byte, lines []string) *FieldBlock {
	if node.Type() != kindField {
		return nil
	}
	value := node.ChildByFieldName(fieldValue)
	if value == nil {
		return nil
	}

	var name *FieldName
	if nameNode := node.ChildByFieldName(fieldName); nameNode != nil {
		name = &FieldName{
			Text:     nameNode.Content(source),
			Computed: nameNode.Type() != kindIdentifier,
		}
	}

	return &FieldBlock{
		Lines: lines,
		Name:  name,
		Value: value.Content(source),
	}
}
