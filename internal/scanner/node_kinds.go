package scanner

// Node kind vocabulary of the tree-sitter Lua grammar, as far as the scanner
// relies on it.
const (
	kindComment               = "comment"
	kindIdentifier            = "identifier"
	kindVariableDeclaration   = "variable_declaration"
	kindAssignmentStatement   = "assignment_statement"
	kindVariableList          = "variable_list"
	kindExpressionList        = "expression_list"
	kindTableConstructor      = "table_constructor"
	kindField                 = "field"
	kindFunctionDeclaration   = "function_declaration"
	kindFunctionDefinition    = "function_definition"
	kindParameters            = "parameters"
	kindVarargExpression      = "vararg_expression"
	kindDotIndexExpression    = "dot_index_expression"
	kindMethodIndexExpression = "method_index_expression"
)

// Grammar field names used for named-child access.
const (
	fieldName       = "name"
	fieldValue      = "value"
	fieldTable      = "table"
	fieldField      = "field"
	fieldMethod     = "method"
	fieldParameters = "parameters"
)
