package tsjs

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// cyclomaticComplexity implements §4.2's rule: start at 1, add one for
// each if/for/for-in/for-of/while/do/case/catch/conditional expression/
// logical-operator occurrence, counted over the function's own subtree
// only (nested function-likes are not descended into — their complexity
// is computed separately when they are visited in their own right).
func cyclomaticComplexity(fnNode *tree_sitter.Node) int {
	complexity := 1
	body := fnNode.ChildByFieldName("body")
	if body == nil {
		return complexity
	}
	tsjsWalk(body, func(n *tree_sitter.Node) bool {
		switch n.GrammarName() {
		case "function_declaration", "function_expression", "arrow_function", "generator_function_declaration", "method_definition":
			return n == body // never descend into a nested function-like
		case "if_statement", "for_statement", "for_in_statement", "while_statement", "do_statement", "switch_case", "catch_clause", "ternary_expression":
			complexity++
		case "binary_expression":
			op := n.ChildByFieldName("operator")
			if op != nil {
				switch opText(op) {
				case "&&", "||", "??":
					complexity++
				}
			}
		}
		return true
	})
	return complexity
}

func opText(n *tree_sitter.Node) string {
	return n.GrammarName()
}
