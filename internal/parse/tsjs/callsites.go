package tsjs

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// CallSite records one call expression found inside a function/method
// body, deferred to Pass 2 for resolution (§4.5.2) since the callee may
// live in another file.
type CallSite struct {
	CallerEntityID string
	Callee         string // identifier or property-access text, e.g. "helper" or "obj.method"
	Line           int
	Column         int
	IsAwaited      bool
	IsConditional  bool
}

// Mutation records one assignment inside a function/method body whose
// target is not a local variable declaration, deferred to Pass 2 the same
// way as CallSite.
type Mutation struct {
	CallerEntityID string
	Target         string
	Line           int
	Column         int
}

// TryCatch records one try/catch construct, for Pass 2's HANDLES_ERROR
// edge (§4.5.2).
type TryCatch struct {
	CallerEntityID string
	CatchBinding   string // "" if the catch clause binds no parameter
	Line           int
}

// collectCallSitesAndErrors walks fnNode's body once, recording every
// call expression, qualifying assignment, and try/catch construct that
// belongs directly to this function (not to a nested function-like,
// which records its own when it is visited).
func (p *parser) collectCallSitesAndErrors(fnNode *tree_sitter.Node, fnID string) {
	body := fnNode.ChildByFieldName("body")
	if body == nil {
		return
	}
	tsjsWalk(body, func(n *tree_sitter.Node) bool {
		switch n.GrammarName() {
		case "function_declaration", "function_expression", "arrow_function", "generator_function_declaration", "method_definition":
			return n == body

		case "call_expression":
			p.recordCallSite(n, fnID, body)

		case "assignment_expression":
			p.recordMutation(n, fnID)

		case "try_statement":
			p.recordTryCatch(n, fnID)
		}
		return true
	})
}

func (p *parser) recordCallSite(n *tree_sitter.Node, fnID string, enclosingBody *tree_sitter.Node) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}
	callee := p.text(fn)
	isAwaited := isAwaitedCall(n)
	isConditional := isWithinConditional(n, enclosingBody)

	p.callSites = append(p.callSites, CallSite{
		CallerEntityID: fnID,
		Callee:         callee,
		Line:           startLine(n),
		Column:         int(n.StartPosition().Column),
		IsAwaited:      isAwaited,
		IsConditional:  isConditional,
	})
}

func isAwaitedCall(n *tree_sitter.Node) bool {
	parent := n.Parent()
	return parent != nil && parent.GrammarName() == "await_expression"
}

// isWithinConditional reports whether any ancestor of n, up to
// enclosingBody, is a branching or looping construct (§4.5.2).
func isWithinConditional(n *tree_sitter.Node, enclosingBody *tree_sitter.Node) bool {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.GrammarName() {
		case "if_statement", "switch_statement", "ternary_expression", "for_statement", "for_in_statement", "while_statement", "do_statement":
			return true
		}
		if cur.Id() == enclosingBody.Id() {
			break
		}
	}
	return false
}

func (p *parser) recordMutation(n *tree_sitter.Node, fnID string) {
	left := n.ChildByFieldName("left")
	if left == nil {
		return
	}
	switch left.GrammarName() {
	case "identifier", "member_expression":
		p.mutations = append(p.mutations, Mutation{
			CallerEntityID: fnID,
			Target:         p.text(left),
			Line:           startLine(n),
			Column:         int(n.StartPosition().Column),
		})
	}
}

func (p *parser) recordTryCatch(n *tree_sitter.Node, fnID string) {
	handler := n.ChildByFieldName("handler")
	if handler == nil {
		return
	}
	binding := ""
	if param := handler.ChildByFieldName("parameter"); param != nil {
		binding = p.text(param)
	}
	p.tryCatches = append(p.tryCatches, TryCatch{
		CallerEntityID: fnID,
		CatchBinding:   binding,
		Line:           startLine(handler),
	})
}
