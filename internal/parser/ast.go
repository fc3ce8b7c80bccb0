package parser

import "fmt"

// NodeType represents the type of AST node
type NodeType string

// AST node types relevant to scoring. Anything else in the source is
// preserved as a generic node so traversal still reaches every construct.
const (
	NodeProgram NodeType = "Program"

	// Functions
	NodeFunction           NodeType = "FunctionDeclaration"
	NodeFunctionExpression NodeType = "FunctionExpression"
	NodeArrowFunction      NodeType = "ArrowFunction"
	NodeGeneratorFunction  NodeType = "GeneratorFunction"
	NodeMethodDefinition   NodeType = "MethodDefinition"

	// Classes
	NodeClass NodeType = "ClassDeclaration"

	// Control flow
	NodeIfStatement      NodeType = "IfStatement"
	NodeSwitchStatement  NodeType = "SwitchStatement"
	NodeForStatement     NodeType = "ForStatement"
	NodeForInStatement   NodeType = "ForInStatement"
	NodeWhileStatement   NodeType = "WhileStatement"
	NodeDoWhileStatement NodeType = "DoWhileStatement"

	// Expressions
	NodeCallExpression   NodeType = "CallExpression"
	NodeMemberExpression NodeType = "MemberExpression"
	NodeIdentifier       NodeType = "Identifier"

	// Declarations
	NodeVariableDeclarator NodeType = "VariableDeclarator"
	NodeParameter          NodeType = "Parameter"
	NodeBlockStatement     NodeType = "BlockStatement"

	// TypeScript type syntax
	NodeTypeAnnotation NodeType = "TypeAnnotation"
	NodePredefinedType NodeType = "PredefinedType"
	NodeUnionType      NodeType = "UnionType"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node represents an AST node.
//
// Every structural child is reachable through Children, in source order,
// so Walk visits each node exactly once. The named fields below are
// shortcuts into Children for the node types the detectors care about.
type Node struct {
	Type     NodeType
	Name     string // identifier/function/parameter/type name
	Location Location
	Children []*Node

	Params         []*Node // function parameters
	Body           []*Node // function or block immediate statements
	Callee         *Node   // call expression target
	Object         *Node   // member expression object
	Property       *Node   // member expression property
	ReturnType     *Node   // function return type annotation
	TypeAnnotation *Node   // parameter/variable type annotation
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{Type: nodeType}
}

// Add appends a structural child
func (n *Node) Add(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
}

// Walk traverses the AST depth-first, calling the visitor for each node.
// Returning false stops traversal of that branch.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}
	if !visitor(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visitor)
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsFunction returns true if the node introduces a new function scope
func (n *Node) IsFunction() bool {
	switch n.Type {
	case NodeFunction, NodeFunctionExpression, NodeArrowFunction,
		NodeGeneratorFunction, NodeMethodDefinition:
		return true
	}
	return false
}

// IsControlFlow returns true if the node contributes to nesting depth
func (n *Node) IsControlFlow() bool {
	switch n.Type {
	case NodeIfStatement, NodeSwitchStatement,
		NodeForStatement, NodeForInStatement,
		NodeWhileStatement, NodeDoWhileStatement:
		return true
	}
	return false
}
