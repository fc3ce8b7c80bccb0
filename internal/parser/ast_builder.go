package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder converts a tree-sitter CST into the internal AST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST rooted at a tree-sitter node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	return b.buildNode(tsNode)
}

func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	switch tsNode.Type() {
	case "program":
		return b.buildContainer(tsNode, NodeProgram)
	case "function_declaration", "function":
		return b.buildFunction(tsNode, NodeFunction)
	case "function_expression":
		return b.buildFunction(tsNode, NodeFunctionExpression)
	case "generator_function_declaration", "generator_function":
		return b.buildFunction(tsNode, NodeGeneratorFunction)
	case "method_definition":
		return b.buildFunction(tsNode, NodeMethodDefinition)
	case "arrow_function":
		return b.buildFunction(tsNode, NodeArrowFunction)
	case "class_declaration", "class":
		return b.buildClass(tsNode)
	case "if_statement":
		return b.buildGeneric(tsNode, NodeIfStatement)
	case "switch_statement":
		return b.buildGeneric(tsNode, NodeSwitchStatement)
	case "for_statement":
		return b.buildGeneric(tsNode, NodeForStatement)
	case "for_in_statement":
		// tree-sitter uses one node type for both for-in and for-of
		return b.buildGeneric(tsNode, NodeForInStatement)
	case "while_statement":
		return b.buildGeneric(tsNode, NodeWhileStatement)
	case "do_statement":
		return b.buildGeneric(tsNode, NodeDoWhileStatement)
	case "statement_block":
		return b.buildContainer(tsNode, NodeBlockStatement)
	case "call_expression":
		return b.buildCallExpression(tsNode)
	case "member_expression":
		return b.buildMemberExpression(tsNode)
	case "identifier", "property_identifier", "shorthand_property_identifier", "type_identifier":
		return b.buildIdentifier(tsNode)
	case "variable_declarator":
		return b.buildVariableDeclarator(tsNode)
	case "required_parameter", "optional_parameter":
		return b.buildParameter(tsNode)
	case "type_annotation":
		return b.buildGeneric(tsNode, NodeTypeAnnotation)
	case "predefined_type":
		return b.buildPredefinedType(tsNode)
	case "union_type":
		return b.buildGeneric(tsNode, NodeUnionType)
	default:
		return b.buildGeneric(tsNode, NodeType(tsNode.Type()))
	}
}

// buildContainer builds a node whose direct statements become Body
func (b *ASTBuilder) buildContainer(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.location(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || b.skippable(child) {
			continue
		}
		childNode := b.buildNode(child)
		if childNode != nil {
			node.Add(childNode)
			node.Body = append(node.Body, childNode)
		}
	}

	return node
}

func (b *ASTBuilder) buildFunction(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.location(tsNode)

	if nameNode := b.childByField(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	// Parameters: parenthesized list, or a bare identifier for arrows
	if paramsNode := b.childByField(tsNode, "parameters"); paramsNode != nil {
		for i := 0; i < int(paramsNode.ChildCount()); i++ {
			child := paramsNode.Child(i)
			if child == nil || b.skippable(child) || b.punctuation(child) {
				continue
			}
			param := b.buildNode(child)
			if param != nil {
				node.Add(param)
				node.Params = append(node.Params, param)
			}
		}
	} else if paramNode := b.childByField(tsNode, "parameter"); paramNode != nil {
		param := b.buildNode(paramNode)
		if param != nil {
			node.Add(param)
			node.Params = append(node.Params, param)
		}
	}

	if retNode := b.childByField(tsNode, "return_type"); retNode != nil {
		ret := b.buildNode(retNode)
		if ret != nil {
			node.Add(ret)
			node.ReturnType = ret
		}
	}

	if bodyNode := b.childByField(tsNode, "body"); bodyNode != nil {
		body := b.buildNode(bodyNode)
		if body != nil {
			node.Add(body)
			if body.Type == NodeBlockStatement {
				node.Body = body.Body
			} else {
				// Arrow function expression body
				node.Body = []*Node{body}
			}
		}
	}

	return node
}

func (b *ASTBuilder) buildClass(tsNode *sitter.Node) *Node {
	node := NewNode(NodeClass)
	node.Location = b.location(tsNode)

	if nameNode := b.childByField(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	if bodyNode := b.childByField(tsNode, "body"); bodyNode != nil {
		for i := 0; i < int(bodyNode.ChildCount()); i++ {
			child := bodyNode.Child(i)
			if child == nil || b.skippable(child) || b.punctuation(child) {
				continue
			}
			member := b.buildNode(child)
			if member != nil {
				node.Add(member)
				node.Body = append(node.Body, member)
			}
		}
	}

	return node
}

func (b *ASTBuilder) buildCallExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeCallExpression)
	node.Location = b.location(tsNode)

	if fnNode := b.childByField(tsNode, "function"); fnNode != nil {
		callee := b.buildNode(fnNode)
		if callee != nil {
			node.Add(callee)
			node.Callee = callee
		}
	}

	if argsNode := b.childByField(tsNode, "arguments"); argsNode != nil {
		for i := 0; i < int(argsNode.ChildCount()); i++ {
			child := argsNode.Child(i)
			if child == nil || b.skippable(child) || b.punctuation(child) {
				continue
			}
			node.Add(b.buildNode(child))
		}
	}

	return node
}

func (b *ASTBuilder) buildMemberExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeMemberExpression)
	node.Location = b.location(tsNode)

	if objNode := b.childByField(tsNode, "object"); objNode != nil {
		obj := b.buildNode(objNode)
		if obj != nil {
			node.Add(obj)
			node.Object = obj
		}
	}

	if propNode := b.childByField(tsNode, "property"); propNode != nil {
		prop := b.buildNode(propNode)
		if prop != nil {
			node.Add(prop)
			node.Property = prop
		}
	}

	return node
}

func (b *ASTBuilder) buildIdentifier(tsNode *sitter.Node) *Node {
	node := NewNode(NodeIdentifier)
	node.Location = b.location(tsNode)
	node.Name = tsNode.Content(b.source)
	return node
}

func (b *ASTBuilder) buildVariableDeclarator(tsNode *sitter.Node) *Node {
	node := NewNode(NodeVariableDeclarator)
	node.Location = b.location(tsNode)

	if nameNode := b.childByField(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	if typeNode := b.childByField(tsNode, "type"); typeNode != nil {
		ann := b.buildNode(typeNode)
		if ann != nil {
			node.Add(ann)
			node.TypeAnnotation = ann
		}
	}

	if valueNode := b.childByField(tsNode, "value"); valueNode != nil {
		node.Add(b.buildNode(valueNode))
	}

	return node
}

func (b *ASTBuilder) buildParameter(tsNode *sitter.Node) *Node {
	node := NewNode(NodeParameter)
	node.Location = b.location(tsNode)

	if patternNode := b.childByField(tsNode, "pattern"); patternNode != nil {
		node.Name = patternNode.Content(b.source)
	}

	if typeNode := b.childByField(tsNode, "type"); typeNode != nil {
		ann := b.buildNode(typeNode)
		if ann != nil {
			node.Add(ann)
			node.TypeAnnotation = ann
		}
	}

	return node
}

func (b *ASTBuilder) buildPredefinedType(tsNode *sitter.Node) *Node {
	node := NewNode(NodePredefinedType)
	node.Location = b.location(tsNode)
	node.Name = tsNode.Content(b.source)
	return node
}

// buildGeneric keeps unknown or structural nodes in the tree so the
// traversal still reaches everything beneath them
func (b *ASTBuilder) buildGeneric(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.location(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || b.skippable(child) || b.punctuation(child) {
			continue
		}
		node.Add(b.buildNode(child))
	}

	return node
}

func (b *ASTBuilder) location(tsNode *sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
	}
}

func (b *ASTBuilder) childByField(tsNode *sitter.Node, fieldName string) *sitter.Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			return child
		}
	}
	return nil
}

func (b *ASTBuilder) skippable(tsNode *sitter.Node) bool {
	t := tsNode.Type()
	return t == "comment" || t == ""
}

func (b *ASTBuilder) punctuation(tsNode *sitter.Node) bool {
	switch tsNode.Type() {
	case "(", ")", "{", "}", "[", "]", ",", ";", ":", "case", "default":
		return true
	}
	return false
}
