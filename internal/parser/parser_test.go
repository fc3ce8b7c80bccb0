package parser

import (
	"context"
	"errors"
	"testing"
)

func TestParseSimpleFunction(t *testing.T) {
	code := `function hello() { return 42; }`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ast == nil {
		t.Fatal("AST is nil")
	}

	if ast.Type != NodeProgram {
		t.Errorf("Expected NodeProgram, got %s", ast.Type)
	}

	if len(ast.Body) == 0 {
		t.Fatal("Expected at least one statement in body")
	}

	funcNode := ast.Body[0]
	if funcNode.Type != NodeFunction {
		t.Errorf("Expected NodeFunction, got %s", funcNode.Type)
	}

	if funcNode.Name != "hello" {
		t.Errorf("Expected function name 'hello', got '%s'", funcNode.Name)
	}
}

func TestParseArrowFunction(t *testing.T) {
	code := `const add = (a, b) => a + b;`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	found := false
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeArrowFunction {
			found = true
			return false
		}
		return true
	})

	if !found {
		t.Error("Expected to find arrow function in AST")
	}
}

func TestParseNestedControlFlow(t *testing.T) {
	code := `
	function process(items) {
		for (const item of items) {
			if (item.valid) {
				while (item.pending) {
					item.tick();
				}
			}
		}
	}
	`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	counts := map[NodeType]int{}
	ast.Walk(func(n *Node) bool {
		counts[n.Type]++
		return true
	})

	if counts[NodeForInStatement] != 1 {
		t.Errorf("Expected 1 for-of statement, got %d", counts[NodeForInStatement])
	}
	if counts[NodeIfStatement] != 1 {
		t.Errorf("Expected 1 if statement, got %d", counts[NodeIfStatement])
	}
	if counts[NodeWhileStatement] != 1 {
		t.Errorf("Expected 1 while statement, got %d", counts[NodeWhileStatement])
	}
}

func TestParseConsoleCall(t *testing.T) {
	code := `
	function debugMe(x) {
		console.log("value", x);
	}
	`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var call *Node
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeCallExpression {
			call = n
			return false
		}
		return true
	})

	if call == nil {
		t.Fatal("Expected to find call expression")
	}
	if call.Callee == nil || call.Callee.Type != NodeMemberExpression {
		t.Fatal("Expected member expression callee")
	}
	if call.Callee.Object == nil || call.Callee.Object.Name != "console" {
		t.Errorf("Expected callee object 'console', got %+v", call.Callee.Object)
	}
	if call.Callee.Property == nil || call.Callee.Property.Name != "log" {
		t.Errorf("Expected callee property 'log', got %+v", call.Callee.Property)
	}
}

func TestParseTypeScriptAnyAnnotation(t *testing.T) {
	code := `
	function handle(payload: any): any {
		return payload;
	}
	`

	parser := NewTypeScriptParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	anyCount := 0
	ast.Walk(func(n *Node) bool {
		if n.Type == NodePredefinedType && n.Name == "any" {
			anyCount++
		}
		return true
	})

	if anyCount != 2 {
		t.Errorf("Expected 2 'any' annotations, got %d", anyCount)
	}
}

func TestParseSyntaxError(t *testing.T) {
	code := `function broken( {`

	parser := NewParser()
	defer parser.Close()

	_, err := parser.ParseString(code)
	if err == nil {
		t.Fatal("Expected syntax error, got nil")
	}

	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Expected *SyntaxError, got %T", err)
	}
	if syntaxErr.Line < 1 {
		t.Errorf("Expected positive line number, got %d", syntaxErr.Line)
	}
}

func TestParseForLanguage(t *testing.T) {
	tsCode := []byte(`const n: number = 1;`)

	ast, err := ParseForLanguage(context.Background(), "sample.ts", tsCode)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ast == nil || len(ast.Body) == 0 {
		t.Fatal("AST is nil or empty")
	}
}

func TestIsTypeScriptFile(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"app.ts", true},
		{"component.tsx", true},
		{"module.mts", true},
		{"legacy.cts", true},
		{"script.js", false},
		{"view.jsx", false},
		{"README.md", false},
	}

	for _, tt := range tests {
		if got := IsTypeScriptFile(tt.filename); got != tt.want {
			t.Errorf("IsTypeScriptFile(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestNodeLocation(t *testing.T) {
	code := `function located() {
	return 1;
}`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	funcNode := ast.Body[0]
	if funcNode.Location.StartLine != 1 {
		t.Errorf("Expected start line 1, got %d", funcNode.Location.StartLine)
	}
	if funcNode.Location.EndLine != 3 {
		t.Errorf("Expected end line 3, got %d", funcNode.Location.EndLine)
	}
}
