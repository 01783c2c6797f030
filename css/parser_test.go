package css

import "testing"

func mustParse(t *testing.T, input string) *Stylesheet {
	t.Helper()
	sheet, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) returned unexpected error: %v", input, err)
	}
	return sheet
}

func TestParseSimpleRule(t *testing.T) {
	sheet := mustParse(t, "div { color: red; }")

	if len(sheet.Rules) != 1 {
		t.Fatalf("Expected 1 rule, got %d", len(sheet.Rules))
	}

	rule := sheet.Rules[0]
	if len(rule.Selectors) != 1 {
		t.Fatalf("Expected 1 selector, got %d", len(rule.Selectors))
	}

	simple := rule.Selectors[0]
	if simple.Tag != "div" {
		t.Errorf("Expected tag 'div', got %v", simple.Tag)
	}

	if len(rule.Declarations) != 1 {
		t.Fatalf("Expected 1 declaration, got %d", len(rule.Declarations))
	}

	decl := rule.Declarations[0]
	if decl.Name != "color" {
		t.Errorf("Expected property 'color', got %v", decl.Name)
	}
	if decl.Value != KeywordOf("red") {
		t.Errorf("Expected value 'red', got %v", decl.Value)
	}
}

func TestParseIDSelector(t *testing.T) {
	sheet := mustParse(t, "#header { background: #112233ff; }")

	simple := sheet.Rules[0].Selectors[0]
	if simple.ID != "header" {
		t.Errorf("Expected ID 'header', got %v", simple.ID)
	}

	decl := sheet.Rules[0].Declarations[0]
	expected := ColorOf(Color{R: 0x11, G: 0x22, B: 0x33, A: 0xff})
	if decl.Value != expected {
		t.Errorf("Expected %v, got %v", expected, decl.Value)
	}
}

func TestParseClassSelector(t *testing.T) {
	sheet := mustParse(t, ".container { width: 100px; }")

	simple := sheet.Rules[0].Selectors[0]
	if len(simple.Classes) != 1 || simple.Classes[0] != "container" {
		t.Errorf("Expected class 'container', got %v", simple.Classes)
	}

	decl := sheet.Rules[0].Declarations[0]
	if decl.Value != LengthOf(100) {
		t.Errorf("Expected 100px, got %v", decl.Value)
	}
}

func TestParseCombinedSelector(t *testing.T) {
	sheet := mustParse(t, "div#main.container { margin: 10px; }")

	simple := sheet.Rules[0].Selectors[0]
	if simple.Tag != "div" {
		t.Errorf("Expected tag 'div', got %v", simple.Tag)
	}
	if simple.ID != "main" {
		t.Errorf("Expected ID 'main', got %v", simple.ID)
	}
	if len(simple.Classes) != 1 || simple.Classes[0] != "container" {
		t.Errorf("Expected class 'container', got %v", simple.Classes)
	}
}

func TestParseMultipleClasses(t *testing.T) {
	sheet := mustParse(t, ".container.active { display: block; }")

	simple := sheet.Rules[0].Selectors[0]
	if len(simple.Classes) != 2 {
		t.Fatalf("Expected 2 classes, got %d", len(simple.Classes))
	}
	if simple.Classes[0] != "container" || simple.Classes[1] != "active" {
		t.Errorf("Expected [container active], got %v", simple.Classes)
	}
}

func TestParseUniversalSelector(t *testing.T) {
	sheet := mustParse(t, "* { margin: 0px; }")

	simple := sheet.Rules[0].Selectors[0]
	if simple.Tag != "" || simple.ID != "" || len(simple.Classes) != 0 {
		t.Errorf("Expected empty simple selector for '*', got %+v", simple)
	}
}

func TestParseMultipleSelectors(t *testing.T) {
	sheet := mustParse(t, "h1, h2, h3 { display: block; }")

	rule := sheet.Rules[0]
	if len(rule.Selectors) != 3 {
		t.Fatalf("Expected 3 selectors, got %d", len(rule.Selectors))
	}

	tags := map[string]bool{}
	for _, sel := range rule.Selectors {
		tags[sel.Tag] = true
	}
	for _, tag := range []string{"h1", "h2", "h3"} {
		if !tags[tag] {
			t.Errorf("Expected selector for %q", tag)
		}
	}
}

func TestParseSelectorsSortedBySpecificity(t *testing.T) {
	sheet := mustParse(t, "div#id, div.a.b, div, * { display: block; }")

	rule := sheet.Rules[0]
	for i := 1; i < len(rule.Selectors); i++ {
		prev := rule.Selectors[i-1].Specificity()
		cur := rule.Selectors[i].Specificity()
		if cur.Less(prev) {
			t.Errorf("selectors not sorted ascending by specificity at index %d: %+v before %+v", i, prev, cur)
		}
	}
}

func TestParseMultipleDeclarations(t *testing.T) {
	sheet := mustParse(t, "div { color: red; background: blue; margin: 10px; }")

	rule := sheet.Rules[0]
	if len(rule.Declarations) != 3 {
		t.Fatalf("Expected 3 declarations, got %d", len(rule.Declarations))
	}

	expected := map[string]Value{
		"color":      KeywordOf("red"),
		"background": KeywordOf("blue"),
		"margin":     LengthOf(10),
	}

	for _, decl := range rule.Declarations {
		want, ok := expected[decl.Name]
		if !ok {
			t.Errorf("Unexpected property: %v", decl.Name)
			continue
		}
		if decl.Value != want {
			t.Errorf("Property %v: expected %v, got %v", decl.Name, want, decl.Value)
		}
	}
}

func TestParseMultipleRules(t *testing.T) {
	input := `
		div { color: red; }
		p { width: 14px; }
		.container { display: block; }
	`
	sheet := mustParse(t, input)

	if len(sheet.Rules) != 3 {
		t.Fatalf("Expected 3 rules, got %d", len(sheet.Rules))
	}
}

func TestParseDeclarationWithoutTrailingSemicolon(t *testing.T) {
	sheet := mustParse(t, "div { color: red }")
	if len(sheet.Rules[0].Declarations) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(sheet.Rules[0].Declarations))
	}
}

func TestParseEmptyInput(t *testing.T) {
	sheet := mustParse(t, "   ")
	if len(sheet.Rules) != 0 {
		t.Errorf("expected 0 rules for blank input, got %d", len(sheet.Rules))
	}
}

func TestParseErrorOnUnknownUnit(t *testing.T) {
	_, err := Parse("div { width: 10em; }")
	if err == nil {
		t.Fatal("expected an error for unsupported unit 'em'")
	}
}

func TestParseErrorOnMissingBrace(t *testing.T) {
	_, err := Parse("div color: red; }")
	if err == nil {
		t.Fatal("expected an error for missing '{'")
	}
}

func TestParseErrorOnUnterminatedRule(t *testing.T) {
	_, err := Parse("div { color: red; ")
	if err == nil {
		t.Fatal("expected an error for unterminated rule")
	}
}

func TestParseErrorOnDescendantSelector(t *testing.T) {
	// The grammar has no descendant combinator: a bare space inside a
	// selector list must not silently form a second rule or selector.
	_, err := Parse("div p { color: blue; }")
	if err == nil {
		t.Fatal("expected an error for a descendant-combinator-shaped selector")
	}
}

func TestParseErrorOnAttributeSelector(t *testing.T) {
	_, err := Parse("input[type='submit'] { color: red; }")
	if err == nil {
		t.Fatal("expected an error for an attribute selector")
	}
}

func TestParseErrorOnAtRule(t *testing.T) {
	_, err := Parse("@media screen { body { color: blue; } }")
	if err == nil {
		t.Fatal("expected an error for an at-rule")
	}
}
