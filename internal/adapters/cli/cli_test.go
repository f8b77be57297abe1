package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"fitout-erp/internal/config"
)

func testEnv() *Env {
	return &Env{
		Config: &config.Config{JWT: config.JWTConfig{Secret: "cli-secret"}},
		Log:    zap.NewNop(),
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(testEnv())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPriceCommand(t *testing.T) {
	path := writeFile(t, "quote.json", `{
		"discount": "30",
		"vat_percent": "5",
		"lines": [
			{"item_name": "Glass partition", "width": "2", "height": "3", "quantity": 1,
			 "unit_rate": "100", "labour_cost": "20", "overheads": "10"}
		]
	}`)

	out, err := run(t, "price", path)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	for _, want := range []string{"Glass partition", "6.00", "630.00", "30.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPriceCommand_BadJSON(t *testing.T) {
	path := writeFile(t, "bad.json", `{"lines": [`)
	if _, err := run(t, "price", path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

const compareJSON = `{
	"material_request_id": 12,
	"items": [
		{"item_name": "Gypsum board", "quantity": "10", "unit": "nos"},
		{"item_name": "Metal stud", "quantity": "4", "unit": "nos"}
	],
	"quotes": [
		{"id": 1, "vendor_name": "Alpha", "quote_number": "A-1", "total_amount": "130",
		 "lines": [
			{"description": "Gypsum board", "quantity": "10", "unit_rate": "11"},
			{"description": "Metal stud", "quantity": "4", "unit_rate": "5"}
		 ]},
		{"id": 2, "vendor_name": "Beta", "quote_number": "B-7", "total_amount": "100",
		 "lines": [
			{"description": "Gypsum board", "quantity": "10", "unit_rate": "10"}
		 ]}
	]
}`

func TestCompareCommand(t *testing.T) {
	path := writeFile(t, "compare.json", compareJSON)

	out, err := run(t, "compare", path)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	for _, want := range []string{"material request 12", "*10.00", "*5.00", "100.00!", "Best quote: Beta (B-7)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCompareCommand_WritesWorkbook(t *testing.T) {
	path := writeFile(t, "compare.json", compareJSON)
	xlsx := filepath.Join(t.TempDir(), "cmp.xlsx")

	if _, err := run(t, "compare", path, "--xlsx", xlsx); err != nil {
		t.Fatalf("compare: %v", err)
	}
	f, err := excelize.OpenFile(xlsx)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue("Comparison", "A5"); got != "Gypsum board" {
		t.Errorf("A5 = %q, want Gypsum board", got)
	}
}

func TestTokenCommand(t *testing.T) {
	out, err := run(t, "token", "--user", "42")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (interface{}, error) {
		return []byte("cli-secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["user_id"] != float64(42) {
		t.Errorf("user_id = %v, want 42", claims["user_id"])
	}
}

func TestTokenCommand_RequiresUser(t *testing.T) {
	if _, err := run(t, "token"); err == nil {
		t.Fatal("expected error without --user")
	}
}

func TestTokenCommand_UserFlagsExclusive(t *testing.T) {
	_, err := run(t, "token", "--user", "42", "--username", "pat")
	if err == nil || !strings.Contains(err.Error(), "username") {
		t.Fatalf("expected a flag conflict error, got %v", err)
	}
}

func TestParseID(t *testing.T) {
	if _, err := parseID("x"); err == nil {
		t.Error("parseID(x) should fail")
	}
	if _, err := parseID("0"); err == nil {
		t.Error("parseID(0) should fail")
	}
	if id, err := parseID("17"); err != nil || id != 17 {
		t.Errorf("parseID(17) = %d, %v", id, err)
	}
}
