package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/calcform/internal/calculator"
	"github.com/vk/calcform/internal/hcl"
	"github.com/vk/calcform/internal/jsonschema"
	"github.com/vk/calcform/internal/tomlschema"
)

const loanHCL = `
name = "Loan"

formula "interest" {
  expression = "amount * rate / 100"
}

formula "total" {
  expression = "amount + interest + fees"
}

component "amount" {
  type     = "numberInput"
  label    = "Amount"
  variable = "amount"
  default  = 1000
  prefix   = "$"
}

component "rate" {
  type     = "slider"
  label    = "Rate"
  variable = "rate"
  default  = 5
  suffix   = "%"
}

component "fees" {
  type                = "checkboxes"
  label               = "Fees"
  mode                = "normal"
  aggregated_variable = "fees"

  checkbox "setup" {
    label         = "Setup"
    variable      = "setup_fee"
    checked_value = 25
  }
}

section "inputs" {
  type = "input"
  name = "Inputs"
  row {
    column {
      components = ["amount", "rate", "fees"]
    }
  }
}

section "result" {
  type = "result"
  name = "Result"

  line {
    content = "Total {formula:total}"
  }
  line {
    block {
      message = "High rate"
      style   = "warning"
      condition {
        target_type = "variable"
        target      = "rate"
        operator    = "greater_than"
        value       = 10
      }
    }
  }
}
`

const cyclicJSON = `{
  "name": "Broken",
  "formulas": [
    {"name": "a", "expression": "b + 1"},
    {"name": "b", "expression": "a + 1"},
    {"name": "c", "expression": "c * 2"},
    {"name": "d", "expression": "ghost + 1"},
    {"name": "e", "expression": "1 +* 2"}
  ]
}`

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{SchemaPath: "calc.hcl"})
	require.NoError(t, err)
	assert.Equal(t, &Config{SchemaPath: "calc.hcl", Engine: "hcl", LogFormat: "text", LogLevel: "info", Addr: ":8080"}, cfg)

	cfg, err = NewConfig(Config{SchemaPath: "calc.hcl", Engine: "EXPR", LogFormat: "JSON", LogLevel: "Debug", Addr: ":9000"})
	require.NoError(t, err)
	assert.Equal(t, "expr", cfg.Engine)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)

	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing schema", Config{}, "SchemaPath is a required"},
		{"bad engine", Config{SchemaPath: "x", Engine: "lua"}, "unknown expression engine"},
		{"bad format", Config{SchemaPath: "x", LogFormat: "xml"}, "invalid log-format"},
		{"bad level", Config{SchemaPath: "x", LogLevel: "loud"}, "invalid log-level"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoaderFor(t *testing.T) {
	l, err := LoaderFor("a.hcl")
	require.NoError(t, err)
	assert.IsType(t, &hcl.Loader{}, l)

	l, err = LoaderFor("a.JSON")
	require.NoError(t, err)
	assert.IsType(t, &jsonschema.Loader{}, l)

	l, err = LoaderFor("a.toml")
	require.NoError(t, err)
	assert.IsType(t, &tomlschema.Loader{}, l)

	l, err = LoaderFor(t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &hcl.Loader{}, l)

	_, err = LoaderFor("a.yaml")
	require.ErrorContains(t, err, "unsupported schema file")
}

func TestNewApp_LoadFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`formula "x" {`), 0o644))

	cfg, err := NewConfig(Config{SchemaPath: path})
	require.NoError(t, err)

	_, err = NewApp(&SafeBuffer{}, &SafeBuffer{}, cfg, nil)
	require.ErrorContains(t, err, "failed to load schema")
}

func TestRender_Text(t *testing.T) {
	a, out, _ := SetupAppTest(t, "loan.hcl", loanHCL)

	require.NoError(t, a.Render(Overrides{"rate": 12}, []CheckboxChange{{Component: "fees", Option: "setup", Checked: true}}, FormatText, false))

	text := out.String()
	assert.Contains(t, text, "Loan\n")
	assert.Contains(t, text, "  Amount: $1000\n")
	assert.Contains(t, text, "  Rate: 12%\n")
	assert.Contains(t, text, "    [x] Setup\n")
	assert.Contains(t, text, "  Total 1145.00\n")
	assert.Contains(t, text, "  High rate\n")
}

func TestRender_JSON(t *testing.T) {
	a, out, _ := SetupAppTest(t, "loan.hcl", loanHCL)

	require.NoError(t, a.Render(nil, nil, FormatJSON, false))

	var view calculator.View
	require.NoError(t, json.Unmarshal([]byte(out.String()), &view))
	require.Len(t, view.Sections, 2)
	assert.Equal(t, []calculator.LineView{{ID: "result-line-0", Text: "Total 1050.00", Style: "default"}}, view.Sections[1].Lines)
	assert.Equal(t, 0.0, view.Variables["fees"])
}

func TestRender_Errors(t *testing.T) {
	a, _, _ := SetupAppTest(t, "loan.hcl", loanHCL)

	require.ErrorContains(t, a.Render(nil, nil, "yaml", false), "invalid output format")
	require.ErrorContains(t, a.Render(nil, []CheckboxChange{{Component: "nope"}}, FormatText, false), "unknown component")
}

func TestEval(t *testing.T) {
	a, out, _ := SetupAppTest(t, "loan.hcl", loanHCL)

	require.NoError(t, a.Eval("total", Overrides{"amount": 200}))
	require.NoError(t, a.Eval("interest * 2", nil))
	require.NoError(t, a.Eval("total +", nil))

	assert.Equal(t, "210\n100\n0\n", out.String())
}

func TestCheck(t *testing.T) {
	t.Run("clean schema", func(t *testing.T) {
		a, out, logs := SetupAppTest(t, "loan.hcl", loanHCL)

		require.NoError(t, a.Check())
		assert.Equal(t, "OK: 2 formulas, no problems found\n", out.String())
		assert.NotContains(t, logs.String(), "level=WARN")
	})

	t.Run("problems", func(t *testing.T) {
		a, out, logs := SetupAppTest(t, "broken.json", cyclicJSON)

		require.ErrorIs(t, a.Check(), ErrProblemsFound)
		assert.Equal(t, strings.Join([]string{
			"cycle: a -> b",
			"self-reference: c",
			"unknown reference: d uses ghost",
			"unparsed: e",
			"",
		}, "\n"), out.String())

		assert.Contains(t, logs.String(), "Formulas depend on each other")
		assert.Contains(t, logs.String(), "level=WARN")
	})
}

func TestNewLogger(t *testing.T) {
	var buf SafeBuffer
	logger, err := NewLogger("WARN", "", &buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=WARN msg=shown")

	_, err = NewLogger("trace", "text", &buf)
	require.ErrorContains(t, err, "invalid log-level")
	_, err = NewLogger("info", "yaml", &buf)
	require.ErrorContains(t, err, "invalid log-format")
}
