package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/calcform/internal/calculator"
)

func TestHealthHandler(t *testing.T) {
	a, _, _ := SetupAppTest(t, "loan.hcl", loanHCL)

	rec := httptest.NewRecorder()
	a.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestRenderHandler(t *testing.T) {
	a, _, _ := SetupAppTest(t, "loan.hcl", loanHCL)
	handler := http.HandlerFunc(a.renderHandler)

	t.Run("renders posted variables", func(t *testing.T) {
		body := `{"variables": {"rate": 20}, "checkboxes": [{"component": "fees", "option": "setup", "checked": true}]}`
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/render", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

		var view calculator.View
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, 25.0, view.Variables["fees"])
		assert.Equal(t, 20.0, view.Variables["rate"])

		lines := view.Sections[1].Lines
		require.Len(t, lines, 2)
		assert.Equal(t, "Total 1225.00", lines[0].Text)
		assert.Equal(t, calculator.LineView{ID: "result-line-1", Text: "High rate", Style: "warning", Conditional: true}, lines[1])
	})

	t.Run("empty body renders defaults", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/render", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"text": "Total 1050.00"`)
	})

	testCases := []struct {
		name     string
		method   string
		body     string
		wantCode int
		wantBody string
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed, "method not allowed"},
		{"invalid json", http.MethodPost, `{"variables":`, http.StatusBadRequest, "not valid JSON"},
		{"non-number variable", http.MethodPost, `{"variables": {"rate": "high"}}`, http.StatusBadRequest, `variable "rate" must be a number`},
		{"unknown checkbox component", http.MethodPost, `{"checkboxes": [{"component": "nope", "option": "x"}]}`, http.StatusBadRequest, "unknown component"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tc.method, "/api/v1/render", strings.NewReader(tc.body)))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}

func TestParseRenderRequest(t *testing.T) {
	overrides, boxes, err := parseRenderRequest([]byte(`{
		"variables": {"a": 1.5, "b": -2},
		"checkboxes": [
			{"component": "extras", "option": "wrap", "checked": true},
			{"component": "extras", "option": "card"}
		]
	}`))
	require.NoError(t, err)
	assert.Equal(t, Overrides{"a": 1.5, "b": -2}, overrides)
	assert.Equal(t, []CheckboxChange{
		{Component: "extras", Option: "wrap", Checked: true},
		{Component: "extras", Option: "card", Checked: false},
	}, boxes)

	overrides, boxes, err = parseRenderRequest(nil)
	require.NoError(t, err)
	assert.Empty(t, overrides)
	assert.Nil(t, boxes)

	_, _, err = parseRenderRequest([]byte(`{"checkboxes": [{"component": 1, "option": "x"}]}`))
	require.ErrorContains(t, err, "need string 'component' and 'option'")
}

func TestLiveSession(t *testing.T) {
	a, _, logs := SetupAppTest(t, "loan.hcl", loanHCL)
	s := &liveSession{calc: a.NewCalculator(), logger: a.logger}

	view, err := s.updateVariable(map[string]any{"name": "amount", "value": 2000.0})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, view.Variables["amount"])
	assert.Equal(t, "Total 2100.00", view.Sections[1].Lines[0].Text)

	view, err = s.updateVariable(map[string]any{"name": "rate", "value": "10"})
	require.NoError(t, err)
	assert.Equal(t, "Total 2200.00", view.Sections[1].Lines[0].Text)

	view, err = s.setCheckbox(map[string]any{"component": "fees", "option": "setup", "checked": true})
	require.NoError(t, err)
	assert.Equal(t, 25.0, view.Variables["fees"])
	assert.Equal(t, "Total 2225.00", view.Sections[1].Lines[0].Text)
	assert.Contains(t, logs.String(), "Checkbox updated.")

	_, err = s.updateVariable()
	require.ErrorContains(t, err, "missing event payload")

	_, err = s.updateVariable("amount")
	require.ErrorContains(t, err, "must be an object")

	_, err = s.updateVariable(map[string]any{"value": 1.0})
	require.ErrorContains(t, err, "needs a string 'name'")

	_, err = s.updateVariable(map[string]any{"name": "rate", "value": true})
	require.ErrorContains(t, err, "value must be a number")

	_, err = s.setCheckbox(map[string]any{"component": "amount", "option": "setup"})
	require.Error(t, err)
}

func TestToFloat(t *testing.T) {
	testCases := []struct {
		in      any
		want    float64
		wantErr bool
	}{
		{1.25, 1.25, false},
		{3, 3, false},
		{int64(-4), -4, false},
		{"2.5", 2.5, false},
		{"abc", 0, true},
		{nil, 0, true},
	}
	for _, tc := range testCases {
		got, err := toFloat(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %v", tc.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}
