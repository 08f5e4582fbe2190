// Package e2e runs the Gherkin acceptance features against a live API, either
// an in-process server or the one at E2E_BASE_URL.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TokenFunc mints a bearer token for a fresh operator with the given role.
type TokenFunc func(role string) (string, error)

// TestContext holds the state shared by the steps of one scenario.
type TestContext struct {
	baseURL string
	client  *http.Client
	mint    TokenFunc

	tokens     map[string]string
	role       string
	lastStatus int
	lastBody   []byte
	lastHeader http.Header
	saved      map[string]string
}

func NewTestContext(baseURL string, mint TokenFunc) *TestContext {
	return &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		mint:    mint,
	}
}

// Reset clears everything a previous scenario left behind. Tokens are minted
// per scenario, so every scenario runs as new operators with fresh rate limit
// budgets.
func (tc *TestContext) Reset() {
	tc.tokens = map[string]string{}
	tc.saved = map[string]string{}
	tc.role = ""
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.lastHeader = nil
}

// UseRole makes subsequent requests as an operator with role. An empty role
// sends no Authorization header.
func (tc *TestContext) UseRole(role string) error {
	if role == "" {
		tc.role = ""
		return nil
	}
	if _, err := tc.token(role); err != nil {
		return err
	}
	tc.role = role
	return nil
}

func (tc *TestContext) token(role string) (string, error) {
	if t, ok := tc.tokens[role]; ok {
		return t, nil
	}
	t, err := tc.mint(role)
	if err != nil {
		return "", fmt.Errorf("mint %s token: %w", role, err)
	}
	tc.tokens[role] = t
	return t, nil
}

func (tc *TestContext) Request(method, path string, body any) error {
	return tc.RequestAs(tc.role, method, path, body)
}

// RequestAs sends one request as role without changing the scenario's
// current role. Saved values are substituted for {name} placeholders in the
// path and in string bodies.
func (tc *TestContext) RequestAs(role, method, path string, body any) error {
	var payload io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		payload = strings.NewReader(tc.Expand(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, tc.baseURL+tc.Expand(path), payload)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		token, err := tc.token(role)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastStatus = resp.StatusCode
	tc.lastHeader = resp.Header
	return nil
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.Request(http.MethodPost, path, body)
}

func (tc *TestContext) GET(path string) error {
	return tc.Request(http.MethodGet, path, nil)
}

func (tc *TestContext) LastStatus() int {
	return tc.lastStatus
}

func (tc *TestContext) LastBody() []byte {
	return tc.lastBody
}

func (tc *TestContext) LastHeader(name string) string {
	if tc.lastHeader == nil {
		return ""
	}
	return tc.lastHeader.Get(name)
}

// ExpectStatus fails with the response body when the last status differs.
func (tc *TestContext) ExpectStatus(want int) error {
	if tc.lastStatus != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, tc.lastStatus, tc.lastBody)
	}
	return nil
}

// ResponseField walks a dotted path through the last JSON body. Numeric
// segments index into arrays: "results.0.action".
func (tc *TestContext) ResponseField(path string) (any, error) {
	var cur any
	if err := json.Unmarshal(tc.lastBody, &cur); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, fmt.Errorf("field %q not found in response", path)
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", seg, path)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("field %q not found in response", path)
		}
	}
	return cur, nil
}

// ResponseString renders a field the way it would be written in a feature
// file: numbers without exponent, null as "null".
func (tc *TestContext) ResponseString(path string) (string, error) {
	v, err := tc.ResponseField(path)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "null", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return fmt.Sprint(t), nil
	}
}

func (tc *TestContext) Save(name, value string) {
	tc.saved[name] = value
}

func (tc *TestContext) Saved(name string) (string, bool) {
	v, ok := tc.saved[name]
	return v, ok
}

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// Expand substitutes saved values for {name} placeholders. Unknown names are
// left in place.
func (tc *TestContext) Expand(s string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := tc.saved[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}
