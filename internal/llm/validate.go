package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxViolations bounds how many schema failures are reported back.
const maxViolations = 8

var violationPrinter = message.NewPrinter(language.English)

// compiledSchemas holds one compiled schema per Schema.Name.
var compiledSchemas struct {
	mu   sync.Mutex
	byID map[string]*jsonschema.Schema
}

// validateResponse checks raw against schema. It returns nil when schema is
// nil, and a KindInvalid *Error listing each violation otherwise.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &Error{Kind: KindInvalid, Content: raw, Err: fmt.Errorf("decode %s: %w", schema.Name, err)}
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return &Error{Kind: KindInvalid, Content: raw, Err: err}
	}

	err = compiled.Validate(doc)
	if err == nil {
		return nil
	}
	inv := &Error{Kind: KindInvalid, Content: raw, Err: err}
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		inv.Violations = violations(verr)
	}
	return inv
}

// violations flattens the leaves of a validation error tree, ordered by
// path so feedback reads top to bottom.
func violations(root *jsonschema.ValidationError) []Violation {
	var out []Violation
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, Violation{
				Path:    pointer(e.InstanceLocation),
				Message: e.ErrorKind.LocalizedString(violationPrinter),
			})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(root)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	if len(out) > maxViolations {
		out = out[:maxViolations]
	}
	return out
}

func pointer(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(t))
	}
	return b.String()
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	compiledSchemas.mu.Lock()
	defer compiledSchemas.mu.Unlock()

	if s, ok := compiledSchemas.byID[schema.Name]; ok {
		return s, nil
	}

	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", schema.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", schema.Name, err)
	}

	url := "mem://llm/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", schema.Name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schema.Name, err)
	}

	if compiledSchemas.byID == nil {
		compiledSchemas.byID = make(map[string]*jsonschema.Schema)
	}
	compiledSchemas.byID[schema.Name] = s
	return s, nil
}
