package config

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/fedqlab/fedq/internal/query"
)

//go:embed schema.cue
var conditionSchema string

var (
	schemaOnce sync.Once
	schemaDef  cue.Value
)

// conditionDef compiles the embedded schema once and returns the
// #Condition definition.
func conditionDef() cue.Value {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		schemaDef = ctx.CompileString(conditionSchema).LookupPath(cue.ParsePath("#Condition"))
	})
	return schemaDef
}

// condition mirrors one query mapping value. Value stays a node so a bare
// YAML number keeps its literal spelling.
type condition struct {
	Operator        string    `yaml:"operator"`
	Value           yaml.Node `yaml:"value"`
	LogicalOperator string    `yaml:"logical_operator"`
}

// decodeQuery walks the query mapping node in document order and builds a
// validated query.Spec.
func decodeQuery(node *yaml.Node) (query.Spec, error) {
	if node == nil || node.Kind == 0 || node.IsZero() {
		return query.Spec{}, &query.SchemaError{Code: query.ErrCodeEmptySpec, Message: "config has no query mapping"}
	}
	if node.Kind != yaml.MappingNode {
		return query.Spec{}, &query.SchemaError{Code: query.ErrCodeEmptySpec, Message: "query must be a mapping"}
	}

	var spec query.Spec
	// Mapping node content alternates key, value.
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var cond condition
		if err := valNode.Decode(&cond); err != nil {
			return query.Spec{}, fmt.Errorf("query %s: %w", keyNode.Value, err)
		}
		if err := validateCondition(keyNode.Value, cond); err != nil {
			return query.Spec{}, err
		}

		join, ok := query.NormalizeJoiner(cond.LogicalOperator)
		if !ok {
			return query.Spec{}, &query.SchemaError{
				Code:    query.ErrCodeUnknownJoiner,
				Key:     keyNode.Value,
				Message: fmt.Sprintf("joiner %q is not one of and, &", cond.LogicalOperator),
			}
		}

		spec.Conditions = append(spec.Conditions, query.Condition{
			Field:  query.StripFieldKey(keyNode.Value),
			RawKey: keyNode.Value,
			Op:     cond.Operator,
			Value:  cond.Value.Value,
			Join:   join,
		})
	}

	if err := query.Validate(spec); err != nil {
		return query.Spec{}, err
	}
	return spec, nil
}

// validateCondition unifies one condition with the CUE #Condition
// definition. CUE reports the precise constraint that failed, which beats
// hand-rolled field checks for config-facing errors.
func validateCondition(key string, cond condition) error {
	doc := map[string]any{}
	if cond.Operator != "" {
		doc["operator"] = cond.Operator
	}
	if !cond.Value.IsZero() {
		doc["value"] = cond.Value.Value
	}
	if cond.LogicalOperator != "" {
		doc["logical_operator"] = cond.LogicalOperator
	}

	ctx := conditionDef().Context()
	unified := conditionDef().Unify(ctx.Encode(doc))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &query.SchemaError{
			Code:    query.ErrCodeInvalidCondition,
			Key:     key,
			Message: err.Error(),
		}
	}
	return nil
}
