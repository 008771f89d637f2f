// Package schema validates simulation configs before they reach the engine.
//
// The engine trusts its input: probabilities are not range checked and
// predicate trees are assumed well formed. This package is the gate in front
// of it. ValidateConfig walks a config and reports every problem at once as
// an *AggregateError of *ValidationError, each keyed by a dotted path:
//
//	if err := schema.ValidateConfig(cfg); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        fmt.Println(e)
//	    }
//	}
//
// Flat settings are checked with a small type system:
//
//	settings := schema.Schema{
//	    "start_hour": schema.Hour(),
//	    "order":      schema.OneOf("declaration", "dependencies_first"),
//	}
//	err := schema.Validate(settings, map[string]any{"start_hour": 8, "order": "declaration"})
package schema
