/*
Package dsl provides a Go DSL for programmatically describing simulated systems.

It builds the same config.Description a YAML file decodes to, using a fluent
builder instead of nested literals. This is useful for presets, generated
topologies and unit tests.

Example usage:

	b := dsl.New()

	b.Type("switch").
		Initial("on").
		States("on", "off").
		Go("on", "off", probability.Constant(0.01)).
		Go("off", "on", probability.Constant(0.7)).
		Emit(condition.Eq("off"), probability.NoProb(), "Switch is unreachable or down")

	b.Type("host").
		Initial("on").
		Branch("on", "off", probability.NoProb(), condition.Dep(condition.Eq("off"))).
		Emit(condition.Eq("off"), probability.NoProb(), "Host {{.ID}} is down")

	b.Node("s1", "switch")
	b.Node("h1", "host", "s1")

	desc, err := b.Build()
	// ... pass desc to infrasim.New(...) or graph.Build(...)
*/
package dsl
