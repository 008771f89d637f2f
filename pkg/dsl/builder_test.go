package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/infrasim/pkg/condition"
	"github.com/aretw0/infrasim/pkg/dsl"
	"github.com/aretw0/infrasim/pkg/graph"
	"github.com/aretw0/infrasim/pkg/probability"
	"github.com/aretw0/infrasim/pkg/sim"
)

func TestBuilder_Fluent(t *testing.T) {
	b := dsl.New()
	b.Type("db").
		Initial("up").
		Go("up", "down", probability.NoProb()).
		Type("app").
		Initial("ok").
		Emit(condition.Dep(condition.Eq("down")), probability.NoProb(), "{{.ID}} lost its database")
	b.Node("db1", "db").Node("api", "app", "db1")

	desc, err := b.Build()
	require.NoError(t, err)

	require.Len(t, desc.Types, 2)
	db := desc.Types["db"]
	assert.Equal(t, "db", db.Name)
	assert.Equal(t, "up", db.Initial)
	require.Equal(t, 1, db.Chain.Len())
	assert.True(t, db.Chain.Transitions[0].Condition.IsTrue())
	assert.Len(t, desc.Types["app"].Triggers, 1)

	require.Len(t, desc.Nodes, 2)
	assert.Equal(t, "db1", desc.Nodes[0].ID)
	assert.Equal(t, []string{"db1"}, desc.Nodes[1].Dependencies)
}

func TestBuilder_TypeReuse(t *testing.T) {
	b := dsl.New()
	b.Type("host").Initial("on").Go("on", "off", probability.Constant(0.1))
	b.Type("host").Go("off", "on", probability.Constant(0.5))
	b.Node("h1", "host")

	desc := b.MustBuild()
	chain := desc.Types["host"].Chain
	require.Equal(t, 2, chain.Len())
	assert.Equal(t, "off", chain.Transitions[1].From)
	assert.Equal(t, "on", desc.Types["host"].Initial)
}

func TestBuilder_TemplateErrorsAreJoined(t *testing.T) {
	b := dsl.New()
	b.Type("a").Initial("x").Emit(condition.True(), probability.NoProb(), "{{.ID")
	b.Type("b").Initial("y").Emit(condition.True(), probability.NoProb(), "{{.Nope")

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build system")
	assert.Contains(t, err.Error(), "type a:")
	assert.Contains(t, err.Error(), "type b:")

	assert.Panics(t, func() { b.MustBuild() })
}

func TestBuilder_BuildIsolated(t *testing.T) {
	b := dsl.New()
	b.Type("host").Initial("on").States("on", "off")
	b.Node("h1", "host")
	first := b.MustBuild()

	b.Type("host").States("maintenance").Go("on", "off", probability.NoProb())
	b.Node("h2", "host")

	assert.Equal(t, []string{"on", "off"}, first.Types["host"].States)
	assert.Equal(t, 0, first.Types["host"].Chain.Len())
	assert.Len(t, first.Nodes, 1)
}

func TestBuilder_Runs(t *testing.T) {
	b := dsl.New()
	b.Type("db").Initial("up").Go("up", "down", probability.NoProb())
	b.Type("app").
		Initial("ok").
		Emit(condition.Dep(condition.Eq("down")), probability.NoProb(), "{{.ID}} lost its database")
	b.Node("db1", "db").Node("api", "app", "db1")

	g, err := graph.Build(b.MustBuild())
	require.NoError(t, err)
	d, err := sim.New(g, sim.WithSeed(1))
	require.NoError(t, err)

	batch, err := d.Step()
	require.NoError(t, err)
	require.Len(t, batch.Events, 1)
	assert.Equal(t, "api", batch.Events[0].NodeID)
	assert.Equal(t, "api lost its database", batch.Events[0].Message)
}
