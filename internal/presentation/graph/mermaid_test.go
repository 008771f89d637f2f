package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/infrasim/internal/presentation/graph"
	simgraph "github.com/aretw0/infrasim/pkg/graph"
	"github.com/aretw0/infrasim/pkg/presets"
)

func cloud(t *testing.T) *simgraph.Graph {
	t.Helper()
	g, err := simgraph.Build(presets.Cloud())
	require.NoError(t, err)
	return g
}

func TestGenerateTopology(t *testing.T) {
	out := graph.GenerateTopology(cloud(t), nil)

	for _, want := range []string{
		"graph TD\n",
		`s1(("s1 <br/> switch"))`,
		`h1["h1 <br/> host"]`,
		`support_1[/"support_1 <br/> support"/]`,
		"h1 --> s1",
		"w2 --> h2",
		"support_1 -.-> w1",
		"support_1 -.-> w2",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "classDef")
}

func TestGenerateTopologyOverlay(t *testing.T) {
	g := cloud(t)
	h2, _ := g.Node("h2")
	h2.State = "off"

	out := graph.GenerateTopology(g, &graph.Overlay{Snapshot: g.Snapshot(), Degraded: []string{"off", "stop"}})
	assert.Contains(t, out, `h2["h2 <br/> host: off"]`)
	assert.Contains(t, out, "classDef degraded")
	assert.Contains(t, out, "class h2 degraded;")
	assert.Equal(t, 1, strings.Count(out, "degraded;"))
}

func TestGenerateChain(t *testing.T) {
	def := presets.Cloud().Types[presets.TypeWebService]
	out := graph.GenerateChain(def)

	assert.True(t, strings.HasPrefix(out, "stateDiagram-v2\n    [*] --> run\n"))
	assert.Contains(t, out, "run --> stop : always when dep(eq(off))")
	assert.Contains(t, out, "stop --> run : p=0.7 when dep(eq(on))")
	assert.Contains(t, out, "run --> slow : p{0h=0.001 8h=0.02")
}
