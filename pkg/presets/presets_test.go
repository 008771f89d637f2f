package presets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/infrasim/pkg/config"
	"github.com/aretw0/infrasim/pkg/graph"
	"github.com/aretw0/infrasim/pkg/presets"
	"github.com/aretw0/infrasim/pkg/sim"
)

type fixed float64

func (f fixed) Float64() float64 { return float64(f) }

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"cloud", "iptables"}, presets.Names())
	for _, name := range presets.Names() {
		desc, err := presets.Lookup(name)
		require.NoError(t, err)
		_, err = graph.Build(desc)
		assert.NoError(t, err, name)
	}
	_, err := presets.Lookup("datacenter")
	assert.Error(t, err)
}

func TestCloudTopology(t *testing.T) {
	g, err := graph.Build(presets.Cloud())
	require.NoError(t, err)

	support, ok := g.Node("support_1")
	require.True(t, ok)
	assert.Equal(t, []string{"w1", "w2"}, support.DependencyIDs())

	w2, _ := g.Node("w2")
	assert.Equal(t, []string{"h2"}, w2.DependencyIDs())
	assert.Empty(t, g.Dangling())
}

func TestCloudHostFailureStopsWebService(t *testing.T) {
	g, err := graph.Build(presets.Cloud())
	require.NoError(t, err)
	h1, _ := g.Node("h1")
	w1, _ := g.Node("w1")
	h1.State = "off"

	chain := g.Chain(presets.TypeWebService)
	tr, ok := chain.Select(w1, 12, fixed(0.99))
	require.True(t, ok)
	assert.Equal(t, "stop", tr.To)

	var messages []string
	for _, trg := range g.Triggers(presets.TypeWebService) {
		if ev, ok, _ := trg.Evaluate(w1, 12, 0, fixed(0.99)); ok {
			messages = append(messages, ev.Message)
		}
	}
	assert.Equal(t, []string{"Application is down"}, messages)

	h1.State = "on"
	tr, ok = chain.Select(w1, 12, fixed(0.5))
	require.True(t, ok)
	assert.Equal(t, "run", tr.To)
}

func TestCloudWebServiceSlowsDownAtPeak(t *testing.T) {
	g, err := graph.Build(presets.Cloud())
	require.NoError(t, err)
	w1, _ := g.Node("w1")

	chain := g.Chain(presets.TypeWebService)
	_, ok := chain.Select(w1, 12, fixed(0.069))
	assert.True(t, ok)
	assert.Equal(t, "slow", w1.State)

	w1.State = "run"
	_, ok = chain.Select(w1, 0, fixed(0.069))
	assert.False(t, ok)
}

func TestCloudSupportOnlyComplainsWhenDegraded(t *testing.T) {
	g, err := graph.Build(presets.Cloud())
	require.NoError(t, err)
	support, _ := g.Node("support_1")
	complaint := g.Triggers(presets.TypeSupport)[0]

	_, ok, _ := complaint.Evaluate(support, 12, 0, fixed(0))
	assert.False(t, ok, "every web service runs")

	w2, _ := g.Node("w2")
	w2.State = "slow"
	ev, ok, _ := complaint.Evaluate(support, 12, 0, fixed(0.79))
	require.True(t, ok)
	assert.Equal(t, "User complained for poor web service", ev.Message)
	_, ok, _ = complaint.Evaluate(support, 24, 0, fixed(0))
	assert.False(t, ok, "nobody calls at midnight")
}

func TestCloudRunIsReproducible(t *testing.T) {
	run := func() []int {
		g, err := graph.Build(presets.Cloud())
		require.NoError(t, err)
		d, err := sim.New(g, sim.WithSeed(1))
		require.NoError(t, err)
		seq, err := d.Start(500)
		require.NoError(t, err)
		var counts []int
		for b := range seq {
			counts = append(counts, b.Len())
		}
		return counts
	}
	a, b := run(), run()
	assert.Equal(t, a, b)
	assert.Len(t, a, 500)
}

func TestIPTables(t *testing.T) {
	desc := presets.IPTables()
	def := desc.Types["iptables"]
	assert.Len(t, def.Triggers, 16)
	assert.Equal(t, 4, def.Chain.Len())
	assert.Equal(t, presets.StateStop, def.Initial)

	g, err := graph.Build(desc)
	require.NoError(t, err)
	n, _ := g.Node("iptables")
	n.State = presets.StateAttack

	var hits int
	for _, trg := range g.Triggers("iptables") {
		if _, ok, _ := trg.Evaluate(n, 0, 0, fixed(0.9)); ok {
			hits++
		}
	}
	assert.Equal(t, 4, hits, "only the ping rules fire at 0.95")
}

func TestIPTablesFamily(t *testing.T) {
	assert.Equal(t, "ssh", presets.IPTablesFamily("INPUT -i eth0 -p tcp --dport 22 -j ACCEPT"))
	assert.Equal(t, "ip", presets.IPTablesFamily("INPUT -s 1.2.1.2 -j DROP"))
	assert.Equal(t, "ping", presets.IPTablesFamily("INPUT -p icmp --icmp-type echo-reply -j ACCEPT"))
	assert.Equal(t, "", presets.IPTablesFamily("INPUT -j LOG"))
}

func TestPresetsSurviveYAML(t *testing.T) {
	for _, name := range presets.Names() {
		desc, err := presets.Lookup(name)
		require.NoError(t, err)

		data, err := config.FromDescription(desc).Marshal()
		require.NoError(t, err)
		cfg, err := config.Parse(data)
		require.NoError(t, err, name)
		again, err := cfg.Description()
		require.NoError(t, err, name)

		for typ, def := range desc.Types {
			assert.Equal(t, def.Chain, again.Types[typ].Chain, "%s/%s", name, typ)
			assert.Len(t, again.Types[typ].Triggers, len(def.Triggers))
		}
	}
}
