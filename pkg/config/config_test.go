package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/infrasim/pkg/condition"
	"github.com/aretw0/infrasim/pkg/config"
	"github.com/aretw0/infrasim/pkg/probability"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "small.yaml"))
	require.NoError(t, err)

	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(7), *cfg.Seed)
	assert.Equal(t, 8, cfg.StartHour)
	assert.Equal(t, 48, cfg.Ticks)
	assert.Equal(t, 5*time.Millisecond, cfg.Sleep.Std())
	require.NotNil(t, cfg.MinEventsPerBurst)
	assert.Equal(t, 0, *cfg.MinEventsPerBurst)
	assert.Equal(t, "declaration", cfg.Order)
	assert.Len(t, cfg.Types, 3)

	want := config.Graph{
		{ID: "w1", Type: "web_service", Dependencies: []string{"h1"}},
		{ID: "h1", Type: "host", Dependencies: []string{"s1"}},
		{ID: "s1", Type: "switch", Dependencies: []string{}},
		{ID: "h2", Type: "host", Dependencies: []string{"s1"}},
	}
	if diff := cmp.Diff(want, cfg.Graph); diff != "" {
		t.Errorf("graph mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"unknown key", "typez: {}\n"},
		{"graph not mapping", "graph: [a, b]\n"},
		{"node without type", "graph:\n  a: {dependencies: []}\n"},
		{"empty name", "graph:\n  \":host\": []\n"},
		{"bad dependencies", "graph:\n  a:host: {x: 1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestDescription(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "small.yaml"))
	require.NoError(t, err)

	desc, err := cfg.Description()
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "switch", "web_service"}, desc.TypeNames())
	assert.Len(t, desc.Nodes, 4)

	web := desc.Types["web_service"]
	require.Equal(t, 2, web.Chain.Len())
	runToSlow := web.Chain.Transitions[0]
	assert.Equal(t, probability.KindInterpolated, runToSlow.Probability.Kind())
	assert.InDelta(t, 0.0155, runToSlow.Probability.Probability(23), 1e-12)
	assert.Equal(t,
		condition.Dep(condition.And(condition.Eq("on"), condition.Dep(condition.Eq("on")))),
		runToSlow.Condition,
	)
	assert.True(t, web.Chain.Transitions[1].Condition.IsTrue())
	assert.Equal(t, []string{"run", "slow", "stop"}, web.DeclaredStates())

	host := desc.Types["host"]
	assert.Equal(t, []string{"on", "off"}, host.DeclaredStates())
	require.Len(t, host.Triggers, 1)
	assert.True(t, host.Triggers[0].IsTemplate())
}

func TestDescriptionErrorPaths(t *testing.T) {
	tests := []struct {
		name string
		src  string
		path string
	}{
		{
			"transition condition",
			"types:\n  t:\n    initial: a\n    transitions:\n      - {from: a, to: b, condition: {eqq: x}}\n",
			"types.t.transitions[0].condition",
		},
		{
			"transition probability",
			"types:\n  t:\n    initial: a\n    transitions:\n      - {from: a, to: b, probability: {x: 1}}\n",
			"types.t.transitions[0].probability",
		},
		{
			"trigger template",
			"types:\n  t:\n    initial: a\n    triggers:\n      - {message: \"{{.ID\"}\n",
			"types.t.triggers[0].message",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.src))
			require.NoError(t, err)
			_, err = cfg.Description()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "small.yaml"))
	require.NoError(t, err)
	desc, err := cfg.Description()
	require.NoError(t, err)

	data, err := config.FromDescription(desc).Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	again, err := config.Load(path)
	require.NoError(t, err)
	desc2, err := again.Description()
	require.NoError(t, err)

	assert.Equal(t, desc.TypeNames(), desc2.TypeNames())
	for _, name := range desc.TypeNames() {
		a, b := desc.Types[name], desc2.Types[name]
		assert.Equal(t, a.Chain, b.Chain, name)
		require.Len(t, b.Triggers, len(a.Triggers), name)
		for i := range a.Triggers {
			assert.Equal(t, a.Triggers[i].Message, b.Triggers[i].Message)
			assert.Equal(t, a.Triggers[i].Condition, b.Triggers[i].Condition)
		}
	}
	ids := func(g []config.NodeSpec) []string {
		var out []string
		for _, n := range g {
			out = append(out, n.ID)
		}
		return out
	}
	assert.Equal(t, ids(desc.Nodes), ids(desc2.Nodes))
}

func TestSleepForms(t *testing.T) {
	tests := []struct {
		src  string
		want time.Duration
	}{
		{"sleep: 0.01\n", 10 * time.Millisecond},
		{"sleep: 2\n", 2 * time.Second},
		{"sleep: 10ms\n", 10 * time.Millisecond},
		{"sleep: 1m30s\n", 90 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Sleep.Std())
		})
	}

	for _, src := range []string{"sleep: soon\n", "sleep: [1]\n", "sleep: .nan\n"} {
		_, err := config.Parse([]byte(src))
		assert.Error(t, err, src)
	}
}

func TestSleepMarshalsAsDuration(t *testing.T) {
	cfg := &config.Config{Sleep: config.Duration(250 * time.Millisecond)}
	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "sleep: 250ms")

	again, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Sleep, again.Sleep)
}
