package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/infrasim/internal/presentation/tui"
	"github.com/aretw0/infrasim/pkg/condition"
	"github.com/aretw0/infrasim/pkg/config"
	"github.com/aretw0/infrasim/pkg/probability"
	"github.com/aretw0/infrasim/pkg/presets"
	"github.com/aretw0/infrasim/pkg/trigger"
)

func TestDescribeMarkdown(t *testing.T) {
	md := tui.DescribeMarkdown("cloud", presets.Cloud())

	assert.True(t, strings.HasPrefix(md, "# cloud\n"))
	assert.Contains(t, md, "| support_1 | support | every web_service |")
	assert.Contains(t, md, "| h1 | host | s1 |")
	assert.Contains(t, md, "## web_service")
	assert.Contains(t, md, "States: run, slow, stop (initial `run`)")
	assert.Contains(t, md, "| `Application is down` | `always` | `or(eq(stop), dep(eq(off)), dep(dep(eq(off))))` |")
}

func TestDescribeMarkdownEscapesPipes(t *testing.T) {
	desc := &config.Description{
		Types: map[string]config.TypeDef{
			"fw": {
				Name:    "fw",
				Initial: "up",
				Triggers: []trigger.Trigger{
					trigger.MustNew(condition.True(), probability.NoProb(), "INPUT a|b"),
				},
			},
		},
		Nodes: []config.NodeSpec{{ID: "fw1", Type: "fw"}},
	}
	md := tui.DescribeMarkdown("fw", desc)
	assert.Contains(t, md, "| `INPUT a\\|b` | `always` | `true` |")
	assert.NotContains(t, md, "| From | To |")
}

func TestRenderer(t *testing.T) {
	out, err := tui.NewRenderer()("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|_| |_|_|")
}
