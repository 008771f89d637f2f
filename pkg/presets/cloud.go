package presets

import (
	"github.com/aretw0/infrasim/pkg/condition"
	"github.com/aretw0/infrasim/pkg/config"
	"github.com/aretw0/infrasim/pkg/dsl"
	"github.com/aretw0/infrasim/pkg/probability"
)

// Node types of the cloud system.
const (
	TypeHost       = "host"
	TypeSwitch     = "switch"
	TypeWebService = "web_service"
	TypeSupport    = "support"
)

// Daily load profiles of the cloud system, keyed by hour.
var (
	RunToSlow = map[int]float64{0: 0.001, 8: 0.02, 12: 0.07, 14: 0.07, 22: 0.03, 24: 0.001}
	SlowToRun = map[int]float64{0: 0.99, 8: 0.7, 12: 0.1, 14: 0.1, 22: 0.8, 24: 0.99}
	GetCalled = map[int]float64{0: 0.1, 8: 0.2, 12: 0.8, 14: 0.8, 22: 0.5, 24: 0.0}
)

// Cloud is a small data center: two hosts behind one switch, a web service
// on each host and a support channel receiving complaints about them.
//
// Web services slow down during the day, stop when their host goes off and
// restart once the host and its switch are back.
func Cloud() *config.Description {
	b := dsl.New()
	onOff(b.Type(TypeHost), 0.005, 0.5, "Host is unreachable or down", true)
	onOff(b.Type(TypeSwitch), 0.01, 0.7, "Switch is unreachable or down", false)
	webService(b.Type(TypeWebService))
	support(b.Type(TypeSupport))

	b.Node("h1", TypeHost, "s1").
		Node("h2", TypeHost, "s1").
		Node("s1", TypeSwitch).
		Node("w1", TypeWebService, "h1").
		Node("w2", TypeWebService, "h2").
		Node("support_1", TypeSupport)
	return b.MustBuild()
}

func onOff(t *dsl.TypeBuilder, onToOff, offToOn float64, message string, checkDeps bool) {
	down := condition.Eq("off")
	if checkDeps {
		down = condition.Or(condition.Eq("off"), condition.Dep(condition.Eq("off")))
	}
	t.Initial("on").
		States("on", "off").
		Go("on", "off", probability.Constant(onToOff)).
		Go("off", "on", probability.Constant(offToOn)).
		Emit(down, probability.NoProb(), message)
}

func webService(t *dsl.TypeBuilder) {
	hostOff := condition.Dep(condition.Eq("off"))
	hostAndSwitchOn := condition.Dep(condition.And(condition.Eq("on"), condition.Dep(condition.Eq("on"))))
	t.Initial("run").
		States("run", "slow", "stop").
		Branch("run", "stop", probability.NoProb(), hostOff).
		Branch("slow", "stop", probability.NoProb(), hostOff).
		Branch("slow", "run", probability.NoProb(),
			condition.Dep(condition.And(condition.Eq("on"), condition.Dep(condition.Eq("off"))))).
		Branch("run", "slow", probability.Interpolated(RunToSlow), hostAndSwitchOn).
		Branch("slow", "run", probability.Interpolated(SlowToRun), hostAndSwitchOn).
		Branch("stop", "run", probability.Constant(0.7), condition.Dep(condition.Eq("on"))).
		Emit(
			condition.Or(
				condition.Eq("stop"),
				condition.Dep(condition.Eq("off")),
				condition.Dep(condition.Dep(condition.Eq("off"))),
			),
			probability.NoProb(),
			"Application is down",
		).
		Emit(condition.Eq("slow"), probability.NoProb(), "Application is slow")
}

func support(t *dsl.TypeBuilder) {
	t.Initial("none").
		States("none").
		Collects(TypeWebService).
		Emit(condition.Dep(condition.Neq("run")), probability.Interpolated(GetCalled), "User complained for poor web service")
}
