package presets

import (
	"strings"

	"github.com/aretw0/infrasim/pkg/condition"
	"github.com/aretw0/infrasim/pkg/config"
	"github.com/aretw0/infrasim/pkg/dsl"
	"github.com/aretw0/infrasim/pkg/probability"
)

// States of the iptables system.
const (
	StateStop   = "stop"
	StateNormal = "normal"
	StateAttack = "ping_flood_attack"
)

// Rule is a firewall rule and the traffic family it belongs to.
type Rule struct {
	Spec    string
	Feature string
}

// Rules are the firewall rules whose hits the iptables system emits.
var Rules = []Rule{
	{"INPUT -i eth0 -p tcp --dport 22 -j ACCEPT", "ssh0"},
	{"OUTPUT -o eth0 -p tcp --sport 22 -j ACCEPT", "ssh1"},
	{"INPUT -s 1.2.3.4 -j DROP", "ip0"},
	{"INPUT -s 5.6.7.8 -j DROP", "ip1"},
	{"INPUT -s 1.2.1.2 -j DROP", "ip2"},
	{"INPUT -s 6.5.4.3 -j DROP", "ip3"},
	{"INPUT -i eth0 -p tcp --dport 80 -j ACCEPT", "http0"},
	{"OUTPUT -o eth0 -p tcp --sport 80 -j ACCEPT", "http1"},
	{"INPUT -p icmp --icmp-type echo-request -j ACCEPT", "ping0"},
	{"OUTPUT -p icmp --icmp-type echo-reply -j ACCEPT", "ping1"},
	{"OUTPUT -p icmp --icmp-type echo-request -j ACCEPT", "ping2"},
	{"INPUT -p icmp --icmp-type echo-reply -j ACCEPT", "ping3"},
}

// IPTablesFamilies are the traffic families, in feature order.
var IPTablesFamilies = []string{"ssh", "ip", "http", "ping"}

// IPTablesFamily returns the traffic family of a rule spec, or "" when the
// spec is not one of Rules.
func IPTablesFamily(spec string) string {
	for _, r := range Rules {
		if r.Spec != spec {
			continue
		}
		for _, f := range IPTablesFamilies {
			if strings.HasPrefix(r.Feature, f) {
				return f
			}
		}
	}
	return ""
}

// Hit probability per family and state. Blocked addresses never hit.
var hitRates = map[string]map[string]float64{
	StateNormal: {"ssh": 0.1, "http": 0.6, "ping": 0.2},
	StateAttack: {"ssh": 0.1, "http": 0.6, "ping": 0.95},
}

// IPTables is a single firewall that is mostly serving regular traffic and
// occasionally under a ping flood. Each event is the rule that was hit.
func IPTables() *config.Description {
	b := dsl.New()
	fw := b.Type("iptables").
		Initial(StateStop).
		States(StateStop, StateNormal, StateAttack).
		Go(StateStop, StateNormal, probability.Constant(0.8)).
		Go(StateNormal, StateStop, probability.Constant(0.001)).
		Go(StateNormal, StateAttack, probability.Constant(0.0001)).
		Go(StateAttack, StateNormal, probability.Constant(0.2))
	for _, state := range []string{StateNormal, StateAttack} {
		for _, r := range Rules {
			p, ok := hitRates[state][IPTablesFamily(r.Spec)]
			if !ok {
				continue
			}
			fw.Emit(condition.Eq(state), probability.Constant(p), r.Spec)
		}
	}
	b.Node("iptables", "iptables")
	return b.MustBuild()
}
