// Package trigger turns node states into synthetic events.
package trigger

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/aretw0/infrasim/pkg/condition"
	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/probability"
)

// Data is the value a message template is rendered against.
type Data struct {
	ID    string
	Type  string
	State string
	Hour  int
	Tick  int
}

// Trigger emits an event when its condition holds on a node and its
// probability gate opens. Triggers never change node state.
type Trigger struct {
	Condition   condition.Check
	Probability probability.Check
	Message     string

	tmpl *template.Template
}

// New creates a trigger. Messages containing template actions are compiled
// once here; plain text is used as-is.
func New(cond condition.Check, prob probability.Check, message string) (Trigger, error) {
	t := Trigger{Condition: cond, Probability: prob, Message: message}
	if !strings.Contains(message, "{{") {
		return t, nil
	}
	tmpl, err := template.New("message").Option("missingkey=error").Parse(message)
	if err != nil {
		return Trigger{}, fmt.Errorf("invalid message template %q: %w", message, err)
	}
	t.tmpl = tmpl
	return t, nil
}

// MustNew is like New but panics on an invalid template.
func MustNew(cond condition.Check, prob probability.Check, message string) Trigger {
	t, err := New(cond, prob, message)
	if err != nil {
		panic(err)
	}
	return t
}

// Evaluate returns an event for n when the trigger fires.
// The probability is only sampled when the condition holds.
//
// A message template failing to render still fires: the event carries the
// raw message and the render error is returned for the caller to log.
func (t Trigger) Evaluate(n *domain.StateNode, hour float64, tick int, r probability.Source) (domain.Event, bool, error) {
	if !condition.Evaluate(t.Condition, n) {
		return domain.Event{}, false, nil
	}
	if !t.Probability.Sample(r, hour) {
		return domain.Event{}, false, nil
	}
	msg, err := t.Render(Data{ID: n.ID, Type: n.Type, State: n.State, Hour: int(hour), Tick: tick})
	if err != nil {
		err = fmt.Errorf("render message of node %s: %w", n.ID, err)
	}
	return domain.Event{
		NodeID:  n.ID,
		Message: msg,
		Tick:    tick,
		Hour:    int(hour),
	}, true, err
}

// Render produces the event message. On a rendering error the raw message is
// returned together with the error.
func (t Trigger) Render(d Data) (string, error) {
	if t.tmpl == nil {
		return t.Message, nil
	}
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, d); err != nil {
		return t.Message, err
	}
	return sb.String(), nil
}

// IsTemplate reports whether the message contains template actions.
func (t Trigger) IsTemplate() bool { return t.tmpl != nil }

func (t Trigger) String() string {
	return fmt.Sprintf("%q [%s] when %s", t.Message, t.Probability, t.Condition)
}
