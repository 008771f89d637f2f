/*
Package infrasim synthesizes realistic infrastructure events from a
dependency-aware probabilistic state machine.

A system is a graph of nodes (hosts, switches, web services, support
channels, firewalls). Every node type carries a Markov chain of guarded,
probabilistic transitions and a list of triggers. Each tick the simulator
visits every node once, applies the first matching transition of its chain,
then evaluates its triggers; the messages of the triggers that fire form the
tick's batch of events.

# Concepts

  - Conditions are predicate trees over a node's state: eq, neq, and, or and
    dep, which holds when any dependency satisfies its inner predicate.
  - Probabilities are constant, always, or interpolated over the hour of day
    so load follows a daily profile.
  - The hour wheel advances by one per tick and wraps after hour 24.
  - Randomness comes from an injected source: the same description and seed
    always produce the same batches.

# Usage

	sim, err := infrasim.FromPreset("cloud", infrasim.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}
	batches, err := sim.Start(100)
	if err != nil {
		log.Fatal(err)
	}
	for b := range batches {
		for _, e := range b.Events {
			fmt.Println(e.Tick, e.NodeID, e.Message)
		}
	}

Systems can also be described in YAML and loaded with Load; Run paces the
simulation in bursts and pushes events to a sink such as a JSON lines
writer or a Redis channel.
*/
package infrasim
