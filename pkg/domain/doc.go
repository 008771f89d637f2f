/*
Package domain contains the core value types of the infrasim engine.

It defines the simulated entities and what they emit, and is kept free of
I/O, randomness and configuration concerns.

# Key Entities

  - StateNode: a simulated entity with a discrete state and dependency edges.
  - Event: a rendered message emitted by a trigger during a tick.
  - Batch: the ordered events of one tick.
  - LifecycleHooks: synchronous callbacks for transitions, events and ticks.
*/
package domain
