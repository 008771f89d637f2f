/*
Package ports defines the driven ports (interfaces) of the infrasim engine.

These interfaces decouple the simulation from the collaborators that receive
its output, so the same run can be printed, published or kept in memory.

# Key Interfaces

  - Sink: receives the event batches of a run.
*/
package ports
