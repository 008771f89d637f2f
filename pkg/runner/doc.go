/*
Package runner paces a simulation and hands its output to a sink.

It acts as the bridge between the driver, which produces batches as fast as
it is asked to, and the outside world, which usually wants bursts of events
at a steady wall-clock rate.

# Key Components

  - Runner: accumulates batches into bursts, pushes them and sleeps.
  - SignalManager: turns SIGINT/SIGTERM into context cancellation.

# Usage

	signals := runner.NewSignalManager()
	defer signals.Stop()

	r := runner.NewRunner(driver, jsonl.NewWriter(os.Stdout),
		runner.WithMinEventsPerBurst(500),
		runner.WithSleep(10*time.Millisecond),
	)
	if _, err := r.Run(signals.Context()); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
*/
package runner
