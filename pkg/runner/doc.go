/*
Package runner drives a checkout from a terminal or any line-oriented stream.

It acts as the bridge between the flow controller and the outside world:
it renders the current view, prompts for each input of the step, applies
input and blur events, and presses Next. Sessions can be persisted so an
interrupted walkthrough resumes where it stopped.

# Key Components

  - Runner: the loop that walks the three steps.
  - IOHandler: decouples how views are shown and values are read.
  - TextHandler: interactive terminal usage, hidden CVV entry on a TTY.
  - JSONHandler: JSON-Lines for headless hosts.

# Usage

	r := runner.NewRunner(
		runner.WithEngine(engine),
		runner.WithSessionID("user-1"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	final, err := r.Run(ctx)

At any prompt, ":back" returns to the personal step, ":reset" clears the
checkout and ":quit" stops, keeping what was typed.
*/
package runner
