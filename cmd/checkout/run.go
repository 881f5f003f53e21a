package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/checkout/internal/config"
	"github.com/aretw0/checkout/internal/presentation/tui"
	"github.com/aretw0/checkout/pkg/observability"
	"github.com/aretw0/checkout/pkg/runner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk through a checkout in the terminal",
	Long: `Starts an interactive checkout. Type :back to return to the previous step,
:reset to start over and :quit to stop. Progress is saved after every answer, so
a stopped run resumes where it left off with the same --session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		// Terminal runs keep their progress between invocations.
		if a.cfg.Store.Backend == config.StoreMemory && viper.GetString("store") == "" {
			a.cfg.Store.Backend = config.StoreFile
			if err := a.openStore(); err != nil {
				return err
			}
		}

		engine, err := a.newEngine(observability.LogHooks(a.logger))
		if err != nil {
			return err
		}

		jsonMode, _ := cmd.Flags().GetBool("json")
		sessionID, _ := cmd.Flags().GetString("session")

		var handler runner.IOHandler
		if jsonMode {
			handler = runner.NewJSONHandler(os.Stdin, os.Stdout)
		} else {
			tui.PrintBanner(os.Stdout)
			handler = runner.NewTextHandler(os.Stdin, os.Stdout,
				runner.WithTextHandlerRenderer(tui.NewRenderer(80)),
			)
		}

		r := runner.NewRunner(
			runner.WithEngine(engine),
			runner.WithStore(a.store),
			runner.WithLogger(a.logger),
			runner.WithInputHandler(handler),
			runner.WithSessionID(sessionID),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, err = r.Run(ctx)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, runner.ErrQuit), errors.Is(err, io.EOF), errors.Is(err, ctx.Err()):
			if !jsonMode {
				fmt.Fprintf(os.Stdout, "\nProgress saved. Resume with: checkout run --session %s\n", r.SessionID)
			}
			return nil
		default:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("session", runner.DefaultSessionID, "Session ID to create or resume")
	runCmd.Flags().Bool("json", false, "Exchange NDJSON messages on stdin/stdout instead of prompts")
}
