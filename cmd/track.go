package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/output"
	"github.com/chrisdamba/greengrocer/internal/schedule"
	"github.com/chrisdamba/greengrocer/internal/tracking"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Run one delivery simulation and stream its events",
	RunE: func(cmd *cobra.Command, args []string) error {
		virtual, err := cmd.Flags().GetBool("virtual")
		if err != nil {
			return err
		}

		dest, err := output.New(cfg.Output)
		if err != nil {
			return err
		}
		defer output.Closer(dest)()

		var scheduler schedule.Scheduler = schedule.Real()
		var clock *schedule.VirtualScheduler
		if virtual {
			clock = schedule.Virtual(time.Now())
			scheduler = clock
		}

		sim := tracking.NewSimulator(scheduler, tracking.FromConfig(cfg.Tracking)...)
		defer sim.Close()

		publisher := tracking.NewPublisher(dest, scheduler.Now)
		sim.Subscribe(publisher.Observe)

		bar := progressbar.NewOptions(cfg.Tracking.Steps,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Delivering"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
		)
		done := make(chan struct{})
		sim.Subscribe(func(s models.SimulationSnapshot) {
			_ = bar.Set(s.Step)
			if s.Phase == models.PhaseCompleted {
				close(done)
			}
		})

		log.Info().
			Str("pickup", cfg.Tracking.Pickup.Name).
			Str("dropoff", cfg.Tracking.Dropoff.Name).
			Int("steps", cfg.Tracking.Steps).
			Bool("virtual", virtual).
			Msg("Starting delivery simulation")

		sim.Start()
		if !sim.State().Running {
			return fmt.Errorf("simulation did not start, check the tracking route")
		}

		if virtual {
			clock.RunUntilIdle(0)
		} else {
			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(interrupt)
			select {
			case <-done:
			case <-interrupt:
				sim.Stop()
				log.Warn().Int("step", sim.State().Step).Msg("Simulation interrupted")
			}
		}
		_ = bar.Finish()

		state := sim.State()
		log.Info().
			Int("progress", state.ProgressPercent).
			Str("eta", state.EstimatedTimeLabel).
			Int("events", publisher.Written()).
			Msg("Simulation finished")
		return nil
	},
}

func init() {
	trackCmd.Flags().Bool("virtual", false, "run on a virtual clock without waiting between ticks")
	trackCmd.Flags().Int("steps", 50, "number of ticks from pickup to dropoff")
	trackCmd.Flags().Duration("tick", time.Second, "time between ticks")
	trackCmd.Flags().String("output", "console", "event output format (console, json, csv, parquet, kafka, none)")
	trackCmd.Flags().Int64("seed", 42, "random seed for route jitter")
}
