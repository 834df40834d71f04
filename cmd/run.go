package cmd

import (
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/artsniffer/rxdma/config"
	"github.com/artsniffer/rxdma/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario.yaml]",
	Short: "Run a capture scenario.",
	Long: "`run scenario.yaml` loads the scenario, applies .env and RXDMA_* " +
		"overrides and runs it until every frame is delivered.",
	Args: cobra.MaximumNArgs(1),
	RunE: runScenario,
}

func init() {
	runCmd.Flags().String("pcap", "", "write delivered packets to this pcap file")
	runCmd.Flags().String("record", "", "record completions into this SQLite file, without extension")
	runCmd.Flags().Bool("trace", false, "also record frame tasks, needs --record")
	runCmd.Flags().Int("monitor", -1, "serve the monitor on this port, 0 picks a free port")
	runCmd.Flags().Bool("open-browser", false, "open the monitor in a browser")
	runCmd.Flags().Bool("wait", false, "keep the monitor running after the run until interrupted")

	rootCmd.AddCommand(runCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	scenario, err := config.Load(path)
	if err != nil {
		return err
	}

	applyFlags(cmd, &scenario)

	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())

	if err := scenario.Logging.Configure(log); err != nil {
		return err
	}

	s, err := simulation.MakeBuilder().
		WithScenario(scenario).
		WithLogger(log).
		Build()
	if err != nil {
		return err
	}
	defer s.Terminate()

	res, err := s.Run()

	log.WithFields(logrus.Fields{
		"frames":    res.Frames,
		"packets":   res.Packets,
		"bytes":     res.Bytes,
		"truncated": res.Truncated,
		"irqs":      res.IRQs,
		"polls":     res.Polls,
		"cycles":    res.Cycles,
		"sim_time":  float64(res.SimTime),
		"latency":   float64(res.MeanLatency),
	}).Info("capture summary")

	if wait, _ := cmd.Flags().GetBool("wait"); wait && s.MonitorURL() != "" {
		log.WithField("url", s.MonitorURL()).Info("run finished, press Ctrl-C to exit")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
	}

	return err
}

func applyFlags(cmd *cobra.Command, s *config.Scenario) {
	flags := cmd.Flags()

	if flags.Changed("pcap") {
		s.Output.Pcap, _ = flags.GetString("pcap")
	}

	if flags.Changed("record") {
		s.Output.Recording, _ = flags.GetString("record")
	}

	if flags.Changed("trace") {
		s.Output.Trace, _ = flags.GetBool("trace")
	}

	if port, _ := flags.GetInt("monitor"); port >= 0 {
		s.Run.Monitor = true
		s.Run.MonitorPort = port
	}

	if flags.Changed("open-browser") {
		s.Run.OpenBrowser, _ = flags.GetBool("open-browser")
	}
}
