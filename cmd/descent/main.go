// Command descent fits a line to paired observations by batch gradient
// descent and prints the trajectory.
package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sky-flux/descent/internal/log"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "descent",
		Short:         "Fit y = theta1*x + theta0 by batch gradient descent.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
				log.CloseLogger()
				return
			}
			debug, _ := cmd.Flags().GetBool("debug")
			log.SetLogger(cmd.Flags(), debug)
		},
	}
	log.AddFlags(root.PersistentFlags())
	root.PersistentFlags().Bool("debug", false, "use debug log mode")
	root.PersistentFlags().BoolP("quiet", "q", false, "suppress logs, e.g. when piping json output")
	root.PersistentFlags().StringP("config", "c", "", "configuration file path")
	root.AddCommand(newRunCommand(), newSweepCommand(), newNormalizeCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
