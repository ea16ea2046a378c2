package main

import (
	"fmt"
	"os"

	"github.com/jwebster45206/dialogue-engine/pkg/dialogue"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		modeName      string
		portraitsPath string
		sourcePath    string
		strict        bool
	)

	cmd := &cobra.Command{
		Use:   "validate <script>",
		Short: "Lint a dialogue script offline",
		Long: `Parse every tag in a compiled dialogue script and report problems a
running session would only log as warnings.

The script may be JSON or YAML. Supplying portrait data enables emotion and
character checks; supplying a source descriptor enables event index checks.

Examples:
  validate data/scripts/harbor.json
  validate data/scripts/harbor.yaml --mode visual_novel --portraits data/portraits.yaml
  validate data/scripts/harbor.json --source data/sources/harbor.yaml --strict`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := dialogue.ParseMode(modeName)
			if err != nil {
				return err
			}
			v := &ScriptValidator{Mode: mode, Strict: strict}
			if portraitsPath != "" {
				if err := v.LoadPortraits(portraitsPath); err != nil {
					return err
				}
			}
			if sourcePath != "" {
				if err := v.LoadSource(sourcePath); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Validating %s as %s...\n", args[0], mode)
			err = v.ValidateFile(args[0])
			for _, w := range v.Warnings() {
				fmt.Fprintln(out, "warning: "+w)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Script is valid!")
			return nil
		},
	}

	cmd.Flags().StringVar(&modeName, "mode", "classic", "Presentation mode: classic, visual_novel or speech_bubbles")
	cmd.Flags().StringVar(&portraitsPath, "portraits", "", "Portrait data file (JSON or YAML)")
	cmd.Flags().StringVar(&sourcePath, "source", "", "Source descriptor file declaring event bindings")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")

	return cmd
}
