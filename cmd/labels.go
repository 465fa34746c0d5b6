package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/krau/floravision/classifier"
	"github.com/krau/floravision/config"
	"github.com/spf13/cobra"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List the labels the model predicts, in output order",
	RunE:  runLabels,
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}

func runLabels(cmd *cobra.Command, _ []string) error {
	cfg := config.C()
	labels, err := classifier.LoadLabels(filepath.Join(cfg.ModelDir, cfg.LabelsFileName))
	if err != nil {
		return err
	}
	for i, l := range labels {
		fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", i, l)
	}
	return nil
}
