package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/krau/floravision/classifier"
	"github.com/krau/floravision/config"
	"github.com/krau/floravision/preprocess"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <image>...",
	Short: "Print the top flower predictions for one or more photos",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	eng, err := loadEngine(cmd.Context(), config.C())
	if err != nil {
		return fmt.Errorf("classification unavailable: %w", err)
	}
	defer eng.close()

	failed := 0
	for _, path := range args {
		if len(args) > 1 {
			printHeader(cmd.OutOrStdout(), path)
		}
		result, err := classifyFile(eng, path)
		if err != nil {
			failed++
			printFailure(cmd.ErrOrStderr(), path, err)
			continue
		}
		printResult(cmd.OutOrStdout(), result)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images could not be classified", failed, len(args))
	}
	return nil
}

func classifyFile(eng *engine, path string) (classifier.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := preprocess.Decode(f)
	if err != nil {
		return nil, err
	}
	return eng.classifier.ClassifyImage(img, eng.labels)
}

func printFailure(w io.Writer, path string, err error) {
	switch {
	case errors.Is(err, preprocess.ErrInvalidImage):
		fmt.Fprintf(w, "  ✗  [%s] invalid image, try another photo\n", path)
	case errors.Is(err, classifier.ErrModelInvocation), errors.Is(err, classifier.ErrShapeMismatch):
		slog.Error("Prediction failed", slog.String("file", path), slog.String("error", err.Error()))
		fmt.Fprintf(w, "  ✗  [%s] no predictions available\n", path)
	default:
		fmt.Fprintf(w, "  ✗  [%s] %v\n", path, err)
	}
}
