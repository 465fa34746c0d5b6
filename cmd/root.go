package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/krau/floravision/classifier"
	"github.com/krau/floravision/config"
	"github.com/krau/floravision/onnx"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "floravision",
	Short:        "FloraVision: flower species recognition from photos",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.SetPath(configPath)
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: parseLevel(config.C().LogLevel),
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to the TOML config file")
}

// Execute is called by main.go.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// engine is everything a host needs to classify photos.
type engine struct {
	classifier *classifier.Classifier
	labels     classifier.Labels
	close      func()
}

// loadEngine brings up ONNX Runtime, the label set and the model. Any error
// means classification is unavailable for the life of the process.
func loadEngine(ctx context.Context, cfg config.Config) (*engine, error) {
	labels, err := classifier.LoadLabels(filepath.Join(cfg.ModelDir, cfg.LabelsFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}

	modelPath := filepath.Join(cfg.ModelDir, cfg.ModelFileName)
	if err := onnx.EnsureModel(ctx, cfg.ModelUrl, modelPath); err != nil {
		return nil, err
	}

	destroyEnv, err := onnx.InitEnvironment(onnx.LibPath(cfg.Libonnx))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", classifier.ErrModelLoad, err)
	}

	model, err := onnx.Open(modelPath, onnx.Options{Sessions: cfg.Sessions, Classes: len(labels)})
	if err != nil {
		destroyEnv()
		return nil, err
	}

	c, err := classifier.New(model, labels, classifier.WithTopK(cfg.TopK))
	if err != nil {
		model.Close()
		destroyEnv()
		return nil, err
	}

	slog.Info("Classifier ready", slog.Int("labels", len(labels)), slog.Int("top_k", cfg.TopK))
	return &engine{
		classifier: c,
		labels:     labels,
		close: func() {
			model.Close()
			destroyEnv()
		},
	}, nil
}
