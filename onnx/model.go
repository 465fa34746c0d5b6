// Package onnx serves the flower classifier from an ONNX model through
// ONNX Runtime.
package onnx

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/krau/floravision/classifier"
	"github.com/krau/floravision/preprocess"
	ort "github.com/yalue/onnxruntime_go"
)

var errPoolClosed = errors.New("session pool closed")

type Options struct {
	// Sessions is the size of the session pool. Defaults to 1.
	Sessions int
	// Classes sizes the output buffer when the model declares a dynamic
	// output width. Ignored otherwise.
	Classes int
}

// Model holds a pool of independent sessions over one model file. Every
// session owns its input and output tensors.
type Model struct {
	path       string
	inputName  string
	outputName string
	width      int
	declared   bool
	size       int
	pool       chan *session
}

type session struct {
	m      *Model
	sess   *ort.AdvancedSession
	input  *ort.Tensor[float32]
	output *ort.Tensor[float32]
}

// Open loads the model at path. All failures wrap classifier.ErrModelLoad.
func Open(path string, opts Options) (*Model, error) {
	if opts.Sessions < 1 {
		opts.Sessions = 1
	}
	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get model input/output info: %w", classifier.ErrModelLoad, err)
	}
	if len(inputs) != 1 || len(outputs) < 1 {
		return nil, fmt.Errorf("%w: expected 1 input and at least 1 output, got %d and %d", classifier.ErrModelLoad, len(inputs), len(outputs))
	}
	if err := checkInput(inputs[0]); err != nil {
		return nil, fmt.Errorf("%w: %w", classifier.ErrModelLoad, err)
	}
	width, declared, err := outputWidth(outputs[0], opts.Classes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", classifier.ErrModelLoad, err)
	}

	m := &Model{
		path:       path,
		inputName:  inputs[0].Name,
		outputName: outputs[0].Name,
		width:      width,
		declared:   declared,
		pool:       make(chan *session, opts.Sessions),
	}
	for range opts.Sessions {
		s, err := m.newSession()
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("%w: %w", classifier.ErrModelLoad, err)
		}
		m.size++
		m.pool <- s
	}
	slog.Info("Model loaded",
		slog.String("path", path),
		slog.String("input", m.inputName),
		slog.String("output", m.outputName),
		slog.Int("classes", width),
		slog.Int("sessions", m.size))
	return m, nil
}

func checkInput(info ort.InputOutputInfo) error {
	if info.DataType != ort.TensorElementDataTypeFloat {
		return fmt.Errorf("input %q is %v, want float32", info.Name, info.DataType)
	}
	want := []int64{1, preprocess.ImageSize, preprocess.ImageSize, preprocess.Channels}
	dims := info.Dimensions
	if len(dims) != len(want) {
		return fmt.Errorf("input %q has shape %v, want %v", info.Name, dims, want)
	}
	for i, d := range dims {
		if d != want[i] && d >= 0 {
			return fmt.Errorf("input %q has shape %v, want %v", info.Name, dims, want)
		}
	}
	return nil
}

func outputWidth(info ort.InputOutputInfo, classes int) (int, bool, error) {
	if info.DataType != ort.TensorElementDataTypeFloat {
		return 0, false, fmt.Errorf("output %q is %v, want float32", info.Name, info.DataType)
	}
	dims := info.Dimensions
	if len(dims) == 0 {
		return 0, false, fmt.Errorf("output %q has no dimensions", info.Name)
	}
	for _, d := range dims[:len(dims)-1] {
		if d > 1 {
			return 0, false, fmt.Errorf("output %q has shape %v, want a single score vector", info.Name, dims)
		}
	}
	if w := dims[len(dims)-1]; w > 0 {
		return int(w), true, nil
	}
	if classes < 1 {
		return 0, false, fmt.Errorf("output %q has dynamic width and no class count was given", info.Name)
	}
	return classes, false, nil
}

func (m *Model) newSession() (*session, error) {
	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer opts.Destroy()

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, preprocess.ImageSize, preprocess.ImageSize, preprocess.Channels))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(m.width)))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	sess, err := ort.NewAdvancedSession(
		m.path,
		[]string{m.inputName},
		[]string{m.outputName},
		[]ort.Value{input},
		[]ort.Value{output},
		opts,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("failed to create ONNX Runtime session: %w", err)
	}
	return &session{m: m, sess: sess, input: input, output: output}, nil
}

// OutputWidth is the class count declared by the model, or -1 when the
// model output is dynamic.
func (m *Model) OutputWidth() int {
	if !m.declared {
		return -1
	}
	return m.width
}

// Acquire blocks until a session is free.
func (m *Model) Acquire() (classifier.Session, error) {
	s, ok := <-m.pool
	if !ok {
		return nil, errPoolClosed
	}
	return &lease{s: s}, nil
}

// Close waits for every session to be released and destroys them.
func (m *Model) Close() {
	for range m.size {
		(<-m.pool).destroy()
	}
	m.size = 0
	close(m.pool)
}

func (s *session) run(t *preprocess.Tensor) ([]float32, error) {
	copy(s.input.GetData(), t.Data)
	if err := s.sess.Run(); err != nil {
		return nil, err
	}
	out := s.output.GetData()
	scores := make([]float32, len(out))
	copy(scores, out)
	return scores, nil
}

func (s *session) destroy() {
	if err := s.sess.Destroy(); err != nil {
		slog.Error("Failed to destroy session", slog.String("error", err.Error()))
	}
	s.input.Destroy()
	s.output.Destroy()
}

// lease is one checkout of a pooled session.
type lease struct {
	s *session
}

func (l *lease) Run(t *preprocess.Tensor) ([]float32, error) {
	if l.s == nil {
		return nil, errors.New("session already released")
	}
	return l.s.run(t)
}

func (l *lease) Release() {
	if l.s == nil {
		return
	}
	l.s.m.pool <- l.s
	l.s = nil
}
