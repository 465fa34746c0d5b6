// Package classifier runs the flower model and ranks its output into at most
// top-k labelled predictions.
package classifier

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/krau/floravision/preprocess"
)

type Classifier struct {
	rt   Runtime
	topK int
}

type Option func(*Classifier)

func WithTopK(k int) Option {
	return func(c *Classifier) {
		if k > 0 {
			c.topK = k
		}
	}
}

// New binds a classifier to rt. labels is the set loaded at startup; a model
// that scores a different number of classes is rejected here rather than on
// every call.
func New(rt Runtime, labels Labels, opts ...Option) (*Classifier, error) {
	if rt == nil {
		return nil, fmt.Errorf("%w: no runtime", ErrModelLoad)
	}
	if w := rt.OutputWidth(); w >= 0 && w != len(labels) {
		return nil, fmt.Errorf("%w: model scores %d classes, label file has %d", ErrLabelSetMismatch, w, len(labels))
	}
	c := &Classifier{rt: rt, topK: DefaultTopK}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Classify runs one inference on t and ranks the scores against labels.
// The session used is released before Classify returns.
func (c *Classifier) Classify(t *preprocess.Tensor, labels Labels) (Result, error) {
	if t == nil || len(t.Data) != preprocess.ImageSize*preprocess.ImageSize*preprocess.Channels {
		return nil, fmt.Errorf("%w: tensor is not 1x%dx%dx%d", preprocess.ErrInvalidImage,
			preprocess.ImageSize, preprocess.ImageSize, preprocess.Channels)
	}

	sess, err := c.rt.Acquire()
	if err != nil {
		return nil, fmt.Errorf("%w: acquire session: %w", ErrModelInvocation, err)
	}
	defer sess.Release()

	start := time.Now()
	scores, err := sess.Run(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelInvocation, err)
	}
	slog.Debug("inference done", slog.Int("classes", len(scores)), slog.Duration("took", time.Since(start)))

	return Rank(scores, labels, c.topK)
}

// ClassifyImage preprocesses img and classifies it.
func (c *Classifier) ClassifyImage(img image.Image, labels Labels) (Result, error) {
	t, err := preprocess.Preprocess(img)
	if err != nil {
		return nil, err
	}
	return c.Classify(t, labels)
}
