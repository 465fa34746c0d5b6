package classifier

import (
	"fmt"

	"github.com/krau/floravision/preprocess"
)

const DefaultTopK = 3

// Labels holds one class name per model output, in output index order.
type Labels []string

type Prediction struct {
	Label      string  `json:"label"`
	Confidence float32 `json:"confidence"`
}

// Percent renders the confidence the way results are shown to users, e.g. "70.00%".
func (p Prediction) Percent() string {
	return fmt.Sprintf("%.2f%%", RoundedPercent(p.Confidence))
}

// Result is sorted by descending confidence and holds at most top-k entries.
// An empty Result means nothing scored above 0.00%.
type Result []Prediction

// Runtime hands out inference sessions bound to one loaded model.
type Runtime interface {
	Acquire() (Session, error)
	// OutputWidth is the number of classes the model scores, or -1 if unknown.
	OutputWidth() int
}

// Session is a single scoped inference context. It must not be used after Release.
type Session interface {
	Run(t *preprocess.Tensor) ([]float32, error)
	Release()
}
