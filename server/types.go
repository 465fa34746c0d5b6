package server

import "github.com/krau/floravision/classifier"

const noPredictions = "no predictions"

type PredictionItem struct {
	Label      string  `json:"label"`
	Confidence float32 `json:"confidence"`
	Percent    string  `json:"percent"`
	// Top marks the highest ranked prediction, which clients show emphasized.
	Top bool `json:"top"`
}

type PredictionResult struct {
	Predictions []PredictionItem `json:"predictions"`
	Message     string           `json:"message,omitempty"`
}

func newPredictionResult(r classifier.Result) *PredictionResult {
	res := &PredictionResult{Predictions: make([]PredictionItem, 0, len(r))}
	for i, p := range r {
		res.Predictions = append(res.Predictions, PredictionItem{
			Label:      p.Label,
			Confidence: p.Confidence,
			Percent:    p.Percent(),
			Top:        i == 0,
		})
	}
	if len(r) == 0 {
		res.Message = noPredictions
	}
	return res
}
