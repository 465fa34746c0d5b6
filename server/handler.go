package server

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/krau/floravision/classifier"
	"github.com/krau/floravision/preprocess"
)

var (
	errUnauthorized = errors.New("unauthorized")
)

type Server struct {
	classifier *classifier.Classifier
	labels     classifier.Labels
	token      string
	// initErr is set when the model could not be loaded; predictions are then refused.
	initErr error
}

func New(c *classifier.Classifier, labels classifier.Labels, token string) *Server {
	return &Server{classifier: c, labels: labels, token: token}
}

// Unavailable builds a server whose classifier failed to start. It still
// answers health and prediction requests, reporting err.
func Unavailable(err error, token string) *Server {
	return &Server{initErr: err, token: token}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.POST("/predict", s.PredictHandler)
	r.GET("/labels", s.LabelsHandler)
	r.GET("/health", s.HealthHandler)
	return r
}

func (s *Server) authenticate(c *gin.Context) error {
	auth := c.GetHeader("Authorization")

	if s.token == "" {
		return nil
	}
	providedToken := ""
	if len(auth) > 7 && auth[:7] == "Bearer " {
		providedToken = auth[7:]
	}
	if subtle.ConstantTimeCompare([]byte(providedToken), []byte(s.token)) != 1 {
		return errUnauthorized
	}

	return nil
}

func (s *Server) PredictHandler(c *gin.Context) {
	if err := s.authenticate(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}
	if s.initErr != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "classification unavailable: " + s.initErr.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open uploaded file"})
		return
	}
	defer file.Close()

	img, err := preprocess.Decode(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image, try another photo"})
		return
	}

	result, err := s.classifier.ClassifyImage(img, s.labels)
	switch {
	case errors.Is(err, preprocess.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image, try another photo"})
		return
	case err != nil:
		slog.Error("Prediction failed",
			slog.String("file", fileHeader.Filename),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no predictions available"})
		return
	}

	c.JSON(http.StatusOK, newPredictionResult(result))
}

func (s *Server) LabelsHandler(c *gin.Context) {
	if err := s.authenticate(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}
	labels := s.labels
	if labels == nil {
		labels = classifier.Labels{}
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels})
}

func (s *Server) HealthHandler(c *gin.Context) {
	if s.initErr != nil {
		c.JSON(http.StatusOK, gin.H{"status": "degraded", "error": s.initErr.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
