package face

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"
)

// Engine abstracts the face-detection and comparison backend.
type Engine interface {
	// DetectFaces returns every face found in the image.
	DetectFaces(ctx context.Context, image []byte) ([]Detection, error)

	// CompareFaces returns the top match's similarity and confidence when
	// comparing source against target at the given similarity threshold.
	CompareFaces(ctx context.Context, source, target []byte, threshold float64) (similarity, confidence float64, err error)
}

// Comparer runs document-photo-to-selfie comparison with quality checks.
type Comparer struct {
	engine Engine
	logger *slog.Logger
}

type Option func(*Comparer)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Comparer) {
		c.logger = logger
	}
}

// NewComparer constructs a Comparer over the given engine.
func NewComparer(engine Engine, opts ...Option) *Comparer {
	c := &Comparer{
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare detects faces in both images, short-circuits to an unmatched result
// when either has none, and otherwise compares them. Engine failures degrade
// to an all-zero unmatched result; this method never aborts the pipeline.
func (c *Comparer) Compare(ctx context.Context, documentImage, selfie []byte) *ComparisonResult {
	var documentFaces, selfieFaces []Detection

	// The two detections are independent read-only calls.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		faces, err := c.engine.DetectFaces(gctx, documentImage)
		if err != nil {
			return fmt.Errorf("detect document faces: %w", err)
		}
		documentFaces = faces
		return nil
	})
	g.Go(func() error {
		faces, err := c.engine.DetectFaces(gctx, selfie)
		if err != nil {
			return fmt.Errorf("detect selfie faces: %w", err)
		}
		selfieFaces = faces
		return nil
	})
	if err := g.Wait(); err != nil {
		c.logger.ErrorContext(ctx, "face detection failed, continuing unmatched",
			slog.String("error", err.Error()))
		return &ComparisonResult{}
	}

	if len(documentFaces) == 0 || len(selfieFaces) == 0 {
		c.logger.InfoContext(ctx, "no face detected, skipping comparison",
			slog.Int("document_faces", len(documentFaces)),
			slog.Int("selfie_faces", len(selfieFaces)))
		return &ComparisonResult{
			HasQualityIssues: true,
			QualityReasons:   []string{"no face detected in one of the images"},
		}
	}

	similarity, confidence, err := c.engine.CompareFaces(ctx, documentImage, selfie, similarityThreshold)
	if err != nil {
		c.logger.ErrorContext(ctx, "face comparison failed, continuing unmatched",
			slog.String("error", err.Error()))
		return &ComparisonResult{}
	}

	result := &ComparisonResult{
		Matched:    similarity >= similarityThreshold,
		Similarity: int(math.Round(similarity)),
		Confidence: int(math.Round(confidence)),
	}
	applyQualityChecks(result, selfieFaces)
	return result
}

// applyQualityChecks inspects the selfie detections for conditions that make
// the comparison unreliable.
func applyQualityChecks(result *ComparisonResult, selfieFaces []Detection) {
	addIssue := func(reason string) {
		result.HasQualityIssues = true
		result.QualityReasons = append(result.QualityReasons, reason)
	}

	if len(selfieFaces) > 1 {
		addIssue(fmt.Sprintf("multiple faces detected in selfie (%d)", len(selfieFaces)))
	}

	primary := selfieFaces[0]
	if primary.Sunglasses {
		addIssue("sunglasses detected")
	}
	if math.Abs(primary.Yaw) > maxHeadYawDegrees {
		addIssue(fmt.Sprintf("extreme head yaw (%.0f degrees)", primary.Yaw))
	}
	if math.Abs(primary.Pitch) > maxHeadPitchDegrees {
		addIssue(fmt.Sprintf("extreme head pitch (%.0f degrees)", primary.Pitch))
	}
	if primary.Brightness < minBrightness {
		addIssue("image too dark")
	}
	if primary.Sharpness < minSharpness {
		addIssue("image too blurry")
	}
}
