package face

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionAPI is the subset of the Rekognition client the engine uses.
type RekognitionAPI interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
	CompareFaces(ctx context.Context, params *rekognition.CompareFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.CompareFacesOutput, error)
}

// RekognitionEngine implements Engine on top of AWS Rekognition.
type RekognitionEngine struct {
	client RekognitionAPI
}

// NewRekognitionEngine wraps a configured Rekognition client.
func NewRekognitionEngine(client RekognitionAPI) *RekognitionEngine {
	return &RekognitionEngine{client: client}
}

// DetectFaces returns the faces Rekognition finds in the image, with the
// attributes the quality heuristics need.
func (e *RekognitionEngine) DetectFaces(ctx context.Context, image []byte) ([]Detection, error) {
	out, err := e.client.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      &types.Image{Bytes: image},
		Attributes: []types.Attribute{types.AttributeAll},
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect faces: %w", err)
	}

	detections := make([]Detection, 0, len(out.FaceDetails))
	for _, fd := range out.FaceDetails {
		d := Detection{Confidence: float64(aws.ToFloat32(fd.Confidence))}
		if fd.Pose != nil {
			d.Yaw = float64(aws.ToFloat32(fd.Pose.Yaw))
			d.Pitch = float64(aws.ToFloat32(fd.Pose.Pitch))
		}
		if fd.Quality != nil {
			d.Brightness = float64(aws.ToFloat32(fd.Quality.Brightness))
			d.Sharpness = float64(aws.ToFloat32(fd.Quality.Sharpness))
		}
		if fd.Sunglasses != nil {
			d.Sunglasses = fd.Sunglasses.Value &&
				float64(aws.ToFloat32(fd.Sunglasses.Confidence)) >= sunglassesMinDetectCf
		}
		detections = append(detections, d)
	}
	return detections, nil
}

// CompareFaces returns the top match's similarity and face confidence.
func (e *RekognitionEngine) CompareFaces(ctx context.Context, source, target []byte, threshold float64) (float64, float64, error) {
	out, err := e.client.CompareFaces(ctx, &rekognition.CompareFacesInput{
		SourceImage:         &types.Image{Bytes: source},
		TargetImage:         &types.Image{Bytes: target},
		SimilarityThreshold: aws.Float32(float32(threshold)),
	})
	if err != nil {
		return 0, 0, fmt.Errorf("rekognition compare faces: %w", err)
	}
	if len(out.FaceMatches) == 0 {
		return 0, 0, nil
	}

	top := out.FaceMatches[0]
	similarity := float64(aws.ToFloat32(top.Similarity))
	confidence := 0.0
	if top.Face != nil {
		confidence = float64(aws.ToFloat32(top.Face.Confidence))
	}
	return similarity, confidence, nil
}
