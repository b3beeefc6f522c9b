package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// TextractAPI is the subset of the Textract client the engine uses.
type TextractAPI interface {
	AnalyzeDocument(ctx context.Context, params *textract.AnalyzeDocumentInput, optFns ...func(*textract.Options)) (*textract.AnalyzeDocumentOutput, error)
}

// TextractEngine implements Engine on top of AWS Textract form analysis.
type TextractEngine struct {
	client TextractAPI
}

// NewTextractEngine wraps a configured Textract client.
func NewTextractEngine(client TextractAPI) *TextractEngine {
	return &TextractEngine{client: client}
}

// AnalyzeDocument runs Textract form and table analysis over the image and
// flattens the block graph into lines and key/value pairs.
func (e *TextractEngine) AnalyzeDocument(ctx context.Context, image []byte) (*Analysis, error) {
	out, err := e.client.AnalyzeDocument(ctx, &textract.AnalyzeDocumentInput{
		Document: &types.Document{Bytes: image},
		FeatureTypes: []types.FeatureType{
			types.FeatureTypeForms,
			types.FeatureTypeTables,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("textract analyze document: %w", err)
	}
	return flattenBlocks(out.Blocks), nil
}

// flattenBlocks resolves Textract's block graph: LINE blocks become lines in
// document order, and KEY_VALUE_SET blocks become key/value pairs by following
// CHILD relationships to their WORD blocks and the KEY's VALUE relationship.
func flattenBlocks(blocks []types.Block) *Analysis {
	byID := make(map[string]types.Block, len(blocks))
	for _, b := range blocks {
		if b.Id != nil {
			byID[*b.Id] = b
		}
	}

	analysis := &Analysis{KeyValues: make(map[string]string)}
	for _, b := range blocks {
		switch b.BlockType {
		case types.BlockTypeLine:
			if b.Text == nil {
				continue
			}
			line := Line{Text: *b.Text}
			if b.Confidence != nil {
				line.Confidence = float64(*b.Confidence)
			}
			analysis.Lines = append(analysis.Lines, line)

		case types.BlockTypeKeyValueSet:
			if !hasEntityType(b, types.EntityTypeKey) {
				continue
			}
			key := childText(b, byID)
			if key == "" {
				continue
			}
			value := ""
			for _, rel := range b.Relationships {
				if rel.Type != types.RelationshipTypeValue {
					continue
				}
				for _, valueID := range rel.Ids {
					if valueBlock, ok := byID[valueID]; ok {
						value = childText(valueBlock, byID)
					}
				}
			}
			analysis.KeyValues[strings.ToLower(strings.TrimSpace(key))] = value
		}
	}
	return analysis
}

func hasEntityType(b types.Block, want types.EntityType) bool {
	for _, et := range b.EntityTypes {
		if et == want {
			return true
		}
	}
	return false
}

// childText joins a block's CHILD word texts with single spaces.
func childText(b types.Block, byID map[string]types.Block) string {
	var words []string
	for _, rel := range b.Relationships {
		if rel.Type != types.RelationshipTypeChild {
			continue
		}
		for _, childID := range rel.Ids {
			child, ok := byID[childID]
			if !ok || child.Text == nil {
				continue
			}
			words = append(words, *child.Text)
		}
	}
	return strings.Join(words, " ")
}
