package gemini

import (
	"fmt"

	"github.com/phrazzld/stock-seo/internal/domain"
	"google.golang.org/genai"
)

// responseSchema describes the JSON object the model must return.
func responseSchema(titleCount int) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"titles": {
				Type: genai.TypeArray,
				Description: fmt.Sprintf(
					"An array of exactly %d unique, descriptive, and SEO-optimized titles for the image.",
					titleCount),
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"keywords": {
				Type: genai.TypeArray,
				Description: fmt.Sprintf(
					"An array of exactly %d relevant, non-categorized keywords for the image. All keywords must be in lowercase.",
					domain.KeywordCount),
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"titles", "keywords"},
	}
}
