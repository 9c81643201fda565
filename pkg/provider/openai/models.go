package openai

import (
	"context"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ListModels fetches the chat models an OpenAI-compatible endpoint serves.
// prefix filters model IDs; empty keeps them all.
func ListModels(ctx context.Context, client *openai.Client, prefix string) ([]string, error) {
	models, err := client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	var modelNames []string
	for _, m := range models.Models {
		if strings.HasPrefix(m.ID, prefix) {
			modelNames = append(modelNames, m.ID)
		}
	}
	sort.Strings(modelNames)
	return modelNames, nil
}
