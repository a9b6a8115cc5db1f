package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"hearth/models"
)

// Clipper imports a recipe from a URL: fetch the page, strip the
// noise, and have the text generator pull out the structured recipe.
type Clipper struct {
	textGen    TextGenerator
	httpClient *http.Client
}

// ExtractedRecipe is the shape the AI returns for an imported page.
type ExtractedRecipe struct {
	Name         string            `json:"name"`
	Ingredients  []ExtractedIngred `json:"ingredients"`
	Instructions []string          `json:"instructions"`
	TimeRating   models.TimeRating `json:"time_rating"`
	Category     string            `json:"category"`
}

type ExtractedIngred struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

func NewClipper(textGen TextGenerator) *Clipper {
	return &Clipper{
		textGen:    textGen,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ClipURL fetches the URL and extracts the recipe. The caller is
// responsible for persisting the result.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*ExtractedRecipe, error) {
	content, err := c.fetchAndCleanHTML(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}
	return c.Extract(ctx, content)
}

// Extract runs AI extraction over already-cleaned page text.
func (c *Clipper) Extract(ctx context.Context, content string) (*ExtractedRecipe, error) {
	prompt := fmt.Sprintf(`You are a recipe extraction expert. Extract the recipe from the page
content below. Categories: %v. Time rating: 1 = under 30 minutes,
2 = 30-60 minutes, 3 = over an hour.
Return the result strictly as a JSON object with this structure:
{
  "name": "Recipe Name",
  "ingredients": [{"name": "flour", "quantity": 2, "unit": "cup"}, ...],
  "instructions": ["Step 1 ...", "Step 2 ...", ...],
  "time_rating": 1,
  "category": "Chicken"
}

Page content:
%s
`, models.RecipeCategories(), content)

	raw, err := c.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted ExtractedRecipe
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, raw)
	}
	if extracted.Name == "" {
		return nil, fmt.Errorf("no recipe found in page content")
	}
	if extracted.TimeRating < models.TimeRatingQuick || extracted.TimeRating > models.TimeRatingInvolved {
		extracted.TimeRating = models.TimeRatingAverage
	}

	return &extracted, nil
}

func (c *Clipper) fetchAndCleanHTML(url string) (string, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
