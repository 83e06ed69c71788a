package suggest

import (
	"fmt"
	"strings"

	"github.com/smartwardrobe/backend/internal/models"
)

const stylistSystemPrompt = "You are a helpful fashion stylist that always replies in valid JSON. Do not include any text before or after the JSON."

func leastWornPrompt(outfits []models.Outfit) string {
	var list strings.Builder
	for i := range outfits {
		o := &outfits[i]
		fmt.Fprintf(&list, "- %s (%s, %s, %s season, used %d times)\n", o.Name, o.Category, o.Color, o.Season, o.UsageCount)
	}

	return fmt.Sprintf(`You are a fashion stylist assistant. Your task is to provide styling suggestions for underutilized outfits.

Here is a list of a user's least-worn outfits:
%s
From the list above, select the *4 best outfits* that you believe have the most potential. For each of these 4 selected outfits, provide a creative styling tip, a suitable occasion, and if the outfit is a top (like a shirt, blouse, etc.), suggest a complementary bottom from the list.

Your response must be a single JSON object with a single key "suggestions".
The value of "suggestions" must be a JSON array containing exactly 4 suggestion objects.

Each object in the array must have these four keys:
- "outfit_name": The exact name of the outfit from the list.
- "styling_tip": A creative tip on how to wear it.
- "occasion": A suitable occasion for wearing it.
- "complementary_items": An array of items from the list that would pair well with this outfit. Empty if the outfit is already complete (like a saree or suit).

Example of the expected JSON format:
{
  "suggestions": [
    {
      "outfit_name": "White Shirt",
      "styling_tip": "Pair with a bold scarf and boots.",
      "occasion": "Casual Friday",
      "complementary_items": ["Blue Jeans"]
    },
    {
      "outfit_name": "Black Saree",
      "styling_tip": "Layer over a turtleneck for a chic look.",
      "occasion": "Weekend Brunch",
      "complementary_items": []
    }
  ]
}

Now, generate the suggestions for the provided outfit list.`, list.String())
}

func weatherPrompt(outfits []models.Outfit, w Weather) string {
	var list strings.Builder
	for i := range outfits {
		o := &outfits[i]
		fmt.Fprintf(&list, "- %s (%s, %s, %s season)\n", o.Name, o.Category, o.Color, o.Season)
	}

	return fmt.Sprintf(`You are a fashion stylist. The current weather is %s°C and %s. Here is a list of all outfits in a user's wardrobe:

%s
Your task is to select 3 to 5 outfits from this list that are most appropriate for the current weather conditions. Rank these outfits from "mostly recommended" to "least recommended" based on how well they match the current weather.

For each selected outfit, provide a brief styling tip, a suitable occasion, a recommendation level, and if the outfit is a top (like a shirt, blouse, etc.), suggest a complementary bottom from the list.

Your response must be a single JSON object with a single key "suggestions".
The value of "suggestions" must be a JSON array of objects.
Each object in the array must have these exact keys: "outfit_name", "styling_tip", "occasion", "recommendation_level", and "complementary_items".

The "recommendation_level" must be one of: "mostly recommended", "recommended", or "least recommended".
The "complementary_items" should be an array of items from the list that would pair well with this outfit. Empty if the outfit is already complete (like a saree or suit).

Example of the expected JSON format:
{
  "suggestions": [
    {
      "outfit_name": "Blue Denim Jacket",
      "styling_tip": "Perfect for layering over a hoodie.",
      "occasion": "Casual outing",
      "recommendation_level": "mostly recommended",
      "complementary_items": ["White Shirt", "Blue Jeans"]
    }
  ]
}

Please rank the suggestions with the most weather-appropriate outfit first (mostly recommended) and the least appropriate last (least recommended).`, formatTemp(w.Temperature), w.Description, list.String())
}
