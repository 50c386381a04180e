package mealdb

import (
	"encoding/json"
	"fmt"
	"strings"

	"philcali.me/foodrecipes/internal/data"
)

const maxIngredients = 20

// Meal is a TheMealDB record. The API spreads ingredients over numbered
// strIngredientN/strMeasureN fields, which UnmarshalJSON folds into Ingredients.
type Meal struct {
	Id           string
	Name         string
	Category     string
	Area         string
	Instructions string
	Thumbnail    string
	Source       string
	Ingredients  []string
}

func (m *Meal) UnmarshalJSON(body []byte) error {
	var bagOfStrings map[string]*string
	if err := json.Unmarshal(body, &bagOfStrings); err != nil {
		return err
	}
	field := func(name string) string {
		if v, ok := bagOfStrings[name]; ok && v != nil {
			return strings.TrimSpace(*v)
		}
		return ""
	}
	m.Id = field("idMeal")
	m.Name = field("strMeal")
	m.Category = field("strCategory")
	m.Area = field("strArea")
	m.Instructions = field("strInstructions")
	m.Thumbnail = field("strMealThumb")
	m.Source = field("strSource")
	m.Ingredients = make([]string, 0)
	for i := 1; i <= maxIngredients; i++ {
		name := field(fmt.Sprintf("strIngredient%d", i))
		if name == "" {
			continue
		}
		measurement := field(fmt.Sprintf("strMeasure%d", i))
		if measurement == "" || strings.EqualFold(measurement, "To taste") || strings.EqualFold(measurement, "To serve") {
			m.Ingredients = append(m.Ingredients, name)
			continue
		}
		m.Ingredients = append(m.Ingredients, measurement+" "+name)
	}
	return nil
}

func ToRecipe(m Meal) data.Recipe {
	publisher := m.Area
	if publisher == "" {
		publisher = "TheMealDB"
	}
	return data.Recipe{
		RecipeID:    m.Id,
		Title:       m.Name,
		Publisher:   publisher,
		ImageURL:    m.Thumbnail,
		SourceURL:   m.Source,
		Ingredients: m.Ingredients,
	}
}

type QueryResponse struct {
	Meals []Meal `json:"meals"`
}
