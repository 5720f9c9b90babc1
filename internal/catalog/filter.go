package catalog

import (
	"strings"

	"savoria/internal/domain"
)

// DietaryAll is the wildcard a dish may carry to match every dietary
// filter.
const DietaryAll = "all"

// Criteria is the active filter set for one browsing view. Zero values
// mean "inactive": empty search matches everything, empty cuisine list
// applies no cuisine filter, MaxPrice 0 means no upper bound.
type Criteria struct {
	Search   string
	Dietary  string
	Cuisines []string
	MinPrice float64
	MaxPrice float64
}

// Visible narrows dishes to the subset the viewer may see under the
// criteria. Pure conjunction of the active predicates; safe to call on
// every keystroke.
func Visible(dishes []domain.Dish, c Criteria, role string) []domain.Dish {
	out := []domain.Dish{}
	for _, dish := range dishes {
		if !dish.Available && role != domain.RoleOwner {
			continue
		}
		if !matchesSearch(dish, c.Search) {
			continue
		}
		if !matchesDietary(dish, c.Dietary) {
			continue
		}
		if !matchesCuisine(dish, c.Cuisines) {
			continue
		}
		if !matchesPrice(dish, c) {
			continue
		}
		out = append(out, dish)
	}
	return out
}

func matchesSearch(dish domain.Dish, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(dish.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(dish.Description), term) {
		return true
	}
	if strings.Contains(strings.ToLower(dish.DietaryType), term) {
		return true
	}
	for _, tag := range dish.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// matchesDietary is deliberately permissive: a dish with no dietary type
// passes every dietary filter, as does the "all" wildcard.
func matchesDietary(dish domain.Dish, dietary string) bool {
	switch strings.ToLower(dietary) {
	case "", DietaryAll, "none":
		return true
	}
	if dish.DietaryType == "" {
		return true
	}
	if strings.EqualFold(dish.DietaryType, DietaryAll) {
		return true
	}
	return strings.EqualFold(dish.DietaryType, dietary)
}

// matchesCuisine passes if any dish tag contains any active cuisine
// string, case-insensitive substring on both sides of the OR.
func matchesCuisine(dish domain.Dish, cuisines []string) bool {
	if len(cuisines) == 0 {
		return true
	}
	for _, tag := range dish.Tags {
		lowered := strings.ToLower(tag)
		for _, cuisine := range cuisines {
			if strings.Contains(lowered, strings.ToLower(cuisine)) {
				return true
			}
		}
	}
	return false
}

func matchesPrice(dish domain.Dish, c Criteria) bool {
	if dish.Price < c.MinPrice {
		return false
	}
	if c.MaxPrice > 0 && dish.Price > c.MaxPrice {
		return false
	}
	return true
}
