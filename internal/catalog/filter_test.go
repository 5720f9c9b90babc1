package catalog

import (
	"testing"

	"savoria/internal/domain"

	"github.com/stretchr/testify/assert"
)

func menuFixture() []domain.Dish {
	return []domain.Dish{
		{
			ID: "d1", Name: "Grilled Salmon", Description: "Atlantic salmon with teriyaki glaze",
			Price: 25.00, Available: true, DietaryType: "Gluten-Free",
			Tags: []string{"Asian", "Seafood"},
		},
		{
			ID: "d2", Name: "Truffle Risotto", Description: "Creamy arborio rice",
			Price: 28.99, Available: true, DietaryType: "Vegetarian",
			Tags: []string{"Italian"},
		},
		{
			ID: "d3", Name: "Salmon Poke Bowl", Description: "Raw salmon over rice",
			Price: 55.00, Available: true,
			Tags: []string{"asian fusion", "Bowl"},
		},
		{
			ID: "d4", Name: "Secret Special", Description: "Off-menu salmon dish",
			Price: 30.00, Available: false, DietaryType: "All",
			Tags: []string{"Asian"},
		},
	}
}

func ids(dishes []domain.Dish) []string {
	out := []string{}
	for _, d := range dishes {
		out = append(out, d.ID)
	}
	return out
}

func TestVisible_AvailabilityGate(t *testing.T) {
	dishes := menuFixture()

	customerView := Visible(dishes, Criteria{}, domain.RoleCustomer)
	assert.Equal(t, []string{"d1", "d2", "d3"}, ids(customerView))

	ownerView := Visible(dishes, Criteria{}, domain.RoleOwner)
	assert.Equal(t, []string{"d1", "d2", "d3", "d4"}, ids(ownerView))
}

func TestVisible_Search(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "empty matches everything", search: "", want: []string{"d1", "d2", "d3"}},
		{name: "name match case-insensitive", search: "SALMON", want: []string{"d1", "d3"}},
		{name: "description match", search: "arborio", want: []string{"d2"}},
		{name: "tag match", search: "seafood", want: []string{"d1"}},
		{name: "dietary type match", search: "gluten", want: []string{"d1"}},
		{name: "no match", search: "pizza", want: []string{}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := Visible(menuFixture(), Criteria{Search: testCase.search}, domain.RoleCustomer)
			assert.Equal(t, testCase.want, ids(got))
		})
	}
}

func TestVisible_DietaryPermissive(t *testing.T) {
	tests := []struct {
		name    string
		dietary string
		want    []string
	}{
		// d3 has no dietary type and passes every filter; d4's "All"
		// wildcard only shows up for owners.
		{name: "inactive when empty", dietary: "", want: []string{"d1", "d2", "d3"}},
		{name: "inactive when all", dietary: "all", want: []string{"d1", "d2", "d3"}},
		{name: "gluten-free", dietary: "Gluten-Free", want: []string{"d1", "d3"}},
		{name: "vegetarian", dietary: "vegetarian", want: []string{"d2", "d3"}},
		{name: "unknown type still passes absent field", dietary: "Keto", want: []string{"d3"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := Visible(menuFixture(), Criteria{Dietary: testCase.dietary}, domain.RoleCustomer)
			assert.Equal(t, testCase.want, ids(got))
		})
	}
}

func TestVisible_DietaryWildcardDish(t *testing.T) {
	got := Visible(menuFixture(), Criteria{Dietary: "Vegan"}, domain.RoleOwner)
	// d4 carries the "All" wildcard, d3 has no dietary type
	assert.Equal(t, []string{"d3", "d4"}, ids(got))
}

func TestVisible_Cuisine(t *testing.T) {
	tests := []struct {
		name     string
		cuisines []string
		want     []string
	}{
		{name: "inactive when empty", cuisines: nil, want: []string{"d1", "d2", "d3"}},
		{name: "substring matches asian fusion", cuisines: []string{"Asian"}, want: []string{"d1", "d3"}},
		{name: "or of cuisines", cuisines: []string{"Italian", "Bowl"}, want: []string{"d2", "d3"}},
		{name: "no tag match", cuisines: []string{"Mexican"}, want: []string{}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := Visible(menuFixture(), Criteria{Cuisines: testCase.cuisines}, domain.RoleCustomer)
			assert.Equal(t, testCase.want, ids(got))
		})
	}
}

func TestVisible_PriceInclusive(t *testing.T) {
	got := Visible(menuFixture(), Criteria{MinPrice: 25.00, MaxPrice: 28.99}, domain.RoleCustomer)
	assert.Equal(t, []string{"d1", "d2"}, ids(got))

	noUpper := Visible(menuFixture(), Criteria{MinPrice: 30.00}, domain.RoleCustomer)
	assert.Equal(t, []string{"d3"}, ids(noUpper))
}

func TestVisible_Conjunction(t *testing.T) {
	criteria := Criteria{
		Search:   "salmon",
		Dietary:  "Gluten-Free",
		Cuisines: []string{"Asian"},
		MinPrice: 0,
		MaxPrice: 50,
	}

	got := Visible(menuFixture(), criteria, domain.RoleCustomer)
	// d3 fails price, d4 fails availability, d2 fails search+cuisine
	assert.Equal(t, []string{"d1"}, ids(got))
}

func TestVisible_Pure(t *testing.T) {
	dishes := menuFixture()
	criteria := Criteria{Search: "salmon"}

	first := Visible(dishes, criteria, domain.RoleCustomer)
	second := Visible(dishes, criteria, domain.RoleCustomer)

	assert.Equal(t, first, second)
	assert.Equal(t, menuFixture(), dishes)
}
