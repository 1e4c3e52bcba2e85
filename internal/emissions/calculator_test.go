package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBreakdown(t *testing.T) {
	input := &SurveyInput{Transportation: 30, Electricity: 150, LPGUsage: 5}

	breakdown := ComputeBreakdown(input)

	require.Len(t, breakdown, 3)
	assert.Equal(t, CategoryTransportation, breakdown[0].Name)
	assert.Equal(t, 6.3, breakdown[0].Value)
	assert.Equal(t, "🚗", breakdown[0].Icon)
	assert.Equal(t, "#20B2AA", breakdown[0].Color)
	assert.Equal(t, CategoryElectricity, breakdown[1].Name)
	assert.Equal(t, 67.5, breakdown[1].Value)
	assert.Equal(t, CategoryLPG, breakdown[2].Name)
	assert.Equal(t, 15.0, breakdown[2].Value)
}

func TestComputeBreakdownEmptyInput(t *testing.T) {
	assert.Empty(t, ComputeBreakdown(&SurveyInput{}))
	assert.Empty(t, ComputeBreakdown(nil))
}

func TestComputeBreakdownDropsNegativeValues(t *testing.T) {
	breakdown := ComputeBreakdown(&SurveyInput{Transportation: -10, Waste: 4})

	require.Len(t, breakdown, 1)
	assert.Equal(t, CategoryWaste, breakdown[0].Name)
	assert.Equal(t, 2.0, breakdown[0].Value)
}

func TestComputeBreakdownIsIdempotent(t *testing.T) {
	input := DefaultSurvey()
	assert.Equal(t, ComputeBreakdown(input), ComputeBreakdown(input))
}

func TestComputeBreakdownMatchesFactors(t *testing.T) {
	input := &SurveyInput{
		Transportation: 123.456,
		AirTravel:      0.337,
		MeatMeals:      7,
		DiningOut:      3,
		Electricity:    98.7,
		LPGUsage:       2.25,
		Waste:          11.11,
	}
	expected := map[Category]float64{
		CategoryTransportation: Round2(123.456 * FactorTransportation),
		CategoryAirTravel:      Round2(0.337 * FactorAirTravel),
		CategoryMeat:           Round2(7 * FactorMeatMeals),
		CategoryDiningOut:      Round2(3 * FactorDiningOut),
		CategoryElectricity:    Round2(98.7 * FactorElectricity),
		CategoryLPG:            Round2(2.25 * FactorLPG),
		CategoryWaste:          Round2(11.11 * FactorWaste),
	}

	breakdown := ComputeBreakdown(input)

	require.Len(t, breakdown, len(expected))
	for _, e := range breakdown {
		assert.Equal(t, expected[e.Name], e.Value, e.Name)
		assert.Greater(t, e.Value, 0.0)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.0}, // 1.005 is stored slightly below the midpoint
		{0.125, 0.13},
		{-0.125, -0.12},
		{6.3, 6.3},
		{0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Round2(tt.in), 1e-9, "Round2(%v)", tt.in)
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(10, 0))
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.InDelta(t, 25.0, Percentage(25, 100), 1e-9)
}

func TestTopNIsStable(t *testing.T) {
	breakdown := []CategoryEmission{
		{Name: CategoryTransportation, Value: 10},
		{Name: CategoryElectricity, Value: 20},
		{Name: CategoryLPG, Value: 10},
		{Name: CategoryWaste, Value: 5},
	}

	top := TopN(breakdown, 3)

	require.Len(t, top, 3)
	assert.Equal(t, CategoryElectricity, top[0].Name)
	assert.Equal(t, CategoryTransportation, top[1].Name)
	assert.Equal(t, CategoryLPG, top[2].Name)
	// input untouched
	assert.Equal(t, CategoryTransportation, breakdown[0].Name)
}

func TestTopNLargerThanInput(t *testing.T) {
	breakdown := []CategoryEmission{{Name: CategoryWaste, Value: 1}}
	assert.Len(t, TopN(breakdown, 5), 1)
}

func TestTopCategories(t *testing.T) {
	top := TopCategories(&SurveyInput{Transportation: 30, Electricity: 150, LPGUsage: 5}, 3)

	require.Len(t, top, 3)
	assert.Equal(t, CategoryElectricity, top[0].Name)
	// 67.5 / 88.8
	assert.Equal(t, 76.0, top[0].Percentage)
	assert.Equal(t, CategoryLPG, top[1].Name)
	assert.Equal(t, 17.0, top[1].Percentage)
	assert.Equal(t, CategoryTransportation, top[2].Name)
	assert.Equal(t, 7.0, top[2].Percentage)
}

func TestTopCategoriesZeroTotal(t *testing.T) {
	assert.Empty(t, TopCategories(&SurveyInput{}, 3))
}

func TestComputeExtendedBreakdown(t *testing.T) {
	input := &SurveyInput{
		MeatMeals:      10,
		DiningOut:      3,
		Electricity:    150,
		LPGUsage:       5,
		Diet:           "Vegetarian",
		HeatingSource:  "Electricity",
		Recycling:      "Always",
		CookingEnergy:  "LPG",
		SocialActivity: "Medium",
	}

	breakdown := ComputeExtendedBreakdown(input)
	values := make(map[Category]float64)
	for _, e := range breakdown {
		values[e.Name] = e.Value
	}

	assert.Equal(t, 25.0, values[CategoryMeat])
	assert.Equal(t, 7.0, values[CategoryShopping]) // 5 + 2.4
	assert.Equal(t, 3.0, values[CategoryDiet])     // 0.6 * 10 * 0.5
	assert.Equal(t, 14.0, values[CategoryHeating]) // 0.2 * 150 * 0.45 = 13.5
	assert.Equal(t, 5.0, values[CategoryCooking])  // 0.3 * 5 * 3 = 4.5
	assert.Equal(t, 8.0, values[CategorySocial])
	assert.NotContains(t, values, CategoryRecycling)
	assert.Equal(t, -5.0, RecyclingCredit(input))
}

func TestComputeExtendedBreakdownDefaults(t *testing.T) {
	breakdown := ComputeExtendedBreakdown(&SurveyInput{})

	require.Len(t, breakdown, 1)
	assert.Equal(t, CategorySocial, breakdown[0].Name)
	assert.Equal(t, 3.0, breakdown[0].Value)
}

func TestCategoryInfoFallback(t *testing.T) {
	info := Category("Unknown").Info()
	assert.Equal(t, "#6B7280", info.Color)
}
