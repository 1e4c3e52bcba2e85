package emissions

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// SurveyInput is the lifestyle questionnaire a footprint is computed from.
// All quantities are monthly.
type SurveyInput struct {
	Transportation float64 `json:"transportation" mapstructure:"transportation"` // km
	AirTravel      float64 `json:"airTravel" mapstructure:"airTravel"`           // flight hours
	MeatMeals      float64 `json:"meatMeals" mapstructure:"meatMeals"`
	DiningOut      float64 `json:"diningOut" mapstructure:"diningOut"`
	Electricity    float64 `json:"electricity" mapstructure:"electricity"` // kWh
	LPGUsage       float64 `json:"lpgUsage" mapstructure:"lpgUsage"`       // kg
	Waste          float64 `json:"waste" mapstructure:"waste"`             // kg

	Diet           string `json:"diet,omitempty" mapstructure:"diet"`
	HeatingSource  string `json:"heatingSource,omitempty" mapstructure:"heatingSource"`
	Recycling      string `json:"recycling,omitempty" mapstructure:"recycling"`
	CookingEnergy  string `json:"cookingEnergy,omitempty" mapstructure:"cookingEnergy"`
	SocialActivity string `json:"socialActivity,omitempty" mapstructure:"socialActivity"`

	// Optional profile fields carried along with the survey
	Name string `json:"name,omitempty" mapstructure:"name"`
	City string `json:"city,omitempty" mapstructure:"city"`
	Area string `json:"area,omitempty" mapstructure:"area"`
}

// DefaultSurvey returns the input used when no usable survey is stored
func DefaultSurvey() *SurveyInput {
	return &SurveyInput{
		Transportation: 30,
		AirTravel:      1,
		MeatMeals:      10,
		DiningOut:      3,
		Electricity:    150,
		LPGUsage:       5,
		Waste:          15,
	}
}

// ParseSurvey decodes a stored survey blob. Field values are coerced leniently,
// so the only error is malformed JSON.
func ParseSurvey(data []byte) (*SurveyInput, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse survey data: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("failed to parse survey data: not an object")
	}
	return DecodeSurvey(raw)
}

// DecodeSurvey maps a loosely typed record onto SurveyInput
func DecodeSurvey(raw map[string]interface{}) (*SurveyInput, error) {
	input := &SurveyInput{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: coerceHook,
		MatchName:  func(mapKey, fieldName string) bool { return mapKey == fieldName },
		Result:     input,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create survey decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode survey data: %w", err)
	}
	return input, nil
}

// coerceHook converts any value into the target field type. Numbers follow
// loose numeric conversion where anything unparseable becomes 0.
func coerceHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	switch to.Kind() {
	case reflect.Float64:
		return ToNumber(data), nil
	case reflect.String:
		if s, ok := data.(string); ok {
			return s, nil
		}
		return "", nil
	}
	return data, nil
}

// ToNumber converts an arbitrary value to a finite float64, returning 0 for
// anything that is missing, non-numeric or not finite.
func ToNumber(v interface{}) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		if len(s) > 1 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
			return parsePrefixedInt(s)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	case []interface{}:
		// A single element array converts like its element
		if len(n) != 1 {
			return 0
		}
		return ToNumber(n[0])
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parsePrefixedInt handles unsigned 0x, 0o and 0b literals
func parsePrefixedInt(s string) float64 {
	if len(s) < 3 || strings.ContainsRune(s, '_') {
		return 0
	}
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0
	}
	return float64(n)
}
