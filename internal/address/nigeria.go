package address

import (
	"context"
	"strings"

	"github.com/okonkwolabs/kasuwa/internal/domain"
)

// nigerianStates lists the 36 states plus the FCT, in canonical casing.
var nigerianStates = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa",
	"Benue", "Borno", "Cross River", "Delta", "Ebonyi", "Edo", "Ekiti",
	"Enugu", "FCT", "Gombe", "Imo", "Jigawa", "Kaduna", "Kano",
	"Katsina", "Kebbi", "Kogi", "Kwara", "Lagos", "Nasarawa", "Niger",
	"Ogun", "Ondo", "Osun", "Oyo", "Plateau", "Rivers", "Sokoto",
	"Taraba", "Yobe", "Zamfara",
}

// NigeriaValidator validates addresses against the Nigerian state
// directory. Region matching is case-insensitive; the normalized result
// carries the canonical state name.
type NigeriaValidator struct {
	states map[string]string
}

// NewNigeriaValidator creates a validator over the built-in state list.
func NewNigeriaValidator() *NigeriaValidator {
	states := make(map[string]string, len(nigerianStates))
	for _, s := range nigerianStates {
		states[strings.ToLower(s)] = s
	}
	return &NigeriaValidator{states: states}
}

func (v *NigeriaValidator) Validate(ctx context.Context, addr domain.LogisticsAddress) (*Result, error) {
	errs := make(map[string]string)

	region := strings.TrimSpace(addr.Region)
	city := strings.TrimSpace(addr.City)
	area := strings.TrimSpace(addr.Area)

	if region == "" {
		errs["region"] = "This field is required"
	}
	if city == "" {
		errs["city"] = "This field is required"
	}
	if area == "" {
		errs["area"] = "This field is required"
	}

	canonical, known := v.states[strings.ToLower(region)]
	if region != "" && !known {
		errs["region"] = "Unknown state or region"
	}

	if len(errs) > 0 {
		return &Result{Valid: false, Errors: errs}, nil
	}
	return &Result{
		Valid: true,
		Normalized: &domain.LogisticsAddress{
			Region: canonical,
			City:   city,
			Area:   area,
		},
	}, nil
}
