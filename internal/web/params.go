// internal/web/params.go
//
// List-endpoint query DTO: binding, validation, and translation into the
// repository filter.
//
// Context
// -------
// `GET /countries` accepts `region`, `currency`, and `sort`.  The sort enum
// is the superset revision: a bare field picks that field's default
// direction (gdp and population descend, name ascends); an explicit
// `_asc`/`_desc` suffix wins.  An unrecognized value is a 400 with a
// per-field detail map, mirroring the service's validation-failure body.

package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yanizio/atlas/internal/country"
)

var validate = validator.New()

const sortEnum = "gdp gdp_asc gdp_desc population population_asc population_desc name name_asc name_desc"

// listQuery is the raw query DTO before translation.
type listQuery struct {
	Region   string `validate:"omitempty,max=255"`
	Currency string `validate:"omitempty,max=16"`
	Sort     string `validate:"omitempty,oneof=gdp gdp_asc gdp_desc population population_asc population_desc name name_asc name_desc"`
}

// parseListQuery binds and validates the request's query parameters.  On
// failure it returns a field→message map for the 400 body.
func parseListQuery(r *http.Request) (country.Filter, map[string]string) {
	q := listQuery{
		Region:   r.URL.Query().Get("region"),
		Currency: r.URL.Query().Get("currency"),
		Sort:     r.URL.Query().Get("sort"),
	}

	if err := validate.Struct(&q); err != nil {
		details := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details[strings.ToLower(fe.Field())] = fieldMessage(fe)
			}
		} else {
			details["query"] = err.Error()
		}
		return country.Filter{}, details
	}

	return country.Filter{
		Region:   q.Region,
		Currency: q.Currency,
		Sort:     parseSort(q.Sort),
	}, nil
}

// parseSort maps the enum value onto a field and direction.  Empty input
// means no ORDER BY at all.
func parseSort(s string) *country.Sort {
	if s == "" {
		return nil
	}

	field := s
	explicit := ""
	if f, ok := strings.CutSuffix(s, "_asc"); ok {
		field, explicit = f, "asc"
	} else if f, ok := strings.CutSuffix(s, "_desc"); ok {
		field, explicit = f, "desc"
	}

	out := &country.Sort{Field: country.SortField(field)}
	switch explicit {
	case "asc":
		out.Desc = false
	case "desc":
		out.Desc = true
	default:
		// Bare field: gdp and population default to descending, name to
		// ascending.
		out.Desc = out.Field != country.SortName
	}
	return out
}

// fieldMessage renders one validator failure the way the API documents it.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(sortEnum), ", ")
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
