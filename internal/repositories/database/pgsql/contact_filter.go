package pgsql

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/ucontacts/contacts_app/internal/apperrors"
)

// Filter expressions arrive as "field__op=value" segments joined by "&",
// e.g. "first_name__like=Jo*&birthday__between=1990-01-01,1999-12-31".
// Each field only admits the operators listed for it below; anything else
// is a validation error surfaced to the caller.

var textOps = map[string]bool{
	"eq":         true,
	"in":         true,
	"like":       true,
	"startswith": true,
	"contains":   true,
}

var dateOps = map[string]bool{
	"eq":      true,
	"gt":      true,
	"lt":      true,
	"between": true,
	"in":      true,
}

var filterableFields = map[string]map[string]bool{
	"first_name": textOps,
	"last_name":  textOps,
	"email":      textOps,
	"phone":      textOps,
	"birthday":   dateOps,
	"created_at": dateOps,
	"updated_at": dateOps,
}

// parseContactFilter translates a filter expression into squirrel conditions.
// An empty expression yields no conditions.
func parseContactFilter(filter string) ([]sq.Sqlizer, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil, nil
	}

	var conds []sq.Sqlizer
	for _, segment := range strings.Split(filter, "&") {
		if segment == "" {
			continue
		}
		cond, err := parseFilterSegment(segment)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

func parseFilterSegment(segment string) (sq.Sqlizer, error) {
	key, value, found := strings.Cut(segment, "=")
	if !found {
		return nil, fmt.Errorf("filter segment %q is missing '=': %w", segment, apperrors.ErrValidation)
	}

	field, op, found := strings.Cut(key, "__")
	if !found {
		// Bare "field=value" defaults to equality.
		field, op = key, "eq"
	}

	allowed, ok := filterableFields[field]
	if !ok {
		return nil, fmt.Errorf("unknown filter field %q: %w", field, apperrors.ErrValidation)
	}
	if !allowed[op] {
		return nil, fmt.Errorf("operator %q is not allowed for field %q: %w", op, field, apperrors.ErrValidation)
	}

	switch op {
	case "eq":
		return sq.Eq{field: value}, nil
	case "gt":
		return sq.Gt{field: value}, nil
	case "lt":
		return sq.Lt{field: value}, nil
	case "in":
		parts := strings.Split(value, ",")
		return sq.Eq{field: parts}, nil
	case "between":
		parts := strings.SplitN(value, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("between expects two comma separated values, got %q: %w", value, apperrors.ErrValidation)
		}
		return sq.And{sq.GtOrEq{field: parts[0]}, sq.LtOrEq{field: parts[1]}}, nil
	case "like":
		return sq.Like{field: strings.ReplaceAll(value, "*", "%")}, nil
	case "startswith":
		return sq.Like{field: value + "%"}, nil
	case "contains":
		return sq.Like{field: "%" + value + "%"}, nil
	default:
		return nil, fmt.Errorf("operator %q is not supported: %w", op, apperrors.ErrValidation)
	}
}
