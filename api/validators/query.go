package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
)

// ParseQueryInt reads an integer query parameter, applying a default when
// absent and clamping errors to the validation code.
func ParseQueryInt(r *http.Request, key string, defaultVal, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	if value < lo || value > hi {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").
			WithDetails(map[string]any{"field": key, "min": lo, "max": hi})
	}
	return value, nil
}
