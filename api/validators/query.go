package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/gamestore-storefront/pkg/errors"
)

// FormString returns the sanitized form value for key.
func FormString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.FormValue(key), maxLen)
}

// FormInt parses an optional integer form value. A missing value yields nil.
func FormInt(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "form value must be numeric").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}
