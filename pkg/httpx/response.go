package httpx

import (
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
)

// JSON writes v as JSON with the given status code. Encoding errors after the
// header is sent are dropped.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = sonic.ConfigStd.NewEncoder(w).Encode(v)
}

// JSONError writes a standard {"error": message} JSON response.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// ValidationError writes 422 with the offending fields:
//
//	{"error": "Validation failed", "fields": {"title": "This field is required"}}
func ValidationError(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  "Validation failed",
		"fields": fields,
	})
}

// Page writes one page of a list with its total match count in X-Total-Count.
func Page(w http.ResponseWriter, total int, v any) {
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	JSON(w, http.StatusOK, v)
}
