package httpx

import (
	"encoding/json"
	"net/http"
)

// DecodeJSON unmarshals the request body into v.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
