package handlers

import (
	"encoding/json"
	"net/http/httptest"
)

func jsonUnmarshal(rec *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}
