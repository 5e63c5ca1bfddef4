// Package respond writes the JSON envelopes returned by the HTTP API.
//
// Successful responses are wrapped as {"result": ...}, failures as {"error": "..."}.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin/render"
	"github.com/wb-go/wbf/zlog"
)

type resultBody struct {
	Result any `json:"result"`
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := (render.JSON{Data: v}).Render(w); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to write response")
	}
}

// OK writes a 200 response carrying data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, resultBody{Result: data})
}

// Created writes a 201 response carrying data.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, resultBody{Result: data})
}

// Fail writes an error response. err must not carry internal details.
func Fail(w http.ResponseWriter, status int, err error) {
	JSON(w, status, errorBody{Error: err.Error()})
}

// ValidationFail writes a 400 response listing the invalid fields.
func ValidationFail(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: fields})
}
