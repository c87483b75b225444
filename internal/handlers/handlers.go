// Package handlers exposes game sessions over HTTP and WebSocket.
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"
)

const maxBodySize = 64 << 10

var dec = schema.NewDecoder()

func init() {
	dec.IgnoreUnknownKeys(true)
}

func decodeQuery(dst any, r *http.Request) error {
	return dec.Decode(dst, r.URL.Query())
}

func readBody(r *http.Request) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("unable to read body: %w", err)
	}
	return string(b), nil
}

type lineError struct {
	line int
	err  error
}

func (e lineError) Error() string {
	return fmt.Sprintf("command %d: %s", e.line+1, e.err)
}

func (e lineError) Unwrap() error {
	return e.err
}

func SendJSON(w http.ResponseWriter, code int, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, code int, v any) {
	if _, err := SendJSON(w, code, v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).Error("unable to send response")
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func sendError(w http.ResponseWriter, log logrus.FieldLogger, code int, err error) {
	sendJSONOrLog(w, log, code, wrapError(err))
}

func HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte("\"ok\""))
}
