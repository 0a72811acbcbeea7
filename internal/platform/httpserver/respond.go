package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrInvalidBody is returned by Decode for malformed or invalid bodies.
var ErrInvalidBody = errors.New("invalid request body")

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteJSON writes data as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes the uniform error body. err's chain is only exposed when
// the Debug middleware marked the request.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	resp := errorResponse{Success: false, Message: message}
	if err != nil && debugEnabled(r.Context()) {
		resp.Detail = err.Error()
	}
	WriteJSON(w, status, resp)
}

// Decode reads a JSON body into dst and validates its struct tags.
// An empty body decodes to the zero value before validation.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(ErrInvalidBody, err)
	}
	if err := validate.Struct(dst); err != nil {
		return errors.Join(ErrInvalidBody, validationError(err))
	}
	return nil
}

// ValidationMessage renders a Decode error for clients.
func ValidationMessage(err error) string {
	var fe *fieldErrors
	if errors.As(err, &fe) {
		return fe.msg
	}
	return ErrInvalidBody.Error()
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, strings.ToLower(fe.Field())+" failed "+fe.Tag())
	}
	return &fieldErrors{msg: strings.Join(msgs, "; "), errs: verrs}
}

type fieldErrors struct {
	msg  string
	errs validator.ValidationErrors
}

func (e *fieldErrors) Error() string { return e.msg }
func (e *fieldErrors) Unwrap() error { return e.errs }
