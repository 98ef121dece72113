package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gyani-service/internal/chat"
	"gyani-service/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/golang/glog"
)

// HTTPMessage is the error envelope every failed request returns.
type HTTPMessage struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func returnHTTPMessage(w http.ResponseWriter, httpStatus int, messageType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(HTTPMessage{
		Type:    messageType,
		Status:  strconv.Itoa(httpStatus),
		Message: message,
	})
}

func returnJSON(w http.ResponseWriter, httpStatus int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		glog.Errorf("encode response: %v", err)
	}
}

// returnError maps domain failures to status codes.
func returnError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		glog.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		glog.V(2).Infof("%s %s: %v", r.Method, r.URL.Path, err)
	}
	returnHTTPMessage(w, status, errorType(status), err.Error())
}

func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrAssessmentNotFound),
		errors.Is(err, domain.ErrBankNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrModuleNotFound),
		errors.Is(err, domain.ErrProfileRequired),
		errors.Is(err, domain.ErrUnknownQuestion),
		errors.Is(err, domain.ErrUnknownOption),
		errors.Is(err, domain.ErrInvalidOption),
		errors.Is(err, domain.ErrAnswerRequired),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientShares),
		errors.Is(err, domain.ErrUnknownSymbol),
		errors.Is(err, chat.ErrInvalidRequest),
		errors.Is(err, chat.ErrUnsupportedProvider),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAnswerLocked),
		errors.Is(err, domain.ErrQuizFinished),
		errors.Is(err, domain.ErrNoQuestions):
		return http.StatusConflict
	case errors.Is(err, domain.ErrProgressUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "badrequest"
	case http.StatusNotFound:
		return "notfound"
	case http.StatusConflict:
		return "conflict"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internalerror"
	}
}
