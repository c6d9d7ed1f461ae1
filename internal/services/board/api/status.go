package api

import (
	"net/http"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/louisbranch/squarepool/internal/platform/errors"
)

// errorBody is the JSON error envelope returned to clients.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// httpStatus maps a gRPC status code to an HTTP status code.
func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// toErrorResponse resolves an application error into an HTTP status and
// a localized JSON body. The user-facing message comes from the
// LocalizedMessage detail; the internal status message never leaves the
// process.
func toErrorResponse(err error, locale string) (int, errorBody) {
	handled := apperrors.HandleError(err, locale)
	st, ok := status.FromError(handled)
	if !ok {
		return http.StatusInternalServerError, errorBody{Error: errorDetail{
			Code:    string(apperrors.CodeUnknown),
			Message: "an unexpected error occurred",
		}}
	}

	message := ""
	for _, detail := range st.Details() {
		if localized, ok := detail.(*errdetails.LocalizedMessage); ok {
			message = localized.GetMessage()
			break
		}
	}
	if message == "" {
		message = st.Message()
	}
	return httpStatus(st.Code()), errorBody{Error: errorDetail{
		Code:    string(apperrors.GetCode(err)),
		Message: message,
	}}
}
