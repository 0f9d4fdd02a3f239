package controller

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/context"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/exception"
)

const defaultListLimit = 100
const maxListLimit = 500

func getStringParam(r *http.Request, p string) string {
	params := mux.Vars(r)
	return params[p]
}

func getUnescapedStringParam(r *http.Request, p string) (string, error) {
	params := mux.Vars(r)
	return url.QueryUnescape(params[p])
}

func getListLimit(r *http.Request) (int, *exception.CustomError) {
	value := r.URL.Query().Get("limit")
	if value == "" {
		return defaultListLimit, nil
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit < 1 || limit > maxListLimit {
		return 0, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameterValue,
			Message: exception.InvalidParameterValueMsg,
			Params:  map[string]interface{}{"param": "limit", "value": value},
		}
	}
	return limit, nil
}

// requireReviewer rejects mutations that arrive without the reviewer
// identity header, they would otherwise be recorded as anonymous.
func requireReviewer(ctx context.SecurityContext) *exception.CustomError {
	if ctx.GetUserId() == "" {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.EmptyParameter,
			Message: exception.EmptyParameterMsg,
			Params:  map[string]interface{}{"param": "X-Reviewer-Id"},
		}
	}
	return nil
}

func getListPage(r *http.Request) (int, *exception.CustomError) {
	value := r.URL.Query().Get("page")
	if value == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(value)
	if err != nil || page < 0 {
		return 0, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameterValue,
			Message: exception.InvalidParameterValueMsg,
			Params:  map[string]interface{}{"param": "page", "value": value},
		}
	}
	return page, nil
}
