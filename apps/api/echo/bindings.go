package echoapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

var orderingParam = "ordering"

// bindOrdering parses `?ordering=-cgpa,student_id` into orderings. Unknown fields are dropped
// by the services.
func bindOrdering(ctx echo.Context) []core.DBOrdering {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return nil
	}

	var orderings []core.DBOrdering
	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		orderings = append(orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
	return orderings
}

// queryTime parses an RFC 3339 query param. Missing or malformed values are zero.
func queryTime(ctx echo.Context, name string) time.Time {
	t, err := time.Parse(time.RFC3339, ctx.QueryParam(name))
	if err != nil {
		return time.Time{}
	}
	return t
}

// queryBool parses a boolean query param. Missing or malformed values are nil.
func queryBool(ctx echo.Context, name string) *bool {
	b, err := strconv.ParseBool(ctx.QueryParam(name))
	if err != nil {
		return nil
	}
	return &b
}

// bindList decodes a JSON array body. echo's binder only binds structs once path params are set.
func bindList(ctx echo.Context, list interface{}) error {
	if err := json.NewDecoder(ctx.Request().Body).Decode(list); err != nil {
		return &echo.HTTPError{Code: http.StatusBadRequest, Message: err.Error(), Internal: err}
	}
	return nil
}
