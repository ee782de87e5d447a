package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"admithub/internal/app"
	"admithub/internal/common"
	"admithub/internal/http/middleware"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewError(common.CodeValidation, "request body is required", err)
		}
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}

// idFromPath parses the uuid path segment counting from the end of the
// path, 1 being the last segment.
func idFromPath(r *http.Request, fromEnd int) (common.UUID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < fromEnd {
		return "", common.NewError(common.CodeValidation, "invalid path", nil)
	}
	raw := parts[len(parts)-fromEnd]
	parsed, err := common.ParseUUID(raw)
	if err != nil {
		return "", common.NewError(common.CodeValidation, "invalid id", err)
	}
	return parsed, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "authentication required", nil)
}

func actorFrom(r *http.Request) (app.Actor, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return app.Actor{}, false
	}
	orgID, ok := middleware.OrgIDFromContext(r.Context())
	if !ok {
		return app.Actor{}, false
	}
	return app.Actor{UserID: userID, OrganizationID: orgID}, true
}

func parseIDList(values []string) ([]common.UUID, error) {
	ids := make([]common.UUID, 0, len(values))
	for _, value := range values {
		parsed, err := common.ParseUUID(strings.TrimSpace(value))
		if err != nil {
			return nil, common.NewValidationError("invalid id list", map[string]string{"ids": "ids must be valid uuids"})
		}
		ids = append(ids, parsed)
	}
	return ids, nil
}
