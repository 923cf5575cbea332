package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/store"
)

// restDispatcher returns the dispatcher backing the custom-rest-call ability.
// It replays the request against the server's own router, so the ability sees
// exactly what an external HTTP client would.
func (s *Server) restDispatcher() store.RestDispatcher {
	return func(ctx context.Context, method, route string, params, body map[string]any) (int, any, error) {
		target, err := url.Parse(route)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid route %q: %w", route, err)
		}
		if len(params) > 0 {
			q := target.Query()
			for key, value := range params {
				q.Set(key, fmt.Sprintf("%v", value))
			}
			target.RawQuery = q.Encode()
		}

		var payload *bytes.Buffer
		if body != nil {
			encoded, err := json.Marshal(body)
			if err != nil {
				return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
			}
			payload = bytes.NewBuffer(encoded)
		} else {
			payload = bytes.NewBuffer(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, target.String(), payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to build request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		// The replayed request carries the invoking user's credentials, so
		// authenticated routes behave as if that user called them directly.
		if caller := ability.CallerFromContext(ctx); caller != nil {
			if user, err := s.store.GetUser(caller.ID); err == nil {
				req.Header.Set("Authorization", "Bearer "+user.AccessToken)
			}
		}

		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		var response any
		if rec.Body.Len() > 0 {
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				response = rec.Body.String()
			}
		}
		return rec.Code, response, nil
	}
}
