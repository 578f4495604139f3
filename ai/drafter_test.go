package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"party-planner/domain"

	"github.com/stretchr/testify/require"
)

func newTestDrafter(t *testing.T, handler http.HandlerFunc) *Drafter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	d := NewDrafter("test-key")
	d.baseURL = server.URL
	return d
}

func Test_Draft_Returns_Trimmed_Text(t *testing.T) {
	req := require.New(t)
	var gotPrompt string
	d := newTestDrafter(t, func(w http.ResponseWriter, r *http.Request) {
		var request generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		gotPrompt = request.Contents[0].Parts[0].Text

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{
					{"text": "  Amy, Friday, my place, 8pm. Be there!  \n"},
				}}},
			},
		})
	})

	text, err := d.Draft(context.Background(), "housewarming", "", domain.Contact{Name: "Amy Adams", Handle: "+1555"})
	req.NoError(err)
	req.Equal("Amy, Friday, my place, 8pm. Be there!", text)
	req.Contains(gotPrompt, "housewarming")
	req.Contains(gotPrompt, "Amy")
	req.Contains(gotPrompt, "fun and casual")
}

func Test_Draft_Surfaces_API_Errors(t *testing.T) {
	req := require.New(t)
	d := newTestDrafter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "API key not valid"},
		})
	})

	_, err := d.Draft(context.Background(), "party", "chill", domain.Contact{Name: "Bo", Handle: "+1556"})
	req.ErrorContains(err, "API key not valid")
}

func Test_Draft_Rejects_Empty_Candidates(t *testing.T) {
	req := require.New(t)
	d := newTestDrafter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	_, err := d.Draft(context.Background(), "party", "", domain.Contact{Name: "Bo", Handle: "+1556"})
	req.ErrorContains(err, "empty response")
}
