package monitoring

import (
	"net/http"

	"badgehub/internal/response"
)

// Handler serves the dashboard snapshot as JSON.
func (d *Dashboard) Handler(builder *response.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		builder.WriteSuccess(w, r, d.Snapshot(r.Context()))
	}
}
