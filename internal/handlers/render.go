package handlers

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/warblerhq/warbler/internal/session"
)

// renderPage writes a minimal HTML shell: pending flashes first, then the
// page body. Full templating is deliberately absent; the fragments here carry
// the markers the UI (and the tests) rely on.
func renderPage(w http.ResponseWriter, flashes []session.FlashMessage, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html><body>\n")
	for _, f := range flashes {
		fmt.Fprintf(&b, "<div class=\"alert alert-%s\">%s</div>\n",
			html.EscapeString(f.Category), html.EscapeString(f.Message))
	}
	b.WriteString(body)
	b.WriteString("\n</body></html>\n")
	_, _ = io.WriteString(w, b.String())
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (uint, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// redirectTarget returns the ?redirect= query parameter, falling back to "/".
// Only same-site paths are honoured.
func redirectTarget(r *http.Request) string {
	p := r.URL.Query().Get("redirect")
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return "/"
	}
	return p
}

func escape(s string) string { return html.EscapeString(s) }
