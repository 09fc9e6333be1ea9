package httpapi

import (
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"school-canteen/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// render executes the named page template with the given data plus the
// session and any pending flash messages. Rendering pops the flashes.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	session := sessionFrom(r)
	flashes, err := h.Sessions.PopFlashes(r.Context(), session.Token)
	if err != nil {
		log.Printf("[canteen] failed to pop flashes: %v", err)
	}

	payload := map[string]interface{}{
		"Session": session,
		"Flashes": flashes,
	}
	for key, value := range data {
		payload[key] = value
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, payload); err != nil {
		log.Printf("[canteen] failed to render %s: %v", name, err)
	}
}

// flashAndRedirect queues a one-shot message and sends the visitor on.
func (h *Handler) flashAndRedirect(w http.ResponseWriter, r *http.Request, message, level, target string) {
	session := sessionFrom(r)
	if err := h.Sessions.PushFlash(r.Context(), session.Token, domain.Flash{Message: message, Level: level}); err != nil {
		log.Printf("[canteen] failed to push flash: %v", err)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
