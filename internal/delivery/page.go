package delivery

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/Vovarama1992/wellness_ai/internal/chat"
	"github.com/Vovarama1992/wellness_ai/internal/session"
	"github.com/Vovarama1992/wellness_ai/internal/speech"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type langOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Turns     []chat.Turn
	Languages []langOption
	AudioSrc  string
	Typed     string
	Warning   string
	Error     string
}

func newPage(data *session.Data, lang speech.Language) pageData {
	p := pageData{Turns: data.Log.Turns()}

	for _, l := range speech.Languages {
		p.Languages = append(p.Languages, langOption{
			Value:    string(l),
			Label:    l.Label(),
			Selected: l == lang,
		})
	}

	if data.Log.Len() > 0 {
		p.AudioSrc = audioSrc(data.Speech, lang)
	}
	return p
}

// audioSrc prefers the published copy of the cached reply.
func audioSrc(sp *session.Speech, lang speech.Language) string {
	if sp != nil && sp.Lang == string(lang) && sp.PublicURL != "" {
		return sp.PublicURL
	}
	return "/speech/latest?lang=" + url.QueryEscape(string(lang))
}

func render(w http.ResponseWriter, status int, p pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, p); err != nil {
		http.Error(w, "page could not be rendered", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
