package fixture

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"
)

var rootPage = template.Must(template.New("root").Parse(`<!doctype html>
<html lang="pt-BR">
  <head><meta charset="utf-8"><title>API de Empresas</title></head>
  <body>
    <h1>API de Empresas</h1>
    <p>{{.Count}} empresas geradas.</p>
    <ul>
      <li><a href="/empresas">/empresas</a></li>
      <li><a href="/socios">/socios</a></li>
      <li><a href="https://github.com/typicode/json-server">json-server</a></li>
      <li><a href="/empresas">todas as empresas</a></li>
      <li><a href="">sem destino</a></li>
    </ul>
  </body>
</html>
`))

// Handler serves a generated upstream:
//
//	GET /          HTML page linking to the collections
//	GET /empresas  the companies
//	GET /socios    partners with the ids of their companies
func Handler(empresas []Empresa, latency time.Duration) http.Handler {
	socios := Partners(empresas)
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = rootPage.Execute(w, struct{ Count int }{len(empresas)})
	})
	mux.HandleFunc("/empresas", func(w http.ResponseWriter, r *http.Request) {
		delay(r, latency)
		writeJSON(w, http.StatusOK, empresas)
	})
	mux.HandleFunc("/socios", func(w http.ResponseWriter, r *http.Request) {
		delay(r, latency)
		writeJSON(w, http.StatusOK, socios)
	})
	return mux
}

func delay(r *http.Request, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-r.Context().Done():
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
