package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

// HTMLOptions controls document rendering.
type HTMLOptions struct {
	Title string // Page title (default: "Exploraciones guardadas")
}

type htmlData struct {
	Title  string
	B      *Bindings
	Toasts []Notification
}

// RenderHTML writes the document as a standalone HTML page. Every mount
// point keeps its id, and hidden elements carry the hidden attribute.
func RenderHTML(w io.Writer, b *Bindings, opts HTMLOptions) error {
	if opts.Title == "" {
		opts.Title = "Exploraciones guardadas"
	}

	tmpl, err := template.New("panel").Funcs(template.FuncMap{
		"codeID":    CodeContainerID,
		"lineClass": lineClass,
	}).Parse(panelTemplate)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	data := htmlData{
		Title:  opts.Title,
		B:      b,
		Toasts: b.Toasts.All(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func lineClass(k LineKind) string {
	switch k {
	case LineSuccess:
		return "log-success"
	case LineFailure:
		return "log-failure"
	default:
		return "log-plain"
	}
}

const panelTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 24px; color: #111827; }
        table { border-collapse: collapse; width: 100%; }
        th, td { border-bottom: 1px solid #e5e7eb; padding: 8px; text-align: left; }
        .badge { display: inline-block; padding: 2px 8px; border-radius: 9999px; font-size: 12px; margin-right: 4px; }
        .badge-info { background: #dbeafe; color: #1e40af; }
        .badge-success { background: #dcfce7; color: #166534; }
        .badge-muted { background: #f3f4f6; color: #4b5563; }
        .card { border: 1px solid #e5e7eb; border-radius: 8px; padding: 16px; margin-bottom: 16px; }
        .result-success { border-left: 4px solid #22c55e; padding-left: 8px; }
        .result-failure { border-left: 4px solid #ef4444; padding-left: 8px; }
        .log-success { color: #166534; }
        .log-failure { color: #b91c1c; }
        pre { background: #f9fafb; padding: 12px; overflow-x: auto; }
    </style>
</head>
<body>
{{- $b := .B}}
<div id="website-form-container"{{if $b.Form.Hidden}} hidden{{end}}></div>

<div id="saved-explorations-container"{{if $b.List.Container.Hidden}} hidden{{end}}>
    <table id="saved-explorations-table">
        <thead><tr><th>#</th><th>Nombre</th><th>Fecha</th><th>Estado</th></tr></thead>
        <tbody>
        {{- range $b.List.Rows}}
            <tr data-id="{{.ExplorationID}}">
                <td>{{.Index}}</td>
                <td><strong>{{.Name}}</strong><br><small>{{.URL}}</small></td>
                <td>{{.Date}}</td>
                <td>{{range .Badges}}<span class="badge badge-{{.Kind}}">{{.Text}}</span>{{end}}</td>
            </tr>
        {{- end}}
        </tbody>
    </table>
</div>

<div id="exploration-details-container"{{if $b.Detail.Container.Hidden}} hidden{{end}}>
    <h2 id="exploration-title">{{$b.Detail.Title.Text}}</h2>
    <p>URL: <span id="exploration-url">{{$b.Detail.URL.Text}}</span></p>
    <p>Fecha: <span id="exploration-date">{{$b.Detail.Date.Text}}</span></p>
    <p>Páginas: <span id="exploration-page-count">{{$b.Detail.PageCount.Text}}</span></p>
    <button id="show-test-cases-btn"{{if $b.Detail.ShowBtn.Hidden}} hidden{{end}}>Ver casos de prueba</button>
    <button id="generate-test-cases-btn"{{if $b.Detail.GenerateBtn.Hidden}} hidden{{end}}>Generar casos de prueba</button>

    <div id="chrome-driver-container"{{if $b.Driver.Container.Hidden}} hidden{{end}}>
        <label for="chrome-driver-path">ChromeDriver</label>
        <input id="chrome-driver-path" value="{{$b.Driver.Path.Value}}" placeholder="{{$b.Driver.Path.Placeholder}}">
        <div id="chrome-driver-logs"{{if $b.Driver.LogArea.Hidden}} hidden{{end}}>
        {{- with $b.Driver.Logs}}
            <div class="{{if .Success}}result-success{{else}}result-failure{{end}}">
                <strong>{{.Title}}</strong>
                {{- range .Lines}}
                <div class="{{lineClass .Kind}}">{{.Text}}</div>
                {{- end}}
            </div>
        {{- end}}
        </div>
    </div>

    <div id="test-cases-container"{{if $b.Cases.Container.Hidden}} hidden{{end}}>
        <h3>{{$b.Cases.Heading}}</h3>
        {{- range $b.Cases.Cards}}
        <div class="card" data-test-id="{{.TestID}}">
            <h4>{{.Title}}{{if .Badge}} <span class="badge badge-success">{{.Badge}}</span>{{end}}</h4>
            <p>{{.Description}}</p>
            <h5>Pasos</h5>
            <ol>{{range .Steps}}<li>{{.}}</li>{{end}}</ol>
            <h5>Resultados esperados</h5>
            <ul>{{range .Expected}}<li>{{.}}</li>{{end}}</ul>
            {{- if .HasViewRun}}
            <button>{{.ViewLabel}}</button> <button>Ejecutar</button>
            {{- else}}
            <button>Generar código</button>
            {{- end}}
            {{- with .Code}}
            <pre id="{{.Element.ID}}"{{if .Element.Hidden}} hidden{{end}}><code>{{.Code}}</code></pre>
            {{- end}}
            {{- with .Result}}
            <div class="{{if .Success}}result-success{{else}}result-failure{{end}}">
                <p><strong>Estado:</strong> {{.Status}}</p>
                <p><strong>Mensaje:</strong> {{.Message}}</p>
                {{- if .Logs}}<pre>{{range .Logs}}{{.}}
{{end}}</pre>{{end}}
                {{- if .Errors}}<pre class="log-failure">{{range .Errors}}{{.}}
{{end}}</pre>{{end}}
            </div>
            {{- end}}
        </div>
        {{- end}}
    </div>
</div>

<div id="loading-overlay"{{if $b.Overlay.Container.Hidden}} hidden{{end}}>
    <span id="loading-message">{{$b.Overlay.Message.Text}}</span>
</div>

{{- if .Toasts}}
<ul class="notifications">
{{- range .Toasts}}
    <li class="notification-{{.Level}}">{{.Message}}</li>
{{- end}}
</ul>
{{- end}}
</body>
</html>
`
