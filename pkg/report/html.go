package report

import (
	"bytes"
	"html/template"
	"io"
)

var htmlTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"stateClass": stateClass,
}).Parse(htmlTemplate))

// WriteHTML writes the report as a standalone HTML page.
func WriteHTML(w io.Writer, r *Report) error {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, r); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func stateClass(state string) string {
	switch state {
	case "completed":
		return "passed"
	case "failed", "transport_error":
		return "failed"
	case "timeout":
		return "timeout"
	default:
		return "pending"
	}
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        :root {
            --passed: #22c55e;
            --failed: #ef4444;
            --timeout: #f59e0b;
            --pending: #9ca3af;
        }
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 24px; color: #111827; background: #f9fafb; }
        header { margin-bottom: 24px; }
        .summary { display: grid; grid-template-columns: repeat(4, 1fr); gap: 12px; margin-bottom: 24px; }
        .stat { background: #fff; border-radius: 8px; padding: 12px; box-shadow: 0 1px 2px rgba(0,0,0,.05); }
        .stat strong { display: block; font-size: 24px; }
        .case { background: #fff; border-radius: 8px; padding: 16px; margin-bottom: 16px; border-left: 4px solid var(--pending); }
        .case.passed { border-left-color: var(--passed); }
        .case.failed { border-left-color: var(--failed); }
        .case.timeout { border-left-color: var(--timeout); }
        pre { background: #111827; color: #f9fafb; padding: 12px; border-radius: 6px; overflow-x: auto; }
        .run { font-size: 13px; color: #4b5563; }
    </style>
</head>
<body>
<header>
    <h1>{{.Title}}</h1>
    <p>{{.Exploration.URL}}{{if .Exploration.CreatedAt}} · {{.Exploration.CreatedAt}}{{end}} · {{.Exploration.Pages}} páginas</p>
    <p class="run">Generado: {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>
</header>

<section class="summary">
    <div class="stat"><strong>{{.Summary.Total}}</strong>Casos</div>
    <div class="stat"><strong>{{.Summary.WithCode}}</strong>Con código</div>
    <div class="stat"><strong>{{.Summary.Completed}}</strong>Completados</div>
    <div class="stat"><strong>{{.Summary.Failed}}</strong>Fallidos</div>
</section>

{{range .TestCases}}
<article class="case {{if .LastRun}}{{stateClass .LastRun.State}}{{else}}pending{{end}}" id="case-{{.ID}}">
    <h2>{{.ID}}. {{.Title}}</h2>
    {{if .Description}}<p>{{.Description}}</p>{{end}}
    <h3>Pasos</h3>
    <ol>{{range .Steps}}<li>{{.}}</li>{{end}}</ol>
    <h3>Resultados esperados</h3>
    <ul>{{range .ExpectedResults}}<li>{{.}}</li>{{end}}</ul>
    {{if .Code}}<pre><code>{{.Code}}</code></pre>{{end}}
    {{with .LastRun}}<p class="run">Última ejecución: {{.State}} ({{.Source}}, {{.Duration}}){{if .Message}}: {{.Message}}{{end}}</p>{{end}}
</article>
{{end}}
</body>
</html>
`
