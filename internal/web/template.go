package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/qut-iot/tripwire-node/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"ms": func(d time.Duration) int64 {
		return d.Milliseconds()
	},
	"pct": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Laser Tripwire</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.clear { color: green; font-weight: bold; }
.blocked { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Laser Tripwire - {{.Config.DeviceID}}</h1>

<h2>Beam</h2>
<table>
<tr><th>State</th><td class="{{if eq (printf "%s" .State) "BLOCKED"}}blocked{{else}}clear{{end}}">{{.State}}</td></tr>
<tr><th>Calibrated</th><td>{{if .Calibrated}}yes{{else}}no{{end}}</td></tr>
<tr><th>Raw reading</th><td>{{.Raw}}</td></tr>
<tr><th>Smoothed</th><td>{{.Average}}</td></tr>
<tr><th>Baseline</th><td>{{.Baseline}}</td></tr>
<tr><th>Change</th><td>{{pct .ChangePercent}}</td></tr>
</table>

<h2>Statistics</h2>
<table>
<tr><th>Blocks</th><td>{{.Stats.BlockCount}}</td></tr>
<tr><th>Total blocked</th><td>{{ms .Stats.TotalBlocked}} ms</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
</table>

<h2>Link</h2>
<table>
<tr><th>Uplink</th><td class="{{if .LinkConnected}}connected{{else}}disconnected{{end}}">{{if .LinkConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Template errors can only come from a broken template, caught in tests.
	_ = indexTmpl.Execute(w, snap)
}
