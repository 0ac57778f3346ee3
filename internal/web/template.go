package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/mwoudenberg/aqualed/internal/status"
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
	"clock": func(t time.Time) string {
		return t.Format("15:04:05")
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Aquarium Lights</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.bar { background: #eee; width: 200px; height: 12px; display: inline-block; vertical-align: middle; }
.bar span { background: #fc3; height: 12px; display: block; }
.override { color: #c60; font-weight: bold; }
.schedule { color: green; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Aquarium Lights</h1>

<h2>Lamps</h2>
<table>
<tr><th>Lamp A</th><td>{{.Levels.A}}% <span class="bar"><span style="width:{{.Levels.A}}%"></span></span></td></tr>
<tr><th>Lamp B</th><td>{{.Levels.B}}% <span class="bar"><span style="width:{{.Levels.B}}%"></span></span></td></tr>
<tr><th>Source</th><td class="{{if eq (printf "%s" .Source) "override"}}override{{else}}schedule{{end}}">{{.Source}}</td></tr>
</table>

<h2>Time</h2>
<table>
<tr><th>Local time</th><td>{{clock .LocalTime}}</td></tr>
<tr><th>NTP synced</th><td>{{if .Synced}}yes{{else}}no (running on ticks){{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Log lines</th><td>{{.LogLines}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>NTP resync</th><td>{{.Config.ResyncMs}}ms ({{.Config.NTPHost}})</td></tr>
<tr><th>Settings file</th><td>{{.Config.StorePath}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> &middot; <a href="/getconf">schedule</a> &middot; <a href="/logging">log</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
