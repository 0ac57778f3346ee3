package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mwoudenberg/aqualed/internal/status"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	LampA         uint8      `json:"lamp_a"`
	LampB         uint8      `json:"lamp_b"`
	Source        string     `json:"source"`
	LocalTime     string     `json:"local_time"`
	Synced        bool       `json:"synced"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	LogLines      int        `json:"log_lines"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs    int64  `json:"tick_ms"`
	ResyncMs  int64  `json:"resync_ms"`
	Broker    string `json:"broker"`
	HTTPAddr  string `json:"http_addr"`
	StorePath string `json:"store_path"`
	NTPHost   string `json:"ntp_host"`
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatJSON(snap))
}

func formatJSON(snap status.Snapshot) []byte {
	sj := StatusJSON{
		Status: StatusInner{
			LampA:         snap.Levels.A,
			LampB:         snap.Levels.B,
			Source:        string(snap.Source),
			LocalTime:     snap.LocalTime.Format("15:04:05"),
			Synced:        snap.Synced,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
			LogLines:      snap.LogLines,
			Config: ConfigJSON{
				TickMs:    snap.Config.TickMs,
				ResyncMs:  snap.Config.ResyncMs,
				Broker:    snap.Config.Broker,
				HTTPAddr:  snap.Config.HTTPAddr,
				StorePath: snap.Config.StorePath,
				NTPHost:   snap.Config.NTPHost,
			},
		},
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
