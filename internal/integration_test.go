package internal

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwoudenberg/aqualed/internal/clock"
	"github.com/mwoudenberg/aqualed/internal/logbuf"
	"github.com/mwoudenberg/aqualed/internal/logic"
	"github.com/mwoudenberg/aqualed/internal/mqtt"
	"github.com/mwoudenberg/aqualed/internal/pwm"
	"github.com/mwoudenberg/aqualed/internal/schedule"
	"github.com/mwoudenberg/aqualed/internal/status"
	"github.com/mwoudenberg/aqualed/internal/store"
	"github.com/mwoudenberg/aqualed/internal/web"
)

// env wires the daemon's components together the way main does, with the
// hardware and broker replaced by fakes and the HTTP server on a loopback
// listener.
type env struct {
	clk     *clock.Clock
	ctrl    *schedule.Controller
	out     *pwm.FakeOutput
	pub     *mqtt.FakePublisher
	logs    *logbuf.Buffer
	tracker *status.Tracker
	applied logic.Levels
	baseURL string
}

func newEnv(t *testing.T, st store.Store, startLocal time.Time) *env {
	t.Helper()

	e := &env{
		clk: clock.New(clock.CentralEuropean, startLocal),
		out: pwm.NewFakeOutput(),
		pub: mqtt.NewFakePublisher(),
	}

	ctrl, err := schedule.NewController(st)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	e.ctrl = ctrl
	e.logs = logbuf.New(logbuf.DefaultBudget, e.clk.Now)
	e.tracker = status.NewTracker(time.Now(), status.Config{})

	srv := web.New("", e.ctrl, e.logs, e.tracker, nil, "")
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve(ln)
	t.Cleanup(func() { ln.Close() })
	e.baseURL = "http://" + ln.Addr().String()

	return e
}

// tick advances the clock one second and runs one pass of the control
// logic, mirroring the daemon loop.
func (e *env) tick(t *testing.T) {
	t.Helper()

	e.clk.Tick()
	table, ov := e.ctrl.Snapshot()
	levels := logic.Resolve(e.clk.Hour(), table, ov)

	source := "schedule"
	if ov.Active {
		source = "override"
	}

	if levels != e.applied {
		if err := e.out.Set(levels.A, levels.B); err != nil {
			t.Fatalf("pwm set: %v", err)
		}
		e.applied = levels
		e.logs.Printf("lamps A=%d%% B=%d%% (%s)", levels.A, levels.B, source)
		event := mqtt.LevelEvent{
			Timestamp: e.clk.Now(),
			A:         levels.A,
			B:         levels.B,
			Source:    source,
		}
		if err := e.pub.PublishLevels(event); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
}

func (e *env) get(t *testing.T, path string) string {
	t.Helper()
	resp, err := http.Get(e.baseURL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("GET %s: read body: %v", path, err)
	}
	return string(body)
}

// TestIntegrationDayCycle drives a configured schedule across an hour
// boundary and checks the hardware writes and published events.
func TestIntegrationDayCycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.bin")
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	e := newEnv(t, st, time.Date(2026, 6, 1, 7, 59, 58, 0, time.UTC))

	// Hours 0..7 dark, hour 8 ramps both channels up.
	values := make([]string, 18)
	values[16] = "60" // hour 8, channel A
	values[17] = "40" // hour 8, channel B
	for i, v := range values {
		if v == "" {
			values[i] = "0"
		}
	}
	e.get(t, "/setconf?conf="+strings.Join(values, ","))

	e.tick(t) // 07:59:59, still dark
	e.tick(t) // 08:00:00, lamps on
	e.tick(t) // 08:00:01, no change

	if len(e.out.Writes) != 1 {
		t.Fatalf("writes: got %d (%v), want 1", len(e.out.Writes), e.out.Writes)
	}
	if e.out.Writes[0] != (pwm.Write{A: 60, B: 40}) {
		t.Errorf("write: got %+v, want {60 40}", e.out.Writes[0])
	}

	if len(e.pub.LevelEvents) != 1 {
		t.Fatalf("level events: got %d, want 1", len(e.pub.LevelEvents))
	}
	ev := e.pub.LevelEvents[0]
	if ev.A != 60 || ev.B != 40 || ev.Source != "schedule" {
		t.Errorf("event: got %+v", ev)
	}

	var payload mqtt.Payload
	if err := json.Unmarshal(e.pub.LevelPayloads[0], &payload); err != nil {
		t.Fatalf("payload: invalid JSON: %v", err)
	}
	if payload.Lamps.A.Level != 60 || payload.Lamps.B.Level != 40 {
		t.Errorf("payload levels: got %+v", payload.Lamps)
	}
	if payload.Lamps.Timestamp == "" {
		t.Error("payload: missing timestamp")
	}

	// The configuration endpoint echoes the stored table back with a
	// trailing separator.
	conf := e.get(t, "/getconf")
	if !strings.HasPrefix(conf, "0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,60,40,") {
		t.Errorf("getconf: got %q", conf)
	}
	if !strings.HasSuffix(conf, ",") {
		t.Errorf("getconf: missing trailing comma: %q", conf)
	}
}

// TestIntegrationOverrideCycle forces levels over HTTP and then cancels
// them with a new schedule.
func TestIntegrationOverrideCycle(t *testing.T) {
	e := newEnv(t, store.NewFakeStore(store.Record{}), time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))

	e.get(t, "/overrule?level=25,75")
	e.tick(t)

	if e.out.Last() != (pwm.Write{A: 25, B: 75}) {
		t.Fatalf("override write: got %+v, want {25 75}", e.out.Last())
	}
	if e.pub.LevelEvents[len(e.pub.LevelEvents)-1].Source != "override" {
		t.Errorf("source: got %q, want override", e.pub.LevelEvents[len(e.pub.LevelEvents)-1].Source)
	}

	// Uploading a schedule cancels the override.
	e.get(t, "/setconf?conf=0,0")
	e.tick(t)

	if e.out.Last() != (pwm.Write{A: 0, B: 0}) {
		t.Errorf("post-setconf write: got %+v, want {0 0}", e.out.Last())
	}
}

// TestIntegrationSchedulePersists reopens the settings file and checks the
// uploaded table comes back.
func TestIntegrationSchedulePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.bin")

	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	e := newEnv(t, st, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	e.get(t, "/setconf?conf=1,2,3,4")
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	st2, err := store.Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer st2.Close()

	ctrl, err := schedule.NewController(st2)
	if err != nil {
		t.Fatalf("NewController after reopen: %v", err)
	}
	if got := ctrl.Dump(); !strings.HasPrefix(got, "1,2,3,4,0,") {
		t.Errorf("reloaded table: got %q", got)
	}
}

// TestIntegrationLogStream checks that loop activity shows up on the
// chunked /logging endpoint.
func TestIntegrationLogStream(t *testing.T) {
	e := newEnv(t, store.NewFakeStore(store.Record{}), time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))

	e.get(t, "/overrule?level=10,10")
	e.tick(t)

	body := e.get(t, "/logging")
	if !strings.Contains(body, "lamps A=10% B=10% (override)") {
		t.Errorf("log stream missing lamp line: %q", body)
	}
	// Lines carry the tick clock's local time prefix.
	if !strings.Contains(body, "12:00:01 - ") {
		t.Errorf("log stream missing time prefix: %q", body)
	}
}

// TestIntegrationSummerTimeSync syncs the clock from a UTC source on both
// sides of the October changeover and checks the resolved hour follows
// local time.
func TestIntegrationSummerTimeSync(t *testing.T) {
	var rec store.Record
	rec[logic.Slot(2, logic.ChannelA)] = 11
	rec[logic.Slot(3, logic.ChannelA)] = 22

	e := newEnv(t, store.NewFakeStore(rec), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	// 2026-10-24 01:00 UTC is still summer time: 03:00 local.
	e.clk.Sync(time.Date(2026, 10, 24, 1, 0, 0, 0, time.UTC))
	e.tick(t)
	if e.out.Last().A != 22 {
		t.Errorf("summer: got A=%d, want 22", e.out.Last().A)
	}

	// A week later the same UTC instant is winter time: 02:00 local.
	e.clk.Sync(time.Date(2026, 10, 31, 1, 0, 0, 0, time.UTC))
	e.tick(t)
	if e.out.Last().A != 11 {
		t.Errorf("winter: got A=%d, want 11", e.out.Last().A)
	}
}
