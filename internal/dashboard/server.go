package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/observability/metrics"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/service"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/simulation"
)

const (
	savedMessage = "Pengaturan berhasil disimpan!"
	clockLayout  = "15.04.05"

	defaultWriteWait = 10 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EnergyAPI is the subset of Client the dashboard needs.
type EnergyAPI interface {
	Health(ctx context.Context) error
	Energy(ctx context.Context) (*service.Overview, error)
	Chart(ctx context.Context) ([]domain.HourlySample, error)
	Backend(ctx context.Context) (*domain.BackendInfo, error)
	UpdateSettings(ctx context.Context, s domain.Settings) (*domain.Settings, error)
}

type Server struct {
	mux       *http.ServeMux
	tmpl      *template.Template
	api       EnergyAPI
	state     *State
	tick      time.Duration
	now       func() time.Time
	writeWait time.Duration
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan any
}

func New(api EnergyAPI, tick time.Duration) *Server {
	funcMap := template.FuncMap{
		"toJSON": toJSON,
		"watts": func(w float64) string {
			return strconv.FormatFloat(w, 'f', -1, 64)
		},
		"kw": func(w float64) string {
			return strconv.FormatFloat(w/1000, 'f', 1, 64)
		},
	}

	tmpl := template.Must(template.New("base").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"))

	s := &Server{
		mux:       http.NewServeMux(),
		tmpl:      tmpl,
		api:       api,
		state:     NewState(time.Now()),
		tick:      tick,
		now:       time.Now,
		writeWait: defaultWriteWait,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan any, 256),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	static, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/ws/energy", s.handleWebSocket)
	s.mux.HandleFunc("/", s.handleDashboard)
	s.mux.HandleFunc("/settings", s.handleSettings)
	s.mux.HandleFunc("/settings/open", s.handleOpenSettings)
	s.mux.HandleFunc("/settings/close", s.handleCloseSettings)
	s.mux.HandleFunc("/devices/select", s.handleSelectDevice)
	s.mux.HandleFunc("/theme/toggle", s.handleToggleTheme)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) State() *State { return s.state }

// Run drives the clock and pushes updates until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.handleBroadcast(ctx)
		close(done)
	}()
	s.periodicUpdate(ctx)
	<-done
	s.closeClients()
}

func (s *Server) periodicUpdate(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			payload, err := s.refresh(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("dashboard refresh failed")
				continue
			}
			s.publish(map[string]any{"type": "update", "data": payload})
		}
	}
}

// refresh advances the clock and recomputes the live figures.
func (s *Server) refresh(ctx context.Context) (*Update, error) {
	view := s.state.Tick(s.now())

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ov, err := s.api.Energy(reqCtx)
	if err != nil {
		return nil, err
	}
	return newUpdate(ov, view), nil
}

func (s *Server) publish(msg any) {
	select {
	case s.broadcast <- msg:
	default:
		log.Warn().Msg("dashboard broadcast queue full, dropping update")
	}
}

func (s *Server) handleBroadcast(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.broadcast:
			s.clientsMu.Lock()
			for conn := range s.clients {
				if err := s.writeJSON(conn, msg); err != nil {
					conn.Close()
					delete(s.clients, conn)
				}
			}
			metrics.SetWSClients(len(s.clients))
			s.clientsMu.Unlock()
		}
	}
}

// writeJSON bounds each write so a stalled browser is dropped instead of
// holding clientsMu.
func (s *Server) writeJSON(conn *websocket.Conn, msg any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(s.writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
	metrics.SetWSClients(0)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade error")
		return
	}

	first := map[string]any{"type": "init"}
	if payload, err := s.refresh(r.Context()); err == nil {
		first["data"] = payload
	}

	// The first frame goes out before the connection joins the broadcast set
	// so writes never interleave.
	s.clientsMu.Lock()
	if err := s.writeJSON(conn, first); err != nil {
		s.clientsMu.Unlock()
		conn.Close()
		return
	}
	s.clients[conn] = true
	metrics.SetWSClients(len(s.clients))
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		if s.clients[conn] {
			delete(s.clients, conn)
			conn.Close()
		}
		metrics.SetWSClients(len(s.clients))
		s.clientsMu.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": s.status(ctx)})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	view := s.state.Snapshot()
	data := map[string]any{
		"Title":     "Home Energy Monitor",
		"View":      view,
		"Clock":     view.Now.Format(clockLayout),
		"Tips":      simulation.Tips(),
		"APIStatus": s.status(ctx),
	}

	ov, err := s.api.Energy(ctx)
	if err != nil {
		log.Error().Err(err).Msg("energy fetch failed")
	} else {
		data["Update"] = newUpdate(ov, view)
	}
	if chart, err := s.api.Chart(ctx); err == nil {
		data["ChartJSON"] = toJSON(chart)
	}
	if backend, err := s.api.Backend(ctx); err == nil {
		data["Backend"] = backend
	}

	s.render(w, "dashboard.html", data)

	// A flash message is shown once.
	if view.Flash != "" {
		s.state.ClearFlashIf(view)
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	next, err := parseSettingsForm(r)
	if err == nil {
		_, err = s.api.UpdateSettings(ctx, next)
	}
	if err != nil {
		log.Info().Err(err).Msg("settings rejected")
		msg := "Gagal menyimpan pengaturan"
		if errors.Is(err, domain.ErrInvalidSettings) {
			msg = err.Error()
		}
		s.state.SettingsRejected(msg)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.state.SettingsSaved(savedMessage)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// parseSettingsForm rejects non-numeric input instead of coercing it.
func parseSettingsForm(r *http.Request) (domain.Settings, error) {
	if err := r.ParseForm(); err != nil {
		return domain.Settings{}, err
	}
	cost, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("costPerKwh")), 64)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("%w: tarif per kWh harus berupa angka", domain.ErrInvalidSettings)
	}
	limit, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("powerLimit")), 64)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("%w: batas daya harus berupa angka", domain.ErrInvalidSettings)
	}
	s := domain.Settings{
		HomeName:        strings.TrimSpace(r.PostFormValue("homeName")),
		CostPerKWh:      cost,
		PowerLimitWatts: limit,
	}
	return s, s.Validate()
}

func (s *Server) handleOpenSettings(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func() { s.state.OpenSettings() })
}

func (s *Server) handleCloseSettings(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func() { s.state.CloseSettings() })
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func() { s.state.ToggleDarkMode() })
}

func (s *Server) handleSelectDevice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	if _, err := simulation.FindDevice(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.mutate(w, r, func() { s.state.SelectDevice(id) })
}

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func()) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	fn()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) status(ctx context.Context) string {
	if err := s.api.Health(ctx); err == nil {
		return "online"
	}
	return "offline"
}

func toJSON(v any) template.JS {
	b, _ := json.Marshal(v)
	return template.JS(b)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render error")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
