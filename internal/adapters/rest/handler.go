package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/quentinrf/tilt-monitor/internal/domain"
)

// Handler serves the read-only presentation surface: JSON API, HTML
// dashboard and websocket push. It only ever reads registry snapshots.
type Handler struct {
	registry domain.DeviceRegistry
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates a handler. hub may be nil to disable /ws.
func NewHandler(registry domain.DeviceRegistry, hub *Hub) *Handler {
	return &Handler{
		registry: registry,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Router wires the routes.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", h.serveDashboard)
	r.Get("/api/devices", h.listDevices)
	r.Get("/api/devices/{deviceID}/history", h.deviceHistory)
	if h.hub != nil {
		r.Get("/ws", h.serveWebsocket)
	}

	return r
}

// deviceJSON is the wire shape of one device record.
type deviceJSON struct {
	DeviceID        string  `json:"deviceId"`
	Color           string  `json:"color"`
	TemperatureF    int     `json:"temperatureF"`
	TemperatureC    float64 `json:"temperatureC"`
	SpecificGravity float64 `json:"specificGravity"`
	BatteryWeeks    *int    `json:"batteryWeeks"`
	TxPower         int8    `json:"txPower"`
	Signal          *int    `json:"signal"`
	RawHex          string  `json:"rawHex"`
	LastSeen        string  `json:"lastSeen"`
}

// sampleJSON is the wire shape of one history point, millisecond
// timestamps for charting libraries.
type sampleJSON struct {
	TimestampMillis int64   `json:"timestampMillis"`
	TemperatureC    float64 `json:"temperatureC"`
	SpecificGravity float64 `json:"specificGravity"`
}

func deviceToJSON(record domain.DeviceRecord) deviceJSON {
	return deviceJSON{
		DeviceID:        record.DeviceID,
		Color:           record.Reading.Color,
		TemperatureF:    record.Reading.TemperatureF,
		TemperatureC:    record.Reading.TemperatureC,
		SpecificGravity: record.Reading.SpecificGravity,
		BatteryWeeks:    record.Reading.BatteryWeeks,
		TxPower:         record.Reading.TxPower,
		Signal:          record.Signal,
		RawHex:          record.RawHex,
		LastSeen:        record.LastSeen.Format("2006-01-02 15:04:05"),
	}
}

func (h *Handler) listDevices(w http.ResponseWriter, r *http.Request) {
	records, err := h.registry.SnapshotAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to snapshot registry")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	devices := make([]deviceJSON, 0, len(records))
	for _, record := range records {
		devices = append(devices, deviceToJSON(record))
	}

	writeJSON(w, devices)
}

func (h *Handler) deviceHistory(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	samples, err := h.registry.HistoryOf(r.Context(), deviceID)
	if err != nil {
		log.Error().Err(err).Str("device_id", deviceID).Msg("failed to read history")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	points := make([]sampleJSON, 0, len(samples))
	for _, sample := range samples {
		points = append(points, sampleJSON{
			TimestampMillis: sample.Time.UnixMilli(),
			TemperatureC:    sample.TemperatureC,
			SpecificGravity: sample.SpecificGravity,
		})
	}

	writeJSON(w, points)
}

func (h *Handler) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{hub: h.hub, conn: conn, send: make(chan []byte, 16)}
	h.hub.register <- c

	go c.writePump()
	go c.readPump()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}
