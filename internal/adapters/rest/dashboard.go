package rest

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

// cardPalette maps sensor colors to the card background used on the
// dashboard.
var cardPalette = map[string]string{
	"Red":     "#FF4B4B",
	"Green":   "#4BFF4B",
	"Black":   "#222222",
	"Purple":  "#A020F0",
	"Orange":  "#FFA500",
	"Blue":    "#4B4BFF",
	"Yellow":  "#FFFF4B",
	"Pink":    "#FF69B4",
	"Unknown": "#CCCCCC",
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Tilt Hydrometer Dashboard</title>
    <meta http-equiv="refresh" content="2">
    <style>
        body { background: #222; color: #fff; font-family: Helvetica, Arial, sans-serif; }
        .tilt-card {
            margin: 20px auto; padding: 30px; border-radius: 20px;
            width: 80%; max-width: 600px; text-align: center;
            box-shadow: 0 4px 24px rgba(0,0,0,0.2);
        }
        .tilt-title { font-size: 3em; font-weight: bold; margin-bottom: 10px; }
        .tilt-values { font-size: 2em; }
        .tilt-meta { font-size: 1em; opacity: 0.8; margin-top: 10px; }
        .empty { text-align: center; margin-top: 40px; }
    </style>
</head>
<body>
    <h1 style="text-align:center;">Tilt Hydrometer Dashboard</h1>
    {{range .Devices}}
        <div class="tilt-card" style="background: {{.Background}}; color: #fff;">
            <div class="tilt-title">{{.Color}}</div>
            <div class="tilt-values">Temp: {{printf "%.1f" .TemperatureC}}&deg;C &nbsp; Gravity: {{printf "%.3f" .SpecificGravity}}</div>
            <div class="tilt-meta">Last seen {{.LastSeen}}</div>
        </div>
    {{else}}
        <div class="empty">No Tilt devices found.</div>
    {{end}}
</body>
</html>
`))

type dashboardCard struct {
	Color           string
	Background      string
	TemperatureC    float64
	SpecificGravity float64
	LastSeen        string
}

func (h *Handler) serveDashboard(w http.ResponseWriter, r *http.Request) {
	records, err := h.registry.SnapshotAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to snapshot registry")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	cards := make([]dashboardCard, 0, len(records))
	for _, record := range records {
		cards = append(cards, dashboardCard{
			Color:           record.Reading.Color,
			Background:      cardBackground(record.Reading.Color),
			TemperatureC:    record.Reading.TemperatureC,
			SpecificGravity: record.Reading.SpecificGravity,
			LastSeen:        record.LastSeen.Format("2006-01-02 15:04:05"),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, struct{ Devices []dashboardCard }{cards}); err != nil {
		log.Debug().Err(err).Msg("failed to render dashboard")
	}
}

func cardBackground(color string) string {
	if bg, ok := cardPalette[color]; ok {
		return bg
	}
	return cardPalette["Unknown"]
}
