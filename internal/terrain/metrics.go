package terrain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const materialLabel = "material"

// Metrics counts terrain work across every surface that shares it.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gridGrows       prometheus.Counter
	cellsRasterized prometheus.Counter
	cellsDug        *prometheus.CounterVec
	cellsEmitted    *prometheus.CounterVec
	rejectedWrites  prometheus.Counter
}

// NewMetrics creates the terrain collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gridGrows: f.NewCounter(prometheus.CounterOpts{
			Name: "terrain_grid_grows_total",
			Help: "The number of terrain grid buffer reallocations.",
		}),
		cellsRasterized: f.NewCounter(prometheus.CounterOpts{
			Name: "terrain_cells_rasterized_total",
			Help: "The number of solid cells produced by polygon rasterization.",
		}),
		cellsDug: f.NewCounterVec(prometheus.CounterOpts{
			Name: "terrain_cells_dug_total",
			Help: "The number of solid cells removed by digging.",
		}, []string{materialLabel}),
		cellsEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "terrain_cells_emitted_total",
			Help: "The number of cells filled by emitting material.",
		}, []string{materialLabel}),
		rejectedWrites: f.NewCounter(prometheus.CounterOpts{
			Name: "terrain_rejected_writes_total",
			Help: "The number of cell writes rejected for exceeding the grid extent.",
		}),
	}
}

func (m *Metrics) grew() {
	if m != nil {
		m.gridGrows.Inc()
	}
}

func (m *Metrics) rasterized(n int) {
	if m != nil {
		m.cellsRasterized.Add(float64(n))
	}
}

func (m *Metrics) dug(c Cell, n int) {
	if m != nil {
		m.cellsDug.WithLabelValues(c.String()).Add(float64(n))
	}
}

func (m *Metrics) emitted(c Cell, n int) {
	if m != nil && n > 0 {
		m.cellsEmitted.WithLabelValues(c.String()).Add(float64(n))
	}
}

func (m *Metrics) rejected() {
	if m != nil {
		m.rejectedWrites.Inc()
	}
}
