// Package trend genera series de stock de demostración. No hay histórico de niveles de stock
// persistido; la serie se simula con un paseo aleatorio a partir de la cantidad actual.
package trend

import (
	"math/rand"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/domain/entity"
)

// maxStep variación máxima diaria (en unidades) del paseo aleatorio.
const maxStep = 5

// RandomWalk implementa usecase.TrendSource.
type RandomWalk struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomWalk crea el generador. Con la misma semilla produce la misma serie.
func NewRandomWalk(seed int64) *RandomWalk {
	return &RandomWalk{rnd: rand.New(rand.NewSource(seed))}
}

// Trend genera days puntos por producto terminando en end. El stock nunca baja de 0.
func (w *RandomWalk) Trend(products []*entity.Product, days int, end time.Time) []dto.StockTrendPoint {
	w.mu.Lock()
	defer w.mu.Unlock()

	points := make([]dto.StockTrendPoint, 0, len(products)*days)
	for _, p := range products {
		level := p.Quantity
		for i := 0; i < days; i++ {
			date := end.AddDate(0, 0, -(days - 1 - i))
			level += int64(w.rnd.Intn(2*maxStep+1) - maxStep)
			if level < 0 {
				level = 0
			}
			points = append(points, dto.StockTrendPoint{
				Date:        date.Format("2006-01-02"),
				ProductID:   p.ID,
				ProductName: p.Name,
				StockLevel:  level,
			})
		}
	}
	return points
}
