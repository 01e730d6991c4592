package scraper

import (
	"sync"

	"github.com/Cofre-dev/BotBoletas/pkg/models"
	"github.com/charmbracelet/log"
)

// Notificador recibe los eventos del proceso: mensajes de bitácora y
// transiciones de estado por empresa. Es fire-and-forget, el bot no
// espera confirmación.
type Notificador interface {
	Log(tipo, mensaje string)
	EstadoEmpresa(id int, estado string)
}

// AlmacenResultados persiste el resultado de una empresa. Se escribe
// exactamente una vez por empresa dentro de un lote; reprocesar una
// empresa sobreescribe lo anterior.
type AlmacenResultados interface {
	Guardar(empresaID int, resultado *models.ResultadoEmpresa) error
}

type notificadorNulo struct{}

func (notificadorNulo) Log(tipo, mensaje string)       {}
func (notificadorNulo) EstadoEmpresa(id int, e string) {}

// NotificadorNulo descarta todos los eventos
func NotificadorNulo() Notificador { return notificadorNulo{} }

// NotificadorLog reenvía los eventos a un logger estructurado. Lo usan
// los comandos de línea que no tienen interfaz web escuchando.
type NotificadorLog struct {
	Logger *log.Logger
}

func (n *NotificadorLog) Log(tipo, mensaje string) {
	switch tipo {
	case "error":
		n.Logger.Error(mensaje)
	case "warning":
		n.Logger.Warn(mensaje)
	default:
		n.Logger.Info(mensaje)
	}
}

func (n *NotificadorLog) EstadoEmpresa(id int, estado string) {
	n.Logger.Info("estado de empresa", "id", id, "estado", estado)
}

// AlmacenMemoria guarda los resultados en un mapa en memoria
type AlmacenMemoria struct {
	mu         sync.RWMutex
	resultados map[int]*models.ResultadoEmpresa
}

func NewAlmacenMemoria() *AlmacenMemoria {
	return &AlmacenMemoria{resultados: make(map[int]*models.ResultadoEmpresa)}
}

func (a *AlmacenMemoria) Guardar(empresaID int, resultado *models.ResultadoEmpresa) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resultados[empresaID] = resultado
	return nil
}

// Obtener devuelve el resultado de una empresa, si existe
func (a *AlmacenMemoria) Obtener(empresaID int) (*models.ResultadoEmpresa, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	r, ok := a.resultados[empresaID]
	return r, ok
}

// Todos devuelve una copia del mapa de resultados
func (a *AlmacenMemoria) Todos() map[int]*models.ResultadoEmpresa {
	a.mu.RLock()
	defer a.mu.RUnlock()
	copia := make(map[int]*models.ResultadoEmpresa, len(a.resultados))
	for k, v := range a.resultados {
		copia[k] = v
	}
	return copia
}

// Limpiar descarta los resultados acumulados (nueva nómina cargada)
func (a *AlmacenMemoria) Limpiar() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resultados = make(map[int]*models.ResultadoEmpresa)
}
