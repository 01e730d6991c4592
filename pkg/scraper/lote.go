package scraper

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/Cofre-dev/BotBoletas/pkg/models"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ProcesadorEmpresas es lo que el controlador de lote necesita de un
// scraper. Permite probar el lote sin navegador.
type ProcesadorEmpresas interface {
	ProcesarEmpresa(ctx context.Context, empresa *models.Empresa) (*models.ResultadoEmpresa, error)
	Close()
}

// ControladorLote procesa una nómina de empresas en forma secuencial
// sobre una única sesión de navegador. La detención es cooperativa: se
// revisa entre empresas, nunca a mitad de una.
type ControladorLote struct {
	procesador ProcesadorEmpresas
	almacen    AlmacenResultados
	notif      Notificador
	logger     *log.Logger
	detenido   atomic.Bool
}

func NewControladorLote(procesador ProcesadorEmpresas, almacen AlmacenResultados, notif Notificador, logger *log.Logger) *ControladorLote {
	if notif == nil {
		notif = NotificadorNulo()
	}
	return &ControladorLote{
		procesador: procesador,
		almacen:    almacen,
		notif:      notif,
		logger:     logger,
	}
}

// Detener marca el lote para que no tome más empresas. La empresa en
// curso termina sus cuatro consultas de todas formas.
func (c *ControladorLote) Detener() {
	c.detenido.Store(true)
}

// Procesar recorre las empresas en el orden de la nómina. Una empresa
// fallida se marca en error y el lote sigue con la siguiente; si la
// falla dejó resultado parcial, igual se guarda. Devuelve cuántas
// empresas quedaron completadas.
func (c *ControladorLote) Procesar(ctx context.Context, empresas []*models.Empresa) int {
	idLote := uuid.NewString()
	c.detenido.Store(false)
	c.logger.Info("iniciando lote", "id", idLote, "empresas", len(empresas))
	c.notif.Log("info", fmt.Sprintf("🚀 Iniciando procesamiento de %d empresas", len(empresas)))

	completadas := 0
	for _, empresa := range empresas {
		if c.detenido.Load() || ctx.Err() != nil {
			c.notif.Log("warning", "⏹️ Procesamiento detenido por el usuario")
			break
		}

		empresa.CambiarEstado(models.EstadoProcesando)
		c.notif.EstadoEmpresa(empresa.ID, models.EstadoProcesando)
		c.notif.Log("info", fmt.Sprintf("🏢 Procesando: %s (%s)", empresa.Nombre, empresa.Rut))

		resultado, err := c.procesador.ProcesarEmpresa(ctx, empresa)
		if err != nil {
			empresa.CambiarEstado(models.EstadoError)
			c.notif.EstadoEmpresa(empresa.ID, models.EstadoError)
			c.notif.Log("error", fmt.Sprintf("❌ Error en %s: %v", empresa.Nombre, err))
			c.logger.Error("empresa fallida", "empresa", empresa.Nombre, "err", err)

			// lo extraído antes de la falla se conserva
			if resultado != nil {
				c.guardar(empresa, resultado)
			}
			continue
		}

		c.guardar(empresa, resultado)
		empresa.CambiarEstado(models.EstadoCompletado)
		completadas++
		c.notif.EstadoEmpresa(empresa.ID, models.EstadoCompletado)
		c.notif.Log("success", fmt.Sprintf("✅ Completado: %s", empresa.Nombre))
	}

	c.procesador.Close()
	c.logger.Info("lote terminado", "id", idLote, "completadas", completadas, "total", len(empresas))
	c.notif.Log("info", fmt.Sprintf("🏁 Procesamiento finalizado: %d/%d empresas", completadas, len(empresas)))
	return completadas
}

func (c *ControladorLote) guardar(empresa *models.Empresa, resultado *models.ResultadoEmpresa) {
	if c.almacen == nil {
		return
	}
	if err := c.almacen.Guardar(empresa.ID, resultado); err != nil {
		c.logger.Error("no se pudo guardar el resultado", "empresa", empresa.Nombre, "err", err)
	}
}
