// Package server expone el bot como un servicio web: carga de nómina,
// arranque y detención del lote, sondeo de avance y exportación del
// informe.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/Cofre-dev/BotBoletas/pkg/config"
	"github.com/Cofre-dev/BotBoletas/pkg/excel"
	"github.com/Cofre-dev/BotBoletas/pkg/models"
	"github.com/Cofre-dev/BotBoletas/pkg/scraper"
	"github.com/Cofre-dev/BotBoletas/pkg/storage"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// FabricaProcesador crea el procesador que usa cada lote. En producción
// devuelve el scraper real; las pruebas inyectan uno simulado.
type FabricaProcesador func(notif scraper.Notificador) scraper.ProcesadorEmpresas

// Servidor mantiene el estado compartido entre peticiones: la nómina
// cargada, los resultados en memoria y el lote en curso si lo hay.
type Servidor struct {
	cfg      *config.Config
	logger   *log.Logger
	fabrica  FabricaProcesador
	bitacora *Bitacora
	almacen  *scraper.AlmacenMemoria

	mu         sync.Mutex
	empresas   []*models.Empresa
	lote       *scraper.ControladorLote
	procesando bool
}

func New(cfg *config.Config, logger *log.Logger, fabrica FabricaProcesador) *Servidor {
	if fabrica == nil {
		fabrica = func(notif scraper.Notificador) scraper.ProcesadorEmpresas {
			return scraper.New(cfg, logger, notif)
		}
	}
	return &Servidor{
		cfg:      cfg,
		logger:   logger,
		fabrica:  fabrica,
		bitacora: NuevaBitacora(500),
		almacen:  scraper.NewAlmacenMemoria(),
	}
}

// Router arma el enrutador con todos los endpoints del servicio
func (s *Servidor) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/upload", s.subirNomina)
	r.GET("/empresas", s.listarEmpresas)
	r.POST("/procesar", s.iniciarProceso)
	r.POST("/stop", s.detenerProceso)
	r.GET("/status", s.estado)
	r.GET("/logs", s.eventos)
	r.GET("/resultados/:empresaId", s.resultadoEmpresa)
	r.GET("/exportar", s.exportar)

	return r
}

// Run levanta el servidor HTTP en el puerto configurado
func (s *Servidor) Run() error {
	s.logger.Info("servidor iniciado", "puerto", s.cfg.Puerto)
	return s.Router().Run(":" + s.cfg.Puerto)
}

// subirNomina recibe el xlsx de empresas y reemplaza la nómina actual.
// Cargar una nómina nueva descarta los resultados anteriores.
func (s *Servidor) subirNomina(c *gin.Context) {
	archivo, err := c.FormFile("excelFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No se subió ningún archivo"})
		return
	}

	f, err := archivo.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar el archivo Excel"})
		return
	}
	defer f.Close()

	empresas, err := excel.LeerNomina(f)
	if err != nil {
		s.logger.Error("nómina inválida", "archivo", archivo.Filename, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar el archivo Excel"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.procesando {
		c.JSON(http.StatusConflict, gin.H{"error": "Hay un procesamiento en curso"})
		return
	}
	s.empresas = empresas
	s.almacen.Limpiar()

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"totalEmpresas": len(empresas),
		"empresas":      resumenes(empresas),
	})
}

func (s *Servidor) listarEmpresas(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"empresas":      resumenes(s.empresas),
		"totalEmpresas": len(s.empresas),
	})
}

// iniciarProceso arranca el lote en segundo plano
func (s *Servidor) iniciarProceso(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.procesando {
		c.JSON(http.StatusConflict, gin.H{"error": "Ya hay un procesamiento en curso"})
		return
	}
	if len(s.empresas) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No hay empresas cargadas"})
		return
	}

	procesador := s.fabrica(s.bitacora)
	s.lote = scraper.NewControladorLote(procesador, s.almacen, s.bitacora, s.logger)
	s.procesando = true

	empresas := s.empresas
	lote := s.lote
	go func() {
		lote.Procesar(context.Background(), empresas)
		s.mu.Lock()
		s.procesando = false
		s.mu.Unlock()
	}()

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// detenerProceso pide la detención cooperativa del lote. La empresa en
// curso termina antes de que el lote pare de verdad.
func (s *Servidor) detenerProceso(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lote != nil {
		s.lote.Detener()
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Servidor) estado(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"isProcessing": s.procesando,
		"empresas":     resumenes(s.empresas),
	})
}

func (s *Servidor) eventos(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"eventos": s.bitacora.Eventos()})
}

func (s *Servidor) resultadoEmpresa(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("empresaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	resultado, ok := s.almacen.Obtener(id)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "No hay datos disponibles para esta empresa"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resultado})
}

// exportar genera el informe xlsx con lo acumulado y lo descarga. Si
// hay un bucket configurado, además sube una copia.
func (s *Servidor) exportar(c *gin.Context) {
	s.mu.Lock()
	empresas := s.empresas
	s.mu.Unlock()

	anio, err := strconv.Atoi(s.cfg.AnioConsulta)
	if err != nil {
		anio = time.Now().Year()
	}

	informe, err := excel.GenerarReporte(empresas, s.almacen.Todos(), anio)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al generar el archivo Excel"})
		return
	}

	if err := os.MkdirAll(s.cfg.DirSalida, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al generar el archivo Excel"})
		return
	}

	nombre := fmt.Sprintf("Boletas_SII_%s.xlsx", time.Now().Format("2006-01-02"))
	ruta := filepath.Join(s.cfg.DirSalida, nombre)
	if err := informe.SaveAs(ruta); err != nil {
		s.logger.Error("no se pudo escribir el informe", "ruta", ruta, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al generar el archivo Excel"})
		return
	}

	if s.cfg.BucketGCS != "" {
		uri, err := storage.SubirArchivo(c.Request.Context(), s.cfg.BucketGCS, nombre, ruta)
		if err != nil {
			s.logger.Error("no se pudo subir el informe al bucket", "bucket", s.cfg.BucketGCS, "err", err)
		} else {
			s.logger.Info("informe subido", "uri", uri)
		}
	}

	c.FileAttachment(ruta, nombre)
}

func resumenes(empresas []*models.Empresa) []models.EmpresaResumen {
	vistas := make([]models.EmpresaResumen, 0, len(empresas))
	for _, e := range empresas {
		vistas = append(vistas, e.Resumen())
	}
	return vistas
}
