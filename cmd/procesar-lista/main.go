// Procesa una nómina de empresas de punta a punta sin interfaz web:
// lee el xlsx, corre el lote contra el portal y deja el informe y los
// JSON por empresa en el directorio de salida. Si hay una base de datos
// o un bucket configurados, también persiste ahí.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Cofre-dev/BotBoletas/pkg/config"
	"github.com/Cofre-dev/BotBoletas/pkg/database"
	"github.com/Cofre-dev/BotBoletas/pkg/excel"
	"github.com/Cofre-dev/BotBoletas/pkg/models"
	"github.com/Cofre-dev/BotBoletas/pkg/scraper"
	"github.com/Cofre-dev/BotBoletas/pkg/storage"
	"github.com/charmbracelet/log"
)

// almacenDoble replica cada resultado en memoria y en la base de datos
type almacenDoble struct {
	memoria *scraper.AlmacenMemoria
	db      scraper.AlmacenResultados
}

func (a *almacenDoble) Guardar(empresaID int, resultado *models.ResultadoEmpresa) error {
	if err := a.memoria.Guardar(empresaID, resultado); err != nil {
		return err
	}
	if a.db != nil {
		return a.db.Guardar(empresaID, resultado)
	}
	return nil
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "procesar-lista",
	})

	var (
		rutaNomina = flag.String("nomina", "empresas.xlsx", "Archivo xlsx con la nómina (nombre, RUT, clave)")
		salida     = flag.String("o", "", "Directorio de salida (por defecto el configurado)")
	)
	flag.Parse()

	cfg := config.Cargar()
	if *salida != "" {
		cfg.DirSalida = *salida
	}

	f, err := os.Open(*rutaNomina)
	if err != nil {
		logger.Fatal("no se pudo abrir la nómina", "archivo", *rutaNomina, "err", err)
	}
	empresas, err := excel.LeerNomina(f)
	f.Close()
	if err != nil {
		logger.Fatal("nómina inválida", "archivo", *rutaNomina, "err", err)
	}
	if len(empresas) == 0 {
		logger.Fatal("la nómina no tiene empresas válidas", "archivo", *rutaNomina)
	}
	logger.Info("nómina cargada", "empresas", len(empresas))

	memoria := scraper.NewAlmacenMemoria()
	almacen := &almacenDoble{memoria: memoria}

	if cfg.DatabaseURL != "" {
		ds, err := database.NewDatabaseService(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("no se pudo conectar a la base de datos", "err", err)
		}
		defer ds.Close()
		if err := ds.CrearEsquema(); err != nil {
			logger.Fatal("no se pudo preparar el esquema", "err", err)
		}
		almacen.db = database.NuevoAlmacen(ds, empresas)
		logger.Info("resultados también se guardarán en PostgreSQL")
	}

	notif := &scraper.NotificadorLog{Logger: logger}
	bot := scraper.New(cfg, logger, notif)
	lote := scraper.NewControladorLote(bot, almacen, notif, logger)

	// Ctrl+C detiene el lote al terminar la empresa en curso
	ctx := context.Background()
	interrupciones := make(chan os.Signal, 1)
	signal.Notify(interrupciones, os.Interrupt)
	go func() {
		<-interrupciones
		logger.Warn("interrupción recibida, deteniendo el lote")
		lote.Detener()
	}()

	completadas := lote.Procesar(ctx, empresas)

	if err := os.MkdirAll(cfg.DirSalida, 0o755); err != nil {
		logger.Fatal("no se pudo crear el directorio de salida", "dir", cfg.DirSalida, "err", err)
	}

	resultados := memoria.Todos()
	for _, empresa := range empresas {
		resultado, ok := resultados[empresa.ID]
		if !ok {
			continue
		}
		nombre := filepath.Join(cfg.DirSalida, fmt.Sprintf("empresa_%d.json", empresa.ID))
		datos, err := json.MarshalIndent(resultado, "", "  ")
		if err != nil {
			logger.Error("no se pudo serializar el resultado", "empresa", empresa.Nombre, "err", err)
			continue
		}
		if err := os.WriteFile(nombre, datos, 0o644); err != nil {
			logger.Error("no se pudo escribir el JSON", "archivo", nombre, "err", err)
		}
	}

	if len(resultados) > 0 {
		anio, err := strconv.Atoi(cfg.AnioConsulta)
		if err != nil {
			anio = time.Now().Year()
		}
		informe, err := excel.GenerarReporte(empresas, resultados, anio)
		if err != nil {
			logger.Fatal("no se pudo generar el informe", "err", err)
		}
		nombre := fmt.Sprintf("Boletas_SII_%s.xlsx", time.Now().Format("2006-01-02"))
		ruta := filepath.Join(cfg.DirSalida, nombre)
		if err := informe.SaveAs(ruta); err != nil {
			logger.Fatal("no se pudo escribir el informe", "ruta", ruta, "err", err)
		}
		logger.Info("informe generado", "ruta", ruta)

		if cfg.BucketGCS != "" {
			uri, err := storage.SubirArchivo(ctx, cfg.BucketGCS, nombre, ruta)
			if err != nil {
				logger.Error("no se pudo subir el informe al bucket", "bucket", cfg.BucketGCS, "err", err)
			} else {
				logger.Info("informe subido", "uri", uri)
			}
		}
	}

	logger.Info("proceso terminado", "completadas", completadas, "total", len(empresas))
}
