package scraper

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Cofre-dev/BotBoletas/pkg/models"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// procesadorFalso simula el scraper: devuelve respuestas preparadas por
// RUT y registra el orden en que se le pidieron las empresas.
type procesadorFalso struct {
	respuestas map[string]respuestaFalsa
	procesadas []string
	alProcesar func(empresa *models.Empresa)
	cerrado    bool
}

type respuestaFalsa struct {
	resultado *models.ResultadoEmpresa
	err       error
}

func (p *procesadorFalso) ProcesarEmpresa(ctx context.Context, empresa *models.Empresa) (*models.ResultadoEmpresa, error) {
	p.procesadas = append(p.procesadas, empresa.Rut)
	if p.alProcesar != nil {
		p.alProcesar(empresa)
	}
	r := p.respuestas[empresa.Rut]
	return r.resultado, r.err
}

func (p *procesadorFalso) Close() { p.cerrado = true }

func loggerSilencioso() *log.Logger {
	return log.New(io.Discard)
}

func nominaDePrueba() []*models.Empresa {
	return []*models.Empresa{
		models.NuevaEmpresa(1, "Empresa Uno", "11.111.111-1", "x"),
		models.NuevaEmpresa(2, "Empresa Dos", "22.222.222-2", "x"),
		models.NuevaEmpresa(3, "Empresa Tres", "33.333.333-3", "x"),
	}
}

func resultadoDePrueba(nombre string) *models.ResultadoEmpresa {
	return &models.ResultadoEmpresa{
		Contribuyente:   nombre,
		BoletasEmitidas: &models.ResumenHonorarios{},
		FechaConsulta:   time.Now(),
	}
}

func TestProcesarLoteCompleto(t *testing.T) {
	empresas := nominaDePrueba()
	procesador := &procesadorFalso{respuestas: map[string]respuestaFalsa{
		"11.111.111-1": {resultado: resultadoDePrueba("Empresa Uno")},
		"22.222.222-2": {resultado: resultadoDePrueba("Empresa Dos")},
		"33.333.333-3": {resultado: resultadoDePrueba("Empresa Tres")},
	}}
	almacen := NewAlmacenMemoria()

	lote := NewControladorLote(procesador, almacen, nil, loggerSilencioso())
	completadas := lote.Procesar(context.Background(), empresas)

	assert.Equal(t, 3, completadas)
	assert.Equal(t, []string{"11.111.111-1", "22.222.222-2", "33.333.333-3"}, procesador.procesadas)
	for _, e := range empresas {
		assert.Equal(t, models.EstadoCompletado, e.EstadoActual())
		_, ok := almacen.Obtener(e.ID)
		assert.True(t, ok, "empresa %d sin resultado", e.ID)
	}
	assert.True(t, procesador.cerrado)
}

func TestProcesarSigueTrasEmpresaFallida(t *testing.T) {
	empresas := nominaDePrueba()
	procesador := &procesadorFalso{respuestas: map[string]respuestaFalsa{
		"11.111.111-1": {resultado: resultadoDePrueba("Empresa Uno")},
		"22.222.222-2": {err: &ErrorAutenticacion{Rut: "22.222.222-2", Causa: fmt.Errorf("clave incorrecta")}},
		"33.333.333-3": {resultado: resultadoDePrueba("Empresa Tres")},
	}}
	almacen := NewAlmacenMemoria()

	lote := NewControladorLote(procesador, almacen, nil, loggerSilencioso())
	completadas := lote.Procesar(context.Background(), empresas)

	assert.Equal(t, 2, completadas)
	assert.Equal(t, models.EstadoCompletado, empresas[0].EstadoActual())
	assert.Equal(t, models.EstadoError, empresas[1].EstadoActual())
	assert.Equal(t, models.EstadoCompletado, empresas[2].EstadoActual())

	_, ok := almacen.Obtener(2)
	assert.False(t, ok, "una empresa fallida sin resultado parcial no debe guardar nada")
}

func TestProcesarGuardaResultadoParcialDeFalla(t *testing.T) {
	empresas := nominaDePrueba()[:1]
	parcial := resultadoDePrueba("Empresa Uno")
	procesador := &procesadorFalso{respuestas: map[string]respuestaFalsa{
		"11.111.111-1": {resultado: parcial, err: fmt.Errorf("falla a mitad de secuencia")},
	}}
	almacen := NewAlmacenMemoria()

	lote := NewControladorLote(procesador, almacen, nil, loggerSilencioso())
	completadas := lote.Procesar(context.Background(), empresas)

	assert.Zero(t, completadas)
	assert.Equal(t, models.EstadoError, empresas[0].EstadoActual())

	guardado, ok := almacen.Obtener(1)
	require.True(t, ok, "el resultado parcial debe conservarse")
	assert.Equal(t, parcial, guardado)
}

func TestDetenerEntreEmpresas(t *testing.T) {
	empresas := nominaDePrueba()
	almacen := NewAlmacenMemoria()
	procesador := &procesadorFalso{respuestas: map[string]respuestaFalsa{
		"11.111.111-1": {resultado: resultadoDePrueba("Empresa Uno")},
	}}

	lote := NewControladorLote(procesador, almacen, nil, loggerSilencioso())
	procesador.alProcesar = func(empresa *models.Empresa) {
		// detener durante la primera empresa: termina ella y no
		// se toma ninguna más
		lote.Detener()
	}

	completadas := lote.Procesar(context.Background(), empresas)

	assert.Equal(t, 1, completadas)
	assert.Equal(t, []string{"11.111.111-1"}, procesador.procesadas)
	assert.Equal(t, models.EstadoCompletado, empresas[0].EstadoActual())
	assert.Equal(t, models.EstadoPendiente, empresas[1].EstadoActual())
	assert.Equal(t, models.EstadoPendiente, empresas[2].EstadoActual())
}

func TestEstadosLegiblesMientrasCorreElLote(t *testing.T) {
	empresas := nominaDePrueba()
	procesador := &procesadorFalso{respuestas: map[string]respuestaFalsa{
		"11.111.111-1": {resultado: resultadoDePrueba("Empresa Uno")},
		"22.222.222-2": {resultado: resultadoDePrueba("Empresa Dos")},
		"33.333.333-3": {resultado: resultadoDePrueba("Empresa Tres")},
	}}
	procesador.alProcesar = func(empresa *models.Empresa) {
		time.Sleep(5 * time.Millisecond)
	}

	lote := NewControladorLote(procesador, NewAlmacenMemoria(), nil, loggerSilencioso())

	terminado := make(chan int)
	go func() {
		terminado <- lote.Procesar(context.Background(), empresas)
	}()

	// mismo patrón que el sondeo de /status: leer los resúmenes
	// mientras el lote sigue mutando los estados
	for {
		select {
		case completadas := <-terminado:
			assert.Equal(t, 3, completadas)
			for _, e := range empresas {
				assert.Equal(t, models.EstadoCompletado, e.EstadoActual())
			}
			return
		default:
			for _, e := range empresas {
				resumen := e.Resumen()
				assert.Contains(t, []string{
					models.EstadoPendiente,
					models.EstadoProcesando,
					models.EstadoCompletado,
				}, resumen.Estado)
			}
			time.Sleep(time.Millisecond)
		}
	}
}

func TestProcesarRespetaContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	procesador := &procesadorFalso{}
	lote := NewControladorLote(procesador, NewAlmacenMemoria(), nil, loggerSilencioso())
	completadas := lote.Procesar(ctx, nominaDePrueba())

	assert.Zero(t, completadas)
	assert.Empty(t, procesador.procesadas)
}
