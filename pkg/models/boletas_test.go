package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecalcularTotalesHonorarios(t *testing.T) {
	resumen := &ResumenHonorarios{
		Meses: []MesHonorarios{
			{Periodo: "ENERO", Vigentes: 2, HonorarioBruto: 500000, RetencionContribuyente: 72500, TotalLiquido: 427500},
			{Periodo: "MARZO", Vigentes: 1, HonorarioBruto: 300000, RetencionTerceros: 43500, TotalLiquido: 256500},
		},
	}

	resumen.RecalcularTotales()

	assert.Equal(t, 3, resumen.Totales.Vigentes)
	assert.Equal(t, 800000, resumen.Totales.HonorarioBruto)
	assert.Equal(t, 43500, resumen.Totales.RetencionTerceros)
	assert.Equal(t, 72500, resumen.Totales.RetencionContribuyente)
	assert.Equal(t, 684000, resumen.Totales.TotalLiquido)
}

func TestRecalcularTotalesRespetaElTotalDelPortal(t *testing.T) {
	resumen := &ResumenHonorarios{
		Meses:   []MesHonorarios{{Periodo: "ENERO", HonorarioBruto: 100}},
		Totales: TotalesHonorarios{HonorarioBruto: 999},
	}

	resumen.RecalcularTotales()

	// un total con algún valor es autoritativo, no se recalcula
	assert.Equal(t, 999, resumen.Totales.HonorarioBruto)
}

func TestRecalcularTotalesEsIdempotente(t *testing.T) {
	resumen := &ResumenHonorarios{
		Meses: []MesHonorarios{{Periodo: "ENERO", HonorarioBruto: 100, TotalLiquido: 100}},
	}

	resumen.RecalcularTotales()
	resumen.RecalcularTotales()

	assert.Equal(t, 100, resumen.Totales.HonorarioBruto)
	assert.Equal(t, 100, resumen.Totales.TotalLiquido)
}

func TestRecalcularTotalesSinMeses(t *testing.T) {
	resumen := &ResumenHonorarios{}
	resumen.RecalcularTotales()
	assert.True(t, resumen.Totales.EsCero())
}

func TestRecalcularTotalesBTE(t *testing.T) {
	resumen := &ResumenBTE{
		Meses: []MesBTE{
			{Periodo: "ABRIL", Cantidad: 3, MontoNeto: 100000, MontoIVA: 19000, MontoTotal: 119000},
			{Periodo: "MAYO", Cantidad: 1, MontoNeto: 50000, MontoIVA: 9500, MontoTotal: 59500},
		},
	}

	resumen.RecalcularTotales()

	assert.Equal(t, 4, resumen.Totales.Cantidad)
	assert.Equal(t, 150000, resumen.Totales.MontoNeto)
	assert.Equal(t, 28500, resumen.Totales.MontoIVA)
	assert.Equal(t, 178500, resumen.Totales.MontoTotal)
}
