package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ysmood/gson"
)

func TestTextoValorNormalizaEntradasDeXMLValues(t *testing.T) {
	// los strings del portal pasan tal cual
	assert.Equal(t, "2.500.000", textoValor(gson.New("2.500.000")))
	assert.Equal(t, "", textoValor(gson.New(nil)))

	// un número JSON grande no debe salir en notación científica,
	// que el parseo de montos convertiría en cero
	assert.Equal(t, "1500000", textoValor(gson.New(1500000.0)))
	assert.Equal(t, "0", textoValor(gson.New(0.0)))
}

func TestConstruirHonorariosDesdeXMLValues(t *testing.T) {
	valores := map[string]string{
		"nombre_contribuyente": "COMERCIAL EJEMPLO LTDA",
		"rut_arrastre":         "76086428",
		"dv_arrastre":          "5",

		// enero con movimiento
		"ene1": "2.500.000", "ene2": "0", "ene3": "362.500",
		"ene4": "101", "ene5": "105", "ene6": "5", "ene7": "0",
		"sumene": "2.137.500",

		// marzo con movimiento y una anulada
		"mar1": "800.000", "mar2": "116.000", "mar3": "0",
		"mar4": "106", "mar5": "108", "mar6": "2", "mar7": "1",
		"summar": "684.000",

		"tot1": "3.300.000", "tot2": "116.000", "tot3": "362.500",
		"tot6": "7", "tot7": "1",
		"sumtot": "2.821.500",
	}

	resumen := ConstruirHonorarios(valores, true)

	// el dato estructurado trae los doce meses, con ceros donde no
	// hubo movimiento
	require.Len(t, resumen.Meses, 12)

	enero := resumen.Meses[0]
	assert.Equal(t, "ENERO", enero.Periodo)
	assert.Equal(t, 2500000, enero.HonorarioBruto)
	assert.Equal(t, 362500, enero.RetencionContribuyente)
	assert.Equal(t, 101, enero.FolioInicial)
	assert.Equal(t, 105, enero.FolioFinal)
	assert.Equal(t, 5, enero.Vigentes)
	assert.Equal(t, 2137500, enero.TotalLiquido)

	febrero := resumen.Meses[1]
	assert.Zero(t, febrero.HonorarioBruto)
	assert.Zero(t, febrero.Vigentes)

	marzo := resumen.Meses[2]
	assert.Equal(t, 800000, marzo.HonorarioBruto)
	assert.Equal(t, 1, marzo.Anuladas)

	assert.Equal(t, 3300000, resumen.Totales.HonorarioBruto)
	assert.Equal(t, 2821500, resumen.Totales.TotalLiquido)
}

func TestConstruirHonorariosRecibidasSinFolios(t *testing.T) {
	valores := map[string]string{
		"ene1": "100.000", "ene4": "900", "ene5": "905", "ene6": "1",
		"sumene": "100.000",
	}

	resumen := ConstruirHonorarios(valores, false)

	require.Len(t, resumen.Meses, 12)
	assert.Zero(t, resumen.Meses[0].FolioInicial)
	assert.Zero(t, resumen.Meses[0].FolioFinal)
	assert.Equal(t, 100000, resumen.Meses[0].HonorarioBruto)

	// sin totales del portal, se recalculan desde los meses
	assert.Equal(t, 100000, resumen.Totales.HonorarioBruto)
}

const htmlEmitidas = `<html><body>
<table><tr><td>Contribuyente:</td><td>SERVICIOS DEL SUR SPA</td></tr>
<tr><td>RUT:</td><td>77.123.456-7</td></tr></table>
<table>
<tr><th>PERIODOS</th><th>FOLIO INICIAL</th><th>FOLIO FINAL</th><th>VIGENTES</th><th>ANULADAS</th><th>HONORARIO BRUTO</th><th>RET. TERCEROS</th><th>RET. CONTRIBUYENTE</th><th>TOTAL LIQUIDO</th></tr>
<tr><td>MARZO</td><td>12</td><td>14</td><td>3</td><td>0</td><td>1.200.000</td><td>0</td><td>174.000</td><td>1.026.000</td></tr>
<tr><td>ABRIL</td><td>15</td><td>15</td><td>1</td><td>0</td><td>400.000</td><td>58.000</td><td>0</td><td>342.000</td></tr>
<tr><td>TOTAL</td><td></td><td></td><td>4</td><td>0</td><td>1.600.000</td><td>58.000</td><td>174.000</td><td>1.368.000</td></tr>
</table>
</body></html>`

func TestExtraerHonorariosHTMLEmitidas(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlEmitidas))
	require.NoError(t, err)

	resumen, contribuyente, rut, err := ExtraerHonorariosHTML(doc, true)
	require.NoError(t, err)

	assert.Equal(t, "SERVICIOS DEL SUR SPA", contribuyente)
	assert.Equal(t, "77.123.456-7", rut)

	// la tabla solo lista los meses con movimiento
	require.Len(t, resumen.Meses, 2)
	assert.Equal(t, "MARZO", resumen.Meses[0].Periodo)
	assert.Equal(t, 12, resumen.Meses[0].FolioInicial)
	assert.Equal(t, 1200000, resumen.Meses[0].HonorarioBruto)
	assert.Equal(t, "ABRIL", resumen.Meses[1].Periodo)

	assert.Equal(t, 1600000, resumen.Totales.HonorarioBruto)
	assert.Equal(t, 1368000, resumen.Totales.TotalLiquido)
}

const htmlRecibidasSinTotal = `<html><body><table>
<tr><th>PERIODOS</th><th>VIGENTES</th><th>ANULADAS</th><th>HONORARIO BRUTO</th><th>RET. TERCEROS</th><th>RET. CONTRIBUYENTE</th><th>TOTAL LIQUIDO</th></tr>
<tr><td>JUNIO</td><td>2</td><td>0</td><td>600.000</td><td>87.000</td><td>0</td><td>513.000</td></tr>
</table></body></html>`

func TestExtraerHonorariosHTMLRecibidasRecalculaTotales(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlRecibidasSinTotal))
	require.NoError(t, err)

	resumen, _, _, err := ExtraerHonorariosHTML(doc, false)
	require.NoError(t, err)

	require.Len(t, resumen.Meses, 1)
	assert.Equal(t, "JUNIO", resumen.Meses[0].Periodo)
	assert.Zero(t, resumen.Meses[0].FolioInicial)

	// no hay fila TOTAL, los totales salen de sumar los meses
	assert.Equal(t, 600000, resumen.Totales.HonorarioBruto)
	assert.Equal(t, 513000, resumen.Totales.TotalLiquido)
	assert.Equal(t, 2, resumen.Totales.Vigentes)
}

func TestExtraerHonorariosHTMLSinTabla(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><p>Sesión expirada</p></body></html>`))
	require.NoError(t, err)

	_, _, _, err = ExtraerHonorariosHTML(doc, true)

	var errExt *ErrorExtraccion
	require.ErrorAs(t, err, &errExt)
}

const htmlBTE = `<html><body><table>
<tr><th>PERIODO</th><th>CANTIDAD</th><th>MONTO NETO</th><th>MONTO EXENTO</th><th>IVA</th><th>MONTO TOTAL</th></tr>
<tr><td>ABRIL 2025</td><td>3</td><td>100.000</td><td>0</td><td>19.000</td><td>119.000</td></tr>
<tr><td>MAYO 2025</td><td>1</td><td>50.000</td><td>0</td><td>9.500</td><td>59.500</td></tr>
<tr><td>TOTAL</td><td>4</td><td>150.000</td><td>0</td><td>28.500</td><td>178.500</td></tr>
</table></body></html>`

func TestExtraerBTEHTML(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBTE))
	require.NoError(t, err)

	resumen, err := ExtraerBTEHTML(doc)
	require.NoError(t, err)

	require.Len(t, resumen.Meses, 2)
	assert.Equal(t, "ABRIL", resumen.Meses[0].Periodo)
	assert.Equal(t, 3, resumen.Meses[0].Cantidad)
	assert.Equal(t, 119000, resumen.Meses[0].MontoTotal)

	assert.Equal(t, 4, resumen.Totales.Cantidad)
	assert.Equal(t, 178500, resumen.Totales.MontoTotal)
}

const htmlBTEFilasCortas = `<html><body><table>
<tr><td>Periodo</td></tr>
<tr><td>AGOSTO</td><td>2</td></tr>
</table></body></html>`

func TestExtraerBTEHTMLToleraFilasCortas(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBTEFilasCortas))
	require.NoError(t, err)

	resumen, err := ExtraerBTEHTML(doc)
	require.NoError(t, err)

	// las celdas ausentes se leen como cero
	require.Len(t, resumen.Meses, 1)
	assert.Equal(t, 2, resumen.Meses[0].Cantidad)
	assert.Zero(t, resumen.Meses[0].MontoNeto)
	assert.Equal(t, 2, resumen.Totales.Cantidad)
}

func TestExtraerBTEHTMLSinTabla(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body></body></html>`))
	require.NoError(t, err)

	_, err = ExtraerBTEHTML(doc)

	var errExt *ErrorExtraccion
	require.ErrorAs(t, err, &errExt)
}
