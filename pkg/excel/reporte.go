package excel

import (
	"fmt"
	"strings"

	"github.com/Cofre-dev/BotBoletas/pkg/models"
	"github.com/xuri/excelize/v2"
)

var encabezadosEmitidas = []string{
	"PERIODO", "FOLIO INICIAL", "FOLIO FINAL", "VIGENTES", "ANULADAS",
	"HONORARIO BRUTO", "RET. TERCEROS", "RET. CONTRIBUYENTE", "TOTAL LÍQUIDO",
}

var encabezadosRecibidas = []string{
	"PERIODO", "VIGENTES", "ANULADAS", "HONORARIO BRUTO",
	"RET. TERCEROS", "RET. CONTRIBUYENTE", "TOTAL LÍQUIDO",
}

var encabezadosBTE = []string{
	"PERIODO", "CANTIDAD", "MONTO NETO", "MONTO EXENTO", "IVA", "MONTO TOTAL",
}

// estilosReporte agrupa los ids de estilo ya registrados en el archivo.
// Las secciones de honorarios van en azul y las de BTE en verde.
type estilosReporte struct {
	contribuyente int
	titulo        int
	encabezado    int
	totales       int
	mensaje       int
	tituloBTE     int
	encabezadoBTE int
	totalesBTE    int
	mensajeBTE    int
}

// GenerarReporte construye el informe final: una hoja por empresa con
// resultado, con una sección por categoría capturada. Las categorías en
// nil simplemente no aparecen en la hoja.
func GenerarReporte(empresas []*models.Empresa, resultados map[int]*models.ResultadoEmpresa, anio int) (*excelize.File, error) {
	f := excelize.NewFile()

	estilos, err := registrarEstilos(f)
	if err != nil {
		return nil, err
	}

	primera := true
	for _, empresa := range empresas {
		resultado, ok := resultados[empresa.ID]
		if !ok || resultado == nil {
			continue
		}

		hoja := nombreHoja(empresa.Nombre)
		if primera {
			// excelize crea el archivo con una hoja por defecto
			f.SetSheetName("Sheet1", hoja)
			primera = false
		} else if _, err := f.NewSheet(hoja); err != nil {
			return nil, fmt.Errorf("error creando la hoja %q: %w", hoja, err)
		}

		if err := escribirHoja(f, hoja, empresa, resultado, anio, estilos); err != nil {
			return nil, err
		}
	}

	if primera {
		return nil, fmt.Errorf("no hay resultados para exportar")
	}
	return f, nil
}

// nombreHoja sanea el nombre de la empresa para usarlo como nombre de
// hoja: sin los caracteres que Excel prohíbe y máximo 31 caracteres.
func nombreHoja(nombre string) string {
	limpio := strings.Map(func(r rune) rune {
		switch r {
		case '*', '?', ':', '/', '\\', '[', ']':
			return -1
		}
		return r
	}, nombre)
	if runas := []rune(limpio); len(runas) > 31 {
		limpio = string(runas[:31])
	}
	return limpio
}

func registrarEstilos(f *excelize.File) (estilosReporte, error) {
	var e estilosReporte
	var err error

	registrar := func(estilo *excelize.Style) int {
		if err != nil {
			return 0
		}
		var id int
		id, err = f.NewStyle(estilo)
		return id
	}

	relleno := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}
	centrado := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	e.contribuyente = registrar(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	e.titulo = registrar(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "1A365D"}, Fill: relleno("E2E8F0")})
	e.encabezado = registrar(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "FFFFFF"}, Fill: relleno("1A365D"), Alignment: centrado})
	e.totales = registrar(&excelize.Style{Font: &excelize.Font{Bold: true}, Fill: relleno("E2E8F0")})
	e.mensaje = registrar(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12, Color: "1A365D"}, Fill: relleno("FEF3C7")})
	e.tituloBTE = registrar(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "276749"}, Fill: relleno("C6F6D5")})
	e.encabezadoBTE = registrar(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "FFFFFF"}, Fill: relleno("276749"), Alignment: centrado})
	e.totalesBTE = registrar(&excelize.Style{Font: &excelize.Font{Bold: true}, Fill: relleno("C6F6D5")})
	e.mensajeBTE = registrar(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12, Color: "276749"}, Fill: relleno("C6F6D5")})

	return e, err
}

func escribirHoja(f *excelize.File, hoja string, empresa *models.Empresa, resultado *models.ResultadoEmpresa, anio int, estilos estilosReporte) error {
	contribuyente := resultado.Contribuyente
	if contribuyente == "" {
		contribuyente = empresa.Nombre
	}
	rut := resultado.Rut
	if rut == "" {
		rut = empresa.Rut
	}

	h := hojaReporte{f: f, hoja: hoja, fila: 1}

	h.celdaCombinada(9, fmt.Sprintf("Contribuyente: %s", contribuyente), estilos.contribuyente)
	h.fila++
	h.celdaCombinada(9, fmt.Sprintf("RUT: %s", rut), estilos.contribuyente)
	h.fila += 2

	if resultado.BoletasEmitidas != nil {
		h.seccionHonorarios(fmt.Sprintf("BOLETAS EMITIDAS - AÑO %d", anio), resultado.BoletasEmitidas, true,
			fmt.Sprintf("El contribuyente %s tiene como HONORARIOS BRUTOS EMITIDOS: $%s", contribuyente, formatoMiles(resultado.BoletasEmitidas.Totales.HonorarioBruto)),
			estilos)
	}
	if resultado.BoletasRecibidas != nil {
		h.seccionHonorarios(fmt.Sprintf("BOLETAS RECIBIDAS - AÑO %d", anio), resultado.BoletasRecibidas, false,
			fmt.Sprintf("El contribuyente %s tiene como HONORARIOS BRUTOS RECIBIDOS: $%s", contribuyente, formatoMiles(resultado.BoletasRecibidas.Totales.HonorarioBruto)),
			estilos)
	}
	if resultado.BTERecibidas != nil {
		h.seccionBTE(fmt.Sprintf("BTE RECIBIDAS (PRESTACIÓN DE SERVICIOS DE TERCEROS) - AÑO %d", anio), resultado.BTERecibidas,
			fmt.Sprintf("El contribuyente %s tiene como MONTO TOTAL BTE RECIBIDAS: $%s", contribuyente, formatoMiles(resultado.BTERecibidas.Totales.MontoTotal)),
			estilos)
	}
	if resultado.BTEEmitidas != nil {
		h.seccionBTE(fmt.Sprintf("BTE EMITIDAS (PRESTACIÓN DE SERVICIOS DE TERCEROS) - AÑO %d", anio), resultado.BTEEmitidas,
			fmt.Sprintf("El contribuyente %s tiene como MONTO TOTAL BTE EMITIDAS: $%s", contribuyente, formatoMiles(resultado.BTEEmitidas.Totales.MontoTotal)),
			estilos)
	}

	if h.err == nil {
		h.err = f.SetColWidth(hoja, "A", "I", 18)
	}
	return h.err
}

// hojaReporte lleva el cursor de fila de una hoja y acumula el primer
// error para no chequear en cada celda.
type hojaReporte struct {
	f    *excelize.File
	hoja string
	fila int
	err  error
}

func (h *hojaReporte) celda(columna int, valor any, estilo int) {
	if h.err != nil {
		return
	}
	nombre, err := excelize.CoordinatesToCellName(columna, h.fila)
	if err != nil {
		h.err = err
		return
	}
	if h.err = h.f.SetCellValue(h.hoja, nombre, valor); h.err != nil {
		return
	}
	if estilo != 0 {
		h.err = h.f.SetCellStyle(h.hoja, nombre, nombre, estilo)
	}
}

func (h *hojaReporte) celdaCombinada(ancho int, valor string, estilo int) {
	if h.err != nil {
		return
	}
	inicio, _ := excelize.CoordinatesToCellName(1, h.fila)
	fin, err := excelize.CoordinatesToCellName(ancho, h.fila)
	if err != nil {
		h.err = err
		return
	}
	if h.err = h.f.MergeCell(h.hoja, inicio, fin); h.err != nil {
		return
	}
	h.celda(1, valor, estilo)
}

func (h *hojaReporte) filaValores(valores []any, estilo int) {
	for i, v := range valores {
		h.celda(i+1, v, estilo)
	}
	h.fila++
}

func (h *hojaReporte) seccionHonorarios(titulo string, resumen *models.ResumenHonorarios, emitidas bool, mensaje string, estilos estilosReporte) {
	encabezados := encabezadosRecibidas
	if emitidas {
		encabezados = encabezadosEmitidas
	}
	ancho := len(encabezados)

	h.celdaCombinada(ancho, titulo, estilos.titulo)
	h.fila++

	fila := make([]any, ancho)
	for i, enc := range encabezados {
		fila[i] = enc
	}
	h.filaValores(fila, estilos.encabezado)

	for _, mes := range resumen.Meses {
		if emitidas {
			h.filaValores([]any{mes.Periodo, mes.FolioInicial, mes.FolioFinal, mes.Vigentes, mes.Anuladas,
				mes.HonorarioBruto, mes.RetencionTerceros, mes.RetencionContribuyente, mes.TotalLiquido}, 0)
		} else {
			h.filaValores([]any{mes.Periodo, mes.Vigentes, mes.Anuladas,
				mes.HonorarioBruto, mes.RetencionTerceros, mes.RetencionContribuyente, mes.TotalLiquido}, 0)
		}
	}

	t := resumen.Totales
	if emitidas {
		h.filaValores([]any{"TOTALES", "", "", t.Vigentes, t.Anuladas,
			t.HonorarioBruto, t.RetencionTerceros, t.RetencionContribuyente, t.TotalLiquido}, estilos.totales)
	} else {
		h.filaValores([]any{"TOTALES", t.Vigentes, t.Anuladas,
			t.HonorarioBruto, t.RetencionTerceros, t.RetencionContribuyente, t.TotalLiquido}, estilos.totales)
	}

	h.fila++
	h.celdaCombinada(ancho, mensaje, estilos.mensaje)
	h.fila += 3
}

func (h *hojaReporte) seccionBTE(titulo string, resumen *models.ResumenBTE, mensaje string, estilos estilosReporte) {
	ancho := len(encabezadosBTE)

	h.celdaCombinada(ancho, titulo, estilos.tituloBTE)
	h.fila++

	fila := make([]any, ancho)
	for i, enc := range encabezadosBTE {
		fila[i] = enc
	}
	h.filaValores(fila, estilos.encabezadoBTE)

	for _, mes := range resumen.Meses {
		h.filaValores([]any{mes.Periodo, mes.Cantidad, mes.MontoNeto, mes.MontoExento, mes.MontoIVA, mes.MontoTotal}, 0)
	}

	t := resumen.Totales
	h.filaValores([]any{"TOTALES", t.Cantidad, t.MontoNeto, t.MontoExento, t.MontoIVA, t.MontoTotal}, estilos.totalesBTE)

	h.fila++
	h.celdaCombinada(ancho, mensaje, estilos.mensajeBTE)
	h.fila += 3
}

// formatoMiles formatea un monto en pesos con separador de miles chileno
func formatoMiles(n int) string {
	s := fmt.Sprintf("%d", n)
	negativo := false
	if strings.HasPrefix(s, "-") {
		negativo = true
		s = s[1:]
	}
	var partes []string
	for len(s) > 3 {
		partes = append([]string{s[len(s)-3:]}, partes...)
		s = s[:len(s)-3]
	}
	partes = append([]string{s}, partes...)
	resultado := strings.Join(partes, ".")
	if negativo {
		resultado = "-" + resultado
	}
	return resultado
}
