package models

import "time"

// MesesDelAnio son los doce periodos tal como los muestra el portal
var MesesDelAnio = []string{
	"ENERO", "FEBRERO", "MARZO", "ABRIL", "MAYO", "JUNIO",
	"JULIO", "AGOSTO", "SEPTIEMBRE", "OCTUBRE", "NOVIEMBRE", "DICIEMBRE",
}

// ClavesMes son las abreviaturas con que el portal indexa xml_values
var ClavesMes = []string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

// MesHonorarios es el resumen mensual de boletas de honorarios.
// Los folios solo existen para boletas emitidas. Todos los montos son
// enteros no negativos en pesos.
type MesHonorarios struct {
	Periodo                string `json:"periodo"`
	FolioInicial           int    `json:"folio_inicial,omitempty"`
	FolioFinal             int    `json:"folio_final,omitempty"`
	Vigentes               int    `json:"vigentes"`
	Anuladas               int    `json:"anuladas"`
	HonorarioBruto         int    `json:"honorario_bruto"`
	RetencionTerceros      int    `json:"retencion_terceros"`
	RetencionContribuyente int    `json:"retencion_contribuyente"`
	TotalLiquido           int    `json:"total_liquido"`
}

// TotalesHonorarios es el agregado anual, sin periodo
type TotalesHonorarios struct {
	Vigentes               int `json:"vigentes"`
	Anuladas               int `json:"anuladas"`
	HonorarioBruto         int `json:"honorario_bruto"`
	RetencionTerceros      int `json:"retencion_terceros"`
	RetencionContribuyente int `json:"retencion_contribuyente"`
	TotalLiquido           int `json:"total_liquido"`
}

// ResumenHonorarios agrupa los meses en orden cronológico (enero a
// diciembre, con huecos permitidos) y los totales anuales.
type ResumenHonorarios struct {
	Meses   []MesHonorarios   `json:"meses"`
	Totales TotalesHonorarios `json:"totales"`
}

// EsCero indica si el portal no reportó ningún total
func (t TotalesHonorarios) EsCero() bool {
	return t.Vigentes == 0 && t.Anuladas == 0 && t.HonorarioBruto == 0 &&
		t.RetencionTerceros == 0 && t.RetencionContribuyente == 0 && t.TotalLiquido == 0
}

// RecalcularTotales suma campo a campo los meses capturados cuando el
// total reportado por el portal viene completamente en cero. El total
// del portal solo es autoritativo cuando trae algún valor.
func (r *ResumenHonorarios) RecalcularTotales() {
	if !r.Totales.EsCero() || len(r.Meses) == 0 {
		return
	}
	for _, m := range r.Meses {
		r.Totales.Vigentes += m.Vigentes
		r.Totales.Anuladas += m.Anuladas
		r.Totales.HonorarioBruto += m.HonorarioBruto
		r.Totales.RetencionTerceros += m.RetencionTerceros
		r.Totales.RetencionContribuyente += m.RetencionContribuyente
		r.Totales.TotalLiquido += m.TotalLiquido
	}
}

// MesBTE es el resumen mensual de boletas de prestación de servicios
// de terceros (emitidas o recibidas, misma forma).
type MesBTE struct {
	Periodo     string `json:"periodo"`
	Cantidad    int    `json:"cantidad"`
	MontoNeto   int    `json:"monto_neto"`
	MontoExento int    `json:"monto_exento"`
	MontoIVA    int    `json:"monto_iva"`
	MontoTotal  int    `json:"monto_total"`
}

// TotalesBTE es el agregado anual de BTE
type TotalesBTE struct {
	Cantidad    int `json:"cantidad"`
	MontoNeto   int `json:"monto_neto"`
	MontoExento int `json:"monto_exento"`
	MontoIVA    int `json:"monto_iva"`
	MontoTotal  int `json:"monto_total"`
}

// ResumenBTE agrupa meses y totales de BTE
type ResumenBTE struct {
	Meses   []MesBTE   `json:"meses"`
	Totales TotalesBTE `json:"totales"`
}

// EsCero indica si el portal no reportó ningún total
func (t TotalesBTE) EsCero() bool {
	return t.Cantidad == 0 && t.MontoNeto == 0 && t.MontoExento == 0 &&
		t.MontoIVA == 0 && t.MontoTotal == 0
}

// RecalcularTotales aplica la misma regla que en honorarios
func (r *ResumenBTE) RecalcularTotales() {
	if !r.Totales.EsCero() || len(r.Meses) == 0 {
		return
	}
	for _, m := range r.Meses {
		r.Totales.Cantidad += m.Cantidad
		r.Totales.MontoNeto += m.MontoNeto
		r.Totales.MontoExento += m.MontoExento
		r.Totales.MontoIVA += m.MontoIVA
		r.Totales.MontoTotal += m.MontoTotal
	}
}

// ResultadoEmpresa reúne las cuatro consultas de una empresa. Cada
// categoría es independiente: nil significa que esa extracción falló o
// el portal no tenía datos, sin que eso invalide las demás. El nombre y
// RUT vienen tal como los devuelve el portal, que puede formatearlos
// distinto que la nómina.
type ResultadoEmpresa struct {
	Contribuyente    string             `json:"contribuyente"`
	Rut              string             `json:"rut"`
	BoletasEmitidas  *ResumenHonorarios `json:"boletas_emitidas,omitempty"`
	BoletasRecibidas *ResumenHonorarios `json:"boletas_recibidas,omitempty"`
	BTERecibidas     *ResumenBTE        `json:"bte_recibidas,omitempty"`
	BTEEmitidas      *ResumenBTE        `json:"bte_emitidas,omitempty"`
	FechaConsulta    time.Time          `json:"fecha_consulta"`
}
