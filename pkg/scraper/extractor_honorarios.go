package scraper

import (
	"strconv"
	"strings"
	"time"

	"github.com/Cofre-dev/BotBoletas/pkg/models"
	"github.com/Cofre-dev/BotBoletas/pkg/utils"
	"github.com/PuerkitoBio/goquery"
	"github.com/ysmood/gson"
)

// El portal pobla xml_values para renderizar su propia tabla. Leerlo
// directo es preferible a parsear texto renderizado con formato de
// locale; la tabla queda como respaldo.
const jsLeerXMLValues = `() => (typeof xml_values !== 'undefined') ? xml_values : null`

// extraerHonorarios lee el resumen anual de boletas de honorarios de la
// página actual: primero el dato estructurado xml_values, si no existe
// cae a recorrer la tabla renderizada. Devuelve también contribuyente y
// RUT según los reporta la página (pueden venir vacíos en recibidas).
func (s *SIIScraper) extraerHonorarios(emitidas bool) (*models.ResumenHonorarios, string, string, error) {
	s.notif.Log("info", "⏳ Esperando que la página cargue completamente...")
	s.esperar(3 * time.Second)

	if res, err := s.page.Eval(jsLeerXMLValues); err == nil && !res.Value.Nil() {
		valores := make(map[string]string, len(res.Value.Map()))
		for clave, v := range res.Value.Map() {
			valores[clave] = textoValor(v)
		}
		s.notif.Log("success", "✅ Datos obtenidos de xml_values")

		resumen := ConstruirHonorarios(valores, emitidas)
		contribuyente := strings.TrimSpace(valores["nombre_contribuyente"])
		rut := ""
		if valores["rut_arrastre"] != "" {
			rut = valores["rut_arrastre"] + "-" + valores["dv_arrastre"]
		}
		return resumen, contribuyente, rut, nil
	}

	s.notif.Log("info", "📊 Extrayendo desde tabla HTML...")
	html, err := s.page.HTML()
	if err != nil {
		return nil, "", "", &ErrorExtraccion{Categoria: "boletas de honorarios"}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, "", "", &ErrorExtraccion{Categoria: "boletas de honorarios"}
	}
	return ExtraerHonorariosHTML(doc, emitidas)
}

// textoValor normaliza una entrada de xml_values a texto. El portal
// las entrega como strings, pero si alguna llegara como número JSON
// hay que formatearla sin notación científica para no perder montos
// grandes al parsearlos.
func textoValor(v gson.JSON) string {
	switch valor := v.Val().(type) {
	case string:
		return valor
	case float64:
		return strconv.FormatInt(int64(valor), 10)
	case nil:
		return ""
	default:
		return v.Str()
	}
}

// ConstruirHonorarios arma el resumen a partir del mapa xml_values.
// Por cada mes el portal indexa: <mes>1 bruto, <mes>2 retención de
// terceros, <mes>3 retención del contribuyente, <mes>4 folio inicial,
// <mes>5 folio final, <mes>6 vigentes, <mes>7 anuladas y sum<mes>
// líquido; los totales van en tot1..tot7 y sumtot.
func ConstruirHonorarios(valores map[string]string, emitidas bool) *models.ResumenHonorarios {
	resumen := &models.ResumenHonorarios{}

	for i, clave := range models.ClavesMes {
		mes := models.MesHonorarios{
			Periodo:                models.MesesDelAnio[i],
			Vigentes:               utils.ParseMonto(valores[clave+"6"]),
			Anuladas:               utils.ParseMonto(valores[clave+"7"]),
			HonorarioBruto:         utils.ParseMonto(valores[clave+"1"]),
			RetencionTerceros:      utils.ParseMonto(valores[clave+"2"]),
			RetencionContribuyente: utils.ParseMonto(valores[clave+"3"]),
			TotalLiquido:           utils.ParseMonto(valores["sum"+clave]),
		}
		if emitidas {
			mes.FolioInicial = utils.ParseMonto(valores[clave+"4"])
			mes.FolioFinal = utils.ParseMonto(valores[clave+"5"])
		}
		resumen.Meses = append(resumen.Meses, mes)
	}

	resumen.Totales = models.TotalesHonorarios{
		Vigentes:               utils.ParseMonto(valores["tot6"]),
		Anuladas:               utils.ParseMonto(valores["tot7"]),
		HonorarioBruto:         utils.ParseMonto(valores["tot1"]),
		RetencionTerceros:      utils.ParseMonto(valores["tot2"]),
		RetencionContribuyente: utils.ParseMonto(valores["tot3"]),
		TotalLiquido:           utils.ParseMonto(valores["sumtot"]),
	}
	resumen.RecalcularTotales()

	return resumen
}

// ExtraerHonorariosHTML recorre el documento en busca de la tabla del
// informe anual: la única cuyo texto contiene PERIODOS y HONORARIO
// BRUTO. Emitidas trae 9 columnas (con rango de folios), recibidas 7.
func ExtraerHonorariosHTML(doc *goquery.Document, emitidas bool) (*models.ResumenHonorarios, string, string, error) {
	contribuyente, rut := extraerContribuyente(doc)

	var tabla *goquery.Selection
	doc.Find("table").EachWithBreak(func(i int, t *goquery.Selection) bool {
		texto := t.Text()
		if strings.Contains(texto, "PERIODOS") && strings.Contains(texto, "HONORARIO BRUTO") {
			tabla = t
			return false
		}
		return true
	})
	if tabla == nil {
		return nil, contribuyente, rut, &ErrorExtraccion{Categoria: "boletas de honorarios"}
	}

	minColumnas := 7
	if emitidas {
		minColumnas = 9
	}

	resumen := &models.ResumenHonorarios{}
	tabla.Find("tr").Each(func(i int, fila *goquery.Selection) {
		celdas := fila.Find("td")
		if celdas.Length() < minColumnas {
			return
		}

		periodo := strings.ToUpper(strings.TrimSpace(celdas.Eq(0).Text()))

		for _, nombreMes := range models.MesesDelAnio {
			if !strings.Contains(periodo, nombreMes) {
				continue
			}
			mes := models.MesHonorarios{Periodo: nombreMes}
			if emitidas {
				mes.FolioInicial = utils.ParseMonto(celdas.Eq(1).Text())
				mes.FolioFinal = utils.ParseMonto(celdas.Eq(2).Text())
				mes.Vigentes = utils.ParseMonto(celdas.Eq(3).Text())
				mes.Anuladas = utils.ParseMonto(celdas.Eq(4).Text())
				mes.HonorarioBruto = utils.ParseMonto(celdas.Eq(5).Text())
				mes.RetencionTerceros = utils.ParseMonto(celdas.Eq(6).Text())
				mes.RetencionContribuyente = utils.ParseMonto(celdas.Eq(7).Text())
				mes.TotalLiquido = utils.ParseMonto(celdas.Eq(8).Text())
			} else {
				mes.Vigentes = utils.ParseMonto(celdas.Eq(1).Text())
				mes.Anuladas = utils.ParseMonto(celdas.Eq(2).Text())
				mes.HonorarioBruto = utils.ParseMonto(celdas.Eq(3).Text())
				mes.RetencionTerceros = utils.ParseMonto(celdas.Eq(4).Text())
				mes.RetencionContribuyente = utils.ParseMonto(celdas.Eq(5).Text())
				mes.TotalLiquido = utils.ParseMonto(celdas.Eq(6).Text())
			}
			resumen.Meses = append(resumen.Meses, mes)
			break // una fila representa a lo más un mes
		}

		if strings.Contains(periodo, "TOTAL") {
			if emitidas {
				resumen.Totales = models.TotalesHonorarios{
					Vigentes:               utils.ParseMonto(celdas.Eq(3).Text()),
					Anuladas:               utils.ParseMonto(celdas.Eq(4).Text()),
					HonorarioBruto:         utils.ParseMonto(celdas.Eq(5).Text()),
					RetencionTerceros:      utils.ParseMonto(celdas.Eq(6).Text()),
					RetencionContribuyente: utils.ParseMonto(celdas.Eq(7).Text()),
					TotalLiquido:           utils.ParseMonto(celdas.Eq(8).Text()),
				}
			} else {
				resumen.Totales = models.TotalesHonorarios{
					Vigentes:               utils.ParseMonto(celdas.Eq(1).Text()),
					Anuladas:               utils.ParseMonto(celdas.Eq(2).Text()),
					HonorarioBruto:         utils.ParseMonto(celdas.Eq(3).Text()),
					RetencionTerceros:      utils.ParseMonto(celdas.Eq(4).Text()),
					RetencionContribuyente: utils.ParseMonto(celdas.Eq(5).Text()),
					TotalLiquido:           utils.ParseMonto(celdas.Eq(6).Text()),
				}
			}
		}
	})

	resumen.RecalcularTotales()
	return resumen, contribuyente, rut, nil
}

// extraerContribuyente busca las celdas de cabecera "Contribuyente:" y
// "RUT:" y devuelve el texto de la celda siguiente
func extraerContribuyente(doc *goquery.Document) (string, string) {
	contribuyente, rut := "", ""
	celdas := doc.Find("td")
	celdas.Each(func(i int, celda *goquery.Selection) {
		texto := celda.Text()
		if strings.Contains(texto, "Contribuyente:") && contribuyente == "" {
			contribuyente = strings.TrimSpace(celdas.Eq(i + 1).Text())
		}
		if strings.Contains(texto, "RUT:") && rut == "" {
			rut = strings.TrimSpace(celdas.Eq(i + 1).Text())
		}
	})
	return contribuyente, rut
}
