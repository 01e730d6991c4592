package scraper

import (
	"strings"
	"time"

	"github.com/Cofre-dev/BotBoletas/pkg/models"
	"github.com/Cofre-dev/BotBoletas/pkg/utils"
	"github.com/PuerkitoBio/goquery"
)

// extraerBTE lee el resumen anual de boletas de terceros de la página
// actual. A diferencia de honorarios aquí no hay xml_values: la consulta
// de BTE solo renderiza una tabla.
func (s *SIIScraper) extraerBTE(emitidas bool) (*models.ResumenBTE, error) {
	s.esperar(3 * time.Second)

	categoria := "BTE recibidas"
	if emitidas {
		categoria = "BTE emitidas"
	}

	html, err := s.page.HTML()
	if err != nil {
		return nil, &ErrorExtraccion{Categoria: categoria}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ErrorExtraccion{Categoria: categoria}
	}

	resumen, err := ExtraerBTEHTML(doc)
	if err != nil {
		return nil, &ErrorExtraccion{Categoria: categoria}
	}
	return resumen, nil
}

// marcadoresTablaBTE identifican la tabla de datos de la consulta BTE.
// El portal no le pone id, así que se reconoce por su contenido.
var marcadoresTablaBTE = []string{"PERIODO", "Periodo", "ENERO", "Enero", "Monto Neto", "MONTO"}

// ExtraerBTEHTML recorre el documento buscando la tabla de la consulta
// BTE: periodo, cantidad, monto neto, exento, IVA y total por fila.
func ExtraerBTEHTML(doc *goquery.Document) (*models.ResumenBTE, error) {
	var tabla *goquery.Selection
	doc.Find("table").EachWithBreak(func(i int, t *goquery.Selection) bool {
		texto := t.Text()
		for _, marcador := range marcadoresTablaBTE {
			if strings.Contains(texto, marcador) {
				tabla = t
				return false
			}
		}
		return true
	})
	if tabla == nil {
		return nil, &ErrorExtraccion{Categoria: "BTE"}
	}

	resumen := &models.ResumenBTE{}
	tabla.Find("tr").Each(func(i int, fila *goquery.Selection) {
		celdas := fila.Find("td")
		if celdas.Length() < 2 {
			return
		}

		// Eq fuera de rango devuelve selección vacía y Text() "",
		// que parsea a 0. Eso tolera filas cortas sin chequeos.
		periodo := strings.ToUpper(strings.TrimSpace(celdas.Eq(0).Text()))

		for _, nombreMes := range models.MesesDelAnio {
			if !strings.Contains(periodo, nombreMes) {
				continue
			}
			resumen.Meses = append(resumen.Meses, models.MesBTE{
				Periodo:     nombreMes,
				Cantidad:    utils.ParseCantidad(celdas.Eq(1).Text()),
				MontoNeto:   utils.ParseMonto(celdas.Eq(2).Text()),
				MontoExento: utils.ParseMonto(celdas.Eq(3).Text()),
				MontoIVA:    utils.ParseMonto(celdas.Eq(4).Text()),
				MontoTotal:  utils.ParseMonto(celdas.Eq(5).Text()),
			})
			break
		}

		if strings.Contains(periodo, "TOTAL") {
			resumen.Totales = models.TotalesBTE{
				Cantidad:    utils.ParseCantidad(celdas.Eq(1).Text()),
				MontoNeto:   utils.ParseMonto(celdas.Eq(2).Text()),
				MontoExento: utils.ParseMonto(celdas.Eq(3).Text()),
				MontoIVA:    utils.ParseMonto(celdas.Eq(4).Text()),
				MontoTotal:  utils.ParseMonto(celdas.Eq(5).Text()),
			}
		}
	})

	resumen.RecalcularTotales()
	return resumen, nil
}
