// Package excel lee la nómina de empresas y genera el informe final,
// ambos en formato xlsx.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/Cofre-dev/BotBoletas/pkg/models"
	"github.com/xuri/excelize/v2"
)

// LeerNomina parsea la nómina de empresas desde un xlsx: primera hoja,
// columna A nombre, B RUT, C clave del SII. La primera fila es
// encabezado. Filas con alguna de las tres celdas vacías se descartan.
func LeerNomina(r io.Reader) ([]*models.Empresa, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("error abriendo el archivo Excel: %w", err)
	}
	defer f.Close()

	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return nil, fmt.Errorf("el archivo no tiene hojas")
	}

	filas, err := f.GetRows(hojas[0])
	if err != nil {
		return nil, fmt.Errorf("error leyendo la hoja %q: %w", hojas[0], err)
	}

	var empresas []*models.Empresa
	for i, fila := range filas {
		if i == 0 {
			continue // encabezado
		}
		if len(fila) < 3 {
			continue
		}
		nombre := strings.TrimSpace(fila[0])
		rut := strings.TrimSpace(fila[1])
		clave := strings.TrimSpace(fila[2])
		if nombre == "" || rut == "" || clave == "" {
			continue
		}
		empresas = append(empresas, models.NuevaEmpresa(i, nombre, rut, clave))
	}
	return empresas, nil
}
