package database

import (
	"fmt"

	"github.com/Cofre-dev/BotBoletas/pkg/models"
)

// AlmacenConsultas adapta el servicio de base de datos al contrato de
// almacenamiento del lote, resolviendo el id de nómina a su empresa.
type AlmacenConsultas struct {
	ds       *DatabaseService
	empresas map[int]*models.Empresa
}

func NuevoAlmacen(ds *DatabaseService, empresas []*models.Empresa) *AlmacenConsultas {
	porID := make(map[int]*models.Empresa, len(empresas))
	for _, e := range empresas {
		porID[e.ID] = e
	}
	return &AlmacenConsultas{ds: ds, empresas: porID}
}

func (a *AlmacenConsultas) Guardar(empresaID int, resultado *models.ResultadoEmpresa) error {
	empresa, ok := a.empresas[empresaID]
	if !ok {
		return fmt.Errorf("empresa %d no está en la nómina", empresaID)
	}
	return a.ds.GuardarResultado(empresa, resultado)
}
