package models

import "sync"

// Estados del ciclo de vida de una empresa dentro de un lote
const (
	EstadoPendiente  = "pendiente"
	EstadoProcesando = "procesando"
	EstadoCompletado = "completado"
	EstadoError      = "error"
)

// Empresa representa una fila de la nómina cargada: un contribuyente
// con sus credenciales del SII. El estado lo muta el controlador de
// lote desde su goroutine mientras los handlers HTTP lo consultan, por
// eso va protegido con su propio mutex.
type Empresa struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
	Rut    string `json:"rut"`
	Clave  string `json:"-"`

	mu     sync.Mutex
	estado string
}

// NuevaEmpresa arma una empresa recién cargada, en estado pendiente
func NuevaEmpresa(id int, nombre, rut, clave string) *Empresa {
	return &Empresa{
		ID:     id,
		Nombre: nombre,
		Rut:    rut,
		Clave:  clave,
		estado: EstadoPendiente,
	}
}

// CambiarEstado registra la transición de estado de la empresa
func (e *Empresa) CambiarEstado(estado string) {
	e.mu.Lock()
	e.estado = estado
	e.mu.Unlock()
}

// EstadoActual devuelve el estado vigente de la empresa
func (e *Empresa) EstadoActual() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.estado
}

// EmpresaResumen es la vista pública de una empresa (sin clave)
type EmpresaResumen struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
	Rut    string `json:"rut"`
	Estado string `json:"estado"`
}

// Resumen devuelve la vista sin credenciales
func (e *Empresa) Resumen() EmpresaResumen {
	return EmpresaResumen{ID: e.ID, Nombre: e.Nombre, Rut: e.Rut, Estado: e.EstadoActual()}
}
