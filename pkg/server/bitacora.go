package server

import (
	"sync"
	"time"
)

// EventoBitacora es una entrada de la bitácora del proceso, tal como la
// consume la interfaz web.
type EventoBitacora struct {
	Tipo    string    `json:"tipo"`
	Mensaje string    `json:"mensaje"`
	Hora    time.Time `json:"hora"`
}

// Bitacora es un buffer circular de eventos del proceso. Implementa el
// contrato de notificación del scraper, así el avance del lote queda
// disponible para sondeo HTTP sin acoplar el bot al servidor.
type Bitacora struct {
	mu        sync.Mutex
	eventos   []EventoBitacora
	capacidad int
}

func NuevaBitacora(capacidad int) *Bitacora {
	return &Bitacora{capacidad: capacidad}
}

func (b *Bitacora) Log(tipo, mensaje string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eventos = append(b.eventos, EventoBitacora{Tipo: tipo, Mensaje: mensaje, Hora: time.Now()})
	if len(b.eventos) > b.capacidad {
		b.eventos = b.eventos[len(b.eventos)-b.capacidad:]
	}
}

func (b *Bitacora) EstadoEmpresa(id int, estado string) {
	// el estado queda en la propia empresa, protegido por su mutex,
	// y /status lo lee de ahí
}

// Eventos devuelve una copia de los eventos acumulados
func (b *Bitacora) Eventos() []EventoBitacora {
	b.mu.Lock()
	defer b.mu.Unlock()
	copia := make([]EventoBitacora, len(b.eventos))
	copy(copia, b.eventos)
	return copia
}
