package scraper

import (
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"
)

// Los dos modales conocidos del portal aparecen o no según el historial
// de la cuenta. Ambas rutinas son de mejor esfuerzo: esperan un
// instante, buscan el control de cierre y lo clickean si existe. Que el
// modal no aparezca no es un error.

// cerrarModalActualizarDatos descarta el aviso "Antes de continuar"
// que pide actualizar los datos del contribuyente
func (s *SIIScraper) cerrarModalActualizarDatos() {
	s.esperar(2 * time.Second)

	btn, err := s.page.Timeout(2 * time.Second).Element("#btnActualizarMasTarde")
	if err != nil {
		return // el modal no apareció
	}
	s.notif.Log("info", "📌 Cerrando modal de actualización de datos...")
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err == nil {
		s.esperar(1 * time.Second)
	}
}

// cerrarModalInformativo descarta el aviso informativo de la sección de
// boletas de honorarios
func (s *SIIScraper) cerrarModalInformativo() {
	s.esperar(1500 * time.Millisecond)

	btn, err := s.page.Timeout(2 * time.Second).Element(`button[data-dismiss="modal"][onclick*="modalInforma"]`)
	if err == nil {
		s.notif.Log("info", "📌 Cerrando modal informativo...")
		if err := btn.Click(proto.InputMouseButtonLeft, 1); err == nil {
			s.esperar(1 * time.Second)
		}
		return
	}

	// segundo intento: recorrer los botones por su texto
	botones, err := s.page.Timeout(2 * time.Second).Elements("button.btn-default")
	if err != nil {
		return
	}
	for _, boton := range botones {
		texto, terr := boton.Text()
		if terr != nil {
			continue
		}
		if strings.Contains(texto, "Cerrar") {
			if err := boton.Click(proto.InputMouseButtonLeft, 1); err == nil {
				s.esperar(1 * time.Second)
			}
			break
		}
	}
}
