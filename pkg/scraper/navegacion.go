package scraper

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Tiempos de espera del portal: las páginas de primer nivel pueden
// tardar, los campos de login tienen su propio margen corto.
const (
	tiempoEsperaPagina   = 60 * time.Second
	tiempoEsperaElemento = 10 * time.Second
)

// abrirURL navega y espera a que la página cargue dentro del timeout
func (s *SIIScraper) abrirURL(url string, timeout time.Duration) error {
	page := s.page.Timeout(timeout)
	if err := page.Navigate(url); err != nil {
		return &ErrorNavegacion{URL: url, Causa: err}
	}
	if err := page.WaitLoad(); err != nil {
		return &ErrorNavegacion{URL: url, Causa: err}
	}
	return nil
}

// esperar absorbe la ejecución de scripts del lado cliente entre pasos.
// El portal no ofrece una señal confiable de "listo", así que los
// flujos intercalan esperas fijas como tolerancia pragmática.
func (s *SIIScraper) esperar(d time.Duration) {
	time.Sleep(d)
}

// llenarCampo escribe un valor en el primer elemento que calce con el
// selector, limpiando lo que hubiera
func (s *SIIScraper) llenarCampo(selector, valor string) error {
	el, err := s.page.Timeout(tiempoEsperaElemento).Element(selector)
	if err != nil {
		return &ErrorElementoNoEncontrado{Selector: selector, Causa: err}
	}
	_ = el.SelectAllText()
	if err := el.Input(valor); err != nil {
		return &ErrorElementoNoEncontrado{Selector: selector, Causa: err}
	}
	return nil
}

// clickear hace clic en el primer elemento que calce con el selector
func (s *SIIScraper) clickear(selector string) error {
	el, err := s.page.Timeout(tiempoEsperaElemento).Element(selector)
	if err != nil {
		return &ErrorElementoNoEncontrado{Selector: selector, Causa: err}
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return &ErrorElementoNoEncontrado{Selector: selector, Causa: err}
	}
	return nil
}

// seleccionarOpcion elige una opción de un <select> por su texto
func (s *SIIScraper) seleccionarOpcion(selector, valor string) error {
	el, err := s.page.Timeout(tiempoEsperaElemento).Element(selector)
	if err != nil {
		return &ErrorElementoNoEncontrado{Selector: selector, Causa: err}
	}
	if err := el.Select([]string{valor}, true, rod.SelectorTypeText); err != nil {
		return &ErrorElementoNoEncontrado{Selector: selector, Causa: err}
	}
	return nil
}
