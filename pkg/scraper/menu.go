package scraper

import "time"

// PasoMenu describe un paso de navegación por texto: qué elementos
// revisar, qué fragmentos debe contener su texto visible (frase exacta
// del portal, con tildes) y hasta qué ancestro subir para clickear. Los
// pasos son datos, no lógica: si el portal cambia una frase basta con
// ajustar la tabla.
type PasoMenu struct {
	Nombre   string
	Selector string
	Textos   []string
	Ancestro string
	Espera   time.Duration
}

const jsClickPorTexto = `(selector, textos, ancestro) => {
	const nodos = document.querySelectorAll(selector);
	for (const nodo of nodos) {
		const texto = nodo.textContent || '';
		if (!textos.every(t => texto.includes(t))) continue;
		const objetivo = ancestro ? (nodo.closest(ancestro) || nodo) : nodo;
		objetivo.click();
		return true;
	}
	return false;
}`

// seguirPaso busca el enlace por texto y lo clickea; devuelve si hubo
// calce. Un paso no encontrado no aborta la secuencia: el DOM del menú
// no es del todo predecible, y es preferible que una navegación
// realmente fallida aflore después como elemento faltante a cortar la
// secuencia por un descalce posiblemente cosmético.
func (s *SIIScraper) seguirPaso(paso PasoMenu) bool {
	s.notif.Log("info", "📍 Buscando "+paso.Nombre+"...")
	res, err := s.page.Eval(jsClickPorTexto, paso.Selector, paso.Textos, paso.Ancestro)
	if err != nil {
		s.logger.Warn("paso de menú falló", "paso", paso.Nombre, "err", err)
		s.esperar(paso.Espera)
		return false
	}
	encontrado := res.Value.Bool()
	if !encontrado {
		s.logger.Warn("enlace de menú no encontrado", "paso", paso.Nombre)
	}
	s.esperar(paso.Espera)
	return encontrado
}

// seguirRuta ejecuta los pasos en orden, sin abortar por descalces
func (s *SIIScraper) seguirRuta(pasos []PasoMenu) {
	for _, paso := range pasos {
		s.seguirPaso(paso)
	}
}
