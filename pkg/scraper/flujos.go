package scraper

import (
	"time"

	"github.com/Cofre-dev/BotBoletas/pkg/models"
)

// Rutas de menú del portal. Las frases son las exactas del SII, con
// tildes y mayúsculas tal cual las renderiza.
var rutaSeccionHonorarios = []PasoMenu{
	{Nombre: "Trámites en línea", Selector: "li span, li div", Textos: []string{"Trámites en línea"}, Ancestro: "li", Espera: 2 * time.Second},
	{Nombre: "Boletas de honorarios electrónicas", Selector: "h4 span, h4", Textos: []string{"Boletas de honorarios electrónicas"}, Espera: 2 * time.Second},
}

var rutaConsultasBoletas = []PasoMenu{
	{Nombre: "Emisor de boleta de honorarios", Selector: "a", Textos: []string{"Emisor de boleta de honorarios"}, Espera: 3 * time.Second},
	{Nombre: "Consultas sobre boletas", Selector: "a, h4", Textos: []string{"Consultas sobre boletas de honorarios electrónicas"}, Espera: 2 * time.Second},
}

var (
	pasoConsultarEmitidas  = PasoMenu{Nombre: "Consultar boletas emitidas", Selector: "a", Textos: []string{"Consultar boletas emitidas"}, Espera: 3 * time.Second}
	pasoConsultarRecibidas = PasoMenu{Nombre: "Consultar boletas recibidas", Selector: "a", Textos: []string{"Consultar boletas recibidas"}, Espera: 3 * time.Second}

	pasoSeccionBTE   = PasoMenu{Nombre: "Boleta de prestación de servicios de terceros", Selector: "a", Textos: []string{"Boleta de prestación de servicios de terceros"}, Espera: 3 * time.Second}
	pasoBTERecibidas = PasoMenu{Nombre: "Consulta de BTE recibidas", Selector: "a", Textos: []string{"Consulta de BTE", "recibidas"}, Espera: 3 * time.Second}
	pasoBTEEmitidas  = PasoMenu{Nombre: "Consulta de BTE emitidas", Selector: "a", Textos: []string{"Consulta de BTE", "emitidas"}, Espera: 3 * time.Second}
)

// volverAlInicio regresa a la home del SII y descarta el modal de
// actualización de datos si aparece
func (s *SIIScraper) volverAlInicio() error {
	s.notif.Log("info", "📍 Volviendo al inicio del SII...")
	if err := s.abrirURL(s.config.URLHome, tiempoEsperaPagina); err != nil {
		return err
	}
	s.esperar(2 * time.Second)
	s.cerrarModalActualizarDatos()
	return nil
}

// entrarSeccionHonorarios navega hasta la sección de boletas de
// honorarios, descartando el modal informativo que a veces la recibe
func (s *SIIScraper) entrarSeccionHonorarios() {
	s.seguirRuta(rutaSeccionHonorarios)
	s.cerrarModalInformativo()
}

// consultarAnio fija el año del informe y dispara la consulta
func (s *SIIScraper) consultarAnio(selectorAnio, selectorConsultar string) error {
	s.notif.Log("info", "📅 Seleccionando año "+s.config.AnioConsulta+"...")
	if err := s.seleccionarOpcion(selectorAnio, s.config.AnioConsulta); err != nil {
		return err
	}
	s.esperar(1 * time.Second)

	if err := s.clickear(selectorConsultar); err != nil {
		return err
	}
	s.esperar(4 * time.Second)
	return nil
}

// obtenerBoletasEmitidas corre el flujo de boletas de honorarios
// emitidas. Devuelve además el nombre y RUT del contribuyente tal como
// los reporta la página.
func (s *SIIScraper) obtenerBoletasEmitidas() (*models.ResumenHonorarios, string, string, error) {
	// tras el login la sesión ya está en la home
	s.esperar(2 * time.Second)
	s.entrarSeccionHonorarios()
	s.seguirRuta(rutaConsultasBoletas)
	s.seguirPaso(pasoConsultarEmitidas)

	if err := s.consultarAnio(`select[name="cbanoinformeanual"]`, `input[name="cmdconsultar12"], #cmdconsultar124`); err != nil {
		return nil, "", "", err
	}

	s.notif.Log("info", "📊 Extrayendo datos de boletas emitidas...")
	return s.extraerHonorarios(true)
}

// obtenerBoletasRecibidas corre el flujo de boletas de honorarios
// recibidas, volviendo primero a la home
func (s *SIIScraper) obtenerBoletasRecibidas() (*models.ResumenHonorarios, string, string, error) {
	if err := s.volverAlInicio(); err != nil {
		return nil, "", "", err
	}
	s.entrarSeccionHonorarios()
	s.seguirRuta(rutaConsultasBoletas)
	s.seguirPaso(pasoConsultarRecibidas)

	if err := s.consultarAnio(`select[name="cbanoinformeanual"]`, `input[name="cmdconsultar12"], #cmdconsultar124`); err != nil {
		return nil, "", "", err
	}

	s.notif.Log("info", "📊 Extrayendo datos de boletas recibidas...")
	return s.extraerHonorarios(false)
}

// obtenerBTE corre el flujo de boletas de prestación de servicios de
// terceros, emitidas o recibidas según el parámetro
func (s *SIIScraper) obtenerBTE(emitidas bool) (*models.ResumenBTE, error) {
	if err := s.volverAlInicio(); err != nil {
		return nil, err
	}
	s.entrarSeccionHonorarios()
	s.seguirPaso(pasoSeccionBTE)
	if emitidas {
		s.seguirPaso(pasoBTEEmitidas)
	} else {
		s.seguirPaso(pasoBTERecibidas)
	}

	if err := s.consultarAnio(`select[name="ANOA"], #ANOA`, `input[name="consultaA"]`); err != nil {
		return nil, err
	}

	s.notif.Log("info", "📊 Extrayendo datos de BTE...")
	return s.extraerBTE(emitidas)
}
