package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/Cofre-dev/BotBoletas/pkg/config"
	"github.com/Cofre-dev/BotBoletas/pkg/models"
	"github.com/Cofre-dev/BotBoletas/pkg/utils"
	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// SIIScraper maneja una única sesión de navegador contra el portal del
// SII. La página se reutiliza y se navega en el lugar a través de las
// cuatro consultas de cada empresa y a lo largo de todo el lote; nunca
// se paraleliza dentro de una empresa.
type SIIScraper struct {
	browser *rod.Browser
	page    *rod.Page
	config  *config.Config
	logger  *log.Logger
	notif   Notificador
}

// New crea el scraper sin lanzar todavía el navegador; la sesión se
// abre en forma perezosa en el primer uso.
func New(cfg *config.Config, logger *log.Logger, notif Notificador) *SIIScraper {
	if notif == nil {
		notif = NotificadorNulo()
	}
	return &SIIScraper{
		config: cfg,
		logger: logger,
		notif:  notif,
	}
}

// asegurarSesion lanza el navegador y la página si aún no existen
func (s *SIIScraper) asegurarSesion() error {
	if s.page != nil {
		return nil
	}

	s.notif.Log("info", "🌐 Iniciando navegador...")
	l := launcher.New().Headless(s.config.Headless)
	url, err := l.Launch()
	if err != nil {
		return fmt.Errorf("error lanzando navegador: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("error conectando al navegador: %w", err)
	}
	if s.config.SlowMotion > 0 {
		browser = browser.SlowMotion(s.config.SlowMotion)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("error creando página: %w", err)
	}

	s.browser = browser
	s.page = page
	return nil
}

// Close cierra el navegador; es idempotente
func (s *SIIScraper) Close() {
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	if s.browser != nil {
		_ = s.browser.Close()
		s.browser = nil
	}
}

// ProcesarEmpresa ejecuta la secuencia completa para una empresa:
// login, las cuatro categorías en orden fijo y el cierre de sesión.
// Cada categoría va envuelta de forma independiente: su falla deja el
// slot en nil y no detiene a las hermanas. Una falla de autenticación
// aborta la empresa sin intentar categorías. Si una falla grave escapa
// a mitad de secuencia, el resultado parcial ya capturado se devuelve
// junto con el error.
func (s *SIIScraper) ProcesarEmpresa(ctx context.Context, empresa *models.Empresa) (resultado *models.ResultadoEmpresa, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.asegurarSesion(); err != nil {
		return nil, err
	}

	resultado = &models.ResultadoEmpresa{
		Contribuyente: empresa.Nombre,
		Rut:           empresa.Rut,
		FechaConsulta: time.Now(),
	}

	if err := s.iniciarSesion(empresa); err != nil {
		s.notif.Log("error", fmt.Sprintf("❌ Error de autenticación en %s: %v", empresa.Nombre, err))
		s.cerrarSesion()
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			s.cerrarSesion()
			err = fmt.Errorf("falla inesperada procesando %s: %v", empresa.Nombre, r)
		}
	}()

	s.notif.Log("info", "📄 Navegando a Boletas de Honorarios Emitidas...")
	if emitidas, contribuyente, rut, cerr := s.obtenerBoletasEmitidas(); cerr != nil {
		s.registrarFallaCategoria(empresa, "boletas emitidas", cerr)
	} else {
		resultado.BoletasEmitidas = emitidas
		// el portal reporta nombre y RUT con su propio formato
		if contribuyente != "" {
			resultado.Contribuyente = contribuyente
		}
		if rut != "" {
			resultado.Rut = rut
		}
	}

	s.notif.Log("info", "📄 Navegando a Boletas de Honorarios Recibidas...")
	if recibidas, _, _, cerr := s.obtenerBoletasRecibidas(); cerr != nil {
		s.registrarFallaCategoria(empresa, "boletas recibidas", cerr)
	} else {
		resultado.BoletasRecibidas = recibidas
	}

	s.notif.Log("info", "📄 Navegando a BTE Recibidas...")
	if bte, cerr := s.obtenerBTE(false); cerr != nil {
		s.registrarFallaCategoria(empresa, "BTE recibidas", cerr)
	} else {
		resultado.BTERecibidas = bte
	}

	s.notif.Log("info", "📄 Navegando a BTE Emitidas...")
	if bte, cerr := s.obtenerBTE(true); cerr != nil {
		s.registrarFallaCategoria(empresa, "BTE emitidas", cerr)
	} else {
		resultado.BTEEmitidas = bte
	}

	s.notif.Log("info", "🚪 Cerrando sesión...")
	s.cerrarSesion()

	return resultado, nil
}

func (s *SIIScraper) registrarFallaCategoria(empresa *models.Empresa, categoria string, err error) {
	s.logger.Error("categoría sin datos", "empresa", empresa.Nombre, "categoria", categoria, "err", err)
	s.notif.Log("error", fmt.Sprintf("Error al obtener %s: %v", categoria, err))
}

// iniciarSesion autentica la empresa en el portal
func (s *SIIScraper) iniciarSesion(empresa *models.Empresa) error {
	s.notif.Log("info", "📍 Navegando al portal SII...")
	if err := s.abrirURL(s.config.URLLogin, tiempoEsperaPagina); err != nil {
		return &ErrorAutenticacion{Rut: empresa.Rut, Causa: err}
	}
	s.esperar(2 * time.Second)

	s.notif.Log("info", "🔑 Ingresando credenciales...")
	if err := s.llenarCampo("#rutcntr", utils.NormalizarRut(empresa.Rut)); err != nil {
		return &ErrorAutenticacion{Rut: empresa.Rut, Causa: err}
	}
	s.esperar(500 * time.Millisecond)

	if err := s.llenarCampo("#clave", empresa.Clave); err != nil {
		return &ErrorAutenticacion{Rut: empresa.Rut, Causa: err}
	}
	s.esperar(500 * time.Millisecond)

	if err := s.clickear(`button[type="submit"], input[type="submit"], #bt_ingresar`); err != nil {
		return &ErrorAutenticacion{Rut: empresa.Rut, Causa: err}
	}
	s.esperar(5 * time.Second)

	// si el campo de clave sigue visible, el login no avanzó
	if el, err := s.page.Timeout(2 * time.Second).Element("#clave"); err == nil {
		if visible, verr := el.Visible(); verr == nil && visible {
			return &ErrorAutenticacion{Rut: empresa.Rut, Causa: fmt.Errorf("el formulario de ingreso no avanzó")}
		}
	}

	s.cerrarModalActualizarDatos()
	return nil
}

// cerrarSesion busca el enlace de salida y lo clickea; su ausencia no
// es un error.
func (s *SIIScraper) cerrarSesion() {
	if s.page == nil {
		return
	}
	_, _ = s.page.Eval(jsClickCerrarSesion)
	s.esperar(2 * time.Second)
}

const jsClickCerrarSesion = `() => {
	const enlaces = document.querySelectorAll('a');
	for (const enlace of enlaces) {
		const texto = (enlace.textContent || '').toLowerCase();
		if (texto.includes('cerrar sesión') || texto.includes('salir')) {
			enlace.click();
			return true;
		}
	}
	return false;
}`
