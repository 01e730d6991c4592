package scraper

import "fmt"

// ErrorNavegacion indica que una página no llegó a un estado usable
// dentro de su tiempo de espera.
type ErrorNavegacion struct {
	URL   string
	Causa error
}

func (e *ErrorNavegacion) Error() string {
	return fmt.Sprintf("la página %s no cargó a tiempo: %v", e.URL, e.Causa)
}

func (e *ErrorNavegacion) Unwrap() error { return e.Causa }

// ErrorElementoNoEncontrado indica que un control esperado no apareció
// dentro de su tiempo de espera.
type ErrorElementoNoEncontrado struct {
	Selector string
	Causa    error
}

func (e *ErrorElementoNoEncontrado) Error() string {
	return fmt.Sprintf("elemento %q no encontrado: %v", e.Selector, e.Causa)
}

func (e *ErrorElementoNoEncontrado) Unwrap() error { return e.Causa }

// ErrorAutenticacion indica que el login no avanzó. Cuando ocurre no se
// intenta ninguna categoría para esa empresa.
type ErrorAutenticacion struct {
	Rut   string
	Causa error
}

func (e *ErrorAutenticacion) Error() string {
	return fmt.Sprintf("autenticación fallida para %s: %v", e.Rut, e.Causa)
}

func (e *ErrorAutenticacion) Unwrap() error { return e.Causa }

// ErrorExtraccion indica que una página de consulta no expuso datos ni
// estructurados ni en tabla. La categoría queda en nil, no aborta a las
// demás.
type ErrorExtraccion struct {
	Categoria string
}

func (e *ErrorExtraccion) Error() string {
	return fmt.Sprintf("sin datos extraíbles para %s", e.Categoria)
}
