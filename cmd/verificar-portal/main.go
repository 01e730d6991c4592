// Verifica que el portal del SII siga exponiendo los selectores de los
// que depende el bot. Útil después de un cambio de diseño del portal:
// abre la página de login y reporta qué elementos siguen presentes.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Cofre-dev/BotBoletas/pkg/config"
	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "verificar-portal"})

	cfg := config.Cargar()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(1400, 900),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, 90*time.Second)
	defer cancelTimeout()

	fmt.Println("╔════════════════════════════════════════════════╗")
	fmt.Println("║       VERIFICADOR DEL PORTAL DEL SII           ║")
	fmt.Println("╚════════════════════════════════════════════════╝")
	fmt.Printf("\n📌 URL: %s\n\n", cfg.URLLogin)

	if err := chromedp.Run(ctx,
		chromedp.Navigate(cfg.URLLogin),
		chromedp.Sleep(3*time.Second),
	); err != nil {
		logger.Fatal("no se pudo abrir el portal", "err", err)
	}

	selectores := []struct {
		selector    string
		descripcion string
	}{
		{"#rutcntr", "Campo de RUT"},
		{"#clave", "Campo de clave"},
		{`button[type="submit"], input[type="submit"], #bt_ingresar`, "Botón de ingreso"},
	}

	fallas := 0
	for _, s := range selectores {
		var cantidad int
		err := chromedp.Run(ctx,
			chromedp.Evaluate(fmt.Sprintf(`document.querySelectorAll(%q).length`, s.selector), &cantidad),
		)
		if err != nil || cantidad == 0 {
			fmt.Printf("   ❌ %s (%s): NO ENCONTRADO\n", s.descripcion, s.selector)
			fallas++
			continue
		}
		fmt.Printf("   ✅ %s (%s)\n", s.descripcion, s.selector)
	}

	fmt.Println()
	if fallas > 0 {
		logger.Error("el portal cambió, revisar selectores", "faltantes", fallas)
		os.Exit(1)
	}
	logger.Info("todos los selectores de login siguen vigentes")
}
