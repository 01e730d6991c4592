package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config reúne los parámetros externos del bot: URLs del portal, año a
// consultar, modo del navegador y los destinos opcionales (Postgres,
// GCS). Se carga desde variables de entorno, con .env opcional.
type Config struct {
	Puerto       string
	AnioConsulta string
	Headless     bool
	SlowMotion   time.Duration

	// URLs del portal SII; el login arrastra la home como destino
	URLLogin string
	URLHome  string

	// Destinos opcionales de resultados
	DatabaseURL string
	BucketGCS   string
	DirSalida   string
}

// Cargar lee la configuración desde el entorno, con valores por defecto
// apuntando al portal productivo del SII.
func Cargar() *Config {
	// .env es opcional, se ignora si no existe
	_ = godotenv.Load()

	viper.SetDefault("PORT", "3000")
	viper.SetDefault("ANIO_CONSULTA", "2025")
	viper.SetDefault("HEADLESS", false)
	viper.SetDefault("SLOW_MOTION_MS", 0)
	viper.SetDefault("SII_URL_LOGIN", "https://zeusr.sii.cl//AUT2000/InicioAutenticacion/IngresoRutClave.html?https://misiir.sii.cl/cgi_misii/siihome.cgi")
	viper.SetDefault("SII_URL_HOME", "https://misiir.sii.cl/cgi_misii/siihome.cgi")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("GCS_BUCKET", "")
	viper.SetDefault("DIR_SALIDA", "exports")

	viper.AutomaticEnv()

	return &Config{
		Puerto:       viper.GetString("PORT"),
		AnioConsulta: viper.GetString("ANIO_CONSULTA"),
		Headless:     viper.GetBool("HEADLESS"),
		SlowMotion:   time.Duration(viper.GetInt("SLOW_MOTION_MS")) * time.Millisecond,
		URLLogin:     viper.GetString("SII_URL_LOGIN"),
		URLHome:      viper.GetString("SII_URL_HOME"),
		DatabaseURL:  viper.GetString("PGSQL_URL"),
		BucketGCS:    viper.GetString("GCS_BUCKET"),
		DirSalida:    viper.GetString("DIR_SALIDA"),
	}
}
